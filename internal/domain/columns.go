package domain

const (
	ColTimestamp = "Timestamp"
	ColToken     = "Token Address"
)

// Market columns, sourced from the first DexScreener pair.
const (
	ColName           = "Name"
	ColXAccount       = "X Account"
	ColTelegram       = "Telegram"
	ColTotalLiquidity = "Total Liquidity"
	ColLiqLocked      = "Liquidity Locked"
	ColFDV            = "FDV"
	ColMarketCap      = "Market Cap"
	ColPriceUSD       = "Price USD"
	ColChange5m       = "5m Change %"
	ColChange1h       = "1h Change %"
	ColChange6h       = "6h Change %"
	ColChange24h      = "24h Change %"
	ColPairAge        = "Pair Age (hours)"
	ColPooledSOL      = "Pooled SOL"
	ColVolume24h      = "Volume 24h"
	ColDEX            = "DEX"
	ColBuys24h        = "Buys 24h"
	ColSells24h       = "Sells 24h"
)

// Risk columns, sourced from the RugCheck report.
const (
	ColRugName       = "Rug Token Name"
	ColRugSymbol     = "Rug Token Symbol"
	ColRugScore      = "Rug Risk Score"
	ColRugAssessment = "Rug Risk Assessment"
	ColRugSupply     = "Rug Supply"
	ColRugMintAuth   = "Rug Mint Authority"
	ColRugFreezeAuth = "Rug Freeze Authority"
	ColRugLPLocked   = "Rug LP Locked %"
	ColRugTop10      = "Rug Top 10 Holders %"
)

// Coin metadata columns, sourced from CoinGecko.
const (
	ColCGName         = "CG Name"
	ColCGSymbol       = "CG Symbol"
	ColCGPrice        = "CG Price USD"
	ColCGMarketCap    = "CG Market Cap"
	ColCGRank         = "CG Market Cap Rank"
	ColCGFDV          = "CG FDV"
	ColCGVolume       = "CG Total Volume 24h"
	ColCGHigh24h      = "CG High 24h"
	ColCGLow24h       = "CG Low 24h"
	ColCGChangePct24h = "CG Price Change % 24h"
	ColCGMCChange24h  = "CG Market Cap Change 24h"
	ColCGMCChangePct  = "CG Market Cap Change % 24h"
	ColCGCirculating  = "CG Circulating Supply"
	ColCGTotalSupply  = "CG Total Supply"
	ColCGMaxSupply    = "CG Max Supply"
	ColCGATH          = "CG ATH"
	ColCGATHChangePct = "CG ATH Change %"
	ColCGATHDate      = "CG ATH Date"
	ColCGATL          = "CG ATL"
	ColCGATLChangePct = "CG ATL Change %"
	ColCGATLDate      = "CG ATL Date"
	ColCGHomepage     = "CG Homepage"
)

// Telegram channel sentiment columns.
const (
	ColTGChannel     = "TG Channel"
	ColTGTitle       = "TG Channel Title"
	ColTGSubscribers = "TG Subscribers"
	ColTGAnalyzed    = "TG Messages Analyzed"
	ColTGPositive    = "TG Positive"
	ColTGNegative    = "TG Negative"
	ColTGNeutral     = "TG Neutral"
	ColTGPositivePct = "TG Positive %"
	ColTGNegativePct = "TG Negative %"
	ColTGNeutralPct  = "TG Neutral %"
	ColTGNew         = "TG New Messages"
)

// Reddit search sentiment columns.
const (
	ColRedditSubs        = "Reddit Subs"
	ColRedditAnalyzed    = "Reddit Posts Analyzed"
	ColRedditPositive    = "Reddit Positive"
	ColRedditNegative    = "Reddit Negative"
	ColRedditNeutral     = "Reddit Neutral"
	ColRedditPositivePct = "Reddit Positive %"
	ColRedditNegativePct = "Reddit Negative %"
	ColRedditNeutralPct  = "Reddit Neutral %"
	ColRedditNew         = "Reddit New Posts"
)

var (
	MarketColumns = []string{
		ColName, ColXAccount, ColTelegram, ColTotalLiquidity, ColLiqLocked, ColFDV, ColMarketCap,
		ColPriceUSD, ColChange5m, ColChange1h, ColChange6h, ColChange24h, ColPairAge, ColPooledSOL,
		ColVolume24h, ColDEX, ColBuys24h, ColSells24h,
	}
	RiskColumns = []string{
		ColRugName, ColRugSymbol, ColRugScore, ColRugAssessment, ColRugSupply,
		ColRugMintAuth, ColRugFreezeAuth, ColRugLPLocked, ColRugTop10,
	}
	MetadataColumns = []string{
		ColCGName, ColCGSymbol, ColCGPrice, ColCGMarketCap, ColCGRank, ColCGFDV, ColCGVolume,
		ColCGHigh24h, ColCGLow24h, ColCGChangePct24h, ColCGMCChange24h, ColCGMCChangePct,
		ColCGCirculating, ColCGTotalSupply, ColCGMaxSupply, ColCGATH, ColCGATHChangePct,
		ColCGATHDate, ColCGATL, ColCGATLChangePct, ColCGATLDate, ColCGHomepage,
	}
	ChannelColumns = []string{
		ColTGChannel, ColTGTitle, ColTGSubscribers, ColTGAnalyzed, ColTGPositive, ColTGNegative,
		ColTGNeutral, ColTGPositivePct, ColTGNegativePct, ColTGNeutralPct, ColTGNew,
	}
	RedditColumns = []string{
		ColRedditSubs, ColRedditAnalyzed, ColRedditPositive, ColRedditNegative, ColRedditNeutral,
		ColRedditPositivePct, ColRedditNegativePct, ColRedditNeutralPct, ColRedditNew,
	}
)

// Header is the full dataset column order. It returns a fresh slice.
func Header() []string {
	h := make([]string, 0, 2+len(MarketColumns)+len(RiskColumns)+len(MetadataColumns)+len(ChannelColumns)+len(RedditColumns))
	h = append(h, ColTimestamp, ColToken)
	h = append(h, MarketColumns...)
	h = append(h, RiskColumns...)
	h = append(h, MetadataColumns...)
	h = append(h, ChannelColumns...)
	h = append(h, RedditColumns...)
	return h
}

// Blank returns a fragment with every column set to Sentinel.
func Blank(columns []string) map[string]string {
	out := make(map[string]string, len(columns))
	for _, c := range columns {
		out[c] = Sentinel
	}
	return out
}
