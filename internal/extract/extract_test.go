package extract

import (
	"testing"
	"time"

	"tokenpulse/internal/domain"
	"tokenpulse/internal/payload"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pairFixture = `{
  "dexId": "raydium",
  "baseToken": {"name": "Bonk", "symbol": "BONK"},
  "quoteToken": {"symbol": "SOL"},
  "priceUsd": "0.00000123",
  "priceChange": {"m5": 1.234, "h1": -2.5, "h6": 0, "h24": 15.678},
  "liquidity": {"usd": 1234567, "quote": 4521.5},
  "fdv": 2500000,
  "marketCap": 999,
  "volume": {"h24": 45000},
  "txns": {"h24": {"buys": 120, "sells": 87}},
  "pairCreatedAt": 1700000000000,
  "boosts": {"active": 2},
  "info": {"socials": [
    {"type": "twitter", "url": "https://x.com/bonk_inu"},
    {"type": "telegram", "url": "https://t.me/bonkchat/"}
  ]}
}`

func assertComplete(t *testing.T, columns []string, got map[string]string) {
	t.Helper()
	require.Len(t, got, len(columns))
	for _, col := range columns {
		v, ok := got[col]
		require.True(t, ok, "missing column %q", col)
		assert.NotEmpty(t, v, "empty value for %q", col)
	}
}

func TestMarketExtractsFirstPair(t *testing.T) {
	now := time.UnixMilli(1700000000000).Add(36 * time.Hour)
	got := Market(payload.MustParse(pairFixture), now)

	assertComplete(t, domain.MarketColumns, got)
	assert.Equal(t, "Bonk", got[domain.ColName])
	assert.Equal(t, "@bonk_inu", got[domain.ColXAccount])
	assert.Equal(t, "@bonkchat", got[domain.ColTelegram])
	assert.Equal(t, "$1.23M", got[domain.ColTotalLiquidity])
	assert.Equal(t, "Yes", got[domain.ColLiqLocked])
	assert.Equal(t, "$2.50M", got[domain.ColFDV])
	assert.Equal(t, "$999.00", got[domain.ColMarketCap])
	assert.Equal(t, "$0.0000012300", got[domain.ColPriceUSD])
	assert.Equal(t, "1.23%", got[domain.ColChange5m])
	assert.Equal(t, "-2.50%", got[domain.ColChange1h])
	assert.Equal(t, "0.00%", got[domain.ColChange6h])
	assert.Equal(t, "15.68%", got[domain.ColChange24h])
	assert.Equal(t, "36.0", got[domain.ColPairAge])
	assert.Equal(t, "4521.50 SOL", got[domain.ColPooledSOL])
	assert.Equal(t, "$45.00K", got[domain.ColVolume24h])
	assert.Equal(t, "raydium", got[domain.ColDEX])
	assert.Equal(t, "120", got[domain.ColBuys24h])
	assert.Equal(t, "87", got[domain.ColSells24h])
}

func TestMarketTelegramNonTMeURLKeptRaw(t *testing.T) {
	pair := payload.MustParse(`{"info":{"socials":[{"type":"telegram","url":"https://telegram.me/x"}]}}`)
	got := Market(pair, time.Now())
	assert.Equal(t, "https://telegram.me/x", got[domain.ColTelegram])
	assert.Equal(t, "NA", got[domain.ColLiqLocked])
	assert.Equal(t, "NA", got[domain.ColPooledSOL])
}

const reportFixture = `{
  "score": 1500,
  "aggregate": {"score": 9000},
  "fileMeta": {"score": "1"},
  "tokenMeta": {"name": "Bonk", "symbol": "BONK"},
  "token": {"supply": 88000000000000000, "decimals": 5, "mintAuthority": null, "freezeAuthority": "FrZ1"},
  "markets": [
    {"lp": {"lpLockedPct": 100}},
    {"lp": {"lpLockedPct": 50.5}},
    {"lp": {}}
  ],
  "topHolders": [
    {"pct": 10}, {"pct": 5}, {"pct": 4}, {"pct": 3}, {"pct": 2},
    {"pct": 1}, {"pct": 1}, {"pct": 1}, {"pct": 1}, {"pct": 0.5}, {"pct": 40}
  ]
}`

func TestRiskExtractsReport(t *testing.T) {
	got := Risk(payload.MustParse(reportFixture))

	assertComplete(t, domain.RiskColumns, got)
	assert.Equal(t, "Bonk", got[domain.ColRugName])
	assert.Equal(t, "BONK", got[domain.ColRugSymbol])
	assert.Equal(t, "30", got[domain.ColRugScore])
	assert.Equal(t, "Neutral", got[domain.ColRugAssessment])
	assert.Equal(t, "880.00B", got[domain.ColRugSupply])
	assert.Equal(t, "Revoked", got[domain.ColRugMintAuth])
	assert.Equal(t, "Active", got[domain.ColRugFreezeAuth])
	assert.Equal(t, "75.25%", got[domain.ColRugLPLocked])
	assert.Equal(t, "28.50%", got[domain.ColRugTop10])
}

func TestRiskDefaultsWhenSectionsMissing(t *testing.T) {
	got := Risk(payload.MustParse(`{"mintAuthority":"null"}`))

	assertComplete(t, domain.RiskColumns, got)
	assert.Equal(t, "0", got[domain.ColRugScore])
	assert.Equal(t, "Good", got[domain.ColRugAssessment])
	assert.Equal(t, "Revoked", got[domain.ColRugMintAuth])
	assert.Equal(t, "0%", got[domain.ColRugLPLocked])
	assert.Equal(t, "NA", got[domain.ColRugTop10])
	assert.Equal(t, "NA", got[domain.ColRugSupply])
}

func TestRiskSupplyDecimals(t *testing.T) {
	tests := []struct {
		name     string
		decimals string
		want     string
	}{
		{"missing uses default", ``, "5,000"},
		{"explicit", `, "decimals": 6`, "5.00M"},
		{"zero", `, "decimals": 0`, "5000.00B"},
		{"too large", `, "decimals": 400`, "NA"},
		{"negative", `, "decimals": -2`, "NA"},
		{"fractional", `, "decimals": 6.5`, "NA"},
		{"not a number", `, "decimals": "abc"`, "NA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Risk(payload.MustParse(`{"token": {"supply": 5000000000000` + tt.decimals + `}}`))
			assert.Equal(t, tt.want, got[domain.ColRugSupply])
		})
	}
}

func TestAssessBuckets(t *testing.T) {
	tests := []struct {
		score float64
		want  Assessment
	}{
		{15, AssessmentGood},
		{20, AssessmentGood},
		{35, AssessmentNeutral},
		{65, AssessmentWarning},
		{95, AssessmentBad},
		{NormalizeRiskScore(150), AssessmentGood},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Assess(tc.score), "score %v", tc.score)
	}
	assert.Equal(t, 3.0, NormalizeRiskScore(150))
	assert.Equal(t, 100.0, NormalizeRiskScore(1e6))
	assert.Equal(t, 100.0, NormalizeRiskScore(100))
}

const coinFixture = `{
  "name": "Bonk",
  "symbol": "bonk",
  "market_cap_rank": 57,
  "links": {"homepage": ["", "https://bonkcoin.com"]},
  "market_data": {
    "current_price": {"usd": 0.00002345},
    "market_cap": {"usd": 1650000000},
    "fully_diluted_valuation": {"usd": 2000000000},
    "total_volume": {"usd": 250000000},
    "high_24h": {"usd": 0.000024},
    "low_24h": {"usd": 0.000022},
    "price_change_percentage_24h": -4.567,
    "market_cap_change_24h": -75000000,
    "market_cap_change_percentage_24h": -4.4,
    "circulating_supply": 70000000000000,
    "total_supply": 88000000000000,
    "max_supply": null,
    "ath": {"usd": 0.0000589},
    "ath_change_percentage": {"usd": -60.2},
    "ath_date": {"usd": "2024-03-04T16:50:02.581Z"},
    "atl": {"usd": 0.0000000861},
    "atl_change_percentage": {"usd": 27000.5},
    "atl_date": {"usd": "not a date"}
  }
}`

func TestMetadataExtractsCoin(t *testing.T) {
	got := Metadata(payload.MustParse(coinFixture))

	assertComplete(t, domain.MetadataColumns, got)
	assert.Equal(t, "Bonk", got[domain.ColCGName])
	assert.Equal(t, "BONK", got[domain.ColCGSymbol])
	assert.Equal(t, "$0.0000234500", got[domain.ColCGPrice])
	assert.Equal(t, "$1.65B", got[domain.ColCGMarketCap])
	assert.Equal(t, "57", got[domain.ColCGRank])
	assert.Equal(t, "$2.00B", got[domain.ColCGFDV])
	assert.Equal(t, "$250.00M", got[domain.ColCGVolume])
	assert.Equal(t, "-4.57%", got[domain.ColCGChangePct24h])
	assert.Equal(t, "-$75.00M", got[domain.ColCGMCChange24h])
	assert.Equal(t, "70000.00B", got[domain.ColCGCirculating])
	assert.Equal(t, "NA", got[domain.ColCGMaxSupply])
	assert.Equal(t, "2024-03-04", got[domain.ColCGATHDate])
	assert.Equal(t, "NA", got[domain.ColCGATLDate])
	assert.Equal(t, "$0.0000000861", got[domain.ColCGATL])
	assert.Equal(t, "https://bonkcoin.com", got[domain.ColCGHomepage])
}

func TestExtractorsNeverDropColumns(t *testing.T) {
	inputs := map[string]payload.Node{
		"absent":          {},
		"array root":      payload.MustParse(`[1,2,3]`),
		"scalar root":     payload.MustParse(`"oops"`),
		"empty object":    payload.MustParse(`{}`),
		"wrong types":     payload.MustParse(`{"liquidity":"x","priceChange":[1],"market_data":7,"markets":{"a":1},"topHolders":"x","baseToken":null}`),
		"nested nulls":    payload.MustParse(`{"info":{"socials":null},"token":{"supply":null},"market_data":{"ath":null}}`),
		"bad price types": payload.MustParse(`{"priceUsd":{"v":1},"market_data":{"current_price":{"usd":"n/a"}}}`),
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			assertComplete(t, domain.MarketColumns, Market(in, time.Now()))
			assertComplete(t, domain.RiskColumns, Risk(in))
			assertComplete(t, domain.MetadataColumns, Metadata(in))
		})
	}
}
