package extract

import (
	"strings"

	"tokenpulse/internal/domain"
	"tokenpulse/internal/payload"
)

// Metadata normalizes a CoinGecko contract lookup. An absent coin yields an
// all-NA fragment.
func Metadata(coin payload.Node) map[string]string {
	out := domain.Blank(domain.MetadataColumns)
	if !coin.IsObject() {
		return out
	}
	md := coin.Get("market_data")

	out[domain.ColCGName] = text(coin.Get("name"))
	if sym := text(coin.Get("symbol")); sym != domain.Sentinel {
		out[domain.ColCGSymbol] = strings.ToUpper(sym)
	}
	out[domain.ColCGPrice] = price(md.Get("current_price", "usd"))
	out[domain.ColCGMarketCap] = money(md.Get("market_cap", "usd"))
	out[domain.ColCGRank] = Integer(firstNode(coin.Get("market_cap_rank"), md.Get("market_cap_rank")).Float())
	out[domain.ColCGFDV] = money(md.Get("fully_diluted_valuation", "usd"))
	out[domain.ColCGVolume] = money(md.Get("total_volume", "usd"))
	out[domain.ColCGHigh24h] = price(md.Get("high_24h", "usd"))
	out[domain.ColCGLow24h] = price(md.Get("low_24h", "usd"))
	out[domain.ColCGChangePct24h] = percent(md.Get("price_change_percentage_24h"))
	out[domain.ColCGMCChange24h] = money(md.Get("market_cap_change_24h"))
	out[domain.ColCGMCChangePct] = percent(md.Get("market_cap_change_percentage_24h"))
	out[domain.ColCGCirculating] = count(md.Get("circulating_supply"))
	out[domain.ColCGTotalSupply] = count(md.Get("total_supply"))
	out[domain.ColCGMaxSupply] = count(md.Get("max_supply"))
	out[domain.ColCGATH] = price(md.Get("ath", "usd"))
	out[domain.ColCGATHChangePct] = percent(md.Get("ath_change_percentage", "usd"))
	out[domain.ColCGATHDate] = Date(md.Get("ath_date", "usd").String(""))
	out[domain.ColCGATL] = price(md.Get("atl", "usd"))
	out[domain.ColCGATLChangePct] = percent(md.Get("atl_change_percentage", "usd"))
	out[domain.ColCGATLDate] = Date(md.Get("atl_date", "usd").String(""))

	for _, page := range coin.Get("links", "homepage").Array() {
		if s := strings.TrimSpace(page.String("")); s != "" {
			out[domain.ColCGHomepage] = s
			break
		}
	}
	return out
}

func firstNode(nodes ...payload.Node) payload.Node {
	for _, n := range nodes {
		if n.Exists() {
			return n
		}
	}
	return payload.Node{}
}
