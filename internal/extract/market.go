package extract

import (
	"fmt"
	"strings"
	"time"

	"tokenpulse/internal/domain"
	"tokenpulse/internal/payload"
)

// Market normalizes the first DexScreener pair. An absent pair yields an
// all-NA fragment.
func Market(pair payload.Node, now time.Time) map[string]string {
	out := domain.Blank(domain.MarketColumns)
	if !pair.IsObject() {
		return out
	}

	out[domain.ColName] = text(pair.Get("baseToken", "name"))

	for _, social := range pair.Get("info", "socials").Array() {
		url := strings.TrimSpace(social.Get("url").String(""))
		if url == "" {
			continue
		}
		switch strings.ToLower(social.Get("type").String("")) {
		case "twitter":
			if out[domain.ColXAccount] == domain.Sentinel {
				out[domain.ColXAccount] = "@" + lastSegment(url)
			}
		case "telegram":
			if out[domain.ColTelegram] == domain.Sentinel {
				if strings.Contains(url, "t.me/") {
					out[domain.ColTelegram] = "@" + lastSegment(url)
				} else {
					out[domain.ColTelegram] = url
				}
			}
		}
	}

	out[domain.ColTotalLiquidity] = money(pair.Get("liquidity", "usd"))
	if boosts, ok := pair.Get("boosts", "active").Float(); ok && boosts > 0 {
		out[domain.ColLiqLocked] = "Yes"
	}
	out[domain.ColFDV] = money(pair.Get("fdv"))
	out[domain.ColMarketCap] = money(pair.Get("marketCap"))
	out[domain.ColPriceUSD] = price(pair.Get("priceUsd"))
	out[domain.ColChange5m] = percent(pair.Get("priceChange", "m5"))
	out[domain.ColChange1h] = percent(pair.Get("priceChange", "h1"))
	out[domain.ColChange6h] = percent(pair.Get("priceChange", "h6"))
	out[domain.ColChange24h] = percent(pair.Get("priceChange", "h24"))

	if created, ok := pair.Get("pairCreatedAt").Float(); ok && created > 0 {
		age := now.Sub(time.UnixMilli(int64(created))).Hours()
		out[domain.ColPairAge] = fmt.Sprintf("%.1f", age)
	}

	if strings.EqualFold(pair.Get("quoteToken", "symbol").String(""), "SOL") {
		if quote, ok := pair.Get("liquidity", "quote").Float(); ok {
			out[domain.ColPooledSOL] = fmt.Sprintf("%.2f SOL", quote)
		}
	}

	out[domain.ColVolume24h] = money(pair.Get("volume", "h24"))
	out[domain.ColDEX] = text(pair.Get("dexId"))
	out[domain.ColBuys24h] = Integer(pair.Get("txns", "h24", "buys").Float())
	out[domain.ColSells24h] = Integer(pair.Get("txns", "h24", "sells").Float())
	return out
}

func lastSegment(url string) string {
	if i := strings.Index(url, "?"); i >= 0 {
		url = url[:i]
	}
	url = strings.TrimRight(url, "/")
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}
