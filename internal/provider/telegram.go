package provider

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
)

const (
	telegramBaseURL  = "https://t.me"
	telegramPageSize = 20

	classChannelTitle   = "tgme_channel_info_header_title"
	classChannelCounter = "tgme_channel_info_counter"
	classMessageText    = "tgme_widget_message_text"
)

// ChannelPage is what one public preview page of a channel yields.
type ChannelPage struct {
	Username    string
	Title       string
	Subscribers int64
	Messages    []string
}

// TelegramProvider scrapes the public t.me/s preview of a channel.
type TelegramProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
}

func NewTelegramProvider(tracer trace.Tracer) *TelegramProvider {
	return &TelegramProvider{
		client:  &http.Client{Timeout: 13 * time.Second},
		baseURL: telegramBaseURL,
		tracer:  tracer,
	}
}

func (p *TelegramProvider) Name() string { return "telegram" }

// PageURL addresses page n of a channel preview; page 0 is the newest.
func (p *TelegramProvider) PageURL(username string, page int) string {
	u := fmt.Sprintf("%s/s/%s", strings.TrimRight(p.baseURL, "/"), url.PathEscape(username))
	if page > 0 {
		u = fmt.Sprintf("%s?before=%d", u, page*telegramPageSize)
	}
	return u
}

// FetchPage downloads and parses page n of the channel.
func (p *TelegramProvider) FetchPage(ctx context.Context, username string, page int) (*ChannelPage, error) {
	ctx, span := p.tracer.Start(ctx, "telegram.fetch")
	defer span.End()

	body, err := doGet(ctx, p.client, p.Name(), p.PageURL(username, page), "text/html")
	if err != nil {
		span.RecordError(err)
		return nil, unavailable(p.Name(), err)
	}
	parsed, err := ParseChannelPage(bytes.NewReader(body))
	if err != nil {
		return nil, unavailable(p.Name(), err)
	}
	parsed.Username = username
	return parsed, nil
}

// ParseChannelPage extracts the title, subscriber counter and message texts.
// Missing elements leave their fields zero.
func ParseChannelPage(r io.Reader) (*ChannelPage, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse channel html: %w", err)
	}

	page := &ChannelPage{}
	var (
		titleSeen   bool
		counterSeen bool
		walk        func(*html.Node)
	)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "div" {
			switch {
			case !titleSeen && hasClass(n, classChannelTitle):
				titleSeen = true
				page.Title = strippedText(n)
			case !counterSeen && hasClass(n, classChannelCounter):
				counterSeen = true
				page.Subscribers = ParseCompactNumber(counterText(n))
			case hasClass(n, classMessageText):
				if msg := strippedText(n); msg != "" {
					page.Messages = append(page.Messages, msg)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return page, nil
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

// counterText prefers the counter_value span so the trailing label cannot be
// read as a magnitude suffix.
func counterText(n *html.Node) string {
	var value *html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		for c := n.FirstChild; c != nil && value == nil; c = c.NextSibling {
			if c.Type == html.ElementNode && hasClass(c, "counter_value") {
				value = c
				return
			}
			find(c)
		}
	}
	find(n)
	if value != nil {
		return strippedText(value)
	}
	return strippedText(n)
}

// strippedText joins the trimmed text nodes below n without separators.
func strippedText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(strings.TrimSpace(n.Data))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

var compactNumberRE = regexp.MustCompile(`([\d.]+)([KMB])?`)

// ParseCompactNumber reads counters such as "12.3K subscribers".
func ParseCompactNumber(s string) int64 {
	s = strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), ",", "")
	m := compactNumberRE.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	switch m[2] {
	case "K":
		v *= 1_000
	case "M":
		v *= 1_000_000
	case "B":
		v *= 1_000_000_000
	}
	return int64(math.Round(v))
}

// NormalizeUsername turns a market "Telegram" field ("@name", a t.me URL or
// the sentinel) into a channel username.
func NormalizeUsername(field string) (string, bool) {
	s := strings.TrimSpace(field)
	if s == "" || s == "NA" {
		return "", false
	}
	if strings.HasPrefix(s, "http") && strings.Contains(s, "t.me/") {
		s = s[strings.LastIndex(s, "t.me/")+len("t.me/"):]
	}
	s = strings.TrimPrefix(s, "@")
	if i := strings.IndexAny(s, "/?"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}
