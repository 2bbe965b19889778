package public

import (
	"strings"
	"testing"
)

func TestEndpointURLs(t *testing.T) {
	e := DefaultEndpoints()

	cases := []struct {
		name string
		url  string
		want string
	}{
		{"login", e.LoginURL(), "https://public.com/userservice/public/web/login"},
		{"mfa", e.MFAURL(), "https://public.com/userservice/public/web/verify-two-factor"},
		{"refresh", e.RefreshURL(), "https://public.com/userservice/public/web/token-refresh"},
		{"portfolio", e.PortfolioURL("abc"), "https://prod-api.154310543964.hellopublic.com/hstier1service/account/abc/portfolio/v2"},
		{"quote", e.QuoteURL("AAPL"), "https://prod-api.154310543964.hellopublic.com/marketdataservice/stockcharts/last-trade/AAPL"},
		{"crypto quote", e.CryptoQuoteURL("BTC.CRYPTO"), "https://prod-api.154310543964.hellopublic.com/marketdataservice/crypto/quotes?symbols=BTC.CRYPTO"},
		{"preflight", e.PreflightOrderURL("abc"), "https://prod-api.154310543964.hellopublic.com/tradingservice/account/abc/order/preflight"},
		{"build", e.BuildOrderURL("abc"), "https://prod-api.154310543964.hellopublic.com/tradingservice/account/abc/order"},
		{"order", e.OrderURL("abc", "ord-1"), "https://prod-api.154310543964.hellopublic.com/tradingservice/account/abc/order/ord-1"},
		{"pending", e.PendingOrdersURL("abc"), "https://prod-api.154310543964.hellopublic.com/tradingservice/account/abc/orders/pending"},
		{"history", e.AccountHistoryURL("abc"), "https://prod-api.154310543964.hellopublic.com/accounthistoryservice/account/abc/history"},
	}
	for _, tc := range cases {
		if tc.url != tc.want {
			t.Errorf("%s URL = %q, want %q", tc.name, tc.url, tc.want)
		}
		if !strings.HasPrefix(tc.url, "https://") {
			t.Errorf("%s URL is not https: %q", tc.name, tc.url)
		}
	}
}

func TestBuildHeaders(t *testing.T) {
	e := DefaultEndpoints()

	h := e.buildHeaders("tok-1", false)
	if h["authorization"] != "Bearer tok-1" {
		t.Errorf("authorization = %q", h["authorization"])
	}
	if h["authority"] != "public.com" {
		t.Errorf("authority = %q", h["authority"])
	}
	if h["sec-fetch-site"] != "same-origin" {
		t.Errorf("sec-fetch-site = %q", h["sec-fetch-site"])
	}
	// The upstream fingerprints these values.
	if h["user-agent"] != "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36" {
		t.Errorf("user-agent = %q", h["user-agent"])
	}
	if h["x-app-version"] != "web-1.0.4" {
		t.Errorf("x-app-version = %q", h["x-app-version"])
	}
	if h["content-type"] != "application/json" {
		t.Errorf("content-type = %q", h["content-type"])
	}

	h = e.buildHeaders("", true)
	if h["authority"] != "prod-api.154310543964.hellopublic.com" {
		t.Errorf("prod authority = %q", h["authority"])
	}
	if h["sec-fetch-site"] != "cross-site" {
		t.Errorf("prod sec-fetch-site = %q", h["sec-fetch-site"])
	}
	if _, ok := h["authorization"]; ok {
		t.Error("authorization must be absent without a token")
	}
}
