package public

// Endpoints builds request URLs for the Public.com web API. The base hosts
// are fields so tests can point a client at a local server.
type Endpoints struct {
	// Base serves login, 2FA verification and token refresh.
	Base string
	// ProdAPI serves portfolio, market data, order and history requests.
	ProdAPI string
}

// DefaultEndpoints returns the production Public.com hosts.
func DefaultEndpoints() *Endpoints {
	return &Endpoints{
		Base:    "https://public.com",
		ProdAPI: "https://prod-api.154310543964.hellopublic.com",
	}
}

func (e *Endpoints) LoginURL() string {
	return e.Base + "/userservice/public/web/login"
}

func (e *Endpoints) MFAURL() string {
	return e.Base + "/userservice/public/web/verify-two-factor"
}

func (e *Endpoints) RefreshURL() string {
	return e.Base + "/userservice/public/web/token-refresh"
}

func (e *Endpoints) PortfolioURL(accountID string) string {
	return e.ProdAPI + "/hstier1service/account/" + accountID + "/portfolio/v2"
}

func (e *Endpoints) QuoteURL(symbol string) string {
	return e.ProdAPI + "/marketdataservice/stockcharts/last-trade/" + symbol
}

func (e *Endpoints) CryptoQuoteURL(symbol string) string {
	return e.ProdAPI + "/marketdataservice/crypto/quotes?symbols=" + symbol
}

func (e *Endpoints) ContractDetailsURL(symbol string) string {
	return e.ProdAPI + "/marketdataservice/options/contracts/" + symbol
}

func (e *Endpoints) PreflightOrderURL(accountID string) string {
	return e.ProdAPI + "/tradingservice/account/" + accountID + "/order/preflight"
}

func (e *Endpoints) BuildOrderURL(accountID string) string {
	return e.ProdAPI + "/tradingservice/account/" + accountID + "/order"
}

// OrderURL is shared by order submit (PUT), status (GET) and cancel
// (OPTIONS + DELETE).
func (e *Endpoints) OrderURL(accountID, orderID string) string {
	return e.ProdAPI + "/tradingservice/account/" + accountID + "/order/" + orderID
}

func (e *Endpoints) PendingOrdersURL(accountID string) string {
	return e.ProdAPI + "/tradingservice/account/" + accountID + "/orders/pending"
}

func (e *Endpoints) AccountHistoryURL(accountID string) string {
	return e.ProdAPI + "/accounthistoryservice/account/" + accountID + "/history"
}

// buildHeaders returns the header set the Public.com web client sends. The
// upstream fingerprints requests, so the values must match the browser ones
// exactly. prodAPI switches the authority header to the prod-api host.
func (e *Endpoints) buildHeaders(token string, prodAPI bool) map[string]string {
	headers := map[string]string{
		"authority":          "public.com",
		"accept":             "*/*",
		"accept-language":    "en-US,en;q=0.5",
		"content-type":       "application/json",
		"origin":             "https://public.com",
		"referer":            "https://public.com/login",
		"sec-ch-ua":          `"Not_A Brand";v="8", "Chromium";v="120", "Brave";v="120"`,
		"sec-ch-ua-mobile":   "?0",
		"sec-ch-ua-platform": `"macOS"`,
		"sec-fetch-dest":     "empty",
		"sec-fetch-mode":     "cors",
		"sec-fetch-site":     "same-origin",
		"sec-gpc":            "1",
		"user-agent":         "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"x-app-version":      "web-1.0.4",
	}
	if prodAPI {
		headers["authority"] = "prod-api.154310543964.hellopublic.com"
		headers["sec-fetch-site"] = "cross-site"
	}
	if token != "" {
		headers["authorization"] = "Bearer " + token
	}
	return headers
}
