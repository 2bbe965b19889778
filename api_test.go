package public

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

const portfolioBody = `{
	"accountId": "acct-uuid",
	"equity": {"total": "1250.75", "cash": "500.25", "stock": "750.50"},
	"buyingPower": {"buyingPower": "500.25", "cashOnlyBuyingPower": "500.25"},
	"positions": [
		{
			"instrument": {"symbol": "AAPL", "name": "Apple Inc.", "type": "EQUITY"},
			"quantity": "2.5",
			"lastPrice": {"lastPrice": "190.45"},
			"costBasis": {"unitCost": "150.00", "totalCost": "375.00"}
		},
		{
			"instrument": {"symbol": "BTC.CRYPTO", "name": "Bitcoin", "type": "CRYPTO"},
			"quantity": "0.01",
			"lastPrice": {"lastPrice": 64250.5}
		}
	]
}`

func portfolioServer(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/hstier1service/account/acct-uuid/portfolio/v2" {
			t.Errorf("path = %s", r.URL.Path)
		}
		fmt.Fprint(w, portfolioBody)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetPortfolio(t *testing.T) {
	c := newTestClient(t, portfolioServer(t))
	seedSession(c)

	p, err := c.GetPortfolio()
	if err != nil {
		t.Fatalf("GetPortfolio: %v", err)
	}
	if got := p.Equity.Cash.Decimal; !got.Equal(decimal.RequireFromString("500.25")) {
		t.Errorf("cash = %s", got)
	}
	if len(p.Positions) != 2 {
		t.Fatalf("positions = %d", len(p.Positions))
	}
	// Quoted and unquoted numeric prices both decode.
	if got := p.Positions[0].LastPrice.LastPrice.Decimal; !got.Equal(decimal.RequireFromString("190.45")) {
		t.Errorf("AAPL last price = %s", got)
	}
	if got := p.Positions[1].LastPrice.LastPrice.Decimal; !got.Equal(decimal.RequireFromString("64250.5")) {
		t.Errorf("BTC last price = %s", got)
	}
}

func TestOwnershipHelpers(t *testing.T) {
	c := newTestClient(t, portfolioServer(t))
	seedSession(c)

	owned, err := c.IsStockOwned("AAPL")
	if err != nil || !owned {
		t.Errorf("IsStockOwned(AAPL) = %v, %v", owned, err)
	}
	owned, err = c.IsStockOwned("TSLA")
	if err != nil || owned {
		t.Errorf("IsStockOwned(TSLA) = %v, %v", owned, err)
	}

	qty, err := c.GetOwnedStockQuantity("AAPL")
	if err != nil {
		t.Fatalf("GetOwnedStockQuantity: %v", err)
	}
	if !qty.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("quantity = %s", qty)
	}

	var verr *ValidationError
	if _, err := c.GetOwnedStockQuantity("TSLA"); !errors.As(err, &verr) {
		t.Fatalf("unowned symbol: want ValidationError, got %v", err)
	}

	cash, err := c.GetAccountCash()
	if err != nil {
		t.Fatalf("GetAccountCash: %v", err)
	}
	if !cash.Equal(decimal.RequireFromString("500.25")) {
		t.Errorf("cash = %s", cash)
	}
}

func TestSessionAccessors(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := newTestClient(t, srv)
	if _, err := c.GetAccountNumber(); !errors.Is(err, ErrLoginRequired) {
		t.Errorf("logged-out GetAccountNumber: %v", err)
	}

	seedSession(c)
	c.session.AccountNumber = "5PB00001"
	c.session.AccountType = "BROKERAGE"

	if num, err := c.GetAccountNumber(); err != nil || num != "5PB00001" {
		t.Errorf("GetAccountNumber = %q, %v", num, err)
	}
	if typ, err := c.GetAccountType(); err != nil || typ != "BROKERAGE" {
		t.Errorf("GetAccountType = %q, %v", typ, err)
	}
}

func TestGetPortfolio_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":"internal"}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	seedSession(c)

	var apiErr *APIError
	_, err := c.GetPortfolio()
	if !errors.As(err, &apiErr) {
		t.Fatalf("want APIError, got %v", err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Errorf("Status = %d", apiErr.Status)
	}
	if apiErr.Body == "" {
		t.Error("Body should carry the upstream response")
	}
}

func TestGetPendingOrders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tradingservice/account/acct-uuid/orders/pending" {
			t.Errorf("path = %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"orders":[{"orderId":"ord-7","symbol":"AAPL","status":"PENDING"}]}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	seedSession(c)

	orders, err := c.GetPendingOrders()
	if err != nil {
		t.Fatalf("GetPendingOrders: %v", err)
	}
	if len(orders) != 1 || orders[0].OrderID != "ord-7" {
		t.Errorf("orders = %+v", orders)
	}
}

func TestCancelOrder(t *testing.T) {
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tradingservice/account/acct-uuid/order/ord-7" {
			t.Errorf("path = %s", r.URL.Path)
		}
		methods = append(methods, r.Method)
		if r.Method == http.MethodDelete {
			fmt.Fprint(w, `{"orderId":"ord-7","status":"CANCELLED"}`)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	seedSession(c)

	order, err := c.CancelOrder("ord-7")
	if err != nil {
		t.Fatalf("CancelOrder: %v", err)
	}
	if order.Status != "CANCELLED" {
		t.Errorf("Status = %q", order.Status)
	}
	if len(methods) != 2 || methods[0] != http.MethodOptions || methods[1] != http.MethodDelete {
		t.Errorf("methods = %v, want OPTIONS then DELETE", methods)
	}
}

func TestCancelOrder_EmptyID(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := newTestClient(t, srv)
	seedSession(c)

	var verr *ValidationError
	if _, err := c.CancelOrder(""); !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
}
