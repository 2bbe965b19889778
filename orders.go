package public

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderSide is the direction of an order.
type OrderSide string

const (
	Buy  OrderSide = "BUY"
	Sell OrderSide = "SELL"
)

// OrderType selects the execution style.
type OrderType string

const (
	Market OrderType = "MARKET"
	Limit  OrderType = "LIMIT"
	Stop   OrderType = "STOP"
)

// TimeInForce is the order lifetime policy.
type TimeInForce string

const (
	Day TimeInForce = "DAY"
	GTC TimeInForce = "GTC"
	IOC TimeInForce = "IOC"
	FOK TimeInForce = "FOK"
)

// OrderRequest describes a single equity or crypto order. Values are
// case-insensitive; PlaceOrder normalizes them before validation.
type OrderRequest struct {
	Symbol      string
	Quantity    decimal.Decimal
	AllShares   bool // sell the entire held quantity; invalid on buys
	Side        OrderSide
	Type        OrderType
	TimeInForce TimeInForce
	LimitPrice  *decimal.Decimal // required for LIMIT orders
	Tip         *decimal.Decimal
	DryRun      bool // build the order but skip the final submit
}

// normalize upper-cases the enumerated fields and the symbol in place.
func (r *OrderRequest) normalize() {
	r.Symbol = strings.ToUpper(strings.TrimSpace(r.Symbol))
	r.Side = OrderSide(strings.ToUpper(string(r.Side)))
	r.Type = OrderType(strings.ToUpper(string(r.Type)))
	r.TimeInForce = TimeInForce(strings.ToUpper(string(r.TimeInForce)))
}

// validate rejects out-of-enum values and inconsistent requests before any
// network call is made.
func (r *OrderRequest) validate() error {
	if r.Symbol == "" {
		return validationErrorf("symbol not provided")
	}
	switch r.TimeInForce {
	case Day, GTC, IOC, FOK:
	default:
		return validationErrorf("invalid time in force: %s", r.TimeInForce)
	}
	switch r.Type {
	case Market, Limit, Stop:
	default:
		return validationErrorf("invalid order type: %s", r.Type)
	}
	switch r.Side {
	case Buy, Sell:
	default:
		return validationErrorf("invalid side: %s", r.Side)
	}
	if r.Side == Buy && r.AllShares {
		return validationErrorf("cannot buy all shares")
	}
	if !r.AllShares && r.Quantity.LessThanOrEqual(decimal.Zero) {
		return validationErrorf("quantity must be positive")
	}
	if r.Type == Limit && r.LimitPrice == nil {
		return validationErrorf("limit price required for limit orders")
	}
	return nil
}

// PlaceOrder runs the full order sequence: validate, fetch a quote,
// preflight, build, submit and poll the resulting status once. Sell orders
// are checked against the held position first, with AllShares resolving to
// the full held quantity. With DryRun set the final submit is skipped but
// the built order is still polled for inspection.
func (c *Client) PlaceOrder(req OrderRequest) (*OrderResult, error) {
	req.normalize()
	if err := req.validate(); err != nil {
		return nil, err
	}
	if err := c.checkAuth(); err != nil {
		return nil, err
	}
	if req.Tip != nil && req.Tip.IsZero() {
		req.Tip = nil
	}

	if req.Side == Sell {
		held, err := c.GetOwnedStockQuantity(req.Symbol)
		if err != nil {
			return nil, err
		}
		if req.AllShares {
			req.Quantity = held
		}
		if req.Quantity.GreaterThan(held) {
			return nil, validationErrorf("quantity exceeds owned stock for %s", req.Symbol)
		}
	}

	quote, err := c.GetOrderQuote(req.Symbol)
	if err != nil {
		return nil, err
	}
	if len(quote) == 0 {
		return nil, validationErrorf("quote not found for %s", req.Symbol)
	}

	payload := map[string]interface{}{
		"symbol":      req.Symbol,
		"orderSide":   req.Side,
		"type":        req.Type,
		"timeInForce": req.TimeInForce,
		"quote":       quote,
		"quantity":    json.Number(req.Quantity.String()),
		"tipAmount":   nil,
	}
	if req.Tip != nil {
		payload["tipAmount"] = json.Number(req.Tip.String())
	}
	if req.Type == Limit {
		payload["limitPrice"] = json.Number(req.LimitPrice.String())
	}

	// Upstream rejection at preflight fails the whole operation before any
	// order record exists.
	if err := c.post("order preflight", c.endpoints.PreflightOrderURL(c.session.AccountID), true, payload, nil); err != nil {
		return nil, err
	}

	var built buildOrderResponse
	if err := c.post("build order", c.endpoints.BuildOrderURL(c.session.AccountID), true, payload, &built); err != nil {
		return nil, err
	}
	if built.OrderID == "" {
		return nil, fmt.Errorf("build order returned no order id")
	}

	if !req.DryRun {
		if err := c.submitOrder(built.OrderID); err != nil {
			return nil, err
		}
		time.Sleep(c.submitWait)
	}

	return c.checkOrder(built.OrderID)
}

// submitOrder issues the final commit for a built order. The upstream
// signals acceptance with an empty JSON object; any other body is a
// rejection.
func (c *Client) submitOrder(orderID string) error {
	resp, err := c.http.R().
		SetHeaders(c.endpoints.buildHeaders(c.session.AccessToken, true)).
		Put(c.endpoints.OrderURL(c.session.AccountID, orderID))
	if err != nil {
		return err
	}
	if resp.StatusCode() != 200 {
		return &APIError{Op: "submit order", Status: resp.StatusCode(), Body: truncateBody(resp.String())}
	}
	body := bytes.TrimSpace(resp.Body())
	if len(body) != 0 && !bytes.Equal(body, []byte("{}")) {
		return fmt.Errorf("order %s rejected at submit: %s", orderID, truncateBody(string(body)))
	}
	return nil
}

// checkOrder polls the order status once and derives the success flag.
// Precedence: FILLED status or an absent rejectionDetails both count as
// success.
func (c *Client) checkOrder(orderID string) (*OrderResult, error) {
	var status orderStatusResponse
	url := c.endpoints.OrderURL(c.session.AccountID, orderID)
	if err := c.do(http.MethodGet, "order status", url, true, nil, nil, &status); err != nil {
		return nil, err
	}
	result := &OrderResult{
		OrderID:          orderID,
		Status:           status.Status,
		FilledQuantity:   status.FilledQuantity.Decimal,
		AveragePrice:     status.AveragePrice.Decimal,
		RejectionDetails: status.RejectionDetails,
	}
	if status.RejectionDetails == nil || status.Status == "FILLED" {
		result.Success = true
	}
	return result, nil
}
