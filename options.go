package public

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OptionsOrderRequest describes a single-leg options order. Options orders
// are always limit orders on this upstream.
type OptionsOrderRequest struct {
	Symbol      string // OSI-style contract symbol, see BuildOptionSymbol
	Quantity    decimal.Decimal
	LimitPrice  decimal.Decimal
	Side        OrderSide   // defaults to BUY
	TimeInForce TimeInForce // defaults to DAY
	Tip         *decimal.Decimal
	DryRun      bool
}

// BuildOptionSymbol assembles the contract symbol the upstream expects:
// underlying, YYMMDD expiration, CALL/PUT, strike times 1000 zero-padded to
// 8 digits, and an -OPTION suffix.
func BuildOptionSymbol(stockSymbol, expirationDate, optionType string, strikePrice decimal.Decimal) (string, error) {
	exp, err := time.Parse("2006-01-02", expirationDate)
	if err != nil {
		return "", validationErrorf("invalid expiration date %q, want YYYY-MM-DD", expirationDate)
	}
	optionType = strings.ToUpper(optionType)
	if optionType != "CALL" && optionType != "PUT" {
		return "", validationErrorf("invalid option type: %s", optionType)
	}
	strike := strikePrice.Mul(decimal.NewFromInt(1000)).IntPart()
	return fmt.Sprintf("%s%s%s%08d-OPTION",
		strings.ToUpper(stockSymbol), exp.Format("060102"), optionType, strike), nil
}

// FetchContractDetails retrieves the contract description for an option
// symbol, including the live quote required by the order endpoints.
func (c *Client) FetchContractDetails(symbol string) (*ContractDetails, error) {
	if err := c.checkAuth(); err != nil {
		return nil, err
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	var details ContractDetails
	if err := c.get("contract details", c.endpoints.ContractDetailsURL(symbol), false, nil, &details); err != nil {
		return nil, err
	}
	if len(details.Details.Quote) == 0 {
		return nil, fmt.Errorf("incomplete contract details received for %s", symbol)
	}
	return &details, nil
}

// SubmitOptionsOrder preflights and builds a single-leg options order. The
// openCloseIndicator is derived from the side: buys open, sells close.
func (c *Client) SubmitOptionsOrder(req OptionsOrderRequest) (map[string]interface{}, error) {
	if req.Side == "" {
		req.Side = Buy
	}
	if req.TimeInForce == "" {
		req.TimeInForce = Day
	}
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	side := OrderSide(strings.ToUpper(string(req.Side)))
	tif := TimeInForce(strings.ToUpper(string(req.TimeInForce)))
	switch tif {
	case Day, GTC, IOC, FOK:
	default:
		return nil, validationErrorf("invalid time in force: %s", tif)
	}
	if side != Buy && side != Sell {
		return nil, validationErrorf("invalid side: %s", side)
	}
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, validationErrorf("quantity must be positive")
	}
	if err := c.checkAuth(); err != nil {
		return nil, err
	}

	details, err := c.FetchContractDetails(symbol)
	if err != nil {
		return nil, err
	}

	openClose := "OPEN"
	if side == Sell {
		openClose = "CLOSE"
	}
	payload := map[string]interface{}{
		"symbol":             symbol,
		"quantity":           json.Number(req.Quantity.String()),
		"orderSide":          side,
		"type":               Limit,
		"timeInForce":        tif,
		"limitPrice":         json.Number(req.LimitPrice.String()),
		"quote":              details.Details.Quote,
		"openCloseIndicator": openClose,
		"dryRun":             req.DryRun,
		"tip":                nil,
	}
	if req.Tip != nil && !req.Tip.IsZero() {
		payload["tip"] = json.Number(req.Tip.String())
	}

	if err := c.post("options preflight", c.endpoints.PreflightOrderURL(c.session.AccountID), true, payload, nil); err != nil {
		return nil, err
	}
	var built map[string]interface{}
	if err := c.post("options order", c.endpoints.BuildOrderURL(c.session.AccountID), true, payload, &built); err != nil {
		return nil, err
	}
	return built, nil
}
