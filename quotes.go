package public

import (
	"strings"

	"github.com/shopspring/decimal"
)

// isCryptoSymbol follows the upstream naming convention: crypto instruments
// carry a CRYPTO marker in the symbol (e.g. "BTC.CRYPTO").
func isCryptoSymbol(symbol string) bool {
	return strings.Contains(symbol, "CRYPTO")
}

// GetSymbolPrice returns the last trade price for an equity or crypto
// symbol. Crypto symbols are routed to a different endpoint with a
// different response shape.
func (c *Client) GetSymbolPrice(symbol string) (decimal.Decimal, error) {
	if err := c.checkAuth(); err != nil {
		return decimal.Zero, err
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if isCryptoSymbol(symbol) {
		var resp cryptoQuoteResponse
		if err := c.get("crypto quote", c.endpoints.CryptoQuoteURL(symbol), false, nil, &resp); err != nil {
			return decimal.Zero, err
		}
		if len(resp.Quotes) == 0 {
			return decimal.Zero, validationErrorf("no quote returned for %s", symbol)
		}
		return resp.Quotes[0].Last.Decimal, nil
	}
	var resp equityQuoteResponse
	if err := c.get("quote", c.endpoints.QuoteURL(symbol), false, nil, &resp); err != nil {
		return decimal.Zero, err
	}
	return resp.Last.Decimal, nil
}

// GetOrderQuote fetches the raw quote payload for a symbol. The order
// endpoints expect this payload embedded verbatim in the order body, so it
// is returned undecoded as a generic map.
func (c *Client) GetOrderQuote(symbol string) (map[string]interface{}, error) {
	if err := c.checkAuth(); err != nil {
		return nil, err
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	var quote map[string]interface{}
	if err := c.get("order quote", c.endpoints.QuoteURL(symbol), false, nil, &quote); err != nil {
		return nil, err
	}
	return quote, nil
}
