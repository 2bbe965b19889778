package public

import (
	"net/http"

	"github.com/shopspring/decimal"
)

// GetPortfolio retrieves the account snapshot: equity summary, buying power
// and open positions.
func (c *Client) GetPortfolio() (*Portfolio, error) {
	if err := c.checkAuth(); err != nil {
		return nil, err
	}
	var p Portfolio
	if err := c.get("portfolio", c.endpoints.PortfolioURL(c.session.AccountID), true, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPositions returns the open positions from the portfolio snapshot.
func (c *Client) GetPositions() ([]Position, error) {
	p, err := c.GetPortfolio()
	if err != nil {
		return nil, err
	}
	return p.Positions, nil
}

// IsStockOwned reports whether the account holds any quantity of symbol.
func (c *Client) IsStockOwned(symbol string) (bool, error) {
	positions, err := c.GetPositions()
	if err != nil {
		return false, err
	}
	for _, pos := range positions {
		if pos.Instrument.Symbol == symbol {
			return true, nil
		}
	}
	return false, nil
}

// GetOwnedStockQuantity returns the held quantity of symbol, failing when
// the symbol is not owned.
func (c *Client) GetOwnedStockQuantity(symbol string) (decimal.Decimal, error) {
	positions, err := c.GetPositions()
	if err != nil {
		return decimal.Zero, err
	}
	for _, pos := range positions {
		if pos.Instrument.Symbol == symbol {
			return pos.Quantity.Decimal, nil
		}
	}
	return decimal.Zero, validationErrorf("stock %s is not owned", symbol)
}

// GetAccountCash returns the cash portion of the account equity.
func (c *Client) GetAccountCash() (decimal.Decimal, error) {
	p, err := c.GetPortfolio()
	if err != nil {
		return decimal.Zero, err
	}
	return p.Equity.Cash.Decimal, nil
}

// GetAccountType returns the account type captured at login.
func (c *Client) GetAccountType() (string, error) {
	if !c.session.Active() {
		return "", ErrLoginRequired
	}
	return c.session.AccountType, nil
}

// GetAccountNumber returns the account number captured at login.
func (c *Client) GetAccountNumber() (string, error) {
	if !c.session.Active() {
		return "", ErrLoginRequired
	}
	return c.session.AccountNumber, nil
}

// GetPendingOrders lists orders that have not reached a terminal state.
func (c *Client) GetPendingOrders() ([]Order, error) {
	if err := c.checkAuth(); err != nil {
		return nil, err
	}
	var resp pendingOrdersResponse
	if err := c.get("pending orders", c.endpoints.PendingOrdersURL(c.session.AccountID), false, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

// CancelOrder cancels a pending order. The upstream requires an OPTIONS
// preflight against the order URL before it accepts the DELETE.
func (c *Client) CancelOrder(orderID string) (*Order, error) {
	if err := c.checkAuth(); err != nil {
		return nil, err
	}
	if orderID == "" {
		return nil, validationErrorf("order id not provided")
	}
	url := c.endpoints.OrderURL(c.session.AccountID, orderID)
	if err := c.do(http.MethodOptions, "cancel preflight", url, false, nil, nil, nil); err != nil {
		return nil, err
	}
	var order Order
	if err := c.do(http.MethodDelete, "cancel order", url, false, nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
