package public

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// flexNumber unmarshals a JSON value that may be a number or a quoted string
// (the upstream serializes most amounts as strings).
type flexNumber struct {
	decimal.Decimal
}

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		n.Decimal = decimal.Zero
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			n.Decimal = decimal.Zero
			return nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return err
		}
		n.Decimal = d
		return nil
	}
	return n.Decimal.UnmarshalJSON(data)
}

func (n flexNumber) MarshalJSON() ([]byte, error) {
	return []byte(n.Decimal.String()), nil
}

// LoginResult is the upstream login (or token refresh) response. It may
// arrive wrapped in a "loginResponse" envelope depending on the flow.
type LoginResult struct {
	AccessToken       string             `json:"accessToken"`
	ServerTime        flexNumber         `json:"serverTime"` // ms since epoch
	ExpiresIn         flexNumber         `json:"expiresIn"`  // seconds
	TwoFactorResponse *TwoFactorResponse `json:"twoFactorResponse"`
	Accounts          []LoginAccount     `json:"accounts"`
}

// expiry computes the token expiry as serverTime + expiresIn. Zero when the
// upstream omitted either field.
func (r *LoginResult) expiry() time.Time {
	st := r.ServerTime.IntPart()
	ei := r.ExpiresIn.IntPart()
	if st <= 0 || ei <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(st).Add(time.Duration(ei) * time.Second)
}

type loginEnvelope struct {
	LoginResponse *LoginResult `json:"loginResponse"`
}

// parseLoginResult handles both the bare and the enveloped response shape.
func parseLoginResult(body []byte) (*LoginResult, error) {
	var env loginEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.LoginResponse != nil {
		return env.LoginResponse, nil
	}
	var res LoginResult
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

type LoginAccount struct {
	AccountUUID string `json:"accountUuid"`
	Account     string `json:"account"`
	Type        string `json:"type"`
}

type TwoFactorResponse struct {
	MaskedPhoneNumber string `json:"maskedPhoneNumber"`
}

// Portfolio is the account snapshot: equity summary plus open positions.
type Portfolio struct {
	AccountID   string      `json:"accountId"`
	AccountType string      `json:"accountType"`
	Equity      Equity      `json:"equity"`
	BuyingPower BuyingPower `json:"buyingPower"`
	Positions   []Position  `json:"positions"`
}

type Equity struct {
	Cash  flexNumber `json:"cash"`
	Stock flexNumber `json:"stock"`
	Total flexNumber `json:"total"`
}

type BuyingPower struct {
	BuyingPower         flexNumber `json:"buyingPower"`
	CashOnlyBuyingPower flexNumber `json:"cashOnlyBuyingPower"`
}

type Position struct {
	Instrument   Instrument `json:"instrument"`
	Quantity     flexNumber `json:"quantity"`
	CurrentValue flexNumber `json:"currentValue"`
	LastPrice    LastPrice  `json:"lastPrice"`
	CostBasis    CostBasis  `json:"costBasis"`
}

type Instrument struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Type   string `json:"type"`
}

type LastPrice struct {
	LastPrice flexNumber `json:"lastPrice"`
	Timestamp string     `json:"timestamp"`
}

type CostBasis struct {
	TotalCost flexNumber `json:"totalCost"`
	UnitCost  flexNumber `json:"unitCost"`
}

// Order is an order record as returned by the pending orders endpoint.
type Order struct {
	OrderID        string     `json:"orderId"`
	Instrument     Instrument `json:"instrument"`
	Side           string     `json:"side"`
	Type           string     `json:"type"`
	Status         string     `json:"status"`
	Quantity       flexNumber `json:"quantity"`
	FilledQuantity flexNumber `json:"filledQuantity"`
	LimitPrice     flexNumber `json:"limitPrice"`
	StopPrice      flexNumber `json:"stopPrice"`
	CreatedAt      string     `json:"createdAt"`
}

type pendingOrdersResponse struct {
	Orders []Order `json:"orders"`
}

type buildOrderResponse struct {
	OrderID string `json:"orderId"`
}

// RejectionDetails describes why the upstream rejected an order. A nil
// pointer on the status response means no rejection was recorded.
type RejectionDetails struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type orderStatusResponse struct {
	OrderID          string            `json:"orderId"`
	Status           string            `json:"status"`
	FilledQuantity   flexNumber        `json:"filledQuantity"`
	AveragePrice     flexNumber        `json:"averagePrice"`
	RejectionDetails *RejectionDetails `json:"rejectionDetails"`
}

// OrderResult is the outcome of PlaceOrder after the final status poll.
// Success is inferred: the upstream has no single authoritative success
// field, so FILLED status or an absent rejection both count as success. A
// delayed fill can therefore be reported successful while still pending;
// Status is surfaced so callers can re-check.
type OrderResult struct {
	OrderID          string
	Status           string
	FilledQuantity   decimal.Decimal
	AveragePrice     decimal.Decimal
	RejectionDetails *RejectionDetails
	Success          bool
}

// Transaction is one account history entry.
type Transaction struct {
	ID              string     `json:"id"`
	Timestamp       string     `json:"timestamp"`
	Type            string     `json:"type"`
	SubType         string     `json:"subType"`
	Symbol          string     `json:"symbol"`
	Side            string     `json:"side"`
	Status          string     `json:"status"`
	Description     string     `json:"description"`
	NetAmount       flexNumber `json:"netAmount"`
	PrincipalAmount flexNumber `json:"principalAmount"`
	Quantity        flexNumber `json:"quantity"`
	Fees            flexNumber `json:"fees"`
}

// HistoryResponse is a page of account history. NextToken pages forward.
type HistoryResponse struct {
	PendingTransactions []Transaction `json:"pendingTransactions"`
	Transactions        []Transaction `json:"transactions"`
	NextToken           string        `json:"nextToken"`
}

// ContractDetails describes an options contract, including the live quote
// embedded into options order payloads.
type ContractDetails struct {
	Symbol  string `json:"symbol"`
	Details struct {
		Quote map[string]interface{} `json:"quote"`
	} `json:"details"`
}

type cryptoQuoteResponse struct {
	Quotes []struct {
		Last flexNumber `json:"last"`
	} `json:"quotes"`
}

type equityQuoteResponse struct {
	Last flexNumber `json:"last"`
}
