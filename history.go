package public

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DateRange is a history date bucket matching the filters on the Public.com
// history page.
type DateRange string

const (
	DateAll          DateRange = "all"
	DateCurrentMonth DateRange = "current_month"
	DateLastMonth    DateRange = "last_month"
	DateThisYear     DateRange = "this_year"
	DateLastYear     DateRange = "last_year"
)

// Filter values accepted by HistoryQuery, keyed to the upstream enums.
var (
	assetClassParams = map[string]string{
		"stocks_and_etfs": "EQUITY",
		"options":         "OPTION",
		"bonds":           "BOND",
		"crypto":          "CRYPTO",
	}
	transactionTypeParams = map[string]string{
		"buy":                        "PURCHASE",
		"sell":                       "SALE",
		"multi_leg":                  "MULTI_LEG_ORDER",
		"deposit":                    "DEPOSIT",
		"withdrawal":                 "WITHDRAWAL",
		"6m_treasury_bills":          "TREASURY_ACCOUNT_TRANSFER",
		"acat":                       "ACAT",
		"option_event":               "OPTION_EVENTS",
		"interest_dividend_maturity": "INTEREST",
		"reward":                     "STOCK_REWARD",
		"subscription":               "SUBSCRIPTION",
		"misc":                       "OTHER",
	}
	historyStatuses = map[string]bool{
		"completed": true,
		"rejected":  true,
		"cancelled": true,
		"pending":   true,
	}
)

// HistoryQuery filters GetAccountHistory. Zero values mean "all"; list
// filters accept the lower-case values from the website UI and are mapped to
// the upstream enums.
type HistoryQuery struct {
	Date             DateRange
	AssetClasses     []string // stocks_and_etfs, options, bonds, crypto
	MinAmount        *int
	MaxAmount        *int
	TransactionTypes []string // buy, sell, multi_leg, deposit, ...
	Statuses         []string // completed, rejected, cancelled, pending
	NextToken        string
}

// values validates the query and translates it into upstream parameters.
func (q HistoryQuery) values(now time.Time) (url.Values, error) {
	params := url.Values{}

	date := q.Date
	if date == "" {
		date = DateAll
	}
	from, to, ranged, err := dateRangeBounds(date, now)
	if err != nil {
		return nil, err
	}
	if ranged {
		params.Set("dateFrom", from.Format("2006-01-02"))
		params.Set("dateTo", to.Format("2006-01-02"))
	}

	for _, asset := range q.AssetClasses {
		mapped, ok := assetClassParams[strings.ToLower(asset)]
		if !ok {
			return nil, validationErrorf("invalid asset class: %s", asset)
		}
		params.Add("assetClass", mapped)
	}
	if q.MinAmount != nil {
		params.Set("amountGreaterThanEqualTo", strconv.Itoa(*q.MinAmount))
	}
	if q.MaxAmount != nil {
		params.Set("amountLessThanEqualTo", strconv.Itoa(*q.MaxAmount))
	}
	for _, t := range q.TransactionTypes {
		mapped, ok := transactionTypeParams[strings.ToLower(t)]
		if !ok {
			return nil, validationErrorf("invalid transaction type: %s", t)
		}
		params.Add("type", mapped)
	}
	for _, s := range q.Statuses {
		if !historyStatuses[strings.ToLower(s)] {
			return nil, validationErrorf("invalid status: %s", s)
		}
		params.Add("status", strings.ToUpper(s))
	}
	if q.NextToken != "" {
		params.Set("nextToken", q.NextToken)
	}
	return params, nil
}

// dateRangeBounds resolves a date bucket to inclusive calendar bounds.
// DateAll applies no bounds.
func dateRangeBounds(r DateRange, now time.Time) (from, to time.Time, ranged bool, err error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	switch r {
	case DateAll:
		return time.Time{}, time.Time{}, false, nil
	case DateCurrentMonth:
		return monthStart, monthStart.AddDate(0, 1, -1), true, nil
	case DateLastMonth:
		end := monthStart.AddDate(0, 0, -1)
		return time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, now.Location()), end, true, nil
	case DateThisYear:
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()),
			time.Date(now.Year(), 12, 31, 0, 0, 0, 0, now.Location()), true, nil
	case DateLastYear:
		return time.Date(now.Year()-1, 1, 1, 0, 0, 0, 0, now.Location()),
			time.Date(now.Year()-1, 12, 31, 0, 0, 0, 0, now.Location()), true, nil
	default:
		return time.Time{}, time.Time{}, false, validationErrorf("invalid date range: %s", r)
	}
}

// GetAccountHistory returns the account's transaction history filtered like
// the website's history page. Pages are linked through NextToken.
func (c *Client) GetAccountHistory(q HistoryQuery) (*HistoryResponse, error) {
	params, err := q.values(time.Now())
	if err != nil {
		return nil, err
	}
	if err := c.checkAuth(); err != nil {
		return nil, err
	}
	var resp HistoryResponse
	if err := c.get("account history", c.endpoints.AccountHistoryURL(c.session.AccountID), false, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
