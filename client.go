package public

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 10 * time.Second

// defaultSubmitWait is the fixed pause between submitting an order and
// polling its status, giving the upstream time to process the fill.
const defaultSubmitWait = 1 * time.Second

// Client is a session-oriented client for the Public.com web API. One
// instance owns one account session; it is not safe for concurrent use, and
// multi-account use requires one instance per account.
type Client struct {
	http      *resty.Client
	endpoints *Endpoints
	session   Session
	store     *sessionStore

	// Debug enables request/response logging via the standard logger.
	Debug bool

	// TwoFactorPrompt collects a 2FA code when Login is allowed to wait for
	// one. The masked delivery phone number is passed in. Defaults to a
	// stdin prompt.
	TwoFactorPrompt func(maskedPhone string) (string, error)

	submitWait time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithDebug enables debug logging.
func WithDebug(debug bool) Option {
	return func(c *Client) { c.Debug = debug }
}

// WithTimeout overrides the per-request timeout (default 10s).
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// WithSessionFile sets the path of the persisted session state.
func WithSessionFile(path string) Option {
	return func(c *Client) { c.store.path = path }
}

// WithSessionSecret encrypts the persisted session file with the given
// secret. Loading with a different secret is treated as "no session".
func WithSessionSecret(secret string) Option {
	return func(c *Client) { c.store.secret = secret }
}

// WithEndpoints overrides the upstream hosts, mainly for tests.
func WithEndpoints(e *Endpoints) Option {
	return func(c *Client) { c.endpoints = e }
}

// WithSubmitWait overrides the pause between order submit and status poll.
func WithSubmitWait(d time.Duration) Option {
	return func(c *Client) { c.submitWait = d }
}

// NewClient creates a Public.com API client. Any session persisted by a
// previous run is loaded; a missing or corrupt session file is ignored.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:       resty.New().SetTimeout(defaultTimeout),
		endpoints:  DefaultEndpoints(),
		store:      newSessionStore("", ""),
		submitWait: defaultSubmitWait,
	}
	for _, opt := range opts {
		opt(c)
	}
	if s, err := c.store.Load(); err == nil && s != nil {
		c.session = *s
		c.http.Cookies = c.session.Cookies
	} else if err != nil && c.Debug {
		log.Printf("ignoring unreadable session file: %v", err)
	}
	return c
}

// Session returns a copy of the current session state.
func (c *Client) Session() Session {
	return c.session
}

// ClearSession invalidates the in-memory session and removes the persisted
// state file.
func (c *Client) ClearSession() error {
	c.session = Session{}
	c.http.Cookies = nil
	return c.store.Clear()
}

// checkAuth guards every authenticated operation: no session is a hard
// error; an expired token triggers a single refresh attempt. A failed
// refresh is not fatal here; the operation proceeds and surfaces the
// upstream authentication error.
func (c *Client) checkAuth() error {
	if !c.session.Active() {
		return ErrLoginRequired
	}
	if c.session.Expired() {
		if _, err := c.refreshToken(); err != nil && c.Debug {
			log.Printf("token refresh failed, proceeding with stale token: %v", err)
		}
	}
	return nil
}

// do issues one request with the standard header set and decodes the JSON
// response into out (when non-nil). Non-2xx responses become an *APIError.
func (c *Client) do(method, op, rawURL string, prodAPI bool, query url.Values, body interface{}, out interface{}) error {
	req := c.http.R().SetHeaders(c.endpoints.buildHeaders(c.session.AccessToken, prodAPI))
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Execute(method, rawURL)
	if err != nil {
		return err
	}
	if c.Debug {
		log.Printf("%s %s -> %d", method, rawURL, resp.StatusCode())
	}
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return &APIError{Op: op, Status: resp.StatusCode(), Body: truncateBody(resp.String())}
	}
	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) get(op, rawURL string, prodAPI bool, query url.Values, out interface{}) error {
	return c.do(http.MethodGet, op, rawURL, prodAPI, query, nil, out)
}

func (c *Client) post(op, rawURL string, prodAPI bool, body interface{}, out interface{}) error {
	return c.do(http.MethodPost, op, rawURL, prodAPI, nil, body, out)
}
