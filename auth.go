package public

import (
	"fmt"
	"log"
	"strings"
)

// LoginRequest carries credentials for Login. When the upstream asks for a
// two-factor code, WaitFor2FA decides between prompting interactively
// (via the client's TwoFactorPrompt) and failing with
// *TwoFactorRequiredError. Code can be supplied up front when re-calling
// Login after such a failure.
type LoginRequest struct {
	Username   string
	Password   string
	WaitFor2FA bool
	Code       string
}

type loginPayload struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	StayLoggedIn     bool   `json:"stayLoggedIn,omitempty"`
	VerificationCode string `json:"verificationCode,omitempty"`
}

func newLoginPayload(username, password, code string) loginPayload {
	p := loginPayload{Email: username, Password: password}
	if code == "" {
		p.StayLoggedIn = true
	} else {
		p.VerificationCode = code
	}
	return p
}

// Login authenticates against the Public.com web API. A silent token refresh
// is attempted first so an existing persisted session skips the credential
// (and 2FA) exchange entirely. On success the access token, account
// identifiers and computed expiry are stored and the session is persisted.
func (c *Client) Login(req LoginRequest) (*LoginResult, error) {
	if req.Username == "" || req.Password == "" {
		return nil, validationErrorf("username or password not provided")
	}

	if c.session.Active() {
		if res, err := c.refreshToken(); err == nil {
			return res, nil
		} else if c.Debug {
			log.Printf("silent refresh failed, performing full login: %v", err)
		}
	}

	code := req.Code
	needMFA := true
	var result *LoginResult
	if code == "" {
		res, err := c.postLogin(newLoginPayload(req.Username, req.Password, ""))
		if err != nil {
			return nil, err
		}
		if res.TwoFactorResponse == nil {
			needMFA = false
			result = res
		} else {
			// Stale cookies would otherwise be replayed against the 2FA
			// verification.
			c.session.Cookies = nil
			c.http.Cookies = nil
			masked := res.TwoFactorResponse.MaskedPhoneNumber
			if !req.WaitFor2FA {
				return nil, &TwoFactorRequiredError{MaskedPhoneNumber: masked}
			}
			prompt := c.TwoFactorPrompt
			if prompt == nil {
				prompt = stdinTwoFactorPrompt
			}
			code, err = prompt(masked)
			if err != nil {
				return nil, fmt.Errorf("collecting 2FA code: %w", err)
			}
		}
	}
	if needMFA {
		payload := newLoginPayload(req.Username, req.Password, code)
		resp, err := c.http.R().
			SetHeaders(c.endpoints.buildHeaders("", false)).
			SetBody(payload).
			Post(c.endpoints.MFAURL())
		if err != nil {
			return nil, err
		}
		if resp.StatusCode() != 200 {
			return nil, fmt.Errorf("%w: %s", ErrTwoFactorFailed, truncateBody(resp.String()))
		}
		c.session.mergeCookies(resp.Cookies())
		c.http.Cookies = c.session.Cookies
		result, err = c.postLogin(payload)
		if err != nil {
			return nil, err
		}
	}

	c.applyLogin(result)
	if err := c.store.Save(&c.session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	return result, nil
}

// postLogin posts credentials to the login endpoint. A first failure clears
// the replayed cookies (they may have expired upstream) and retries once.
func (c *Client) postLogin(payload loginPayload) (*LoginResult, error) {
	send := func() (int, []byte, error) {
		resp, err := c.http.R().
			SetHeaders(c.endpoints.buildHeaders("", false)).
			SetBody(payload).
			Post(c.endpoints.LoginURL())
		if err != nil {
			return 0, nil, err
		}
		c.session.mergeCookies(resp.Cookies())
		c.http.Cookies = c.session.Cookies
		return resp.StatusCode(), resp.Body(), nil
	}

	status, body, err := send()
	if err != nil {
		return nil, err
	}
	if status != 200 {
		// Cookies may have expired upstream; retry once without them.
		c.session.Cookies = nil
		c.http.Cookies = nil
		status, body, err = send()
		if err != nil {
			return nil, err
		}
	}
	if status != 200 {
		return nil, fmt.Errorf("%w: %s", ErrAuthenticationFailed, truncateBody(string(body)))
	}
	return parseLoginResult(body)
}

// Refresh exchanges the current session for a new access token. It fails
// when the session is not refreshable, which forces a full Login.
func (c *Client) Refresh() error {
	_, err := c.refreshToken()
	return err
}

func (c *Client) refreshToken() (*LoginResult, error) {
	resp, err := c.http.R().
		SetHeaders(c.endpoints.buildHeaders("", false)).
		Post(c.endpoints.RefreshURL())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("%w: status %d", ErrRefreshFailed, resp.StatusCode())
	}
	result, err := parseLoginResult(resp.Body())
	if err != nil {
		return nil, err
	}
	c.session.mergeCookies(resp.Cookies())
	c.http.Cookies = c.session.Cookies
	c.applyLogin(result)
	if err := c.store.Save(&c.session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	return result, nil
}

func (c *Client) applyLogin(res *LoginResult) {
	c.session.AccessToken = res.AccessToken
	if exp := res.expiry(); !exp.IsZero() {
		c.session.ExpiresAt = exp
	}
	if len(res.Accounts) > 0 {
		acct := res.Accounts[0]
		c.session.AccountID = acct.AccountUUID
		if acct.Account != "" {
			c.session.AccountNumber = acct.Account
		}
		if acct.Type != "" {
			c.session.AccountType = acct.Type
		}
	}
}

func stdinTwoFactorPrompt(maskedPhone string) (string, error) {
	fmt.Printf("2FA required, code sent to phone number %s...\n", maskedPhone)
	fmt.Print("Enter code: ")
	var code string
	if _, err := fmt.Scanln(&code); err != nil {
		return "", err
	}
	return strings.TrimSpace(code), nil
}
