package public

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/pbkdf2"
)

// Session holds the authenticated state for one account. It is mutated only
// by Login and token refresh, and persisted across process runs.
type Session struct {
	AccessToken   string         `json:"accessToken"`
	AccountID     string         `json:"accountUuid"`
	AccountNumber string         `json:"accountNumber"`
	AccountType   string         `json:"accountType"`
	ExpiresAt     time.Time      `json:"expiresAt"`
	Cookies       []*http.Cookie `json:"cookies,omitempty"`
}

// Active reports whether a login has been performed.
func (s *Session) Active() bool {
	return s.AccessToken != ""
}

// Expired reports whether the access token is past its computed expiry.
func (s *Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// mergeCookies folds response cookies into the session by name, keeping the
// newest value for each.
func (s *Session) mergeCookies(cookies []*http.Cookie) {
	for _, c := range cookies {
		replaced := false
		for i, existing := range s.Cookies {
			if existing.Name == c.Name {
				s.Cookies[i] = c
				replaced = true
				break
			}
		}
		if !replaced {
			s.Cookies = append(s.Cookies, c)
		}
	}
}

const (
	sessionSaltSize    = 16
	sessionKeySize     = 32
	sessionKDFRounds   = 100000
	sessionFilePerm    = 0o600
	defaultSessionFile = "public_session.json"
)

var errSessionCiphertext = errors.New("session file ciphertext too short")

// sessionStore serializes the session to a local file. With a secret set the
// file is sealed with AES-256-GCM under a PBKDF2-derived key; otherwise it is
// plain JSON. A missing or unreadable file is treated as "no session".
type sessionStore struct {
	path   string
	secret string
}

func newSessionStore(path, secret string) *sessionStore {
	if path == "" {
		path = defaultSessionFile
	}
	return &sessionStore{path: path, secret: secret}
}

// Load returns nil without error when no usable session exists on disk.
func (st *sessionStore) Load() (*Session, error) {
	data, err := os.ReadFile(st.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if st.secret != "" {
		data, err = st.open(data)
		if err != nil {
			return nil, err
		}
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (st *sessionStore) Save(s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if st.secret != "" {
		data, err = st.seal(data)
		if err != nil {
			return err
		}
	}
	if dir := filepath.Dir(st.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("creating session dir: %w", err)
		}
	}
	return os.WriteFile(st.path, data, sessionFilePerm)
}

func (st *sessionStore) Clear() error {
	err := os.Remove(st.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// seal encrypts the serialized session with AES-256-GCM. Layout:
// salt || nonce || ciphertext.
func (st *sessionStore) seal(plaintext []byte) ([]byte, error) {
	salt := make([]byte, sessionSaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generating salt: %w", err)
	}
	gcm, err := st.aead(salt)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}
	out := append(salt, nonce...)
	return gcm.Seal(out, nonce, plaintext, nil), nil
}

func (st *sessionStore) open(data []byte) ([]byte, error) {
	if len(data) < sessionSaltSize {
		return nil, errSessionCiphertext
	}
	salt, rest := data[:sessionSaltSize], data[sessionSaltSize:]
	gcm, err := st.aead(salt)
	if err != nil {
		return nil, err
	}
	if len(rest) < gcm.NonceSize() {
		return nil, errSessionCiphertext
	}
	nonce, ciphertext := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

func (st *sessionStore) aead(salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(st.secret), salt, sessionKDFRounds, sessionKeySize, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	return cipher.NewGCM(block)
}
