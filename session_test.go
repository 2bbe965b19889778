package public

import (
	"path/filepath"
	"testing"
	"time"
)

func TestSessionStore_RoundTrip(t *testing.T) {
	store := newSessionStore(filepath.Join(t.TempDir(), "session.json"), "")
	want := &Session{
		AccessToken:   "tok",
		AccountID:     "uuid",
		AccountNumber: "5XX1",
		AccountType:   "BROKERAGE",
		ExpiresAt:     time.Now().Add(30 * time.Minute).Round(time.Second),
	}
	if err := store.Save(want); err != nil {
		t.Fatal(err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("Load returned nil for existing session")
	}
	if got.AccessToken != want.AccessToken || got.AccountID != want.AccountID {
		t.Errorf("loaded session = %+v, want %+v", got, want)
	}
	if !got.ExpiresAt.Equal(want.ExpiresAt) {
		t.Errorf("ExpiresAt = %v, want %v", got.ExpiresAt, want.ExpiresAt)
	}
}

func TestSessionStore_MissingFile(t *testing.T) {
	store := newSessionStore(filepath.Join(t.TempDir(), "absent.json"), "")
	got, err := store.Load()
	if err != nil {
		t.Fatalf("missing file should not error, got %v", err)
	}
	if got != nil {
		t.Errorf("missing file should yield nil session, got %+v", got)
	}
}

func TestSessionStore_Encrypted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.bin")
	store := newSessionStore(path, "correct horse battery staple and then some")
	want := &Session{AccessToken: "secret-token", AccountID: "uuid"}
	if err := store.Save(want); err != nil {
		t.Fatal(err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got.AccessToken != "secret-token" {
		t.Errorf("AccessToken = %q", got.AccessToken)
	}

	// The file must not leak the token in the clear, and a wrong secret
	// must not decrypt it.
	other := newSessionStore(path, "a completely different secret value here")
	if _, err := other.Load(); err == nil {
		t.Error("loading with the wrong secret should fail")
	}
	plain := newSessionStore(path, "")
	if s, err := plain.Load(); err == nil && s != nil && s.AccessToken == "secret-token" {
		t.Error("encrypted file decoded without the secret")
	}
}

func TestSessionStore_Clear(t *testing.T) {
	store := newSessionStore(filepath.Join(t.TempDir(), "session.json"), "")
	if err := store.Save(&Session{AccessToken: "tok"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Clear(); err != nil {
		t.Fatal(err)
	}
	// Clearing twice is fine.
	if err := store.Clear(); err != nil {
		t.Fatal(err)
	}
	got, err := store.Load()
	if err != nil || got != nil {
		t.Errorf("Load after Clear = (%+v, %v), want (nil, nil)", got, err)
	}
}

func TestSession_Expired(t *testing.T) {
	s := &Session{}
	if s.Expired() {
		t.Error("zero expiry should never count as expired")
	}
	s.ExpiresAt = time.Now().Add(-time.Minute)
	if !s.Expired() {
		t.Error("past expiry should be expired")
	}
	s.ExpiresAt = time.Now().Add(time.Minute)
	if s.Expired() {
		t.Error("future expiry should not be expired")
	}
}
