package token

import (
	"errors"
	"testing"
	"time"

	"github.com/gogo-study/backend/internal/model"
)

func testUser() *model.User {
	return &model.User{ID: 42, Email: "alice@example.com", Role: model.RoleUser}
}

func newTestCodec(t *testing.T, accessTTL, refreshTTL time.Duration) *Codec {
	t.Helper()
	codec, err := NewCodec("test-secret", accessTTL, refreshTTL)
	if err != nil {
		t.Fatalf("NewCodec() error = %v", err)
	}
	return codec
}

func TestAccessTokenRoundTrip(t *testing.T) {
	codec := newTestCodec(t, 15*time.Minute, 7*24*time.Hour)

	signed, err := codec.SignAccessToken(testUser())
	if err != nil {
		t.Fatalf("SignAccessToken() error = %v", err)
	}

	payload, err := codec.VerifyAccessToken(signed)
	if err != nil {
		t.Fatalf("VerifyAccessToken() error = %v", err)
	}
	if payload.UserID != 42 {
		t.Fatalf("UserID = %d, want 42", payload.UserID)
	}
	if payload.Role != model.RoleUser {
		t.Fatalf("Role = %q, want %q", payload.Role, model.RoleUser)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	codec := newTestCodec(t, 15*time.Minute, 7*24*time.Hour)

	signed, sessionID, err := codec.SignRefreshToken(testUser())
	if err != nil {
		t.Fatalf("SignRefreshToken() error = %v", err)
	}
	if sessionID == "" {
		t.Fatal("expected a session id")
	}

	payload, err := codec.VerifyRefreshToken(signed)
	if err != nil {
		t.Fatalf("VerifyRefreshToken() error = %v", err)
	}
	if payload.UserID != 42 || payload.SessionID != sessionID {
		t.Fatalf("payload = %+v, want user 42 session %s", payload, sessionID)
	}
}

func TestRefreshSessionIDsAreUnique(t *testing.T) {
	codec := newTestCodec(t, 15*time.Minute, 7*24*time.Hour)

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		_, sessionID, err := codec.SignRefreshToken(testUser())
		if err != nil {
			t.Fatalf("SignRefreshToken() error = %v", err)
		}
		if _, dup := seen[sessionID]; dup {
			t.Fatalf("session id %s issued twice", sessionID)
		}
		seen[sessionID] = struct{}{}
	}
}

func TestVerifyDistinguishesExpiredFromInvalid(t *testing.T) {
	expiredCodec := newTestCodec(t, time.Nanosecond, time.Nanosecond)
	codec := newTestCodec(t, 15*time.Minute, 7*24*time.Hour)

	signed, err := expiredCodec.SignAccessToken(testUser())
	if err != nil {
		t.Fatalf("SignAccessToken() error = %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, err := expiredCodec.VerifyAccessToken(signed); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expired token error = %v, want ErrTokenExpired", err)
	}
	if _, err := codec.VerifyAccessToken("not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("malformed token error = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	codec := newTestCodec(t, 15*time.Minute, 7*24*time.Hour)
	other, err := NewCodec("other-secret", 15*time.Minute, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("NewCodec() error = %v", err)
	}

	signed, err := codec.SignAccessToken(testUser())
	if err != nil {
		t.Fatalf("SignAccessToken() error = %v", err)
	}

	if _, err := other.VerifyAccessToken(signed); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("wrong-secret error = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyRefreshRejectsAccessToken(t *testing.T) {
	codec := newTestCodec(t, 15*time.Minute, 7*24*time.Hour)

	signed, err := codec.SignAccessToken(testUser())
	if err != nil {
		t.Fatalf("SignAccessToken() error = %v", err)
	}

	// Access tokens carry no session id and must not pass as refresh tokens.
	if _, err := codec.VerifyRefreshToken(signed); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("error = %v, want ErrTokenInvalid", err)
	}
}

func TestDecodeRefreshTokenAcceptsExpired(t *testing.T) {
	expiredCodec := newTestCodec(t, time.Nanosecond, time.Nanosecond)

	signed, sessionID, err := expiredCodec.SignRefreshToken(testUser())
	if err != nil {
		t.Fatalf("SignRefreshToken() error = %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, err := expiredCodec.VerifyRefreshToken(signed); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("VerifyRefreshToken() error = %v, want ErrTokenExpired", err)
	}

	payload, err := expiredCodec.DecodeRefreshToken(signed)
	if err != nil {
		t.Fatalf("DecodeRefreshToken() error = %v", err)
	}
	if payload.SessionID != sessionID {
		t.Fatalf("SessionID = %s, want %s", payload.SessionID, sessionID)
	}

	if _, err := expiredCodec.DecodeRefreshToken("garbage"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("garbage error = %v, want ErrTokenInvalid", err)
	}
}
