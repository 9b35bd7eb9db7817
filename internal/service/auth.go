package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/gogo-study/backend/internal/apperr"
	"github.com/gogo-study/backend/internal/db"
	"github.com/gogo-study/backend/internal/model"
	"github.com/gogo-study/backend/internal/token"
)

const storeCallTimeout = 5 * time.Second

// UserStore is the datastore contract the auth core needs from Postgres.
type UserStore interface {
	CreateUser(ctx context.Context, params db.NewUser) (*model.User, error)
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	FindUserByID(ctx context.Context, userID int64) (*model.User, error)
	FindUserByProviderIdentity(ctx context.Context, provider model.Provider, providerID string) (*model.User, error)
	LinkProviderIdentity(ctx context.Context, userID int64, provider model.Provider, providerID string) (*model.User, error)
}

// SessionStore is the key-value contract for refresh sessions and the token
// blacklist. Single-key operations are assumed atomic at the store level.
type SessionStore interface {
	SaveRefreshSession(ctx context.Context, sessionID string, userID int64, ttl time.Duration) error
	GetRefreshSessionUser(ctx context.Context, sessionID string) (int64, bool, error)
	DeleteRefreshSession(ctx context.Context, sessionID string) error
	BlacklistToken(ctx context.Context, rawToken string, ttl time.Duration) error
	IsTokenBlacklisted(ctx context.Context, rawToken string) (bool, error)
}

// TokenVerifier verifies an opaque provider token and returns the stable
// provider identity. One implementation per external provider.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*model.ExternalIdentity, error)
}

type AuthService struct {
	users     UserStore
	sessions  SessionStore
	codec     *token.Codec
	identity  *IdentityService
	verifiers map[model.Provider]TokenVerifier
}

func NewAuthService(users UserStore, sessions SessionStore, codec *token.Codec, identity *IdentityService, verifiers map[model.Provider]TokenVerifier) *AuthService {
	return &AuthService{
		users:     users,
		sessions:  sessions,
		codec:     codec,
		identity:  identity,
		verifiers: verifiers,
	}
}

func (s *AuthService) Register(ctx context.Context, email, password, name string) (*model.AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.users.FindUserByEmail(ctx, email)
	if err != nil && !db.IsNoRows(err) {
		return nil, storeErr(err)
	}
	if existing != nil {
		return nil, apperr.EmailTaken()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.users.CreateUser(ctx, db.NewUser{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Provider:     model.ProviderLocal,
	})
	if err != nil {
		// A concurrent registration with the same email loses here.
		if db.IsUniqueViolation(err) {
			return nil, apperr.EmailTaken()
		}
		return nil, storeErr(err)
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		if db.IsNoRows(err) {
			// Same code as a wrong password so callers cannot probe
			// which emails are registered.
			return nil, apperr.InvalidCredentials()
		}
		return nil, storeErr(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apperr.InvalidCredentials()
	}

	// Status is checked only after the password matched, so an inactive
	// response never confirms credentials for a probing caller.
	if user.Status != model.StatusActive {
		return nil, apperr.AccountInactive()
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) SocialLogin(ctx context.Context, provider model.Provider, rawToken string) (*model.AuthResponse, error) {
	verifier, ok := s.verifiers[provider]
	if !ok {
		// Provider names are validated at the handler; a missing verifier
		// means this deployment has the provider switched off, which is a
		// server-side condition, not a bad request.
		return nil, apperr.UpstreamUnavailable(strings.ToLower(string(provider)) + " login is not configured")
	}

	identity, err := verifier.Verify(ctx, rawToken)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperr.UpstreamUnavailable("identity provider did not respond")
		}
		return nil, apperr.SocialAuthFailed(string(provider)).WithDetails(err.Error())
	}

	user, err := s.identity.ResolveIdentity(ctx, identity)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.AuthResponse, error) {
	payload, err := s.codec.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, tokenErr(err)
	}

	storeCtx, cancel := context.WithTimeout(ctx, storeCallTimeout)
	defer cancel()

	userID, found, err := s.sessions.GetRefreshSessionUser(storeCtx, payload.SessionID)
	if err != nil {
		return nil, storeErr(err)
	}
	// Covers already-rotated, expired-and-evicted, and tampered subjects.
	if !found || userID != payload.UserID {
		return nil, apperr.RefreshNotFound()
	}

	// The delete must land before the new session exists: the old token is
	// single-use whether or not the new pair is ever presented.
	if err := s.sessions.DeleteRefreshSession(storeCtx, payload.SessionID); err != nil {
		return nil, storeErr(err)
	}

	user, err := s.users.FindUserByID(ctx, payload.UserID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.UserNotFound()
		}
		return nil, storeErr(err)
	}

	return s.issueTokens(ctx, user)
}

// Logout deletes the refresh session and blacklists both presented tokens
// for the remainder of their class lifetimes. The refresh token must parse
// and carry a valid signature, expired is fine; anything else would let
// callers pollute the blacklist with arbitrary strings.
func (s *AuthService) Logout(ctx context.Context, refreshToken, accessToken string) error {
	payload, err := s.codec.DecodeRefreshToken(refreshToken)
	if err != nil {
		return tokenErr(err)
	}

	storeCtx, cancel := context.WithTimeout(ctx, storeCallTimeout)
	defer cancel()

	if err := s.sessions.DeleteRefreshSession(storeCtx, payload.SessionID); err != nil {
		return storeErr(err)
	}
	if err := s.sessions.BlacklistToken(storeCtx, refreshToken, s.codec.RefreshTTL()); err != nil {
		return storeErr(err)
	}
	if accessToken != "" {
		if err := s.sessions.BlacklistToken(storeCtx, accessToken, s.codec.AccessTTL()); err != nil {
			return storeErr(err)
		}
	}
	return nil
}

// Authenticate is the access-control gate: revocation check, cryptographic
// verification, then a live-user load. The result is what the middleware
// attaches to the request context.
func (s *AuthService) Authenticate(ctx context.Context, rawToken string) (*model.AuthUser, error) {
	storeCtx, cancel := context.WithTimeout(ctx, storeCallTimeout)
	defer cancel()

	revoked, err := s.sessions.IsTokenBlacklisted(storeCtx, rawToken)
	if err != nil {
		return nil, storeErr(err)
	}
	if revoked {
		return nil, apperr.TokenRevoked()
	}

	payload, err := s.codec.VerifyAccessToken(rawToken)
	if err != nil {
		return nil, tokenErr(err)
	}

	user, err := s.users.FindUserByID(ctx, payload.UserID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.Unauthorized("User is not authorized")
		}
		return nil, storeErr(err)
	}
	if user.Status != model.StatusActive {
		return nil, apperr.Unauthorized("User is not authorized")
	}

	return &model.AuthUser{ID: user.ID, Email: user.Email, Role: user.Role}, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *model.User) (*model.AuthResponse, error) {
	accessToken, err := s.codec.SignAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, sessionID, err := s.codec.SignRefreshToken(user)
	if err != nil {
		return nil, err
	}

	storeCtx, cancel := context.WithTimeout(ctx, storeCallTimeout)
	defer cancel()

	// Session TTL equals the refresh token's cryptographic lifetime, so the
	// two expiries never diverge.
	if err := s.sessions.SaveRefreshSession(storeCtx, sessionID, user.ID, s.codec.RefreshTTL()); err != nil {
		return nil, storeErr(err)
	}

	return &model.AuthResponse{
		User:         user.Profile(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func tokenErr(err error) error {
	switch {
	case errors.Is(err, token.ErrTokenExpired):
		return apperr.TokenExpired()
	default:
		return apperr.TokenInvalid()
	}
}

// storeErr maps datastore/session-store failures: timeouts surface as a
// retryable 503, everything else is logged and reported as internal.
func storeErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.UpstreamUnavailable("backing store did not respond")
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	log.Printf("store error: %v", err)
	return apperr.Internal()
}
