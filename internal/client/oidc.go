// Google/Firebase ID 토큰 검증 클라이언트
//
// 환경변수:
//   - GOOGLE_CLIENT_ID: Google OAuth 클라이언트 ID (audience 검증용)
//   - FIREBASE_PROJECT_ID: Firebase 프로젝트 ID
//
// Firebase ID 토큰은 securetoken.google.com/<project>가 발급하는 표준
// OIDC JWT이므로 Admin SDK 없이 같은 go-oidc 검증기로 처리한다.

package client

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/gogo-study/backend/internal/model"
)

const (
	googleIssuer         = "https://accounts.google.com"
	firebaseIssuerPrefix = "https://securetoken.google.com/"
)

type OIDCVerifier struct {
	provider model.Provider
	verifier *oidc.IDTokenVerifier
}

type oidcClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// NewGoogleVerifier builds a verifier for Google ID tokens, checking the
// signature against Google's published keys and the audience against the
// configured OAuth client id.
func NewGoogleVerifier(ctx context.Context, clientID string) (*OIDCVerifier, error) {
	if clientID == "" {
		return nil, fmt.Errorf("google client id is required")
	}
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover google oidc provider: %w", err)
	}
	return &OIDCVerifier{
		provider: model.ProviderGoogle,
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

// NewFirebaseVerifier builds a verifier for Firebase ID tokens. The token
// audience is the Firebase project id.
func NewFirebaseVerifier(ctx context.Context, projectID string) (*OIDCVerifier, error) {
	if projectID == "" {
		return nil, fmt.Errorf("firebase project id is required")
	}
	provider, err := oidc.NewProvider(ctx, firebaseIssuerPrefix+projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to discover firebase oidc provider: %w", err)
	}
	return &OIDCVerifier{
		provider: model.ProviderFirebase,
		verifier: provider.Verifier(&oidc.Config{ClientID: projectID}),
	}, nil
}

func (v *OIDCVerifier) Verify(ctx context.Context, rawToken string) (*model.ExternalIdentity, error) {
	idToken, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, err
	}
	if idToken.Subject == "" {
		return nil, fmt.Errorf("token is missing a subject")
	}

	var claims oidcClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to decode token claims: %w", err)
	}

	return &model.ExternalIdentity{
		Provider:   v.provider,
		ProviderID: idToken.Subject,
		Email:      claims.Email,
		Name:       claims.Name,
	}, nil
}
