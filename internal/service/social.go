package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/gogo-study/backend/internal/db"
	"github.com/gogo-study/backend/internal/model"
)

const placeholderEmailDomain = "gogostudy.local"

// IdentityService reconciles a verified external identity onto exactly one
// user row. Repeated logins with the same provider identity always converge
// on the same user.
type IdentityService struct {
	users UserStore
}

func NewIdentityService(users UserStore) *IdentityService {
	return &IdentityService{users: users}
}

// ResolveIdentity resolves in three steps: exact (provider, providerId)
// match, then account linking by email, then creation. Linking only
// backfills an account that has no provider binding yet; the first provider
// to bind wins and later providers with the same email leave it untouched.
func (s *IdentityService) ResolveIdentity(ctx context.Context, identity *model.ExternalIdentity) (*model.User, error) {
	user, err := s.users.FindUserByProviderIdentity(ctx, identity.Provider, identity.ProviderID)
	if err != nil && !db.IsNoRows(err) {
		return nil, storeErr(err)
	}
	if user != nil {
		return user, nil
	}

	if identity.Email != "" {
		email := strings.ToLower(identity.Email)
		existing, err := s.users.FindUserByEmail(ctx, email)
		if err != nil && !db.IsNoRows(err) {
			return nil, storeErr(err)
		}
		if existing != nil {
			if existing.ProviderID != nil {
				return existing, nil
			}
			linked, err := s.users.LinkProviderIdentity(ctx, existing.ID, identity.Provider, identity.ProviderID)
			if err != nil {
				// Another provider bound the account between our read
				// and the conditional update; keep the first binding.
				if db.IsNoRows(err) {
					return existing, nil
				}
				return nil, storeErr(err)
			}
			return linked, nil
		}
	}

	return s.createSocialUser(ctx, identity)
}

func (s *IdentityService) createSocialUser(ctx context.Context, identity *model.ExternalIdentity) (*model.User, error) {
	email := strings.ToLower(identity.Email)
	if email == "" {
		email = placeholderEmail(identity.Provider, identity.ProviderID)
	}

	name := strings.TrimSpace(identity.Name)
	if name == "" {
		// Providers may hand back an address-like string without an "@";
		// Cut keeps the whole value in that case instead of slicing past it.
		name, _, _ = strings.Cut(email, "@")
	}

	// Provider accounts never use password login; the hash is a random
	// unguessable placeholder.
	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	providerID := identity.ProviderID
	user, err := s.users.CreateUser(ctx, db.NewUser{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Provider:     identity.Provider,
		ProviderID:   &providerID,
	})
	if err != nil {
		// Two first logins for the same identity can race; the loser
		// re-reads the row the winner created.
		if db.IsUniqueViolation(err) {
			existing, findErr := s.users.FindUserByProviderIdentity(ctx, identity.Provider, identity.ProviderID)
			if findErr == nil {
				return existing, nil
			}
		}
		return nil, storeErr(err)
	}
	return user, nil
}

// placeholderEmail derives a deterministic stand-in address so identities
// without an email still map to a distinct, repeatable user row.
func placeholderEmail(provider model.Provider, providerID string) string {
	return strings.ToLower(string(provider)) + "-" + providerID + "@" + placeholderEmailDomain
}
