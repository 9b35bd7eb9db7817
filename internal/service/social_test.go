package service

import (
	"context"
	"testing"

	"github.com/gogo-study/backend/internal/db"
	"github.com/gogo-study/backend/internal/model"
)

func newTestLocalUser(ctx context.Context, users *fakeUserStore, email, name string) (*model.User, error) {
	return users.CreateUser(ctx, db.NewUser{
		Email:        email,
		PasswordHash: "irrelevant",
		Name:         name,
		Provider:     model.ProviderLocal,
	})
}

func googleIdentity(providerID, email, name string) *model.ExternalIdentity {
	return &model.ExternalIdentity{
		Provider:   model.ProviderGoogle,
		ProviderID: providerID,
		Email:      email,
		Name:       name,
	}
}

func TestResolveIdentityIsIdempotent(t *testing.T) {
	users := newFakeUserStore()
	svc := NewIdentityService(users)
	ctx := context.Background()

	first, err := svc.ResolveIdentity(ctx, googleIdentity("g-1", "hana@example.com", "Hana"))
	if err != nil {
		t.Fatalf("ResolveIdentity() error = %v", err)
	}
	second, err := svc.ResolveIdentity(ctx, googleIdentity("g-1", "hana@example.com", "Hana"))
	if err != nil {
		t.Fatalf("second ResolveIdentity() error = %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("same identity resolved to users %d and %d", first.ID, second.ID)
	}
	if len(users.users) != 1 {
		t.Fatalf("user rows = %d, want 1", len(users.users))
	}
}

func TestResolveIdentityLinksByEmail(t *testing.T) {
	users := newFakeUserStore()
	svc := NewIdentityService(users)
	ctx := context.Background()

	local, err := newTestLocalUser(ctx, users, "ian@example.com", "Ian")
	if err != nil {
		t.Fatalf("seed user error = %v", err)
	}

	resolved, err := svc.ResolveIdentity(ctx, googleIdentity("g-2", "Ian@Example.com", "Ian G"))
	if err != nil {
		t.Fatalf("ResolveIdentity() error = %v", err)
	}

	if resolved.ID != local.ID {
		t.Fatalf("resolved to user %d, want existing %d", resolved.ID, local.ID)
	}
	if resolved.Provider != model.ProviderGoogle || resolved.ProviderID == nil || *resolved.ProviderID != "g-2" {
		t.Fatalf("binding not recorded: provider=%s providerID=%v", resolved.Provider, resolved.ProviderID)
	}
	if len(users.users) != 1 {
		t.Fatalf("user rows = %d, want 1", len(users.users))
	}
}

func TestResolveIdentityFirstProviderWins(t *testing.T) {
	users := newFakeUserStore()
	svc := NewIdentityService(users)
	ctx := context.Background()

	first, err := svc.ResolveIdentity(ctx, googleIdentity("g-3", "jane@example.com", "Jane"))
	if err != nil {
		t.Fatalf("ResolveIdentity() error = %v", err)
	}

	// A second provider with the same email lands on the same account but
	// must not overwrite the existing binding.
	second, err := svc.ResolveIdentity(ctx, &model.ExternalIdentity{
		Provider:   model.ProviderKakao,
		ProviderID: "k-9",
		Email:      "jane@example.com",
		Name:       "Jane K",
	})
	if err != nil {
		t.Fatalf("kakao ResolveIdentity() error = %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("resolved to user %d, want %d", second.ID, first.ID)
	}
	if second.Provider != model.ProviderGoogle || *second.ProviderID != "g-3" {
		t.Fatalf("first binding overwritten: provider=%s providerID=%s", second.Provider, *second.ProviderID)
	}
}

func TestResolveIdentityWithoutEmail(t *testing.T) {
	users := newFakeUserStore()
	svc := NewIdentityService(users)
	ctx := context.Background()

	identity := &model.ExternalIdentity{Provider: model.ProviderKakao, ProviderID: "55501"}

	first, err := svc.ResolveIdentity(ctx, identity)
	if err != nil {
		t.Fatalf("ResolveIdentity() error = %v", err)
	}
	if first.Email != "kakao-55501@gogostudy.local" {
		t.Fatalf("placeholder email = %q", first.Email)
	}
	if first.Name != "kakao-55501" {
		t.Fatalf("fallback name = %q", first.Name)
	}

	second, err := svc.ResolveIdentity(ctx, identity)
	if err != nil {
		t.Fatalf("second ResolveIdentity() error = %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("placeholder identity resolved to users %d and %d", first.ID, second.ID)
	}
}

func TestResolveIdentityNameFallsBackToEmail(t *testing.T) {
	users := newFakeUserStore()
	svc := NewIdentityService(users)

	user, err := svc.ResolveIdentity(context.Background(), googleIdentity("g-4", "kim@example.com", "  "))
	if err != nil {
		t.Fatalf("ResolveIdentity() error = %v", err)
	}
	if user.Name != "kim" {
		t.Fatalf("name = %q, want local part of email", user.Name)
	}
}

func TestResolveIdentityEmailWithoutAtSign(t *testing.T) {
	users := newFakeUserStore()
	svc := NewIdentityService(users)

	// Some providers return an unverified free-text email field.
	user, err := svc.ResolveIdentity(context.Background(), &model.ExternalIdentity{
		Provider:   model.ProviderKakao,
		ProviderID: "777",
		Email:      "not-an-email",
	})
	if err != nil {
		t.Fatalf("ResolveIdentity() error = %v", err)
	}
	if user.Email != "not-an-email" {
		t.Fatalf("email = %q, want stored as-is", user.Email)
	}
	if user.Name != "not-an-email" {
		t.Fatalf("name = %q, want full email when no local part exists", user.Name)
	}
}
