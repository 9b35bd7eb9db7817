package model

// ExternalIdentity is a verified provider identity: the provider tag plus
// the provider-scoped user id, with whatever profile data the provider
// exposed. One reconciliation path consumes every provider kind.
type ExternalIdentity struct {
	Provider   Provider
	ProviderID string
	Email      string
	Name       string
}
