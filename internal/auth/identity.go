package auth

// Identity represents a normalized external authentication identity
// returned by an SSO provider. It contains facts only, no decisions;
// mapping an identity to a directory user happens elsewhere.
type Identity struct {
	Provider       string // provider registry name, e.g. "sso"
	ProviderUserID string // provider-scoped unique user identifier (sub)
	Email          string // email asserted by the provider
	EmailVerified  bool   // whether the provider asserts email ownership
}
