package domain

// Credential is a tagged inbound credential. The two concrete shapes replace
// any string comparison against a shared secret in downstream logic: the
// boundary resolves a credential exactly once into a RequestorIdentity and
// everything after that is type-checked.
type Credential interface {
	isCredential()
}

// UserCredential is an end-user session token (JWT).
type UserCredential struct {
	Token string
}

func (UserCredential) isCredential() {}

// ServiceCredential is a trusted internal caller presenting the shared
// service key together with the user it acts for.
type ServiceCredential struct {
	Token        string
	ActingAsUser string
}

func (ServiceCredential) isCredential() {}

// RequestorIdentity is the single identity value consumed by all handlers.
type RequestorIdentity struct {
	UserID string
	// Service is true when the request came from an internal caller rather
	// than an end-user session.
	Service bool
}
