package ports

// CredentialResolver yields the API key for the remote model, if any.
type CredentialResolver interface {
	// Resolve returns the first usable key and true, or "" and false.
	Resolve() (string, bool)
}
