package identity

import "context"

// Verifier checks a bearer credential against the identity provider and
// returns the verified account email.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}
