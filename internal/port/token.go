package port

import "context"

type TokenSource interface {
	// Token returns a bearer access token for the configured client and scope
	Token(ctx context.Context) (string, error)
}
