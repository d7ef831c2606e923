package port

import "context"

type CartLocker interface {
	// Lock takes the commit lock of every owner, in sorted order, and returns a release func
	Lock(ctx context.Context, usernames ...string) (func(), error)
}
