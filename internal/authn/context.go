package authn

import "context"

type ctxKey string

const identityKey ctxKey = "identity"

// Identity is the resolved caller for one request. The role is deliberately
// absent: mutating routes load the user's current role from storage instead
// of trusting a value captured at login.
type Identity struct {
	UserID string
	Email  string
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
