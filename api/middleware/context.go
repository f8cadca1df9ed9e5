package middleware

import "context"

type contextKey string

const (
	ctxPrincipalID  contextKey = "principal_id"
	ctxRole         contextKey = "actor_role"
	ctxStorefrontID contextKey = "storefront_id"
)

func PrincipalIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxPrincipalID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

func StorefrontIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxStorefrontID).(string); ok {
		return v
	}
	return ""
}

// WithPrincipalID injects the principal identifier into the context.
func WithPrincipalID(ctx context.Context, principalID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxPrincipalID, principalID)
}

// WithRole injects the actor role into the context.
func WithRole(ctx context.Context, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRole, role)
}

// WithStorefrontID injects the storefront identifier into the context for
// downstream handlers.
func WithStorefrontID(ctx context.Context, storefrontID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxStorefrontID, storefrontID)
}
