package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	ctxUserID      contextKey = "user_id"
	ctxUserEmail   contextKey = "user_email"
	ctxAccessID    contextKey = "access_id"
	ctxAccountType contextKey = "account_type"
)

func UserIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxUserID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

func UserEmailFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserEmail).(string); ok {
		return v
	}
	return ""
}

// AccessIDFromContext returns the jti of the bearer token, which keys the
// redis session.
func AccessIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccessID).(string); ok {
		return v
	}
	return ""
}

func AccountTypeFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccountType).(string); ok {
		return v
	}
	return ""
}

// WithUser injects the authenticated customer into the context.
func WithUser(ctx context.Context, userID uuid.UUID, email, accountType, accessID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, userID)
	ctx = context.WithValue(ctx, ctxUserEmail, email)
	ctx = context.WithValue(ctx, ctxAccountType, accountType)
	return context.WithValue(ctx, ctxAccessID, accessID)
}
