package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/teeraphan/wongshare/internal/auth"
	"github.com/teeraphan/wongshare/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey is the context key for the authenticated user ID.
	UserIDKey contextKey = "user_id"
	// EmailKey is the context key for the authenticated user's email.
	EmailKey contextKey = "email"
	// RoleKey is the context key for the authenticated user's role.
	RoleKey contextKey = "role"
)

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// GetEmail extracts the user email from the context.
// Returns empty string if not found.
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// GetRole extracts the user role from the context.
// Returns empty role if not found.
func GetRole(ctx context.Context) models.Role {
	role, _ := ctx.Value(RoleKey).(models.Role)
	return role
}

func withClaims(ctx context.Context, claims *auth.Claims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, EmailKey, claims.Email)
	ctx = context.WithValue(ctx, RoleKey, claims.Role)
	return ctx
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// AuthenticateHeader validates the Authorization header and returns a context
// carrying the claims. Streaming handlers use this directly, since unary
// interceptors do not wrap streams.
func AuthenticateHeader(ctx context.Context, jwtManager *auth.JWTManager, authHeader string) (context.Context, error) {
	if authHeader == "" {
		return ctx, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	tokenString, ok := bearerToken(authHeader)
	if !ok {
		return ctx, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
	}
	claims, err := jwtManager.Validate(tokenString)
	if err != nil {
		return ctx, connect.NewError(connect.CodeUnauthenticated, err)
	}
	return withClaims(ctx, claims), nil
}

// RequireAuth returns a middleware that validates JWT tokens and requires
// authentication. It extracts the token from the Authorization header,
// validates it, and adds the user ID, email, and role to the request context.
func RequireAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}

			tokenString, ok := bearerToken(authHeader)
			if !ok {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			claims, err := jwtManager.Validate(tokenString)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(withClaims(ctx, claims), req)
		}
	}
}

// OptionalAuth returns a middleware that validates JWT tokens if present, but
// allows requests without authentication. Useful for endpoints that behave
// differently for authenticated vs unauthenticated users.
func OptionalAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if authHeader := req.Header().Get("Authorization"); authHeader != "" {
				if tokenString, ok := bearerToken(authHeader); ok {
					if claims, err := jwtManager.Validate(tokenString); err == nil {
						ctx = withClaims(ctx, claims)
					}
				}
			}
			return next(ctx, req)
		}
	}
}
