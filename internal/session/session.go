// Package session carries the authenticated user through request contexts.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"pocketledger/internal/util"
)

type ctxKey struct{}

// WithUser returns a context that carries userID as the active session.
func WithUser(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// CurrentUser returns the active user or util.ErrNotAuthenticated.
func CurrentUser(ctx context.Context) (uuid.UUID, error) {
	uid, ok := ctx.Value(ctxKey{}).(uuid.UUID)
	if !ok || uid == uuid.Nil {
		return uuid.Nil, util.ErrNotAuthenticated
	}
	return uid, nil
}

// Authenticator validates HS256 bearer tokens whose subject is the user id.
type Authenticator struct {
	secret []byte
	issuer string
}

// NewAuthenticator creates an Authenticator for the shared secret.
func NewAuthenticator(secret, issuer string) *Authenticator {
	return &Authenticator{secret: []byte(secret), issuer: issuer}
}

// IssueToken signs a token for userID valid for ttl.
func (a *Authenticator) IssueToken(userID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		Issuer:    a.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse validates tokenStr and returns the user id it was issued for.
func (a *Authenticator) Parse(tokenStr string) (uuid.UUID, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return uuid.Nil, fmt.Errorf("%w: %v", util.ErrNotAuthenticated, err)
	}

	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid subject", util.ErrNotAuthenticated)
	}
	return uid, nil
}

// Middleware rejects requests without a valid bearer token and stores the user in the context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeUnauthorized(w, errors.New("missing bearer token"))
			return
		}

		uid, err := a.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeUnauthorized(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), uid)))
	})
}

func writeUnauthorized(w http.ResponseWriter, _ error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Not authenticated"}`))
}
