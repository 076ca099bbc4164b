package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/olebek/contacts-be/internal/api/respond"
	"github.com/olebek/contacts-be/internal/models"
	"github.com/olebek/contacts-be/internal/services"
)

// TokenTTL is how long an issued session token stays valid.
const TokenTTL = 24 * time.Hour

// Claims defines the JWT claims structure.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

type contextKey string

// currentUserKey is the context key for the authenticated user.
const currentUserKey = contextKey("currentUser")

// TokenManager signs and verifies session tokens.
type TokenManager struct {
	secret []byte
}

// NewTokenManager creates a TokenManager with the given signing secret.
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// Generate creates a new signed session token for a user ID.
func (m *TokenManager) Generate(userID string) (string, error) {
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses and validates a token string.
func (m *TokenManager) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Authenticator guards routes behind a bearer token. Beyond signature
// and expiry it checks the presented token against the one stored on
// the user record, so tokens die on logout.
type Authenticator struct {
	tokens *TokenManager
	users  services.UserServiceProvider
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(tokens *TokenManager, users services.UserServiceProvider) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

// Middleware returns the route middleware enforcing authentication.
func (a *Authenticator) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := bearerToken(r)
			if !ok {
				respond.Error(w, http.StatusUnauthorized, "Not authorized")
				return
			}

			claims, err := a.tokens.Verify(tokenStr)
			if err != nil {
				respond.Error(w, http.StatusUnauthorized, "Not authorized")
				return
			}

			user, err := a.users.GetUserByID(claims.UserID)
			if err != nil || user.Token != tokenStr {
				respond.Error(w, http.StatusUnauthorized, "Not authorized")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// bearerToken extracts the token from an Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

// WithUser attaches the authenticated user to a context.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, currentUserKey, user)
}

// CurrentUser returns the authenticated user attached by Middleware.
func CurrentUser(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(currentUserKey).(models.User)
	return user, ok
}
