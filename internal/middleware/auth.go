package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const UserIDKey contextKey = "user_id"

var (
	errBadAuthHeader = errors.New("invalid authorization header format")
	errBadClaims     = errors.New("invalid token claims")
)

// OptionalAuth attaches the caller identity when a bearer token is present.
// Requests without an Authorization header pass through anonymously so
// handlers can answer with a sign-in prompt; a header that does not hold a
// valid token is rejected.
func OptionalAuth(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := parseBearer(authHeader, jwtSecret)
			if err != nil {
				logger.Debug("Token validation failed", zap.Error(err))
				switch {
				case errors.Is(err, jwt.ErrTokenExpired):
					RespondWithError(w, http.StatusUnauthorized, "token expired")
				case errors.Is(err, errBadAuthHeader):
					RespondWithError(w, http.StatusUnauthorized, errBadAuthHeader.Error())
				case errors.Is(err, errBadClaims):
					RespondWithError(w, http.StatusUnauthorized, errBadClaims.Error())
				default:
					RespondWithError(w, http.StatusUnauthorized, "invalid token")
				}
				return
			}

			logger.Debug("User authenticated", zap.String("user_id", userID.String()))
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func parseBearer(authHeader, jwtSecret string) (uuid.UUID, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return uuid.Nil, errBadAuthHeader
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	if !token.Valid {
		return uuid.Nil, jwt.ErrTokenUnverifiable
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errBadClaims
	}
	raw, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, errBadClaims
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errBadClaims
	}
	return userID, nil
}

// WithUserID stores the authenticated caller in ctx
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetUserID extracts the authenticated caller from request context
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}
