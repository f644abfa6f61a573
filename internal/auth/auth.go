// Package auth verifies the JWT bearer tokens issued by the external
// authentication service and scopes every request to the calling user.
package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ContextUserID is the gin context key the middleware stores the
// authenticated user's ID under.
const ContextUserID = "userID"

var (
	ErrNoToken      = errors.New("authentication required: no bearer token provided")
	ErrInvalidToken = errors.New("authentication failed: the token is invalid or expired")
)

// Claims are the JWT claims this service cares about. The subject is
// the user ID.
type Claims struct {
	jwt.RegisteredClaims
}

// Middleware validates the Authorization header and stores the caller's
// user ID in the context. Requests without a valid token are rejected
// before any other logic runs.
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrNoToken.Error()})
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")

		userID, err := Verify(tokenString, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrInvalidToken.Error()})
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// Verify parses and validates a token and returns the user ID from its
// subject claim.
func Verify(tokenString, secret string) (uuid.UUID, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	return userID, nil
}

// UserID returns the authenticated user's ID from the gin context.
func UserID(c *gin.Context) uuid.UUID {
	id, _ := c.Get(ContextUserID)

	userID, ok := id.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}

	return userID
}

// Token issues a signed token for a user. Used by tests; production
// tokens come from the auth collaborator.
func Token(userID uuid.UUID, secret string) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
