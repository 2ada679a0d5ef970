package managers

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"work-planner/internal/schemas"
	"work-planner/internal/utils"
)

const (
	sessionTokenLifetime      = 7 * 24 * time.Hour
	verificationTokenLifetime = 24 * time.Hour
)

// JWTMgr issues and verifies the stateless tokens used for session
// authentication and email verification. Given a fixed secret it is fully
// deterministic; there is no server-side session state.
type JWTMgr interface {
	GenerateSessionToken(userId string) (string, error)
	GenerateVerificationToken() (string, error)
	ValidateToken(tokenString string) (jwt.Claims, error)
	AuthMiddleware() gin.HandlerFunc
}

// JWTManager handles JWT generation, signing, and validation with an HMAC
// secret injected from configuration.
type JWTManager struct {
	secret []byte
}

// NewJWTManager creates a new JWTManager signing with the given secret.
func NewJWTManager(secret string) JWTMgr {
	return &JWTManager{secret: []byte(secret)}
}

// GenerateSessionToken generates a session JWT for the given user, valid for seven days.
func (jm *JWTManager) GenerateSessionToken(userId string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": "work-planner",
		"sub": userId,
		"iat": now.Unix(),
		"exp": now.Add(sessionTokenLifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jm.secret)
}

// GenerateVerificationToken generates an email verification JWT carrying a
// random nonce, valid for 24 hours. The value stored on the user record, not
// the token itself, is authoritative for redemption.
func (jm *JWTManager) GenerateVerificationToken() (string, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   "work-planner",
		"nonce": hex.EncodeToString(nonce),
		"iat":   now.Unix(),
		"exp":   now.Add(verificationTokenLifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jm.secret)
}

// ValidateToken validates the given JWT and returns the claims if valid.
// Malformed, expired and mis-signed tokens all produce the same opaque
// failure; callers must treat any error as "unauthenticated".
func (jm *JWTManager) ValidateToken(tokenString string) (jwt.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("invalid signing method")
		}
		return jm.secret, nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}

	return token.Claims, nil
}

// AuthMiddleware rejects requests without a valid Bearer session token and
// stores the claims in the request context for the handlers.
func (jm *JWTManager) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, &schemas.ErrorDTO{Error: *schemas.Unauthorized})
			return
		}

		claims, err := jm.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, &schemas.ErrorDTO{Error: *schemas.Unauthorized})
			return
		}

		c.Set(utils.ClaimsKey.String(), claims)
		c.Next()
	}
}
