package auth

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/polkiloo/vinylstore/internal/domain/model"
)

var ErrInvalidToken = errors.New("invalid session token")

// JWTStrategy verifies HS256 session tokens carrying user id, role and name.
// Roles are only reflected; the marketplace API enforces them.
type JWTStrategy struct {
	secret []byte
	now    func() time.Time
}

type sessionClaims struct {
	Role string `json:"role"`
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// NewJWTStrategy builds JWTStrategy verifying tokens signed with secret.
func NewJWTStrategy(secret string) *JWTStrategy {
	return &JWTStrategy{secret: []byte(secret), now: time.Now}
}

// ParseToken validates token and returns the session it describes.
func (s *JWTStrategy) ParseToken(token string) (model.Session, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return model.Session{}, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return model.Session{}, ErrInvalidToken
	}

	role := model.Role(strings.ToUpper(claims.Role))
	if !role.Valid() {
		return model.Session{}, ErrInvalidToken
	}

	return model.Session{UserID: userID, Role: role, Name: claims.Name, Token: token}, nil
}
