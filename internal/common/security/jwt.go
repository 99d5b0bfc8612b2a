package security

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

// JWT wraps token issuance and verification. Constructed once at process
// start and passed by reference; there is no package-level token state.
type JWT struct {
	auth *jwtauth.JWTAuth
	exp  time.Duration
}

func NewJWT(secret []byte, exp time.Duration) *JWT {
	return &JWT{auth: jwtauth.New("HS256", secret, nil), exp: exp}
}

// Auth exposes the underlying jwtauth instance for the router's Verifier
// middleware, which extracts the token from "Authorization: Bearer T".
func (j *JWT) Auth() *jwtauth.JWTAuth {
	return j.auth
}

func (j *JWT) GenerateToken(userID, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     now.Add(j.exp).Unix(),
		"iat":     now.Unix(),
	}
	_, tokenString, err := j.auth.Encode(claims)
	return tokenString, err
}

// Helper functions to extract claims, used by middleware.
func GetUserIDFromClaims(claims map[string]interface{}) (string, error) {
	id, ok := claims["user_id"].(string)
	if !ok {
		return "", errors.New("user_id claim is missing or not a string")
	}
	return id, nil
}

func GetUserRoleFromClaims(claims map[string]interface{}) (string, error) {
	role, ok := claims["role"].(string)
	if !ok {
		return "", errors.New("role claim is missing or not a string")
	}
	return role, nil
}
