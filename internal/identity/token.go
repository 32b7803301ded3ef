// formajoy-api/internal/identity/token.go
package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/baxirbajja/Formajoy-api/config"
	"github.com/baxirbajja/Formajoy-api/internal/apperr"
)

// Claims is what a verified credential asserts: one role and one id. Only
// the collection named by Role is ever consulted for this identity.
type Claims struct {
	UserID uint
	Role   string
}

// IssueToken signs an HS256 token for the given role and id.
func IssueToken(role string, id uint) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": id,
		"role":    role,
		"exp":     time.Now().Add(config.JwtExpire).Unix(),
	})
	signed, err := token.SignedString(config.JwtKey)
	if err != nil {
		return "", apperr.Wrap(apperr.Internal, "échec de la signature du token", err)
	}
	return signed, nil
}

// VerifyToken parses and validates a bearer token. Every failure mode maps
// to Unauthenticated; the caller has no valid credential.
func VerifyToken(tokenStr string) (Claims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return config.JwtKey, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, apperr.Wrap(apperr.Unauthenticated, "token invalide ou expiré", err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, apperr.New(apperr.Unauthenticated, "claims du token invalides")
	}
	idFloat, ok := mapClaims["user_id"].(float64)
	if !ok {
		return Claims{}, apperr.New(apperr.Unauthenticated, "identifiant du token invalide")
	}
	role, ok := mapClaims["role"].(string)
	if !ok {
		return Claims{}, apperr.New(apperr.Unauthenticated, "rôle du token invalide")
	}
	return Claims{UserID: uint(idFloat), Role: role}, nil
}
