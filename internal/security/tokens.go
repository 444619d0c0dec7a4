package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/legolas182/NatureGlow/internal/entity"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenIssuer signs and verifies HS256 user tokens.
type TokenIssuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

func NewTokenIssuer(secret, issuer, audience string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), issuer: issuer, audience: audience, ttl: ttl}
}

func (t *TokenIssuer) Issue(u *entity.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":  t.issuer,
		"aud":  t.audience,
		"sub":  u.ID,
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"exp":  now.Add(t.ttl).Unix(),
		"role": string(u.Role),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse returns the caller identity carried by a signed token.
func (t *TokenIssuer) Parse(raw string) (entity.Caller, error) {
	token, err := jwt.Parse(raw, func(tk *jwt.Token) (any, error) {
		if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithLeeway(30*time.Second)) // small clock skew
	if err != nil || !token.Valid {
		return entity.Caller{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return entity.Caller{}, ErrInvalidToken
	}
	if claims["iss"] != t.issuer || claims["aud"] != t.audience {
		return entity.Caller{}, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" {
		return entity.Caller{}, ErrInvalidToken
	}
	return entity.Caller{ID: sub, Role: entity.Role(role)}, nil
}
