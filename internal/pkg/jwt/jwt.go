package jwt

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "carbon-registry"

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// Claims represents the JWT claims of a registry user
type Claims struct {
	UserID      string `json:"userId"`
	Role        string `json:"role"`
	CompanyID   int64  `json:"companyId"`
	CompanyRole string `json:"companyRole"`
	Country     string `json:"country,omitempty"`
	jwt.RegisteredClaims
}

// Identity is the subject an access token is issued for
type Identity struct {
	UserID      string
	Role        string
	CompanyID   int64
	CompanyRole string
	Country     string
}

// GenerateAccessToken generates a new access token
func GenerateAccessToken(id Identity, secret string, expiryMinutes int) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:      id.UserID,
		Role:        id.Role,
		CompanyID:   id.CompanyID,
		CompanyRole: id.CompanyRole,
		Country:     id.Country,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expiryMinutes) * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   id.UserID,
			Audience:  jwt.ClaimStrings{strconv.FormatInt(id.CompanyID, 10)},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateAccessToken validates an access token and returns claims
func ValidateAccessToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.UserID != "" {
		return claims, nil
	}

	return nil, ErrTokenInvalid
}
