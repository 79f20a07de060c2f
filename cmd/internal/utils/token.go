package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const tokenContextKey = "token_data"

var ErrMissingToken = errors.New("missing bearer token")

type TokenData struct {
	Sub      string
	Username string
}

// UserID returns the numeric user id carried in the subject claim.
func (t *TokenData) UserID() (int, error) {
	return strconv.Atoi(t.Sub)
}

type tokenClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func IssueToken(secret []byte, userID int, username string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func ParseToken(secret []byte, raw string) (*TokenData, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	return &TokenData{Sub: claims.Subject, Username: claims.Username}, nil
}

// RequireToken rejects requests without a valid bearer token and stores the
// token data on the context for ParseTokenDataCtx.
func RequireToken(secret []byte, onFailure func(echo.Context) error) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				return onFailure(c)
			}
			data, err := ParseToken(secret, strings.TrimSpace(raw))
			if err != nil {
				return onFailure(c)
			}
			c.Set(tokenContextKey, data)
			return next(c)
		}
	}
}

func ParseTokenDataCtx(c echo.Context) (*TokenData, error) {
	data, ok := c.Get(tokenContextKey).(*TokenData)
	if !ok || data == nil {
		return nil, ErrMissingToken
	}
	return data, nil
}
