package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("0123456789abcdef0123")

func TestIssueAndParseToken(t *testing.T) {
	raw, err := IssueToken(secret, 42, "test", time.Hour)
	require.NoError(t, err)

	data, err := ParseToken(secret, raw)
	require.NoError(t, err)
	assert.Equal(t, "42", data.Sub)
	assert.Equal(t, "test", data.Username)

	id, err := data.UserID()
	require.NoError(t, err)
	assert.Equal(t, 42, id)
}

func TestParseToken_Rejects(t *testing.T) {
	expired, err := IssueToken(secret, 1, "test", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(secret, expired)
	assert.Error(t, err)

	valid, err := IssueToken(secret, 1, "test", time.Hour)
	require.NoError(t, err)
	_, err = ParseToken([]byte("another-secret-entirely"), valid)
	assert.Error(t, err)

	_, err = ParseToken(secret, "not.a.token")
	assert.Error(t, err)
}

func TestRequireToken(t *testing.T) {
	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		data, err := ParseTokenDataCtx(c)
		if err != nil {
			return err
		}
		return c.String(http.StatusOK, data.Username)
	}, RequireToken(secret, func(c echo.Context) error {
		return c.NoContent(http.StatusUnauthorized)
	}))

	token, err := IssueToken(secret, 7, "admin", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + token, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage", "Bearer garbage", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestSanitize(t *testing.T) {
	type form struct {
		Name   string
		Tags   []string
		Count  *int
		hidden string
	}
	f := form{Name: "  Anika ", Tags: []string{" a", "b "}, hidden: " x "}

	Sanitize(&f)

	assert.Equal(t, "Anika", f.Name)
	assert.Equal(t, []string{"a", "b"}, f.Tags)
	assert.Equal(t, " x ", f.hidden)
}
