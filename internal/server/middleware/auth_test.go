package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeValidator struct {
	orgID uuid.UUID
	err   error
}

type fakeClaims struct {
	orgID uuid.UUID
}

func (c *fakeClaims) GetOrgID() uuid.UUID { return c.orgID }

func (v *fakeValidator) ValidateToken(_ string) (OrgIDGetter, error) {
	if v.err != nil {
		return nil, v.err
	}
	return &fakeClaims{orgID: v.orgID}, nil
}

func protected(t *testing.T, validator TokenValidator) (http.Handler, *uuid.UUID) {
	t.Helper()
	var captured uuid.UUID
	handler := AuthMiddleware(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		orgID, err := GetOrgID(r)
		require.NoError(t, err)
		captured = orgID
		w.WriteHeader(http.StatusOK)
	}))
	return handler, &captured
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	orgID := uuid.New()
	handler, captured := protected(t, &fakeValidator{orgID: orgID})

	req := httptest.NewRequest("GET", "/crawl-jobs/x", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, orgID, *captured)
}

func TestAuthMiddleware_CaseInsensitiveBearer(t *testing.T) {
	handler, _ := protected(t, &fakeValidator{orgID: uuid.New()})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"no bearer prefix", "Token abc"},
		{"bearer without token", "Bearer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := protected(t, &fakeValidator{orgID: uuid.New()})
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	handler, _ := protected(t, &fakeValidator{err: fmt.Errorf("bad token")})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetOrgID_MissingFromContext(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	_, err := GetOrgID(req)
	require.Error(t, err)
}
