package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("secreto-de-prueba")

	token, err := GenerateToken(secret, "u1")
	require.NoError(t, err)

	uid, err := ParseToken(secret, token)
	require.NoError(t, err)
	require.Equal(t, "u1", uid)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken([]byte("secreto-a"), "u1")
	require.NoError(t, err)

	_, err = ParseToken([]byte("secreto-b"), token)
	require.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken([]byte("secreto"), "no-es-un-token")
	require.Error(t, err)
}

func TestMiddlewareRequiresBearerToken(t *testing.T) {
	secret := []byte("secreto")
	mw := NewMiddleware(secret)

	var gotUID string
	handler := mw.Wrap(func(w http.ResponseWriter, r *http.Request) {
		gotUID, _ = UserIDFromContext(r.Context())
	})

	// no header
	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/tareas/u1", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// bad token
	req := httptest.NewRequest(http.MethodGet, "/tareas/u1", nil)
	req.Header.Set("Authorization", "Bearer basura")
	w = httptest.NewRecorder()
	handler(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// valid token
	token, err := GenerateToken(secret, "u1")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/tareas/u1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	handler(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "u1", gotUID)
}
