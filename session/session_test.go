package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rpupo63/realestate-site/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-key"))
	require.NoError(t, err)
	return token
}

func responseCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", CookieName)
	return nil
}

func TestSaveAndLoad(t *testing.T) {
	store := NewStore("test-secret", false)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	token := signedToken(t, jwt.MapClaims{"sub": "u1", "exp": now.Add(2 * time.Hour).Unix()})
	rec := httptest.NewRecorder()
	err := store.Save(rec, httptest.NewRequest(http.MethodPost, "/admin/login", nil), models.LoginResult{
		AccessToken: token,
		User:        models.User{ID: "u1", Name: "Lan", Email: "lan@example.com", Role: "admin"},
	})
	require.NoError(t, err)

	cookie := responseCookie(t, rec)
	assert.Equal(t, 7200, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(cookie)
	assert.True(t, HasCookie(req))

	state, err := store.Load(req)
	require.NoError(t, err)
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, "Lan", state.User.Name)
	assert.Equal(t, token, state.Token)
}

func TestSave_ExpiredToken(t *testing.T) {
	store := NewStore("test-secret", false)
	token := signedToken(t, jwt.MapClaims{"exp": time.Now().Add(-time.Minute).Unix()})

	err := store.Save(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil), models.LoginResult{AccessToken: token})
	require.Error(t, err)
}

func TestSave_OpaqueTokenUsesDefault(t *testing.T) {
	store := NewStore("test-secret", false)
	rec := httptest.NewRecorder()

	err := store.Save(rec, httptest.NewRequest(http.MethodPost, "/", nil), models.LoginResult{AccessToken: "opaque"})
	require.NoError(t, err)
	assert.Equal(t, int(DefaultMaxAge.Seconds()), responseCookie(t, rec).MaxAge)
}

func TestLoad_MissingAndTampered(t *testing.T) {
	store := NewStore("test-secret", false)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	assert.False(t, HasCookie(req))
	_, err := store.Load(req)
	assert.True(t, IsMissing(err))

	forged := httptest.NewRequest(http.MethodGet, "/admin", nil)
	forged.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-signed-value"})
	assert.True(t, HasCookie(forged), "presence check does not verify")
	_, err = store.Load(forged)
	assert.True(t, IsMissing(err))
}

func TestLoad_OtherSecretRejected(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, NewStore("one", false).Save(rec, httptest.NewRequest(http.MethodPost, "/", nil), models.LoginResult{AccessToken: "opaque"}))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(responseCookie(t, rec))
	_, err := NewStore("two", false).Load(req)
	assert.True(t, IsMissing(err))
}

func TestClear(t *testing.T) {
	store := NewStore("test-secret", false)
	rec := httptest.NewRecorder()

	require.NoError(t, store.Clear(rec, httptest.NewRequest(http.MethodPost, "/admin/logout", nil)))
	assert.Less(t, responseCookie(t, rec).MaxAge, 0)
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	got, ok := TokenExpiry(signedToken(t, jwt.MapClaims{"exp": exp.Unix()}))
	require.True(t, ok)
	assert.True(t, exp.Equal(got))

	_, ok = TokenExpiry(signedToken(t, jwt.MapClaims{"sub": "u1"}))
	assert.False(t, ok)
	_, ok = TokenExpiry("")
	assert.False(t, ok)
}
