package api

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rpupo63/realestate-site/errs"
	"github.com/rpupo63/realestate-site/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminGuard_RedirectsWithoutCookie(t *testing.T) {
	env := newTestEnv(t, nil)

	paths := []string{
		"/admin",
		"/admin/",
		"/admin/projects",
		"/admin/news/edit",
		"/admin/inquiries?page=2&sort=desc",
		"/admin/login/extra",
		"/admin/settings/",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			rec := env.get(path)
			require.Equal(t, http.StatusFound, rec.Code)

			loc, err := url.Parse(rec.Header().Get("Location"))
			require.NoError(t, err)
			assert.Equal(t, "/admin/login", loc.Path)
			assert.Equal(t, path, loc.Query().Get("redirect"))
		})
	}
}

func TestAdminGuard_PublicPages(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, path := range []string{"/admin/login", "/admin/forgot-password", "/admin/login?redirect=%2Fadmin%2Fnews"} {
		rec := env.get(path)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestAdminGuard_ForgedCookieIsRejected(t *testing.T) {
	env := newTestEnv(t, nil)

	req := httptestGet("/admin/projects")
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "forged"})
	rec := env.do(req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/admin/login?redirect=")
}

func TestAdminLoginFlow(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(postForm("/admin/login", url.Values{"email": {"lan@example.com"}, "password": {"wrong"}}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid e-mail or password.")

	rec = env.do(postForm("/admin/login", url.Values{"email": {"lan@example.com"}, "password": {"secret"}, "redirect": {"https://evil.example"}}))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))

	cookie := env.login(t)
	req := httptestGet("/admin")
	req.AddCookie(cookie)
	rec = env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Signed in as <strong>Lan</strong>")
	assert.Contains(t, body, "Recent inquiries")

	req = httptestGet("/admin/unknown")
	req.AddCookie(cookie)
	assert.Equal(t, http.StatusNotFound, env.do(req).Code)

	req = httptestGet("/admin/login")
	req.AddCookie(cookie)
	rec = env.do(req)
	assert.Equal(t, http.StatusFound, rec.Code, "signed-in users skip the form")
}

func TestAdminLogin_ExpiredAccessToken(t *testing.T) {
	env := newTestEnv(t, nil)
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte("backend-key"))
	require.NoError(t, err)
	env.auth.result.AccessToken = expired

	rec := env.do(postForm("/admin/login", url.Values{"email": {"lan@example.com"}, "password": {"secret"}}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Your session has expired. Please sign in again.")
	for _, c := range rec.Result().Cookies() {
		assert.NotEqual(t, session.CookieName, c.Name)
	}
}

func TestAdminLogin_BackendRejectsPayload(t *testing.T) {
	env := newTestEnv(t, nil)
	env.auth.err = errs.NewUpstreamError(http.MethodPost, http.StatusUnprocessableEntity, "/auth/login", `{"message":"email must be an email"}`)

	rec := env.do(postForm("/admin/login", url.Values{"email": {"lan"}, "password": {"secret"}}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid e-mail or password.")
	assert.NotContains(t, rec.Body.String(), "must be an email")
}

func TestAdminDashboard_BackendRejectsToken(t *testing.T) {
	env := newTestEnv(t, nil)
	cookie := env.login(t)
	env.content.projectsErr = errUnauthorized()

	req := httptestGet("/admin")
	req.AddCookie(cookie)
	rec := env.do(req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/login?redirect=%2Fadmin", rec.Header().Get("Location"))
}

func TestAdminLogout(t *testing.T) {
	env := newTestEnv(t, nil)
	cookie := env.login(t)

	req := postForm("/admin/logout", url.Values{})
	req.AddCookie(cookie)
	rec := env.do(req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			assert.Less(t, c.MaxAge, 0)
		}
	}
}

func TestAdminForgotPassword(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(postForm("/admin/forgot-password", url.Values{"email": {"lan@example.com"}}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "a reset link is on its way")
	assert.Equal(t, []string{"lan@example.com"}, env.auth.forgotten)

	rec = env.do(postForm("/admin/forgot-password", url.Values{}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSafeRedirect(t *testing.T) {
	tests := map[string]string{
		"":                     "/admin",
		"/admin/news?page=2":   "/admin/news?page=2",
		"//evil.example/admin": "/admin",
		"https://evil.example": "/admin",
		"/contact":             "/admin",
		"/admin/login":         "/admin",
		"/admin\\evil":         "/admin",
	}
	for in, want := range tests {
		assert.Equal(t, want, safeRedirect(in), in)
	}
}
