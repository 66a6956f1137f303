package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rpupo63/realestate-site/errs"
	"github.com/rpupo63/realestate-site/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestListProjects_Envelope(t *testing.T) {
	server := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects", r.URL.Path)
		assert.Equal(t, "Bearer service-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"id":"1","slug":"river-park","name":"River Park","status":"selling"}],"message":"ok"}`))
	})

	client := New(server.URL, WithServiceToken("service-token"))
	projects, err := client.ListProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "river-park", projects[0].Slug)
}

func TestListNews_BarePayload(t *testing.T) {
	server := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"), "no token configured")
		w.Write([]byte(`[{"id":"n1","slug":"launch","title":"Launch","publishedAt":"2026-03-01T00:00:00Z"}]`))
	})

	articles, err := New(server.URL).ListNews(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), articles[0].PublishedAt)
}

func TestUserTokenOverridesServiceToken(t *testing.T) {
	server := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":{"id":"u1","name":"Lan","email":"lan@example.com","role":"admin"}}`))
	})

	client := New(server.URL, WithServiceToken("service-token"))
	user, err := client.Me(WithToken(context.Background(), "user-token"))
	require.NoError(t, err)
	assert.Equal(t, "Lan", user.Name)
}

func TestUnauthorizedMapsToSentinel(t *testing.T) {
	server := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := New(server.URL).ListBusinessFields(context.Background())
	require.Error(t, err)
	assert.True(t, errs.IsUnauthorized(err))
}

func TestNotFoundAndServerErrors(t *testing.T) {
	server := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/projects/slug/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("database down"))
		}
	})
	client := New(server.URL)

	_, err := client.GetProject(context.Background(), "missing")
	assert.True(t, errs.IsNotFound(err))

	_, err = client.ListNewsCategories(context.Background())
	assert.True(t, errs.IsUpstream(err))
	assert.Equal(t, http.StatusBadGateway, errs.StatusOf(err))
}

func TestListProjects_NullDataIsEmpty(t *testing.T) {
	server := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": null, "message": "ok"}`))
	})

	projects, err := New(server.URL).ListProjects(context.Background())
	require.NoError(t, err)
	assert.Empty(t, projects)
	assert.True(t, web.NewSection(projects, err).IsEmpty())
}

func TestGetProject_NullDataLeavesZeroValue(t *testing.T) {
	server := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":null}`))
	})

	project, err := New(server.URL).GetProject(context.Background(), "river-park")
	require.NoError(t, err)
	assert.Empty(t, project.Slug)
}

func TestUpstreamErrorKeepsBodyOutOfDetails(t *testing.T) {
	server := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("pq: relation \"projects\" does not exist"))
	})

	_, err := New(server.URL).ListProjects(context.Background())
	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "GET /projects returned 500", apiErr.Details)
	assert.NotContains(t, apiErr.Error(), "pq:")
	require.Error(t, apiErr.Cause)
	assert.Contains(t, apiErr.Cause.Error(), "pq:")
}

func TestInvalidJSON(t *testing.T) {
	server := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [`))
	})

	_, err := New(server.URL).ListSamProducts(context.Background())
	assert.ErrorIs(t, err, errs.ErrUpstreamDecode)
}

func TestUnreachable(t *testing.T) {
	client := New("http://127.0.0.1:1", WithTimeout(200*time.Millisecond))

	_, err := client.ListProjects(context.Background())
	assert.ErrorIs(t, err, errs.ErrServiceUnreachable)
}

func TestCancelledContext(t *testing.T) {
	server := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(server.URL).ListProjects(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoginPostsCredentials(t *testing.T) {
	server := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"data":{"accessToken":"jwt","user":{"id":"u1","name":"Lan","role":"admin"}}}`))
	})
	client := New(server.URL)

	result, err := client.Login(context.Background(), "lan@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jwt", result.AccessToken)
	assert.Equal(t, "admin", result.User.Role)

	_, err = client.Login(context.Background(), "lan@example.com", "wrong")
	assert.True(t, errs.IsUnauthorized(err))
}

func TestForgotPasswordIgnoresBody(t *testing.T) {
	server := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/forgot-password", r.URL.Path)
		w.WriteHeader(http.StatusAccepted)
	})

	require.NoError(t, New(server.URL).ForgotPassword(context.Background(), "lan@example.com"))
}
