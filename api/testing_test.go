package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/realestate-site/catalog"
	"github.com/rpupo63/realestate-site/errs"
	"github.com/rpupo63/realestate-site/geo"
	"github.com/rpupo63/realestate-site/models"
	"github.com/rpupo63/realestate-site/seo"
	"github.com/rpupo63/realestate-site/session"
	"github.com/rpupo63/realestate-site/web"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeContent struct {
	projects    []models.Project
	news        []models.NewsArticle
	categories  []models.NewsCategory
	fields      []models.BusinessField
	projectsErr error
	newsErr     error
	fieldsErr   error
}

func (f *fakeContent) ListProjects(ctx context.Context) ([]models.Project, error) {
	return f.projects, f.projectsErr
}

func (f *fakeContent) GetProject(ctx context.Context, slug string) (models.Project, error) {
	for _, p := range f.projects {
		if p.Slug == slug {
			return p, nil
		}
	}
	return models.Project{}, errs.NewNotFoundError("project " + slug)
}

func (f *fakeContent) ListNews(ctx context.Context) ([]models.NewsArticle, error) {
	return f.news, f.newsErr
}

func (f *fakeContent) GetNews(ctx context.Context, slug string) (models.NewsArticle, error) {
	if f.newsErr != nil {
		return models.NewsArticle{}, f.newsErr
	}
	for _, a := range f.news {
		if a.Slug == slug {
			return a, nil
		}
	}
	return models.NewsArticle{}, errs.NewNotFoundError("news " + slug)
}

func (f *fakeContent) ListNewsCategories(ctx context.Context) ([]models.NewsCategory, error) {
	return f.categories, nil
}

func (f *fakeContent) ListBusinessFields(ctx context.Context) ([]models.BusinessField, error) {
	return f.fields, f.fieldsErr
}

type fakeAuth struct {
	result    models.LoginResult
	err       error
	forgotten []string
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (models.LoginResult, error) {
	if f.err != nil {
		return models.LoginResult{}, f.err
	}
	if password != "secret" {
		return models.LoginResult{}, errs.NewUnauthorizedError("bad credentials")
	}
	return f.result, nil
}

func (f *fakeAuth) ForgotPassword(ctx context.Context, email string) error {
	f.forgotten = append(f.forgotten, email)
	return nil
}

type fakeGeocoder struct {
	point geo.Point
	err   error
}

func (f fakeGeocoder) Lookup(ctx context.Context, address string) (geo.Point, error) {
	return f.point, f.err
}

type fakeStore struct {
	mu    sync.Mutex
	added []models.ContactInquiry
	err   error
}

func (f *fakeStore) Add(ctx context.Context, inquiry *models.ContactInquiry) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	inquiry.ID = uuid.New()
	inquiry.CreatedAt = time.Now()
	f.added = append(f.added, *inquiry)
	return nil
}

func (f *fakeStore) FindRecent(ctx context.Context, limit int) ([]*models.ContactInquiry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.ContactInquiry, 0, len(f.added))
	for i := range f.added {
		out = append(out, &f.added[i])
	}
	return out, nil
}

func (f *fakeStore) CountSince(ctx context.Context, since time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.added)), nil
}

type fakeNotifier struct {
	sent chan models.ContactInquiry
	err  error
}

func (f *fakeNotifier) NotifyInquiry(ctx context.Context, inquiry models.ContactInquiry) error {
	f.sent <- inquiry
	return f.err
}

var testSite = seo.Site{Name: web.SiteName, URL: "https://estate.example"}

func testContent() *fakeContent {
	published := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	market := models.NewsCategory{ID: "market", Name: "Market", Color: "#0f5c4d"}
	return &fakeContent{
		projects: []models.Project{
			{ID: "p1", Slug: "river-park", Name: "River Park", Status: models.ProjectStatusSelling, IsFeatured: true,
				Address: models.Address{Street: "12 Nguyen Hue", District: "District 1", City: "Ho Chi Minh City"}},
			{ID: "p2", Slug: "lake-view", Name: "Lake View", Status: models.ProjectStatusUpcoming,
				Address: models.Address{City: "Ha Noi"}},
		},
		news: []models.NewsArticle{
			{ID: "n1", Slug: "q1-market", Title: "Q1 market report", Category: market, PublishedAt: published},
			{ID: "n2", Slug: "handover", Title: "River Park handover", Category: market, PublishedAt: published.AddDate(0, 1, 0)},
		},
		categories: []models.NewsCategory{market},
		fields:     []models.BusinessField{{ID: "f1", Name: "Property development"}},
	}
}

type testEnv struct {
	router   http.Handler
	deps     Dependencies
	content  *fakeContent
	auth     *fakeAuth
	store    *fakeStore
	notifier *fakeNotifier
}

func newTestEnv(t *testing.T, cfg map[string]string, mutate ...func(*Dependencies)) *testEnv {
	t.Helper()

	renderer, err := web.NewRenderer(web.Options{SiteURL: testSite.URL, Development: true})
	require.NoError(t, err)
	sam, err := catalog.NewMockSamSource()
	require.NoError(t, err)

	env := &testEnv{
		content:  testContent(),
		auth:     &fakeAuth{result: models.LoginResult{AccessToken: "opaque-token", User: models.User{ID: "u1", Name: "Lan", Role: "admin"}}},
		store:    &fakeStore{},
		notifier: &fakeNotifier{sent: make(chan models.ContactInquiry, 10)},
	}
	env.deps = Dependencies{
		Content:   env.content,
		Auth:      env.auth,
		Sam:       sam,
		Inquiries: env.store,
		Notifier:  env.notifier,
		Renderer:  renderer,
		Sessions:  session.NewStore("test-secret", false),
		Site:      testSite,
	}
	for _, m := range mutate {
		m(&env.deps)
	}
	if cfg == nil {
		cfg = map[string]string{}
	}
	env.router = newRouter(env.deps, withConfig(cfg), withStartupTime(time.Now()))
	return env
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) get(target string) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// login signs in through the form and returns the session cookie.
func (e *testEnv) login(t *testing.T) *http.Cookie {
	t.Helper()
	rec := e.do(postForm("/admin/login", url.Values{"email": {"lan@example.com"}, "password": {"secret"}}))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("login did not set the session cookie")
	return nil
}

var errBoom = errors.New("backend exploded")

func httptestGet(target string) *http.Request {
	return httptest.NewRequest(http.MethodGet, target, nil)
}

func errUnauthorized() error {
	return errs.NewUnauthorizedError("token expired")
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}
