// Package session keeps the admin login in a signed cookie: the user, the authenticated
// flag and the backend access token.
package session

import (
	"crypto/sha256"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/sessions"
	"github.com/rpupo63/realestate-site/errs"
	"github.com/rpupo63/realestate-site/models"
)

// CookieName is the cookie the admin guard looks for.
const CookieName = "estate_session"

// DefaultMaxAge applies when the access token carries no exp claim.
const DefaultMaxAge = 8 * time.Hour

const (
	keyUserID        = "user_id"
	keyUserName      = "user_name"
	keyUserEmail     = "user_email"
	keyUserRole      = "user_role"
	keyAuthenticated = "authenticated"
	keyToken         = "token"
)

type State struct {
	User            models.User
	IsAuthenticated bool
	Token           string
}

type Store struct {
	cookies *sessions.CookieStore
	now     func() time.Time
}

// NewStore signs cookies with a key derived from secret, so any passphrase works.
func NewStore(secret string, secure bool) *Store {
	key := sha256.Sum256([]byte(secret))

	cookies := sessions.NewCookieStore(key[:])
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(DefaultMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{cookies: cookies, now: time.Now}
}

// HasCookie reports whether the request carries the session cookie at all. It does not
// validate the signature.
func HasCookie(r *http.Request) bool {
	c, err := r.Cookie(CookieName)
	return err == nil && c.Value != ""
}

// Load returns the session state. A missing or tampered cookie yields
// errs.ErrMissingSession.
func (s *Store) Load(r *http.Request) (State, error) {
	sess, err := s.cookies.Get(r, CookieName)
	if err != nil || sess.IsNew {
		return State{}, errs.NewMissingSessionError()
	}

	state := State{
		User: models.User{
			ID:    stringValue(sess.Values[keyUserID]),
			Name:  stringValue(sess.Values[keyUserName]),
			Email: stringValue(sess.Values[keyUserEmail]),
			Role:  stringValue(sess.Values[keyUserRole]),
		},
		Token: stringValue(sess.Values[keyToken]),
	}
	state.IsAuthenticated, _ = sess.Values[keyAuthenticated].(bool)
	if !state.IsAuthenticated {
		return State{}, errs.NewMissingSessionError()
	}
	return state, nil
}

// Save stores the login result. The cookie lives as long as the access token.
func (s *Store) Save(w http.ResponseWriter, r *http.Request, login models.LoginResult) error {
	maxAge := DefaultMaxAge
	if exp, ok := TokenExpiry(login.AccessToken); ok {
		maxAge = exp.Sub(s.now())
		if maxAge <= 0 {
			return errs.NewExpiredTokenError()
		}
	}

	sess, _ := s.cookies.Get(r, CookieName)
	sess.Values[keyUserID] = login.User.ID
	sess.Values[keyUserName] = login.User.Name
	sess.Values[keyUserEmail] = login.User.Email
	sess.Values[keyUserRole] = login.User.Role
	sess.Values[keyAuthenticated] = true
	sess.Values[keyToken] = login.AccessToken
	sess.Options.MaxAge = int(maxAge.Seconds())

	return sess.Save(r, w)
}

// Clear expires the cookie.
func (s *Store) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := s.cookies.Get(r, CookieName)
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// TokenExpiry reads the exp claim without verifying the signature. The backend owns
// verification; the site only needs the lifetime.
func TokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

// IsMissing reports whether err means there is no usable session.
func IsMissing(err error) bool {
	return errors.Is(err, errs.ErrMissingSession)
}
