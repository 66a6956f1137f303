package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/rpupo63/realestate-site/errs"
	"github.com/rpupo63/realestate-site/models"
	"github.com/rpupo63/realestate-site/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const recentInquiryCount = 10

type adminHandler struct {
	pages     pageResponder
	logger    zerolog.Logger
	auth      AuthService
	content   ContentSource
	inquiries InquiryStore
	sessions  *session.Store
}

func newAdminHandler(deps Dependencies) adminHandler {
	logger := log.With().Str("handlerName", "adminHandler").Logger()

	return adminHandler{
		pages:     newPageResponder(deps.Renderer, deps.Site, logger),
		logger:    logger,
		auth:      deps.Auth,
		content:   deps.Content,
		inquiries: deps.Inquiries,
		sessions:  deps.Sessions,
	}
}

type loginView struct {
	Email    string
	Error    string
	Redirect string
}

type forgotPasswordView struct {
	Email string
	Sent  bool
	Error string
}

type dashboardView struct {
	User              models.User
	ProjectCount      int
	NewsCount         int
	InquiriesEnabled  bool
	InquiriesThisWeek int64
	Inquiries         []*models.ContactInquiry
	Errors            []string
}

// safeRedirect only follows local admin paths, so the login form cannot be used as an
// open redirect.
func safeRedirect(target string) string {
	if !strings.HasPrefix(target, "/admin") || strings.HasPrefix(target, "//") || strings.Contains(target, "\\") {
		return "/admin"
	}
	if strings.HasPrefix(target, "/admin/login") || strings.HasPrefix(target, "/admin/logout") {
		return "/admin"
	}
	return target
}

func (h adminHandler) getLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		redirect := safeRedirect(r.URL.Query().Get("redirect"))
		if _, err := h.sessions.Load(r); err == nil {
			http.Redirect(w, r, redirect, http.StatusFound)
			return
		}
		h.renderLogin(w, r, http.StatusOK, loginView{Redirect: redirect})
	}
}

func (h adminHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, view loginView) {
	h.pages.render(w, r, status, "admin_login", h.pages.page(r, "Sign in", "", view))
}

// postLogin exchanges credentials with the backend and stores the result in the session
func (h adminHandler) postLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			h.renderLogin(w, r, http.StatusBadRequest, loginView{Error: "Invalid form submission."})
			return
		}
		view := loginView{
			Email:    strings.TrimSpace(r.PostForm.Get("email")),
			Redirect: safeRedirect(r.PostForm.Get("redirect")),
		}
		password := r.PostForm.Get("password")
		if view.Email == "" || password == "" {
			view.Error = "Please enter your e-mail and password."
			h.renderLogin(w, r, http.StatusBadRequest, view)
			return
		}

		result, err := h.auth.Login(r.Context(), view.Email, password)
		if err != nil {
			if errs.IsUnauthorized(err) || errs.IsBadRequest(err) {
				view.Error = "Invalid e-mail or password."
				h.renderLogin(w, r, http.StatusUnauthorized, view)
				return
			}
			h.logger.Error().Err(err).Msg("login failed")
			view.Error = "Sign-in is temporarily unavailable. Please try again."
			h.renderLogin(w, r, errs.StatusOf(err), view)
			return
		}

		if err := h.sessions.Save(w, r, result); err != nil {
			if errs.IsExpiredTokenError(err) {
				h.logger.Warn().Str("userId", result.User.ID).Msg("backend issued an expired access token")
				view.Error = "Your session has expired. Please sign in again."
				h.renderLogin(w, r, http.StatusUnauthorized, view)
				return
			}
			h.logger.Error().Err(err).Msg("failed to save session")
			view.Error = "Your session could not be started. Please try again."
			h.renderLogin(w, r, errs.StatusOf(err), view)
			return
		}

		h.logger.Info().Str("userId", result.User.ID).Msg("admin signed in")
		http.Redirect(w, r, view.Redirect, http.StatusSeeOther)
	}
}

func (h adminHandler) getForgotPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.pages.render(w, r, http.StatusOK, "admin_forgot_password", h.pages.page(r, "Reset password", "", forgotPasswordView{}))
	}
}

// postForgotPassword asks the backend to send a reset link. The reply is the same
// whether or not the account exists.
func (h adminHandler) postForgotPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := forgotPasswordView{}
		status := http.StatusOK
		if err := r.ParseForm(); err == nil {
			view.Email = strings.TrimSpace(r.PostForm.Get("email"))
		}

		switch {
		case view.Email == "":
			view.Error = "Please enter your e-mail address."
			status = http.StatusBadRequest
		default:
			err := h.auth.ForgotPassword(r.Context(), view.Email)
			switch {
			case err == nil || errs.IsNotFound(err):
				view.Sent = true
			default:
				h.logger.Error().Err(err).Msg("forgot password failed")
				view.Error = "We could not send the reset link. Please try again."
				status = errs.StatusOf(err)
			}
		}

		h.pages.render(w, r, status, "admin_forgot_password", h.pages.page(r, "Reset password", "", view))
	}
}

func (h adminHandler) postLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.sessions.Clear(w, r); err != nil {
			h.logger.Warn().Err(err).Msg("failed to clear session")
		}
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
	}
}

// getDashboard shows the signed-in user and content counts. Backend calls carry the
// user's token; a 401 sends the user back to the login form.
func (h adminHandler) getDashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		state, _ := ctxGetSession(ctx)

		view := dashboardView{User: state.User, InquiriesEnabled: h.inquiries != nil}
		var (
			projects    []models.Project
			projectsErr error
			news        []models.NewsArticle
			newsErr     error
			inquiryErr  error
		)

		var g errgroup.Group
		g.Go(func() error {
			projects, projectsErr = h.content.ListProjects(ctx)
			return nil
		})
		g.Go(func() error {
			news, newsErr = h.content.ListNews(ctx)
			return nil
		})
		if h.inquiries != nil {
			g.Go(func() error {
				var err error
				if view.InquiriesThisWeek, err = h.inquiries.CountSince(ctx, time.Now().AddDate(0, 0, -7)); err != nil {
					inquiryErr = err
					return nil
				}
				view.Inquiries, inquiryErr = h.inquiries.FindRecent(ctx, recentInquiryCount)
				return nil
			})
		}
		_ = g.Wait()

		for _, err := range []error{projectsErr, newsErr} {
			if errs.IsUnauthorized(err) {
				if clearErr := h.sessions.Clear(w, r); clearErr != nil {
					h.logger.Warn().Err(clearErr).Msg("failed to clear session")
				}
				redirectToLogin(w, r)
				return
			}
		}

		view.ProjectCount = len(projects)
		view.NewsCount = len(news)
		if projectsErr != nil {
			view.Errors = append(view.Errors, "Projects could not be loaded.")
		}
		if newsErr != nil {
			view.Errors = append(view.Errors, "News could not be loaded.")
		}
		if inquiryErr != nil {
			h.logger.Error().Err(wrapDatabaseError("count", "contact inquiries", inquiryErr)).Msg("failed to load inquiries")
			view.Errors = append(view.Errors, "Inquiries could not be loaded.")
		}

		h.pages.render(w, r, http.StatusOK, "admin_dashboard", h.pages.page(r, "Dashboard", "", view))
	}
}
