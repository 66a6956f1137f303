package api

import (
	"context"
	"net/http"
	"net/mail"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/rpupo63/realestate-site/errs"
	"github.com/rpupo63/realestate-site/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

const (
	maxContactFormBytes = 64 << 10
	maxMessageLength    = 5000
	notifyTimeout       = 30 * time.Second
)

type contactHandler struct {
	pages     pageResponder
	logger    zerolog.Logger
	inquiries InquiryStore
	notifier  InquiryNotifier
	limiter   *clientLimiter
}

func newContactHandler(deps Dependencies, perMinute int) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		pages:     newPageResponder(deps.Renderer, deps.Site, logger),
		logger:    logger,
		inquiries: deps.Inquiries,
		notifier:  deps.Notifier,
		limiter:   newClientLimiter(perMinute),
	}
}

type contactForm struct {
	Name        string
	Email       string
	Phone       string
	Subject     string
	Message     string
	ProjectSlug string
}

type contactView struct {
	Form   contactForm
	Errors map[string]string
	Sent   bool
}

func contactFormFrom(values url.Values) contactForm {
	return contactForm{
		Name:        strings.TrimSpace(values.Get("name")),
		Email:       strings.TrimSpace(values.Get("email")),
		Phone:       strings.TrimSpace(values.Get("phone")),
		Subject:     strings.TrimSpace(values.Get("subject")),
		Message:     strings.TrimSpace(values.Get("message")),
		ProjectSlug: strings.TrimSpace(values.Get("project")),
	}
}

// validate returns field errors keyed by input name. Name, e-mail and message are
// required; a phone number may only hold digits, spaces and a leading +.
func (f contactForm) validate() map[string]string {
	problems := map[string]string{}

	if f.Name == "" {
		problems["name"] = "Please tell us your name."
	}

	if f.Email == "" {
		problems["email"] = "Please enter your e-mail address."
	} else if addr, err := mail.ParseAddress(f.Email); err != nil || addr.Address != f.Email {
		problems["email"] = "This e-mail address does not look right."
	}

	if f.Phone != "" && !validPhone(f.Phone) {
		problems["phone"] = "Phone numbers may only contain digits, spaces and a leading +."
	}

	switch {
	case f.Message == "":
		problems["message"] = "Please write a message."
	case len([]rune(f.Message)) > maxMessageLength:
		problems["message"] = "Please keep your message under 5000 characters."
	}

	return problems
}

func validPhone(phone string) bool {
	digits := 0
	for i, r := range phone {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == ' ':
		case r == '+' && i == 0:
		default:
			return false
		}
	}
	return digits >= 8 && digits <= 15
}

// getContact renders the form, prefilled from ?project= and ?subject=
func (h contactHandler) getContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := contactView{
			Form: contactForm{
				ProjectSlug: queryString(r, "project"),
				Subject:     queryString(r, "subject"),
			},
			Sent: r.URL.Query().Get("sent") == "1",
		}
		h.render(w, r, http.StatusOK, view)
	}
}

func (h contactHandler) render(w http.ResponseWriter, r *http.Request, status int, view contactView) {
	page := h.pages.page(r, "Contact us", "Ask about a project or order ginseng.", view)
	h.pages.render(w, r, status, "contact", page)
}

// postContact rate-limits, validates, stores and forwards an inquiry, then redirects so a reload
// does not resubmit.
func (h contactHandler) postContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxContactFormBytes)
		if err := r.ParseForm(); err != nil {
			h.render(w, r, http.StatusBadRequest, contactView{Errors: map[string]string{"form": "We could not read your message. Please try again."}})
			return
		}

		form := contactFormFrom(r.PostForm)

		// Every submission counts, valid or not.
		if !h.limiter.Allow(r) {
			h.logger.Warn().Err(errs.NewTooManyRequestsError("contact form")).Str("ip", clientIP(r)).Msg("contact form rate limited")
			h.render(w, r, http.StatusTooManyRequests, contactView{Form: form, Errors: map[string]string{"form": "You have sent several messages in a short time. Please wait a minute and try again."}})
			return
		}

		if problems := form.validate(); len(problems) > 0 {
			h.render(w, r, http.StatusBadRequest, contactView{Form: form, Errors: problems})
			return
		}

		inquiry := models.ContactInquiry{
			Name:     form.Name,
			Email:    form.Email,
			Phone:    form.Phone,
			Subject:  form.Subject,
			Message:  form.Message,
			Metadata: inquiryMetadata(r),
		}
		if form.ProjectSlug != "" {
			inquiry.ProjectSlug = &form.ProjectSlug
		}

		if h.inquiries != nil {
			if err := h.inquiries.Add(r.Context(), &inquiry); err != nil {
				h.logger.Error().Err(wrapDatabaseError("add", "contact inquiry", err)).Msg("failed to store inquiry")
				h.render(w, r, http.StatusServiceUnavailable, contactView{Form: form, Errors: map[string]string{"form": "We could not send your message right now. Please call us or try again later."}})
				return
			}
		} else {
			inquiry.CreatedAt = time.Now()
		}

		if h.notifier != nil {
			ctx := context.WithoutCancel(r.Context())
			go h.notify(ctx, inquiry)
		}

		h.logger.Info().Str("email", inquiry.Email).Msg("contact inquiry received")
		http.Redirect(w, r, "/contact?sent=1", http.StatusSeeOther)
	}
}

// notify runs after the response; failures are logged only.
func (h contactHandler) notify(ctx context.Context, inquiry models.ContactInquiry) {
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	if err := h.notifier.NotifyInquiry(ctx, inquiry); err != nil {
		h.logger.Error().Err(err).Msg("failed to notify staff of inquiry")
	}
}

// inquiryMetadata records where the visitor came from, including utm_* campaign tags
// on the page they submitted from.
func inquiryMetadata(r *http.Request) datatypes.JSONMap {
	meta := datatypes.JSONMap{
		"userAgent": r.UserAgent(),
	}
	referer := r.Referer()
	if referer == "" {
		return meta
	}
	meta["referer"] = referer
	if u, err := url.Parse(referer); err == nil {
		for key, values := range u.Query() {
			if strings.HasPrefix(key, "utm_") && len(values) > 0 {
				meta[key] = values[0]
			}
		}
	}
	return meta
}
