package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rpupo63/realestate-site/config"
	"github.com/rs/zerolog/log"
)

const defaultResendURL = "https://api.resend.com"

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

type EmailSender struct {
	endpoint   string
	apiKey     string
	from       string
	recipients []string
	httpClient *http.Client
}

// NewEmailSender reads RESEND_API_KEY, RESEND_FROM_EMAIL and RESEND_TO_EMAILS.
// It returns nil when any of them is missing, which disables e-mail notifications.
//
// Optional: RESEND_API_URL overrides the API host.
func NewEmailSender(cfg map[string]string) *EmailSender {
	apiKey := config.GetString(cfg, "RESEND_API_KEY", "")
	from := config.GetString(cfg, "RESEND_FROM_EMAIL", "")
	recipients := config.GetStrings(cfg, "RESEND_TO_EMAILS")
	if apiKey == "" || from == "" || len(recipients) == 0 {
		return nil
	}
	return &EmailSender{
		endpoint:   strings.TrimRight(config.GetString(cfg, "RESEND_API_URL", defaultResendURL), "/") + "/emails",
		apiKey:     apiKey,
		from:       from,
		recipients: recipients,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SendEmail sends an HTML email to the configured recipients using the Resend API
func (e *EmailSender) SendEmail(ctx context.Context, subject, body, replyTo string) error {
	payload := ResendEmailRequest{
		From:    e.from,
		To:      e.recipients,
		Subject: subject,
		Html:    body,
		ReplyTo: replyTo,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to Resend API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, errorResp.Message)
		}
		return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		log.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		log.Info().Str("emailId", emailResponse.ID).Msg("Successfully sent email via Resend")
	}

	return nil
}
