package services

import (
	"fmt"
	"strings"

	"github.com/rpupo63/realestate-site/config"
	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// smsLimit keeps a notification within a few SMS segments.
const smsLimit = 320

// MessageCreator is the part of the Twilio REST API used for SMS.
type MessageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type SMSSender struct {
	api        MessageCreator
	from       string
	recipients []string
}

// NewSMSSender reads TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN, TWILIO_FROM_NUMBER and
// TWILIO_TO_NUMBERS. It returns nil when any of them is missing.
func NewSMSSender(cfg map[string]string) *SMSSender {
	sid := config.GetString(cfg, "TWILIO_ACCOUNT_SID", "")
	token := config.GetString(cfg, "TWILIO_AUTH_TOKEN", "")
	from := config.GetString(cfg, "TWILIO_FROM_NUMBER", "")
	recipients := config.GetStrings(cfg, "TWILIO_TO_NUMBERS")
	if sid == "" || token == "" || from == "" || len(recipients) == 0 {
		return nil
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: sid,
		Password: token,
	})
	return &SMSSender{api: client.Api, from: from, recipients: recipients}
}

// SendSMS texts body to every configured number. Every recipient is attempted.
func (s *SMSSender) SendSMS(body string) error {
	if runes := []rune(body); len(runes) > smsLimit {
		body = string(runes[:smsLimit-1]) + "…"
	}

	var failures []string
	for _, to := range s.recipients {
		params := &twilioApi.CreateMessageParams{}
		params.SetTo(to)
		params.SetFrom(s.from)
		params.SetBody(body)

		msg, err := s.api.CreateMessage(params)
		if err != nil {
			log.Error().Err(err).Str("to", to).Msg("Failed to send SMS via Twilio")
			failures = append(failures, fmt.Sprintf("%s: %v", to, err))
			continue
		}
		if msg != nil && msg.Sid != nil {
			log.Info().Str("messageSid", *msg.Sid).Msg("Successfully sent SMS via Twilio")
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("twilio: %s", strings.Join(failures, "; "))
	}
	return nil
}
