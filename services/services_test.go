package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/realestate-site/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

func resendConfig(url string) map[string]string {
	return map[string]string{
		"RESEND_API_KEY":    "re_test",
		"RESEND_FROM_EMAIL": "Site <site@estate.example>",
		"RESEND_TO_EMAILS":  "sales@estate.example, ops@estate.example",
		"RESEND_API_URL":    url,
	}
}

func TestNewEmailSender_RequiresConfig(t *testing.T) {
	assert.Nil(t, NewEmailSender(map[string]string{"RESEND_API_KEY": "re_test"}))
	assert.NotNil(t, NewEmailSender(resendConfig("")))
}

func TestSendEmail(t *testing.T) {
	var got ResendEmailRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"id":"email_1"}`))
	}))
	defer server.Close()

	err := NewEmailSender(resendConfig(server.URL)).SendEmail(context.Background(), "Hello", "<p>hi</p>", "lan@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"sales@estate.example", "ops@estate.example"}, got.To)
	assert.Equal(t, "lan@example.com", got.ReplyTo)
	assert.Equal(t, "<p>hi</p>", got.Html)
}

func TestSendEmail_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid from address"}`))
	}))
	defer server.Close()

	err := NewEmailSender(resendConfig(server.URL)).SendEmail(context.Background(), "Hello", "hi", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid from address")
}

type fakeMessages struct {
	sent []*twilioApi.CreateMessageParams
	fail map[string]bool
}

func (f *fakeMessages) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	if f.fail[*params.To] {
		return nil, errors.New("unverified number")
	}
	f.sent = append(f.sent, params)
	sid := "SM123"
	return &twilioApi.ApiV2010Message{Sid: &sid}, nil
}

func TestSendSMS(t *testing.T) {
	api := &fakeMessages{fail: map[string]bool{"+84900000002": true}}
	sender := &SMSSender{api: api, from: "+15550001111", recipients: []string{"+84900000001", "+84900000002"}}

	err := sender.SendSMS(strings.Repeat("x", 400))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "+84900000002")

	require.Len(t, api.sent, 1, "remaining recipients are still attempted")
	assert.Equal(t, "+15550001111", *api.sent[0].From)
	assert.Len(t, []rune(*api.sent[0].Body), smsLimit)
}

func TestNewSMSSender_RequiresConfig(t *testing.T) {
	assert.Nil(t, NewSMSSender(map[string]string{"TWILIO_ACCOUNT_SID": "AC1"}))
}

func TestNotifyInquiry(t *testing.T) {
	var body ResendEmailRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"id":"email_2"}`))
	}))
	defer server.Close()

	api := &fakeMessages{}
	n := &Notifier{
		Email: NewEmailSender(resendConfig(server.URL)),
		SMS:   &SMSSender{api: api, from: "+1555", recipients: []string{"+8490"}},
	}
	slug := "river-park"
	inquiry := models.ContactInquiry{
		ID:          uuid.New(),
		Name:        "Lan <script>",
		Email:       "lan@example.com",
		Message:     "Is the 2-bedroom still available?",
		ProjectSlug: &slug,
		CreatedAt:   time.Now(),
	}

	require.NoError(t, n.NotifyInquiry(context.Background(), inquiry))
	assert.Equal(t, "[Website] New inquiry from Lan <script>", body.Subject)
	assert.Contains(t, body.Html, "Lan &lt;script&gt;")
	assert.Contains(t, body.Html, "Project: river-park")
	require.Len(t, api.sent, 1)
	assert.Contains(t, *api.sent[0].Body, "lan@example.com")
}

func TestNotifyInquiry_NothingConfigured(t *testing.T) {
	n := NewNotifier(map[string]string{})
	assert.NoError(t, n.NotifyInquiry(context.Background(), models.ContactInquiry{Name: "Lan"}))
}
