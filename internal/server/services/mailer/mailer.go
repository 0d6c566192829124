package mailer

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"net/http"
	texttemplate "text/template"
	"time"

	"contabil-site/internal/core"
)

//go:embed "templates"
var templateFS embed.FS

const (
	// DefaultEndpoint is the SMTP2GO send API
	DefaultEndpoint = "https://api.smtp2go.com/v3/email/send"

	maxAttempts = 3
)

// Mailer sends templated e-mails through the SMTP2GO HTTP API. A mailer
// without an API key only logs what it would have sent.
type Mailer struct {
	apiKey     string
	sender     string
	endpoint   string
	retryDelay time.Duration
	client     *http.Client
	logger     *core.Logger
}

// SMTP2GORequest is the SMTP2GO API request structure
type SMTP2GORequest struct {
	APIKey   string   `json:"api_key"`
	To       []string `json:"to"`
	Sender   string   `json:"sender"`
	Subject  string   `json:"subject"`
	TextBody string   `json:"text_body"`
	HtmlBody string   `json:"html_body"`
}

// SMTP2GOResponse is the SMTP2GO API response structure
type SMTP2GOResponse struct {
	RequestID string `json:"request_id"`
	Data      struct {
		EmailID   string `json:"email_id"`
		Succeeded int    `json:"succeeded"`
		Failed    int    `json:"failed"`
	} `json:"data"`
}

// New creates a mailer posting to DefaultEndpoint
func New(apiKey, sender string, logger *core.Logger) *Mailer {
	return &Mailer{
		apiKey:     apiKey,
		sender:     sender,
		endpoint:   DefaultEndpoint,
		retryDelay: 500 * time.Millisecond,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// WithEndpoint returns a copy of the mailer posting to endpoint
func (m *Mailer) WithEndpoint(endpoint string, retryDelay time.Duration) *Mailer {
	clone := *m
	clone.endpoint = endpoint
	clone.retryDelay = retryDelay
	return &clone
}

// Enabled reports whether the mailer actually sends
func (m *Mailer) Enabled() bool {
	return m.apiKey != ""
}

// Message is a rendered e-mail
type Message struct {
	Subject   string
	PlainBody string
	HTMLBody  string
}

// Render executes the subject, plainBody and htmlBody templates of
// templateFile. Only htmlBody is HTML-escaped.
func Render(templateFile string, data any) (*Message, error) {
	path := "templates/" + templateFile

	textTmpl, err := texttemplate.New("email").ParseFS(templateFS, path)
	if err != nil {
		return nil, err
	}

	htmlTmpl, err := htmltemplate.New("email").ParseFS(templateFS, path)
	if err != nil {
		return nil, err
	}

	subject := new(bytes.Buffer)
	if err := textTmpl.ExecuteTemplate(subject, "subject", data); err != nil {
		return nil, err
	}

	plainBody := new(bytes.Buffer)
	if err := textTmpl.ExecuteTemplate(plainBody, "plainBody", data); err != nil {
		return nil, err
	}

	htmlBody := new(bytes.Buffer)
	if err := htmlTmpl.ExecuteTemplate(htmlBody, "htmlBody", data); err != nil {
		return nil, err
	}

	return &Message{
		Subject:   subject.String(),
		PlainBody: plainBody.String(),
		HTMLBody:  htmlBody.String(),
	}, nil
}

// Send renders templateFile with data and delivers it to recipient,
// retrying failed API calls.
func (m *Mailer) Send(ctx context.Context, recipient, templateFile string, data any) error {
	msg, err := Render(templateFile, data)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", templateFile, err)
	}

	if !m.Enabled() {
		m.logger.Info("Mailer disabled, e-mail not sent", "to", recipient, "subject", msg.Subject)
		return nil
	}

	request := SMTP2GORequest{
		APIKey:   m.apiKey,
		To:       []string{recipient},
		Sender:   m.sender,
		Subject:  msg.Subject,
		TextBody: msg.PlainBody,
		HtmlBody: msg.HTMLBody,
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	for i := 1; i <= maxAttempts; i++ {
		err = m.sendViaAPI(ctx, jsonData)
		if err == nil {
			m.logger.Info("E-mail sent", "to", recipient, "template", templateFile, "attempt", i)
			return nil
		}

		m.logger.Warn("SMTP2GO attempt failed", "attempt", i, "error", err)

		if i == maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(m.retryDelay):
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxAttempts, err)
}

func (m *Mailer) sendViaAPI(ctx context.Context, jsonData []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API request failed with status: %d", resp.StatusCode)
	}

	var response SMTP2GOResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if response.Data.Failed > 0 {
		return fmt.Errorf("SMTP2GO rejected %d recipient(s), request %s", response.Data.Failed, response.RequestID)
	}

	return nil
}
