// services/email_service.go
package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const mailerSendURL = "https://api.mailersend.com/v1/email"

// EmailService sends account emails through the MailerSend API
type EmailService struct {
	apiKey   string
	fromName string
	fromAddr string
	appHost  string
	client   *http.Client
}

// NewEmailService reads MailerSend settings from the environment.
// MAILERSEND_API_KEY must be set for emails to be delivered.
func NewEmailService() *EmailService {
	appHost := os.Getenv("APP_HOST")
	if appHost == "" {
		appHost = "http://localhost:8080"
	}
	fromAddr := os.Getenv("MAIL_FROM_ADDRESS")
	if fromAddr == "" {
		fromAddr = "verify@billsplit.local"
	}

	return &EmailService{
		apiKey:   os.Getenv("MAILERSEND_API_KEY"),
		fromName: "Bill Split",
		fromAddr: fromAddr,
		appHost:  appHost,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// SendVerificationEmail sends the account verification link for a token
func (s *EmailService) SendVerificationEmail(to, name, token string) error {
	if s.apiKey == "" {
		return fmt.Errorf("MAILERSEND_API_KEY environment variable not set")
	}

	url := s.appHost + "/api/user/verify?token=" + token
	html := fmt.Sprintf(`<p>Hello %s,</p>
<p>Thank you for registering. To complete your sign-up, please verify your email address:</p>
<p><a href="%s" target="_blank">Verify Email</a></p>
<p>If the button doesn't work, copy this link into your browser: %s</p>
<p>If you didn't request this email, please ignore it.</p>`, name, url, url)

	requestBody := map[string]interface{}{
		"from": map[string]string{
			"email": s.fromAddr,
			"name":  s.fromName,
		},
		"to": []map[string]string{
			{"email": to, "name": name},
		},
		"subject": "Verify your Bill Split account",
		"html":    html,
	}

	payload, err := json.Marshal(requestBody)
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, mailerSendURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create email request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mailersend returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
