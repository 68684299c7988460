package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
)

type EmailService struct {
	apiKey      string
	fromEmail   string
	frontendURL string
}

func NewEmailService() *EmailService {
	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}
	return &EmailService{
		apiKey:      os.Getenv("RESEND_API_KEY"),
		fromEmail:   os.Getenv("FROM_EMAIL"),
		frontendURL: frontendURL,
	}
}

// SendInvitation mails a savings-goal invitation link.
func (s *EmailService) SendInvitation(to, inviterName, goalName, token string) error {
	invitationURL := fmt.Sprintf("%s/invitation/accept?token=%s", s.frontendURL, token)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: sans-serif; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #2d6a4f; color: white; padding: 30px; border-radius: 10px 10px 0 0; }
        .content { background: #f8f9fa; padding: 30px; }
        .button { display: inline-block; background: #2d6a4f; color: white; padding: 15px 30px; text-decoration: none; border-radius: 8px; margin: 20px 0; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>🎯 Savings goal invitation</h1>
        </div>
        <div class="content">
            <p>Hello,</p>
            <p><strong>%s</strong> invited you to save together towards <strong>"%s"</strong>.</p>
            <a href="%s" class="button">Accept the invitation</a>
            <p style="color: #e74c3c; margin-top: 30px;">⚠️ This link expires in 7 days.</p>
        </div>
    </div>
</body>
</html>
	`, inviterName, goalName, invitationURL)

	return s.send(to, fmt.Sprintf("%s invited you to a savings goal", inviterName), htmlBody)
}

// SendVerification mails the email-verification link issued at signup.
func (s *EmailService) SendVerification(to, name, token string) error {
	verifyURL := fmt.Sprintf("%s/verify?token=%s", s.frontendURL, token)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: sans-serif;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h1>Welcome to Centime, %s!</h1>
        <p>Please confirm your email address to finish setting up your account.</p>
        <a href="%s" style="display: inline-block; background: #2d6a4f; color: white; padding: 15px 30px; text-decoration: none; border-radius: 8px;">Verify my email</a>
        <p style="color: #777; margin-top: 30px;">This link expires in 24 hours.</p>
    </div>
</body>
</html>
	`, name, verifyURL)

	return s.send(to, "Verify your Centime account", htmlBody)
}

func (s *EmailService) send(to, subject, htmlBody string) error {
	if s.apiKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	payload := map[string]interface{}{
		"from":    fmt.Sprintf("Centime <%s>", s.fromEmail),
		"to":      []string{to},
		"subject": subject,
		"html":    htmlBody,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to send email: status %d", resp.StatusCode)
	}

	return nil
}
