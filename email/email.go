package email

import (
	"fmt"
	"net/smtp"
	"os"

	"meridian/models"
)

type EmailService struct {
	host     string
	port     string
	user     string
	password string
	from     string
	contact  string
}

func NewEmailService() *EmailService {
	return &EmailService{
		host:     os.Getenv("SMTP_HOST"),
		port:     os.Getenv("SMTP_PORT"),
		user:     os.Getenv("SMTP_USER"),
		password: os.Getenv("SMTP_PASSWORD"),
		from:     os.Getenv("SMTP_FROM"),
		contact:  os.Getenv("CONTACT_EMAIL"),
	}
}

// SendContactNotification forwards a contact form submission to the
// configured contact address. Returns an error when SMTP is not
// configured; callers log it and keep the submission.
func (e *EmailService) SendContactNotification(msg *models.ContactMessage) error {
	if e.host == "" || e.contact == "" {
		return fmt.Errorf("smtp not configured")
	}

	subject := "New contact message from " + msg.Name
	body := fmt.Sprintf(`
New message through the website contact form.

Name:    %s
Email:   %s
Company: %s
Phone:   %s

%s
`, msg.Name, msg.Email, msg.Company, msg.Phone, msg.Message)

	message := fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"\r\n"+
		"%s\r\n", e.from, e.contact, subject, body)

	auth := smtp.PlainAuth("", e.user, e.password, e.host)
	addr := fmt.Sprintf("%s:%s", e.host, e.port)

	if err := smtp.SendMail(addr, auth, e.from, []string{e.contact}, []byte(message)); err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}

	return nil
}
