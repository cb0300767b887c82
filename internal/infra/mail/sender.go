package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

const (
	DefaultFrom = "nao-responda@liguemedicina.com"
	companyName = "Ligue"
)

//go:embed templates/welcome.html
var templatesFS embed.FS

var welcomeTemplate = template.Must(template.ParseFS(templatesFS, "templates/welcome.html"))

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return NewEmailSenderWithDialer(gomail.NewDialer(host, port, user, password), from)
}

func NewEmailSenderWithDialer(d Dialer, from string) *EmailSender {
	if from == "" {
		from = DefaultFrom
	}
	return &EmailSender{From: from, dialer: d}
}

func (s *EmailSender) SendWelcome(to, name string) error {
	body, err := renderWelcome(WelcomeEmailData{Name: name, Email: to, CompanyName: companyName})
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Bem-vindo à %s, %s!", companyName, name))
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}

func renderWelcome(data WelcomeEmailData) (string, error) {
	var body bytes.Buffer
	if err := welcomeTemplate.Execute(&body, data); err != nil {
		return "", fmt.Errorf("erro ao processar template: %w", err)
	}
	return body.String(), nil
}
