package mail

import "gopkg.in/gomail.v2"

type WelcomeEmailData struct {
	Name        string
	Email       string
	CompanyName string
}

// Dialer is satisfied by *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailSender struct {
	From   string
	dialer Dialer
}
