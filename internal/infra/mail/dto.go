package mail

import "gopkg.in/gomail.v2"

type OpportunityAssignedData struct {
	AssigneeName string
	Name         string
	Value        string
	Company      string
}

// Dialer is satisfied by *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailSender struct {
	From   string
	dialer Dialer
}
