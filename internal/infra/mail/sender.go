package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strconv"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

//go:embed templates/*.html
var templateFS embed.FS

var assignedTemplate = template.Must(template.ParseFS(templateFS, "templates/opportunity_assigned.html"))

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return NewEmailSenderWithDialer(gomail.NewDialer(host, port, user, password), from)
}

func NewEmailSenderWithDialer(d Dialer, from string) *EmailSender {
	if from == "" {
		from = "no-reply@crm.local"
	}
	return &EmailSender{From: from, dialer: d}
}

// NotifyOpportunityAssigned emails the assignee of a freshly created opportunity.
func (s *EmailSender) NotifyOpportunityAssigned(ctx context.Context, event queue.PipelineEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if event.AssigneeEmail == "" {
		return fmt.Errorf("opportunity %s has no assignee email", event.OpportunityID)
	}

	name := event.AssigneeName
	if name == "" {
		name = event.AssigneeEmail
	}

	var body bytes.Buffer
	err := assignedTemplate.Execute(&body, OpportunityAssignedData{
		AssigneeName: name,
		Name:         event.Name,
		Value:        strconv.FormatFloat(event.Value, 'f', 2, 64),
		Company:      event.Company,
	})
	if err != nil {
		return fmt.Errorf("render assignment email: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", event.AssigneeEmail)
	m.SetHeader("Subject", fmt.Sprintf("New opportunity assigned: %s", event.Name))
	m.SetBody("text/html", body.String())

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send assignment email: %w", err)
	}
	return nil
}
