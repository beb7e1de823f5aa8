package notify

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/mehrbod2002/horizon/internal/config"
	"github.com/mehrbod2002/horizon/internal/models"
	"github.com/mehrbod2002/horizon/internal/service"
	"github.com/sirupsen/logrus"
)

// EmailNotifier mails transfer recipients over SMTP.
type EmailNotifier struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email, addr string, auth smtp.Auth) error
}

func NewEmailNotifier(cfg *config.Config, logger *logrus.Logger) *EmailNotifier {
	return &EmailNotifier{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

func transferEmail(from string, sender, recipient *models.User, tx models.Transaction) *email.Email {
	e := email.NewEmail()
	e.From = from
	e.To = []string{recipient.Email}
	e.Subject = "Payment Received"

	body := fmt.Sprintf("Dear %s,\n\n", recipient.Name)
	body += fmt.Sprintf(
		"You have received %.2f INR from %s.\n"+
			"Transaction: %s\n"+
			"Date: %s\n",
		tx.Amount, sender.Name, tx.TransactionID, tx.CreatedAt,
	)
	if tx.Description != "" {
		body += fmt.Sprintf("Note: %s\n", tx.Description)
	}
	body += "\nBest regards,\nHorizon"
	e.Text = []byte(body)
	return e
}

func (n *EmailNotifier) NotifyTransfer(ctx context.Context, sender, recipient *models.User, tx models.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if recipient.Email == "" {
		return nil
	}

	e := transferEmail(n.cfg.SenderEmail, sender, recipient, tx)
	addr := fmt.Sprintf("%s:%s", n.cfg.SMTPHost, n.cfg.SMTPPort)
	var auth smtp.Auth
	if n.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", n.cfg.SMTPUsername, n.cfg.SMTPPassword, n.cfg.SMTPHost)
	}
	if err := n.send(e, addr, auth); err != nil {
		n.logger.Errorf("Failed to send payment notification to %s: %v", recipient.Email, err)
		return fmt.Errorf("failed to send payment notification: %w", err)
	}

	n.logger.Infof("Email sent to %s: %s", recipient.Email, e.Subject)
	return nil
}

// Nop drops every notification. Used when SMTP is not configured.
type Nop struct{}

func (Nop) NotifyTransfer(context.Context, *models.User, *models.User, models.Transaction) error {
	return nil
}

// New picks the email notifier when SMTP is configured.
func New(cfg *config.Config, logger *logrus.Logger) service.Notifier {
	if cfg.SMTPEnabled() {
		return NewEmailNotifier(cfg, logger)
	}
	return Nop{}
}
