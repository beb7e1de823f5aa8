package notify

import (
	"context"
	"errors"
	"io"
	"net/smtp"
	"strings"
	"testing"

	"github.com/jordan-wright/email"
	"github.com/mehrbod2002/horizon/internal/config"
	"github.com/mehrbod2002/horizon/internal/models"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestNotifyTransferSendsEmail(t *testing.T) {
	cfg := &config.Config{SMTPHost: "smtp.test", SMTPPort: "2525", SenderEmail: "bank@test"}
	n := NewEmailNotifier(cfg, testLogger())

	var gotAddr string
	var got *email.Email
	n.send = func(e *email.Email, addr string, auth smtp.Auth) error {
		gotAddr, got = addr, e
		if auth != nil {
			t.Error("expected no auth without SMTP username")
		}
		return nil
	}

	sender := &models.User{Name: "alice"}
	recipient := &models.User{Name: "bob", Email: "bob@test"}
	tx := models.Transaction{TransactionID: "TXN_ABC", Amount: 12.5, Description: "lunch"}
	if err := n.NotifyTransfer(context.Background(), sender, recipient, tx); err != nil {
		t.Fatalf("NotifyTransfer: %v", err)
	}

	if gotAddr != "smtp.test:2525" {
		t.Errorf("addr = %q", gotAddr)
	}
	if got.From != "bank@test" || len(got.To) != 1 || got.To[0] != "bob@test" {
		t.Errorf("unexpected envelope: from %q to %v", got.From, got.To)
	}
	body := string(got.Text)
	for _, want := range []string{"Dear bob", "12.50 INR from alice", "TXN_ABC", "Note: lunch"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}

func TestNotifyTransferSendFailure(t *testing.T) {
	cfg := &config.Config{SMTPHost: "smtp.test", SMTPPort: "25", SMTPUsername: "u", SMTPPassword: "p"}
	n := NewEmailNotifier(cfg, testLogger())
	n.send = func(*email.Email, string, smtp.Auth) error { return errors.New("connection refused") }

	err := n.NotifyTransfer(context.Background(), &models.User{}, &models.User{Email: "x@test"}, models.Transaction{})
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("expected wrapped send error, got %v", err)
	}
}

func TestNewPicksNotifier(t *testing.T) {
	if _, ok := New(&config.Config{}, testLogger()).(Nop); !ok {
		t.Error("expected Nop without SMTP host")
	}
	if _, ok := New(&config.Config{SMTPHost: "smtp.test"}, testLogger()).(*EmailNotifier); !ok {
		t.Error("expected EmailNotifier with SMTP host")
	}
}
