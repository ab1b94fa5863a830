package testkit

import (
	"sync"
	"testing"

	"github.com/ephremw/gebeya/pkg/mail"
)

// SentMail is one captured outbound message.
type SentMail struct {
	To      []string
	Subject string
	Body    string
}

// MailRecorder implements mail.Sender and records every message instead
// of talking to SMTP.
type MailRecorder struct {
	mu   sync.Mutex
	sent []SentMail

	// Err, when set, is returned from Deliver to simulate SMTP failures.
	Err error
}

// CaptureMail installs a MailRecorder as the global mail sender for the
// duration of the test.
func CaptureMail(t *testing.T) *MailRecorder {
	t.Helper()
	rec := &MailRecorder{}
	prev := mail.SetSender(rec)
	t.Cleanup(func() { mail.SetSender(prev) })
	return rec
}

func (r *MailRecorder) Deliver(m *mail.Message) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, SentMail{
		To:      m.Recipients(),
		Subject: m.GetSubject(),
		Body:    m.GetBody(),
	})
	return nil
}

// Sent returns a snapshot of every captured message.
func (r *MailRecorder) Sent() []SentMail {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]SentMail, len(r.sent))
	copy(out, r.sent)
	return out
}
