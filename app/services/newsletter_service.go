package services

import (
	"sync"
	"sync/atomic"

	"github.com/ephremw/gebeya/app/models"
	"github.com/ephremw/gebeya/app/repositories"
	"github.com/ephremw/gebeya/pkg/collection"
	"github.com/ephremw/gebeya/pkg/logger"
	"github.com/ephremw/gebeya/pkg/mail"
	"github.com/ephremw/gebeya/pkg/metrics"
	"github.com/ephremw/gebeya/pkg/workerpool"
)

// NewsletterService handles list membership and campaign broadcasts.
type NewsletterService struct {
	subs *repositories.NewsletterRepository

	// workers bounds concurrent SMTP sends during a broadcast.
	workers int
}

func NewNewsletterService(subs *repositories.NewsletterRepository) *NewsletterService {
	return &NewsletterService{subs: subs, workers: 10}
}

// Subscribe adds an email to the list; duplicates are silently absorbed.
func (s *NewsletterService) Subscribe(email string) error {
	return s.subs.Subscribe(email)
}

// Unsubscribe removes an email from the list.
func (s *NewsletterService) Unsubscribe(email string) error {
	return s.subs.Unsubscribe(email)
}

// BroadcastResult reports how a campaign went.
type BroadcastResult struct {
	Total  int `json:"total"`
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// Broadcast sends a campaign to every subscriber, fanning the per-address
// sends across a bounded worker pool. It blocks until every send finished
// and returns the tally; individual failures are logged and counted, never
// fatal to the rest of the run.
func (s *NewsletterService) Broadcast(subject, body string) (BroadcastResult, error) {
	subscribers, err := s.subs.All()
	if err != nil {
		return BroadcastResult{}, err
	}

	emails := collection.Unique(collection.Map(subscribers,
		func(sub models.NewsletterSubscriber) string { return sub.Email }))

	pool := workerpool.New(s.workers)
	defer pool.Shutdown()

	var wg sync.WaitGroup
	var sent, failed atomic.Int64

	for _, email := range emails {
		email := email
		wg.Add(1)
		task := func() {
			defer wg.Done()
			err := mail.To(email).Subject(subject).Body(body).Send()
			if err != nil {
				failed.Add(1)
				metrics.EmailsSent.WithLabelValues("newsletter", "failed").Inc()
				logger.Warn("newsletter: send failed", "email", email, "error", err)
				return
			}
			sent.Add(1)
			metrics.EmailsSent.WithLabelValues("newsletter", "sent").Inc()
		}
		// SubmitWait applies backpressure instead of dropping sends.
		if err := pool.SubmitWait(task); err != nil {
			wg.Done()
			failed.Add(1)
		}
	}

	wg.Wait()

	result := BroadcastResult{
		Total:  len(subscribers),
		Sent:   int(sent.Load()),
		Failed: int(failed.Load()),
	}
	logger.Info("newsletter: broadcast finished",
		"total", result.Total, "sent", result.Sent, "failed", result.Failed)
	return result, nil
}
