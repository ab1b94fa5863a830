package services_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ephremw/gebeya/app/repositories"
	"github.com/ephremw/gebeya/app/services"
	"github.com/ephremw/gebeya/pkg/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNewsletterService(t *testing.T) *services.NewsletterService {
	t.Helper()
	db := testkit.OpenDB(t)
	return services.NewNewsletterService(repositories.NewNewsletterRepository(db))
}

func TestSubscribeIdempotent(t *testing.T) {
	svc := newNewsletterService(t)

	require.NoError(t, svc.Subscribe("sara@example.com"))
	require.NoError(t, svc.Subscribe("sara@example.com"), "re-subscribing is not an error")
}

func TestBroadcast(t *testing.T) {
	svc := newNewsletterService(t)
	rec := testkit.CaptureMail(t)

	for i := 0; i < 25; i++ {
		require.NoError(t, svc.Subscribe(fmt.Sprintf("sub%02d@example.com", i)))
	}

	result, err := svc.Broadcast("August Sale", "Everything 20% off this weekend.")
	require.NoError(t, err)
	assert.Equal(t, 25, result.Total)
	assert.Equal(t, 25, result.Sent)
	assert.Zero(t, result.Failed)

	sent := rec.Sent()
	require.Len(t, sent, 25)
	assert.Equal(t, "August Sale", sent[0].Subject)
}

func TestBroadcastCountsFailures(t *testing.T) {
	svc := newNewsletterService(t)
	rec := testkit.CaptureMail(t)
	rec.Err = errors.New("smtp: connection refused")

	require.NoError(t, svc.Subscribe("sara@example.com"))
	require.NoError(t, svc.Subscribe("abel@example.com"))

	result, err := svc.Broadcast("August Sale", "body")
	require.NoError(t, err, "individual send failures are never fatal")
	assert.Equal(t, 2, result.Total)
	assert.Zero(t, result.Sent)
	assert.Equal(t, 2, result.Failed)
}

func TestUnsubscribe(t *testing.T) {
	svc := newNewsletterService(t)
	rec := testkit.CaptureMail(t)

	require.NoError(t, svc.Subscribe("sara@example.com"))
	require.NoError(t, svc.Unsubscribe("sara@example.com"))

	result, err := svc.Broadcast("Hello", "body")
	require.NoError(t, err)
	assert.Zero(t, result.Total)
	assert.Empty(t, rec.Sent())
}
