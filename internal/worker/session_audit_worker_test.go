package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/workforce-console/internal/domain"
	"github.com/spec-kit/workforce-console/internal/events"
)

func TestStartSessionAudit(t *testing.T) {
	assert.Nil(t, StartSessionAudit(nil, nil, 0))

	dispatcher := events.NewInMemoryDispatcher()
	audit := StartSessionAudit(dispatcher, nil, 2)
	require.NotNil(t, audit)

	ctx := context.Background()
	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventSessionStarted, domain.ProfileStandard, nil)))
	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventSessionExpired, domain.ProfileStandard, nil)))
	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventSessionEnded, domain.ProfileStandard, nil)))

	recent := audit.Recent()
	require.Len(t, recent, 2)
	assert.Equal(t, events.EventSessionExpired, recent[0].Type)
	assert.Equal(t, events.EventSessionEnded, recent[1].Type)
}
