package appconfig_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glxtools/appconf/pkg/appconfig"
)

func TestSession_Watch(t *testing.T) {
	t.Parallel()

	tp := newTestPaths(t)
	writeTestFile(t, tp.userFile, sampleConfig)

	session := appconfig.NewSession(tp.globalFile, tp.searchPath)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := session.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(tp.userFile, []byte(sampleConfig+"\n"), 0o600))

	select {
	case path := <-events:
		assert.Equal(t, tp.userFile, path)

	case <-time.After(5 * time.Second):
		t.Fatal("no event for external edit")
	}

	// Cancellation closes the event channel.
	cancel()

	select {
	case _, ok := <-events:
		if ok {
			// A second buffered event may arrive before the close.
			_, ok = <-events
			assert.False(t, ok)
		}

	case <-time.After(5 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestSession_Watch_NothingToWatch(t *testing.T) {
	t.Parallel()

	tp := newTestPaths(t)

	session := appconfig.NewSession(tp.globalFile, tp.searchPath)

	_, err := session.Watch(context.Background())
	require.ErrorIs(t, err, appconfig.ErrNothingToWatch)
}
