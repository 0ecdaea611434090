package sshx

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwaitCommandReturnsRunResult(t *testing.T) {
	done := make(chan error, 1)
	done <- errors.New("exit status 1")

	err, cancelled := awaitCommand(context.Background(), done, func() error {
		t.Fatal("abort must not run when the command finishes")
		return nil
	})

	assert.False(t, cancelled)
	assert.EqualError(t, err, "exit status 1")
}

func TestAwaitCommandDrainsAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	aborted := make(chan struct{})
	go func() {
		// The session goroutine only finishes once aborted, like a
		// remote command unblocked by session.Close.
		<-aborted
		time.Sleep(10 * time.Millisecond)
		done <- errors.New("session closed")
	}()

	err, cancelled := awaitCommand(ctx, done, func() error {
		close(aborted)
		return nil
	})

	require.True(t, cancelled)
	assert.ErrorIs(t, err, context.Canceled)
	// done was drained, so the goroutine is no longer writing.
	assert.Empty(t, done)
}
