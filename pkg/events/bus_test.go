package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPublishSubscribeModelUpdated(t *testing.T) {
	bus := NewBus()
	t.Cleanup(func() { bus.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, err := bus.SubscribeModelUpdated(ctx)
	assert.NoError(t, err)

	evt := ModelUpdated{ArtifactID: "art-1", Script: "result = x", Notice: "updated"}
	assert.NoError(t, bus.PublishModelUpdated(evt))

	select {
	case got := <-updates:
		assert.Equal(t, evt, got)
	case <-time.After(2 * time.Second):
		t.Fatal("event never delivered")
	}
}

func TestSubscribeStopsOnCancel(t *testing.T) {
	bus := NewBus()
	t.Cleanup(func() { bus.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	updates, err := bus.SubscribeModelUpdated(ctx)
	assert.NoError(t, err)

	cancel()

	select {
	case _, open := <-updates:
		assert.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("channel never closed after cancel")
	}
}
