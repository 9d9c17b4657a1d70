package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/neurostream/protocolengine/internal/application/services"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestStore_UpdatePublishesToSubscribers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := services.NewStore(0)
	updates := store.Subscribe(ctx)

	got := store.Update(func(v int) int { return v + 1 })

	assert.Equal(t, 1, got)
	assert.Equal(t, uint64(1), store.Version())
	select {
	case v := <-updates:
		assert.Equal(t, 1, v)
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}
}

func TestStore_SlowSubscriberSeesLatest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := services.NewStore("a")
	updates := store.Subscribe(ctx)

	store.Update(func(string) string { return "b" })
	store.Update(func(string) string { return "c" })

	assert.Equal(t, "c", <-updates)
	select {
	case v := <-updates:
		t.Fatalf("unexpected extra snapshot %q", v)
	default:
	}
}

func TestStore_TryUpdateCanDecline(t *testing.T) {
	store := services.NewStore(5)

	got, ok := store.TryUpdate(func(v int) (int, bool) { return v * 2, false })

	assert.False(t, ok)
	assert.Equal(t, 5, got)
	assert.Equal(t, uint64(0), store.Version())

	got, ok = store.TryUpdate(func(v int) (int, bool) { return v * 2, true })
	assert.True(t, ok)
	assert.Equal(t, 10, got)
}

func TestStore_SubscriptionClosesWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := services.NewStore(0)
	updates := store.Subscribe(ctx)
	require.Equal(t, 1, store.SubscriberCount())

	cancel()

	select {
	case _, open := <-updates:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("subscription not closed")
	}
	assert.Equal(t, 0, store.SubscriberCount())
}
