package events

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	ID     uint    `json:"id"`
	Amount float64 `json:"amount"`
}

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestPublishDeliversLocally(t *testing.T) {
	bus := NewBus(nil, nil, "", testLogger())
	ch, cancel := bus.Subscribe(TopicPaymentRecorded)
	defer cancel()

	require.NoError(t, bus.Publish(context.Background(), TopicPaymentRecorded, samplePayload{ID: 3, Amount: 250}))

	event := receive(t, ch)
	require.Equal(t, TopicPaymentRecorded, event.Topic)
	require.Equal(t, bus.NodeID(), event.Source)

	var payload samplePayload
	require.NoError(t, event.Decode(&payload))
	require.Equal(t, uint(3), payload.ID)
	require.Equal(t, 250.0, payload.Amount)
}

func TestPublishSkipsOtherTopics(t *testing.T) {
	bus := NewBus(nil, nil, "", testLogger())
	ch, cancel := bus.Subscribe(TopicNoticePublished)
	defer cancel()

	require.NoError(t, bus.Publish(context.Background(), TopicLoanRenewed, samplePayload{ID: 1}))

	select {
	case event := <-ch:
		t.Fatalf("unexpected event %s", event.Topic)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCancelClosesChannel(t *testing.T) {
	bus := NewBus(nil, nil, "", testLogger())
	ch, cancel := bus.Subscribe(TopicLoanRenewed)
	cancel()
	cancel()

	_, open := <-ch
	require.False(t, open)
}

func TestRedisRelayReachesOtherNode(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sender := NewBus(client, nil, "portal-test", testLogger())
	receiver := NewBus(client, nil, "portal-test", testLogger())
	receiver.Start(ctx)

	ch, unsubscribe := receiver.Subscribe(TopicNoticePublished)
	defer unsubscribe()

	own, unsubscribeOwn := sender.Subscribe(TopicNoticePublished)
	defer unsubscribeOwn()

	require.Eventually(t, func() bool {
		return len(mr.PubSubChannels("portal-test:*")) > 0
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, sender.Publish(ctx, TopicNoticePublished, samplePayload{ID: 9}))

	event := receive(t, ch)
	require.Equal(t, sender.NodeID(), event.Source)

	local := receive(t, own)
	require.Equal(t, event.ID, local.ID)
}

func TestHandleIgnoresOwnAndDuplicateEvents(t *testing.T) {
	bus := NewBus(nil, nil, "", testLogger())
	ch, cancel := bus.Subscribe(TopicLoanRenewed)
	defer cancel()

	own, err := json.Marshal(Event{ID: "a", Source: bus.NodeID(), Topic: TopicLoanRenewed})
	require.NoError(t, err)
	bus.handle(own)

	remote, err := json.Marshal(Event{ID: "b", Source: "other", Topic: TopicLoanRenewed, Payload: json.RawMessage(`{}`)})
	require.NoError(t, err)
	bus.handle(remote)
	bus.handle(remote)

	event := receive(t, ch)
	require.Equal(t, "b", event.ID)

	select {
	case extra := <-ch:
		t.Fatalf("duplicate event delivered: %s", extra.ID)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMarkSeenEvictsOldest(t *testing.T) {
	bus := NewBus(nil, nil, "", testLogger())
	for i := 0; i < seenCapacity+1; i++ {
		require.True(t, bus.markSeen(time.Unix(int64(i), 0).String()))
	}
	require.True(t, bus.markSeen(time.Unix(0, 0).String()))
	require.False(t, bus.markSeen(time.Unix(int64(seenCapacity), 0).String()))
}
