package notifications

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotifierRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNotifierNilClientNoops(t *testing.T) {
	t.Parallel()
	n := NewNotifier(nil)
	ctx := context.Background()

	assert.NoError(t, n.PublishUser(ctx, 1, "payload"))
	assert.NoError(t, n.PublishBroadcast(ctx, "payload"))
	assert.NoError(t, n.PublishQuestionEvent(ctx, 1, "answer_created", nil))
	assert.NoError(t, n.StartPatternSubscriber(ctx, nil))
	assert.NoError(t, n.StartQuestionSubscriber(ctx, nil))
}

func TestNotifierChannelNames(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "notifications:user:42", UserChannel(42))
	assert.Equal(t, "question:7", QuestionChannel(7))
}

func TestPublishUserRoundTrip(t *testing.T) {
	t.Parallel()
	client := newNotifierRedis(t)
	n := NewNotifier(client)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	received := make(map[string]string)
	require.NoError(t, n.StartPatternSubscriber(ctx, func(channel, payload string) {
		mu.Lock()
		received[channel] = payload
		mu.Unlock()
	}))

	// PSubscribe setup races with the first publish; retry until delivered.
	assert.Eventually(t, func() bool {
		_ = n.PublishUser(ctx, 9, `{"type":"notification"}`)
		mu.Lock()
		defer mu.Unlock()
		return received["notifications:user:9"] == `{"type":"notification"}`
	}, 2*time.Second, 20*time.Millisecond)
}

func TestHubWiringDeliversToWatchers(t *testing.T) {
	t.Parallel()
	client := newNotifierRedis(t)
	n := NewNotifier(client)
	hub := NewHub()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, hub.StartWiring(ctx, n))

	watcher, err := hub.Register(1, nil)
	require.NoError(t, err)
	hub.Watch(watcher, 5)

	assert.Eventually(t, func() bool {
		_ = n.PublishQuestionEvent(ctx, 5, "answer_created", map[string]any{"answer_id": 3})
		select {
		case msg := <-watcher.Send:
			return strings.Contains(string(msg), "answer_created") &&
				strings.Contains(string(msg), `"question_id":5`)
		default:
			return false
		}
	}, 2*time.Second, 20*time.Millisecond)
}
