package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultOutboxKey is the Redis list drained by the platform relay.
const DefaultOutboxKey = "pingbot:outbox"

// RedisOutbox appends messages as JSON to a Redis list. Delivery to the
// platform is done by whoever drains the list.
type RedisOutbox struct {
	client *redis.Client
	key    string
	now    func() time.Time
}

func NewRedisOutbox(client *redis.Client, key string) *RedisOutbox {
	if key == "" {
		key = DefaultOutboxKey
	}
	return &RedisOutbox{client: client, key: key, now: time.Now}
}

func (o *RedisOutbox) Reply(ctx context.Context, commentID, text string) error {
	return o.push(ctx, Message{Kind: KindReply, CommentID: commentID, Text: text})
}

func (o *RedisOutbox) SendPrivateMessage(ctx context.Context, to, subject, text string) error {
	return o.push(ctx, Message{Kind: KindPrivateMessage, To: to, Subject: subject, Text: text})
}

func (o *RedisOutbox) push(ctx context.Context, m Message) error {
	m.CreatedAt = o.now().UTC().Unix()
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return o.client.RPush(ctx, o.key, b).Err()
}

// Pending returns up to n queued messages without removing them; n <= 0 means all.
func (o *RedisOutbox) Pending(ctx context.Context, n int64) ([]Message, error) {
	stop := n - 1
	if n <= 0 {
		stop = -1
	}
	raw, err := o.client.LRange(ctx, o.key, 0, stop).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Message, 0, len(raw))
	for _, r := range raw {
		var m Message
		if err := json.Unmarshal([]byte(r), &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
