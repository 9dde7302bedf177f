package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Stream names for downstream consumers (alert bots, dashboards).
const (
	StreamPlayerAnalyses  = "analysis.player.basketball_nba"
	StreamMatchupAnalyses = "analysis.matchup.basketball_nba"
)

// RedisPublisher publishes completed analyses to Redis streams
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher creates a new Redis stream publisher
func NewRedisPublisher(redisURL string) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisPublisher{
		client: client,
	}, nil
}

// NewRedisPublisherFromClient wraps an existing Redis client.
func NewRedisPublisherFromClient(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

// Close closes the Redis connection
func (rp *RedisPublisher) Close() error {
	return rp.client.Close()
}

// PublishPlayerAnalysis publishes a completed player threshold analysis.
func (rp *RedisPublisher) PublishPlayerAnalysis(ctx context.Context, result interface{}) error {
	return rp.publish(ctx, StreamPlayerAnalyses, result)
}

// PublishMatchupAnalysis publishes a completed team total analysis.
func (rp *RedisPublisher) PublishMatchupAnalysis(ctx context.Context, result interface{}) error {
	return rp.publish(ctx, StreamMatchupAnalyses, result)
}

func (rp *RedisPublisher) publish(ctx context.Context, stream string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return rp.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"data":      string(data),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
}
