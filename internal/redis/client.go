package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/mossy-p/roomrelay/config"
)

const opTimeout = 2 * time.Second

// Presence mirrors current room membership into Redis so that other tools
// can see who is connected. It keeps no history: keys are refreshed on every
// join and vanish with their last member.
//
//	room:<id>:peers  set of member uuids
//	room:<id>:names  hash uuid -> display name
type Presence struct {
	client *redis.Client
	ttl    time.Duration
}

// Connect dials Redis and verifies the connection with a PING.
func Connect(ctx context.Context, cfg config.RedisConfig) (*Presence, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewPresence(client, cfg.TTL), nil
}

// NewPresence wraps an existing client.
func NewPresence(client *redis.Client, ttl time.Duration) *Presence {
	return &Presence{client: client, ttl: ttl}
}

// Close closes the Redis connection
func (p *Presence) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

func peersKey(roomID string) string { return "room:" + roomID + ":peers" }
func namesKey(roomID string) string { return "room:" + roomID + ":names" }

func (p *Presence) Joined(roomID, id, displayName string) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := p.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, peersKey(roomID), id)
		pipe.HSet(ctx, namesKey(roomID), id, displayName)
		if p.ttl > 0 {
			pipe.Expire(ctx, peersKey(roomID), p.ttl)
			pipe.Expire(ctx, namesKey(roomID), p.ttl)
		}
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Str("module", "redis").Str("room", roomID).Str("uuid", id).Msg("presence join not mirrored")
	}
}

// Left removes one member. Redis drops a set or hash once it is empty, so a
// room that emptied needs no separate delete, and a late Left can never
// erase a member that joined after it.
func (p *Presence) Left(roomID, id string) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := p.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SRem(ctx, peersKey(roomID), id)
		pipe.HDel(ctx, namesKey(roomID), id)
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Str("module", "redis").Str("room", roomID).Str("uuid", id).Msg("presence leave not mirrored")
	}
}
