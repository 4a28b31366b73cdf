package idempotency

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "booking_idem:"

type Redis struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{Client: client, TTL: ttl}
}

func (r *Redis) Claim(ctx context.Context, key string) (string, bool, error) {
	ok, err := r.Client.SetNX(ctx, keyPrefix+key, Pending, r.TTL).Result()
	if err != nil {
		return "", false, err
	}
	if ok {
		return "", true, nil
	}

	val, err := r.Client.Get(ctx, keyPrefix+key).Result()
	if err == redis.Nil {
		// expired between SETNX and GET; try once more
		ok, err = r.Client.SetNX(ctx, keyPrefix+key, Pending, r.TTL).Result()
		if err != nil {
			return "", false, err
		}
		if ok {
			return "", true, nil
		}
		return "", false, ErrInFlight
	}
	if err != nil {
		return "", false, err
	}
	if val == Pending {
		return "", false, ErrInFlight
	}
	return val, false, nil
}

func (r *Redis) Complete(ctx context.Context, key, bookingID string) error {
	return r.Client.Set(ctx, keyPrefix+key, bookingID, r.TTL).Err()
}

// Abandon deletes the key only while it is still pending, so a completed
// result is never discarded.
func (r *Redis) Abandon(ctx context.Context, key string) error {
	val, err := r.Client.Get(ctx, keyPrefix+key).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}
	if val == Pending {
		return r.Client.Del(ctx, keyPrefix+key).Err()
	}
	return nil
}
