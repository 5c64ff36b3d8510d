package permission

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/pawkeeper/notification-scheduling/internal/domain"
)

const permissionKey = "notify:permission"

var ErrInvalidStatus = errors.New("invalid permission status")

// RedisGate stores the last permission status the client reported. An
// unreported status reads as undetermined.
type RedisGate struct {
	client *redis.Client
}

func NewRedisGate(client *redis.Client) *RedisGate {
	return &RedisGate{client: client}
}

func (g *RedisGate) Status(ctx context.Context) (domain.PermissionStatus, error) {
	val, err := g.client.Get(ctx, permissionKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.PermissionUndetermined, nil
		}
		return domain.PermissionUndetermined, err
	}

	status := domain.PermissionStatus(val)
	if !status.IsValid() {
		return domain.PermissionUndetermined, nil
	}

	return status, nil
}

func (g *RedisGate) Report(ctx context.Context, status domain.PermissionStatus) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}

	return g.client.Set(ctx, permissionKey, status.String(), 0).Err()
}
