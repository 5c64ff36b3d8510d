package preference

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/pawkeeper/notification-scheduling/internal/domain"
)

const preferencesKey = "notify:preferences"

var ErrInvalidPreferenceData = errors.New("invalid preference data")

// RedisRepository persists the preference snapshot as a single JSON record.
type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

func (r *RedisRepository) Get(ctx context.Context) (domain.Preferences, error) {
	data, err := r.client.Get(ctx, preferencesKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Preferences{}, domain.ErrPreferencesNotFound
		}
		return domain.Preferences{}, err
	}

	var prefs domain.Preferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return domain.Preferences{}, ErrInvalidPreferenceData
	}

	return prefs, nil
}

func (r *RedisRepository) Save(ctx context.Context, prefs domain.Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return ErrInvalidPreferenceData
	}

	return r.client.Set(ctx, preferencesKey, data, 0).Err()
}
