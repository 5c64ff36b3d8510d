package trigger

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pawkeeper/notification-scheduling/internal/domain"
	"github.com/pawkeeper/notification-scheduling/internal/observability/tracing"
)

const (
	pendingKeyPrefix = "notify:pending:"
	scheduleKey      = "notify:schedule"
	badgeKey         = "notify:badge"

	// Records survive their fire instant long enough for a slow dispatcher
	// to pick them up, then expire on their own.
	pendingRetention = 24 * time.Hour
)

var ErrInvalidTriggerData = errors.New("invalid trigger data")

type triggerRecord struct {
	ID             string    `json:"id"`
	ReminderID     string    `json:"reminder_id"`
	ReminderType   string    `json:"reminder_type,omitempty"`
	PetID          string    `json:"pet_id,omitempty"`
	Frequency      string    `json:"frequency,omitempty"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	TargetTime     time.Time `json:"target_time"`
	NotifyTime     time.Time `json:"notify_time"`
	AdvanceMinutes int       `json:"advance_minutes"`
	FireTime       time.Time `json:"fire_time"`
}

// RedisStore keeps one-shot triggers in a sorted set scored by fire instant,
// with the payload of each trigger in its own JSON record.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) RegisterOneShot(ctx context.Context, payload *domain.Payload, fireAt time.Time) (string, error) {
	if payload == nil {
		return "", domain.ErrInvalidPayload
	}

	id := uuid.NewString()
	if err := s.mirror(ctx, id, payload, fireAt); err != nil {
		return "", err
	}
	return id, nil
}

// mirror writes the pending record and schedule entry for an externally
// chosen handle.
func (s *RedisStore) mirror(ctx context.Context, id string, payload *domain.Payload, fireAt time.Time) error {
	ctx, span := tracing.StartTriggerStoreSpan(ctx, "register")
	defer span.End()

	record := triggerRecord{
		ID:             id,
		ReminderID:     payload.ReminderID,
		ReminderType:   string(payload.ReminderType),
		PetID:          payload.PetID,
		Frequency:      string(payload.Frequency),
		Title:          payload.Title,
		Body:           payload.Body,
		TargetTime:     payload.TargetTime,
		NotifyTime:     payload.NotifyTime,
		AdvanceMinutes: payload.AdvanceMinutes,
		FireTime:       fireAt,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return ErrInvalidTriggerData
	}

	ttl := time.Until(fireAt) + pendingRetention

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, pendingKeyPrefix+id, data, ttl)
	pipe.ZAdd(ctx, scheduleKey, redis.Z{Score: float64(fireAt.UnixMilli()), Member: id})

	_, err = pipe.Exec(ctx)
	return err
}

// Cancel removes a trigger by handle. Cancelling an unknown or already
// fired handle is a no-op.
func (s *RedisStore) Cancel(ctx context.Context, id string) error {
	ctx, span := tracing.StartTriggerStoreSpan(ctx, "cancel")
	defer span.End()

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, pendingKeyPrefix+id)
	pipe.ZRem(ctx, scheduleKey, id)

	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) CancelAll(ctx context.Context) error {
	ids, err := s.client.ZRange(ctx, scheduleKey, 0, -1).Result()
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	for _, id := range ids {
		pipe.Del(ctx, pendingKeyPrefix+id)
	}
	pipe.Del(ctx, scheduleKey)

	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) QueryAllPending(ctx context.Context) ([]domain.PendingNotification, error) {
	ids, err := s.client.ZRange(ctx, scheduleKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	return s.loadRecords(ctx, ids)
}

// PopDue atomically claims every trigger whose fire instant is at or before
// now. A claimed trigger is removed from the pending set before it is
// returned, so two dispatcher ticks never fire the same trigger twice.
func (s *RedisStore) PopDue(ctx context.Context, now time.Time) ([]domain.PendingNotification, error) {
	ctx, span := tracing.StartTriggerStoreSpan(ctx, "pop_due")
	defer span.End()

	maxScore := float64(now.UnixMilli())

	ids, err := s.client.ZRangeByScore(ctx, scheduleKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatFloat(maxScore, 'f', -1, 64),
	}).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	due, err := s.loadRecords(ctx, ids)
	if err != nil {
		return nil, err
	}

	pipe := s.client.TxPipeline()
	for _, id := range ids {
		pipe.Del(ctx, pendingKeyPrefix+id)
		pipe.ZRem(ctx, scheduleKey, id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	return due, nil
}

func (s *RedisStore) SetBadge(ctx context.Context, count int) error {
	return s.client.Set(ctx, badgeKey, count, 0).Err()
}

func (s *RedisStore) GetBadge(ctx context.Context) (int, error) {
	val, err := s.client.Get(ctx, badgeKey).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return val, nil
}

// IncrementBadge bumps the badge counter and returns the new value.
func (s *RedisStore) IncrementBadge(ctx context.Context) (int, error) {
	val, err := s.client.Incr(ctx, badgeKey).Result()
	if err != nil {
		return 0, err
	}
	return int(val), nil
}

func (s *RedisStore) loadRecords(ctx context.Context, ids []string) ([]domain.PendingNotification, error) {
	pending := make([]domain.PendingNotification, 0, len(ids))

	for _, id := range ids {
		data, err := s.client.Get(ctx, pendingKeyPrefix+id).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				// Record expired out from under the schedule entry.
				s.client.ZRem(ctx, scheduleKey, id)
				continue
			}
			return nil, err
		}

		var record triggerRecord
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, ErrInvalidTriggerData
		}

		pending = append(pending, domain.PendingNotification{
			ID: record.ID,
			Payload: domain.Payload{
				ReminderID:     record.ReminderID,
				ReminderType:   domain.ReminderType(record.ReminderType),
				PetID:          record.PetID,
				Frequency:      domain.Frequency(record.Frequency),
				Title:          record.Title,
				Body:           record.Body,
				TargetTime:     record.TargetTime,
				NotifyTime:     record.NotifyTime,
				AdvanceMinutes: record.AdvanceMinutes,
			},
			FireTime: record.FireTime,
		})
	}

	return pending, nil
}
