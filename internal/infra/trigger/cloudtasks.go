//go:build gcloud

package trigger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	cloudtasks "cloud.google.com/go/cloudtasks/apiv2"
	taskspb "cloud.google.com/go/cloudtasks/apiv2/cloudtaskspb"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/pawkeeper/notification-scheduling/internal/domain"
)

// CloudTasksStore registers each one-shot trigger as a Cloud Tasks task that
// calls back into the service's dispatch endpoint at fire time. The pending
// index and the badge counter stay in Redis so queries do not have to list
// and parse the remote queue.
type CloudTasksStore struct {
	client     *cloudtasks.Client
	index      *RedisStore
	projectID  string
	locationID string
	queueID    string
	targetURL  string
	maxRetries int
}

type CloudTasksConfig struct {
	ProjectID  string
	LocationID string
	QueueID    string
	TargetURL  string
	MaxRetries int
}

func NewCloudTasksStore(ctx context.Context, cfg CloudTasksConfig, redisClient *redis.Client) (*CloudTasksStore, error) {
	client, err := cloudtasks.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud tasks client: %w", err)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	return &CloudTasksStore{
		client:     client,
		index:      NewRedisStore(redisClient),
		projectID:  cfg.ProjectID,
		locationID: cfg.LocationID,
		queueID:    cfg.QueueID,
		targetURL:  cfg.TargetURL,
		maxRetries: maxRetries,
	}, nil
}

func (s *CloudTasksStore) RegisterOneShot(ctx context.Context, payload *domain.Payload, fireAt time.Time) (string, error) {
	if payload == nil {
		return "", domain.ErrInvalidPayload
	}

	id := uuid.NewString()

	body, err := json.Marshal(struct {
		TriggerID string          `json:"trigger_id"`
		Payload   *domain.Payload `json:"payload"`
		FireAt    time.Time       `json:"fire_at"`
	}{TriggerID: id, Payload: payload, FireAt: fireAt})
	if err != nil {
		return "", ErrInvalidTriggerData
	}

	task := &taskspb.Task{
		Name:         s.taskPath(id),
		ScheduleTime: timestamppb.New(fireAt),
		MessageType: &taskspb.Task_HttpRequest{
			HttpRequest: &taskspb.HttpRequest{
				HttpMethod: taskspb.HttpMethod_POST,
				Url:        s.targetURL,
				Headers: map[string]string{
					"Content-Type": "application/json",
				},
				Body: body,
			},
		},
	}

	req := &taskspb.CreateTaskRequest{
		Parent: s.queuePath(),
		Task:   task,
	}

	var lastErr error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * 100 * time.Millisecond
			slog.Debug("retrying trigger registration",
				slog.String("trigger_id", id),
				slog.String("reminder_id", payload.ReminderID),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		if err := s.createTask(ctx, req, id, payload.ReminderID); err != nil {
			lastErr = err
			continue
		}

		if err := s.index.mirror(ctx, id, payload, fireAt); err != nil {
			slog.Warn("failed to mirror trigger into pending index",
				slog.String("trigger_id", id),
				slog.String("error", err.Error()),
			)
		}
		return id, nil
	}

	slog.Error("all retries exhausted for trigger registration",
		slog.String("trigger_id", id),
		slog.String("reminder_id", payload.ReminderID),
		slog.Int("max_retries", s.maxRetries),
		slog.String("error", lastErr.Error()),
	)
	return "", fmt.Errorf("failed to register trigger after %d retries: %w", s.maxRetries, lastErr)
}

func (s *CloudTasksStore) createTask(ctx context.Context, req *taskspb.CreateTaskRequest, triggerID, reminderID string) error {
	slog.Debug("registering trigger to Cloud Tasks",
		slog.String("queue_path", req.Parent),
		slog.String("trigger_id", triggerID),
		slog.String("reminder_id", reminderID),
	)

	created, err := s.client.CreateTask(ctx, req)
	if err != nil {
		slog.Warn("failed to create cloud task",
			slog.String("trigger_id", triggerID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create cloud task: %w", err)
	}

	slog.Info("trigger registered to Cloud Tasks",
		slog.String("task_name", created.Name),
		slog.String("trigger_id", triggerID),
		slog.String("reminder_id", reminderID),
	)
	return nil
}

func (s *CloudTasksStore) Cancel(ctx context.Context, id string) error {
	var lastErr error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * 100 * time.Millisecond
			slog.Debug("retrying trigger deletion",
				slog.String("trigger_id", id),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		if err := s.deleteTask(ctx, id); err != nil {
			lastErr = err
			continue
		}

		return s.index.Cancel(ctx, id)
	}

	slog.Error("all retries exhausted for trigger deletion",
		slog.String("trigger_id", id),
		slog.Int("max_retries", s.maxRetries),
		slog.String("error", lastErr.Error()),
	)
	return fmt.Errorf("failed to delete trigger after %d retries: %w", s.maxRetries, lastErr)
}

func (s *CloudTasksStore) deleteTask(ctx context.Context, id string) error {
	req := &taskspb.DeleteTaskRequest{
		Name: s.taskPath(id),
	}

	if err := s.client.DeleteTask(ctx, req); err != nil {
		if status.Code(err) == codes.NotFound {
			slog.Info("task not found in Cloud Tasks (may have fired already)",
				slog.String("trigger_id", id),
			)
			return nil
		}

		slog.Warn("failed to delete cloud task",
			slog.String("trigger_id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to delete cloud task: %w", err)
	}

	slog.Info("trigger deleted from Cloud Tasks", slog.String("trigger_id", id))
	return nil
}

func (s *CloudTasksStore) CancelAll(ctx context.Context) error {
	pending, err := s.index.QueryAllPending(ctx)
	if err != nil {
		return err
	}

	for _, p := range pending {
		if err := s.Cancel(ctx, p.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *CloudTasksStore) QueryAllPending(ctx context.Context) ([]domain.PendingNotification, error) {
	return s.index.QueryAllPending(ctx)
}

func (s *CloudTasksStore) SetBadge(ctx context.Context, count int) error {
	return s.index.SetBadge(ctx, count)
}

func (s *CloudTasksStore) GetBadge(ctx context.Context) (int, error) {
	return s.index.GetBadge(ctx)
}

// ClaimFired removes a trigger from the pending index when its Cloud Tasks
// callback arrives.
func (s *CloudTasksStore) ClaimFired(ctx context.Context, id string) error {
	return s.index.Cancel(ctx, id)
}

func (s *CloudTasksStore) Close() error {
	return s.client.Close()
}

func (s *CloudTasksStore) queuePath() string {
	return fmt.Sprintf("projects/%s/locations/%s/queues/%s",
		s.projectID, s.locationID, s.queueID)
}

func (s *CloudTasksStore) taskPath(id string) string {
	return fmt.Sprintf("projects/%s/locations/%s/queues/%s/tasks/%s",
		s.projectID, s.locationID, s.queueID, id)
}
