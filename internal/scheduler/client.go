// Package scheduler runs delayed work through asynq: follow-up
// reminders enqueued by the leads service and fired by the worker.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dealerhub_backend/platform/config"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

type Client struct {
	client *asynq.Client
	opt    asynq.RedisClientOpt
	queue  string
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	return &Client{
		client: asynq.NewClient(opt),
		opt:    opt,
		queue:  queue,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// ScheduleFollowUp enqueues a reminder to fire at the given time. The
// task id is derived from the lead so rescheduling replaces the
// previous reminder instead of stacking a second one.
func (c *Client) ScheduleFollowUp(ctx context.Context, leadID uuid.UUID, at time.Time) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewFollowUpReminderTask(FollowUpReminderPayload{LeadID: leadID.String()})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.ProcessAt(at),
		asynq.Queue(c.queue),
		asynq.TaskID(followUpTaskID(leadID)),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		// Replace the pending reminder.
		if err := c.CancelFollowUp(ctx, leadID); err != nil {
			return err
		}
		_, err = c.client.EnqueueContext(ctx, task,
			asynq.ProcessAt(at),
			asynq.Queue(c.queue),
			asynq.TaskID(followUpTaskID(leadID)),
		)
	}
	return err
}

// CancelFollowUp removes a pending reminder if one exists.
func (c *Client) CancelFollowUp(ctx context.Context, leadID uuid.UUID) error {
	if c == nil || c.client == nil {
		return nil
	}

	inspector := asynq.NewInspector(c.opt)
	defer inspector.Close()

	err := inspector.DeleteTask(c.queue, followUpTaskID(leadID))
	if errors.Is(err, asynq.ErrTaskNotFound) {
		return nil
	}
	return err
}

func followUpTaskID(leadID uuid.UUID) string {
	return "followup:" + leadID.String()
}

func redisClientOpt(redisURL string) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	clientOpt := asynq.RedisClientOpt{
		Addr:     opt.Addr,
		Password: opt.Password,
		DB:       opt.DB,
	}
	if opt.TLSConfig != nil {
		clientOpt.TLSConfig = opt.TLSConfig.Clone()
	}
	return clientOpt, nil
}
