package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type testConfig struct {
	redisURL string
}

func (c testConfig) GetRedisURL() string       { return c.redisURL }
func (c testConfig) GetAsynqQueueName() string { return "test" }
func (c testConfig) GetAsynqConcurrency() int  { return 1 }

func newTestClient(t *testing.T) (*Client, *asynq.Inspector) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := NewClient(testConfig{redisURL: "redis://" + mr.Addr()})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	inspector := asynq.NewInspector(client.opt)
	t.Cleanup(func() { _ = inspector.Close() })
	return client, inspector
}

func TestScheduleFollowUpEnqueuesTask(t *testing.T) {
	client, inspector := newTestClient(t)
	leadID := uuid.New()

	err := client.ScheduleFollowUp(context.Background(), leadID, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("ScheduleFollowUp() error = %v", err)
	}

	task, err := inspector.GetTaskInfo("test", followUpTaskID(leadID))
	if err != nil {
		t.Fatalf("expected scheduled task: %v", err)
	}
	if task.Type != TaskFollowUpReminder {
		t.Errorf("task type = %q, want %q", task.Type, TaskFollowUpReminder)
	}

	payload, err := ParseFollowUpReminderPayload(asynq.NewTask(task.Type, task.Payload))
	if err != nil {
		t.Fatalf("parse payload: %v", err)
	}
	if payload.LeadID != leadID.String() {
		t.Errorf("payload lead = %q, want %q", payload.LeadID, leadID)
	}
}

func TestScheduleFollowUpReplacesPending(t *testing.T) {
	client, inspector := newTestClient(t)
	leadID := uuid.New()
	ctx := context.Background()

	if err := client.ScheduleFollowUp(ctx, leadID, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("first schedule: %v", err)
	}
	if err := client.ScheduleFollowUp(ctx, leadID, time.Now().Add(2*time.Hour)); err != nil {
		t.Fatalf("reschedule: %v", err)
	}

	tasks, err := inspector.ListScheduledTasks("test")
	if err != nil {
		t.Fatalf("list scheduled: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected a single pending reminder, got %d", len(tasks))
	}
}

func TestCancelFollowUp(t *testing.T) {
	client, inspector := newTestClient(t)
	leadID := uuid.New()
	ctx := context.Background()

	if err := client.ScheduleFollowUp(ctx, leadID, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := client.CancelFollowUp(ctx, leadID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := inspector.GetTaskInfo("test", followUpTaskID(leadID)); err == nil {
		t.Fatal("expected task to be deleted")
	}

	// Cancelling again is a no-op, not an error.
	if err := client.CancelFollowUp(ctx, leadID); err != nil {
		t.Fatalf("cancel of absent task: %v", err)
	}
}
