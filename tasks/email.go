package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"alfredoramos.mx/site-builder/helpers"
	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
)

const (
	TaskEmailDelivery string = "email:delivery"
)

type EmailDeliveryPayload struct {
	Source helpers.EmailOpts `json:"source"`
	Data   map[string]any    `json:"data"`
}

func NewEmailDeliveryTask(s helpers.EmailOpts, d map[string]any) (*asynq.Task, error) {
	payload, err := json.Marshal(EmailDeliveryPayload{s, d})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(TaskEmailDelivery, payload), nil
}

func HandleEmailDeliveryTask(ctx context.Context, t *asynq.Task) error {
	p := EmailDeliveryPayload{}
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("Could not decode payload: %w: %w", err, asynq.SkipRetry)
	}

	return deliveryError(helpers.SendEmail(ctx, p.Source, p.Data))
}

// deliveryError lets asynq retry SMTP failures but not broken messages.
func deliveryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, helpers.ErrEmailRender) {
		return fmt.Errorf("Could not deliver email: %w: %w", err, asynq.SkipRetry)
	}

	return fmt.Errorf("Could not deliver email: %w", err)
}

func NewEmail(s helpers.EmailOpts, d map[string]any) error {
	task, err := NewEmailDeliveryTask(s, d)
	if err != nil {
		sentry.CaptureException(err)
		slog.Error(fmt.Sprintf("Could not create task: %v", err))
		return err
	}

	return enqueue(task, asynq.MaxRetry(3), asynq.ProcessIn(3*time.Second), asynq.Retention(time.Hour))
}

func enqueue(task *asynq.Task, opts ...asynq.Option) error {
	info, err := AsynqClient().Enqueue(task, opts...)
	if err != nil {
		sentry.CaptureException(err)
		slog.Error(fmt.Sprintf("Could not enqueue task '%s': %v", task.Type(), err))
		return err
	}

	slog.Info(fmt.Sprintf("Enqueued tasks: [%s] %s %s", info.ID, info.Queue, info.Type))

	return nil
}
