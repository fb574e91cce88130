package tasks

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"alfredoramos.mx/site-builder/app"
	"alfredoramos.mx/site-builder/helpers"
	"alfredoramos.mx/site-builder/models"
	"alfredoramos.mx/site-builder/utils"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

const (
	TaskWebsitePublished string = "website:published"
	TaskPublicCacheWarm  string = "public:cache:warm"
)

type WebsitePublishedPayload struct {
	WebsiteID uuid.UUID `json:"website_id"`
	UserID    uuid.UUID `json:"user_id"`
}

func NewWebsitePublishedTask(websiteID uuid.UUID, userID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(WebsitePublishedPayload{WebsiteID: websiteID, UserID: userID})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(TaskWebsitePublished, payload), nil
}

// NewWebsitePublished notifies the publisher once the website is live.
func NewWebsitePublished(websiteID uuid.UUID, userID uuid.UUID) error {
	task, err := NewWebsitePublishedTask(websiteID, userID)
	if err != nil {
		sentry.CaptureException(err)
		return err
	}

	return enqueue(task, asynq.MaxRetry(3), asynq.ProcessIn(10*time.Second), asynq.Retention(time.Hour))
}

// websitePublishedEmail builds the notification, it is nil when the website
// was unpublished or deleted before the task ran.
func websitePublishedEmail(ctx context.Context, db *gorm.DB, p WebsitePublishedPayload) (*helpers.EmailOpts, map[string]any, error) {
	website := &models.Website{}
	if err := db.WithContext(ctx).
		Where("id = @id AND status = @status", sql.Named("id", p.WebsiteID), sql.Named("status", models.WebsiteStatusPublished)).
		First(website).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil
		}

		return nil, nil, err
	}

	user := &models.User{}
	if err := db.WithContext(ctx).Where(&models.User{ID: p.UserID}).First(user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil
		}

		return nil, nil, err
	}

	opts := &helpers.EmailOpts{
		Subject:      "Your website is live",
		TemplateName: "website_published",
		ToList:       []string{user.Email},
	}

	data := map[string]any{
		"UserName":    user.GetFullName(),
		"WebsiteName": website.Name,
		"WebsiteURL":  utils.PublicSiteURL(website.Slug),
	}

	return opts, data, nil
}

func HandleWebsitePublishedTask(ctx context.Context, t *asynq.Task) error {
	p := WebsitePublishedPayload{}
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("Could not decode payload: %w: %w", err, asynq.SkipRetry)
	}

	opts, data, err := websitePublishedEmail(ctx, app.DB(), p)
	if err != nil {
		return fmt.Errorf("Could not load published website: %w", err)
	}

	if opts == nil {
		slog.Info(fmt.Sprintf("Website %s is no longer published, skipping notification.", p.WebsiteID))
		return nil
	}

	return deliveryError(helpers.SendEmail(ctx, *opts, data))
}

func NewPublicCacheWarm() error {
	return enqueue(asynq.NewTask(TaskPublicCacheWarm, nil), asynq.MaxRetry(1), asynq.Queue("low"), asynq.Unique(5*time.Minute))
}

func HandlePublicCacheWarmTask(ctx context.Context, t *asynq.Task) error {
	warmed, err := helpers.WarmPublicCache(ctx, app.DB(), app.Cache())
	if err != nil {
		sentry.CaptureException(err)
		slog.Error(fmt.Sprintf("Could not warm public cache: %v", err))
	}

	slog.Info(fmt.Sprintf("Warmed %d public websites.", warmed))

	return nil
}
