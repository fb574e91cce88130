package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"alfredoramos.mx/site-builder/utils"
	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
)

var (
	client          *asynq.Client
	server          *asynq.Server
	serveMux        *asynq.ServeMux
	taskManager     *asynq.PeriodicTaskManager
	onceTasks       sync.Once
	onceServer      sync.Once
	onceServeMux    sync.Once
	onceTaskManager sync.Once
)

// Queues share the Redis server of the cache, on their own database.
func redisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     utils.RedisAddress(),
		Password: os.Getenv("REDIS_PASS"),
		DB:       utils.RedisDB() + 1,
	}
}

func AsynqClient() *asynq.Client {
	onceTasks.Do(func() {
		client = asynq.NewClient(redisOpt())
	})

	return client
}

func AsynqServer() *asynq.Server {
	onceServer.Do(func() {
		server = asynq.NewServer(
			redisOpt(),
			asynq.Config{
				Concurrency: utils.QueueConcurrency(),
				ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
					sentry.CaptureException(err)
					slog.Error(fmt.Sprintf("Could not process %s task: %v", task.Type(), err))
				}),
				Queues: map[string]int{
					"critical": 6,
					"default":  3,
					"low":      1,
				},
			},
		)
	})

	return server
}

func AsynqServeMux() *asynq.ServeMux {
	onceServeMux.Do(func() {
		serveMux = asynq.NewServeMux()
		serveMux.HandleFunc(TaskEmailDelivery, HandleEmailDeliveryTask)
		serveMux.HandleFunc(TaskWebsitePublished, HandleWebsitePublishedTask)
		serveMux.HandleFunc(TaskPublicCacheWarm, HandlePublicCacheWarmTask)
	})

	return serveMux
}

func AsynqPeriodicTaskManager() *asynq.PeriodicTaskManager {
	onceTaskManager.Do(func() {
		var err error

		taskManager, err = asynq.NewPeriodicTaskManager(asynq.PeriodicTaskManagerOpts{
			RedisConnOpt:               redisOpt(),
			PeriodicTaskConfigProvider: NewTasksFileProvider(),
			SchedulerOpts: &asynq.SchedulerOpts{
				Location: utils.DefaultLocation(),
			},
			SyncInterval: 5 * time.Minute,
		})
		if err != nil {
			sentry.CaptureException(err)
			slog.Error(fmt.Sprintf("Could not create periodic task manager: %v", err))
			os.Exit(1)
		}
	})

	return taskManager
}
