package tasks

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hibiken/asynq"
	"gopkg.in/yaml.v3"
)

type FileBasedConfigProvider struct {
	Filename string
}

type TasksConfig struct {
	Cronspec string `yaml:"cronspec"`
	TaskType string `yaml:"task_type"`
	Queue    string `yaml:"queue"`
}

type PeriodicTaskConfigContainer struct {
	Configs []*TasksConfig `yaml:"configs"`
}

var periodicTaskQueues = map[string]string{
	TaskPublicCacheWarm: "low",
}

func NewTasksFileProvider() *FileBasedConfigProvider {
	configFile := strings.TrimSpace(os.Getenv("TASKS_CONFIG_FILE"))

	if len(configFile) < 1 {
		configFile = filepath.Join("tasks", "config.yml")
	}

	return &FileBasedConfigProvider{
		Filename: filepath.Clean(configFile),
	}
}

// GetConfigs rejects task types no handler is registered for.
func (p *FileBasedConfigProvider) GetConfigs() ([]*asynq.PeriodicTaskConfig, error) {
	data, err := os.ReadFile(p.Filename)
	if err != nil {
		return nil, fmt.Errorf("Could not read tasks config file: %w", err)
	}

	c := &PeriodicTaskConfigContainer{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("Could not decode tasks config file: %w", err)
	}

	configs := []*asynq.PeriodicTaskConfig{}

	for _, cfg := range c.Configs {
		queue, ok := periodicTaskQueues[cfg.TaskType]
		if !ok {
			return nil, fmt.Errorf("Unknown periodic task type '%s'.", cfg.TaskType)
		}

		if len(cfg.Queue) > 0 {
			queue = cfg.Queue
		}

		configs = append(configs, &asynq.PeriodicTaskConfig{
			Cronspec: cfg.Cronspec,
			Task:     asynq.NewTask(cfg.TaskType, nil),
			Opts:     []asynq.Option{asynq.Queue(queue)},
		})
	}

	return configs, nil
}
