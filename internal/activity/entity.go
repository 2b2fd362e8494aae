package activity

import "time"

// Record is one archived domain event about a task.
type Record struct {
	ID        string            `yaml:"id"`
	TaskID    string            `yaml:"task_id"`
	EventType string            `yaml:"event_type"`
	ActorID   string            `yaml:"actor_id"`
	Metadata  map[string]string `yaml:"metadata"`
	CreatedAt time.Time         `yaml:"created_at"`
}
