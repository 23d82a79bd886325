package task

import (
	"errors"
	"time"

	"github.com/bihua-university/countries/internal/document"
)

// Status 表示任务状态
type Status string

const (
	Running   Status = "Running"
	Completed Status = "Completed"
	Failed    Status = "Failed"
)

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == Completed || s == Failed
}

var (
	ErrNotFound   = errors.New("task not found")
	ErrNotRunning = errors.New("task is not running")
)

// Task 表示一个比较任务
type Task struct {
	ID        string          `json:"task_id"`
	Status    Status          `json:"status"`
	Result    *document.Value `json:"result"`
	CountryA  string          `json:"country_a"`
	CountryB  string          `json:"country_b"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Side is one country of a comparison together with its filtered document.
type Side struct {
	Name string
	Data document.Value
}
