package contracts

import "time"

// Priorities accepted by the task service.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Recurrence frequencies accepted by the task service.
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyYearly  = "yearly"
)

// Identity is the reconciled user record used by the UI after login. The ID
// is the task service's user identifier, not necessarily the auth provider's.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Canonical reports whether the ID looks like a task-service identifier.
// Provider-issued IDs are shorter; letting one through would key task
// ownership to the wrong account.
func (i Identity) Canonical() bool {
	return len(i.ID) >= 10
}

type RecurrencePattern struct {
	Frequency string `json:"frequency"`
	Interval  int    `json:"interval"`
}

type Tag struct {
	Name string `json:"name"`
}

// Task is the task service's wire representation. The backend is the sole
// source of truth; this app never stores tasks.
type Task struct {
	ID          int64              `json:"id"`
	UserID      string             `json:"user_id"`
	Title       string             `json:"title"`
	Description *string            `json:"description"`
	Completed   bool               `json:"completed"`
	Priority    string             `json:"priority,omitempty"`
	DueDate     *time.Time         `json:"due_date,omitempty"`
	IsRecurring bool               `json:"is_recurring,omitempty"`
	Recurrence  *RecurrencePattern `json:"recurrence_pattern,omitempty"`
	Tags        []Tag              `json:"tags,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func IsValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

func IsValidFrequency(f string) bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	default:
		return false
	}
}
