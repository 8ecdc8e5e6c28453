package types

import "time"

// VoiceLine is one entry of a voiceN list: the text to synthesize and the
// catalog name of the voice to speak it.
type VoiceLine struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

// TaskStatus tracks a generation task through its lifecycle.
// Completed means the pipeline ran to the end, not that every variant
// succeeded; callers must also check the failed count.
type TaskStatus string

const (
	StatusQueued     TaskStatus = "queued"
	StatusProcessing TaskStatus = "processing"
	StatusCompleted  TaskStatus = "completed"
	StatusFailed     TaskStatus = "failed"
)

// VariantURL records one successfully published variant.
type VariantURL struct {
	VariantID string `json:"variant_id"`
	URL       string `json:"url"`
}

// Result aggregates the outcome of a generation run. Successful and Failed
// never overlap; together they cover every attempted variant.
type Result struct {
	Successful []VariantURL `json:"successful"`
	Failed     []string     `json:"failed"`
	Total      int          `json:"total"`
}

// Task is the registry's view of one generation run.
type Task struct {
	ID          string       `json:"task_id"`
	Name        string       `json:"task_name"`
	Status      TaskStatus   `json:"status"`
	Progress    float64      `json:"progress"`
	Completed   int          `json:"completed"`
	Total       int          `json:"total"`
	Results     []VariantURL `json:"results"`
	FailedCount int          `json:"failed_count"`
	CreatedAt   time.Time    `json:"created_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	Error       string       `json:"error,omitempty"`
}
