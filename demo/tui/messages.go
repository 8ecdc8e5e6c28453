package tui

import "time"

// Messages for the tea program (polling-based)

// SubmittedMsg is sent when the generation request has been submitted
type SubmittedMsg struct {
	TaskID string
	Err    error
}

// StatusUpdateMsg is sent when we receive a task status from the API
type StatusUpdateMsg struct {
	Status *TaskStatus
	Err    error
}

// ResultsMsg is sent when final results have been fetched
type ResultsMsg struct {
	Results *TaskResults
	Err     error
}

// TickMsg is sent periodically to trigger polling
type TickMsg struct {
	Time time.Time
}
