package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// State represents the application state machine
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateWaiting    State = "waiting"
	StateComplete   State = "complete"
	StateError      State = "error"
)

// Variant is one published variant in the results payload
type Variant struct {
	VariantID string `json:"variant_id"`
	URL       string `json:"url"`
}

// TaskStatus is the JSON response from GET /status/:id
type TaskStatus struct {
	TaskID    string  `json:"task_id"`
	TaskName  string  `json:"task_name"`
	Status    string  `json:"status"`
	Progress  float64 `json:"progress"`
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Error     string  `json:"error,omitempty"`
}

// TaskResults is the JSON response from GET /results/:id
type TaskResults struct {
	TaskID        string    `json:"task_id"`
	TaskName      string    `json:"task_name"`
	TotalVariants int       `json:"total_variants"`
	Successful    int       `json:"successful"`
	Failed        int       `json:"failed"`
	Files         []Variant `json:"files"`
}

// Model represents the TUI client state (thin client)
type Model struct {
	// Generation API client
	Client *APIClient

	// Path to the request JSON submitted on 's'
	RequestPath string

	// Local UI state (synced from the API)
	State   State
	TaskID  string
	Status  *TaskStatus
	Results *TaskResults
	Err     error
}

// NewModel creates a new TUI model
func NewModel(apiURL, requestPath string) Model {
	return Model{
		Client:      NewAPIClient(apiURL),
		RequestPath: requestPath,
		State:       StateIdle,
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// getStateText returns the appropriate state message
func (m Model) getStateText() string {
	switch m.State {
	case StateIdle:
		return badgeStyle.Render("ready") + "\n\n" +
			dimStyle.Render(fmt.Sprintf("Press 's' to submit %s", m.RequestPath))
	case StateSubmitting:
		return progressStyle.Render("Submitting generation request...")
	case StateWaiting:
		return progressStyle.Render(fmt.Sprintf("Generating variants (task %s)...", m.TaskID))
	case StateComplete:
		return badgeStyle.Render("done")
	case StateError:
		errMsg := "unknown error"
		if m.Err != nil {
			errMsg = m.Err.Error()
		}
		return errorStyle.Render("error: " + errMsg)
	default:
		return ""
	}
}
