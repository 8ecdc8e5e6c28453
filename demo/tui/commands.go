package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// submitRequest creates a command that submits the generation request
func submitRequest(client *APIClient, requestPath string) tea.Cmd {
	return func() tea.Msg {
		taskID, err := client.Submit(requestPath)
		return SubmittedMsg{TaskID: taskID, Err: err}
	}
}

// pollStatus creates a command to poll the task status
func pollStatus(client *APIClient, taskID string) tea.Cmd {
	return func() tea.Msg {
		status, err := client.GetStatus(taskID)
		return StatusUpdateMsg{
			Status: status,
			Err:    err,
		}
	}
}

// fetchResults creates a command to fetch the final results
func fetchResults(client *APIClient, taskID string) tea.Cmd {
	return func() tea.Msg {
		results, err := client.GetResults(taskID)
		return ResultsMsg{Results: results, Err: err}
	}
}

// tickCmd creates a command that ticks every 500ms for polling
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
