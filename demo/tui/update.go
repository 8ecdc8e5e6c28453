package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case SubmittedMsg:
		return m.handleSubmitted(msg)
	case StatusUpdateMsg:
		return m.handleStatusUpdate(msg)
	case ResultsMsg:
		return m.handleResults(msg)
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "s", "S":
		if m.State == StateIdle {
			m.State = StateSubmitting
			return m, submitRequest(m.Client, m.RequestPath)
		}
	}
	return m, nil
}

// handleSubmitted processes the submit response
func (m Model) handleSubmitted(msg SubmittedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.State = StateError
		m.Err = msg.Err
		return m, nil
	}
	m.TaskID = msg.TaskID
	m.State = StateWaiting
	return m, pollStatus(m.Client, m.TaskID)
}

// handleStatusUpdate processes a polled task status
func (m Model) handleStatusUpdate(msg StatusUpdateMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		// Transient connection errors keep the next tick polling.
		return m, nil
	}
	m.Status = msg.Status

	switch msg.Status.Status {
	case "completed":
		m.State = StateComplete
		return m, fetchResults(m.Client, m.TaskID)
	case "failed":
		m.State = StateError
		m.Err = taskError(msg.Status.Error)
	}
	return m, nil
}

// handleResults processes the final results payload
func (m Model) handleResults(msg ResultsMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.State = StateError
		m.Err = msg.Err
		return m, nil
	}
	m.Results = msg.Results
	return m, nil
}

// handleTick drives the polling loop
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.State == StateWaiting {
		return m, tea.Batch(pollStatus(m.Client, m.TaskID), tickCmd())
	}
	return m, tickCmd()
}

type taskError string

func (e taskError) Error() string { return string(e) }
