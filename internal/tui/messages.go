package tui

import (
	"github.com/ggowrisankar/weight-tracker/internal/service"
	"github.com/ggowrisankar/weight-tracker/models"
)

type sessionStartedMsg struct {
	err error
}

type authDoneMsg struct {
	err error
}

type loggedOutMsg struct {
	err error
}

type monthLoadedMsg struct {
	ref models.MonthRef
	err error
}

type committedMsg struct {
	day    int
	result service.CommitResult
	err    error
}

type saveStatusMsg struct {
	status service.SaveStatus
}

type sessionStateMsg struct {
	state models.SessionState
}

// conflictMsg opens the conflict prompt. The answer goes to reply, which has
// room for exactly one value.
type conflictMsg struct {
	local  models.Summary
	server models.Summary
	reply  chan<- service.Choice
}

type copiedMsg struct {
	err error
}

type clearStatusMsg struct{}
