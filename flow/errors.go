package flow

import "errors"

// Flow errors surfaced to the acting party. All of these are ordinary
// outcomes of a multi-actor workflow, not process failures: handlers map
// them to 4xx responses and the session is left exactly as it was.
var (
	// ErrUnknownSession means no live session exists for the id.
	ErrUnknownSession = errors.New("unknown report session")

	// ErrStaleInteraction means input arrived for a terminal session or for
	// a step the flow is not on.
	ErrStaleInteraction = errors.New("this report step is no longer active")

	// ErrLostRace means another moderator already claimed or closed the
	// session.
	ErrLostRace = errors.New("this report has already been handled by another moderator")

	// ErrInvalidSelection means the submitted value is not an option at the
	// step it was aimed at.
	ErrInvalidSelection = errors.New("invalid selection for this step")

	// ErrNoteAlreadySet means a second free-text note was submitted for the
	// same session.
	ErrNoteAlreadySet = errors.New("a note has already been recorded for this report")

	// ErrNoModeratorSurface means no moderator surface is registered for the
	// target community, so the report cannot be escalated.
	ErrNoModeratorSurface = errors.New("no moderator surface is configured for this community")
)
