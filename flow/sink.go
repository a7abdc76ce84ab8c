package flow

import (
	"context"

	"github.com/jackle3/moderation-api/models"
)

// TargetKind says which surface a notification goes to
type TargetKind string

// Notification surfaces
const (
	// TargetReporter is the reporting user's thread.
	TargetReporter TargetKind = "reporter"
	// TargetModerators is a community's moderator surface.
	TargetModerators TargetKind = "moderators"
	// TargetUser is a direct message to the reported user.
	TargetUser TargetKind = "user"
)

// Target addresses one notification surface. ID is the reporter id, the
// moderator surface id, or the reported user id depending on Kind.
type Target struct {
	Kind TargetKind
	ID   string
}

// PromptHandle identifies a previously rendered prompt so it can be
// retracted later. Opaque to the engine; an empty handle means the render
// failed and there is nothing to retract.
type PromptHandle string

// PromptOption is one selectable choice on a prompt
type PromptOption struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// PromptSpec is an interactive prompt the sink should render. The engine
// only cares about the option keys it gets back as input; everything else
// is display data.
type PromptSpec struct {
	Title   string         `json:"title"`
	Body    string         `json:"body"`
	Options []PromptOption `json:"options"`
}

// NotificationSink is the boundary to the chat platform. The engine calls
// it and never implements it; every method may fail independently and the
// engine treats those failures as non-fatal.
type NotificationSink interface {
	// RenderPrompt shows an interactive prompt and returns a handle for
	// later retraction.
	RenderPrompt(ctx context.Context, target Target, spec PromptSpec) (PromptHandle, error)

	// Retract deletes or disables a previously rendered prompt.
	Retract(ctx context.Context, handle PromptHandle) error

	// Notify delivers plain rendered content to a surface.
	Notify(ctx context.Context, target Target, content string) error

	// ApplyMessageAction executes the chosen message sanction on the
	// platform, e.g. deleting the reported message.
	ApplyMessageAction(ctx context.Context, msg models.TargetMessage, action models.MessageAction) error

	// ApplyUserAction executes the chosen user sanction on the platform.
	ApplyUserAction(ctx context.Context, msg models.TargetMessage, action models.UserAction) error
}

// OversightNotifier receives supplementary escalations for high-severity
// outcomes. Optional; a nil notifier disables oversight escalation.
type OversightNotifier interface {
	Escalate(ctx context.Context, snapshot models.ReportSession, summary string) error
}
