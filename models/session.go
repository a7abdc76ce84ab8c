package models

import "time"

// Origin says how a report session was created
type Origin string

// Report origins
const (
	OriginManual    Origin = "manual"
	OriginAutomatic Origin = "automatic"
)

// Lifecycle is the coarse state of a report session
type Lifecycle string

// Session lifecycle states
const (
	LifecycleCollecting Lifecycle = "collecting"
	LifecycleEscalated  Lifecycle = "escalated"
	LifecycleClosed     Lifecycle = "closed"
)

// Outcome is how a closed session ended
type Outcome string

// Terminal outcomes
const (
	OutcomeActioned  Outcome = "actioned"
	OutcomeDismissed Outcome = "dismissed"
	OutcomeCancelled Outcome = "cancelled"
)

// TargetMessage references the reported content. It is an opaque handle
// owned by the chat platform; the engine never mutates it.
type TargetMessage struct {
	MessageID   string `bson:"messageId" json:"messageId"`
	CommunityID string `bson:"communityId" json:"communityId"`
	ChannelID   string `bson:"channelId" json:"channelId"`
	AuthorID    string `bson:"authorId" json:"authorId"`
	Text        string `bson:"text" json:"text"`
	JumpLink    string `bson:"jumpLink" json:"jumpLink,omitempty"`
}

// ModerationDecision records the moderator's three choices. Fields stay
// empty until the corresponding flow step is answered.
type ModerationDecision struct {
	Severity      Severity      `bson:"severity,omitempty" json:"severity,omitempty"`
	MessageAction MessageAction `bson:"messageAction,omitempty" json:"messageAction,omitempty"`
	UserAction    UserAction    `bson:"userAction,omitempty" json:"userAction,omitempty"`
}

// ReportSession is the wire and archive representation of one report. The
// live session state is owned by the flow package; this struct is the
// snapshot handed to handlers, the archive collection, and tests.
type ReportSession struct {
	ID                string             `bson:"sessionId" json:"id"`
	Origin            Origin             `bson:"origin" json:"origin"`
	Target            TargetMessage      `bson:"target" json:"target"`
	ReporterID        string             `bson:"reporterId,omitempty" json:"reporterId,omitempty"`
	CategoryPath      []string           `bson:"categoryPath" json:"categoryPath"`
	Note              string             `bson:"note,omitempty" json:"note,omitempty"`
	Lifecycle         Lifecycle          `bson:"lifecycle" json:"lifecycle"`
	Outcome           Outcome            `bson:"outcome,omitempty" json:"outcome,omitempty"`
	Active            bool               `bson:"active" json:"active"`
	Decision          ModerationDecision `bson:"decision" json:"decision"`
	ModeratorID       string             `bson:"moderatorId,omitempty" json:"moderatorId,omitempty"`
	DismissReason     string             `bson:"dismissReason,omitempty" json:"dismissReason,omitempty"`
	SuggestedSeverity Severity           `bson:"suggestedSeverity,omitempty" json:"suggestedSeverity,omitempty"`
	Confidence        float64            `bson:"confidence,omitempty" json:"confidence,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	ClosedAt          time.Time          `bson:"closedAt,omitempty" json:"closedAt,omitempty"`
}
