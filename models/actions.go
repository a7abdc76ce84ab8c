package models

// Severity is the moderator's rating of how bad the violation is
type Severity string

// Severity levels, lowest to highest
const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityRanks = map[Severity]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// ParseSeverity returns the canonical severity for raw
func ParseSeverity(raw string) (Severity, bool) {
	s := Severity(raw)
	_, ok := severityRanks[s]
	return s, ok
}

// AtLeast reports whether s is min or worse. Unknown severities rank below low.
func (s Severity) AtLeast(min Severity) bool {
	return severityRanks[s] >= severityRanks[min] && s != "" && min != ""
}

// Label returns the display label for the severity
func (s Severity) Label() string {
	switch s {
	case SeverityLow:
		return "Low"
	case SeverityMedium:
		return "Medium"
	case SeverityHigh:
		return "High"
	case SeverityCritical:
		return "Critical"
	}
	return string(s)
}

// MessageAction is what happens to the reported message
type MessageAction string

// Message actions
const (
	MessageActionRemove MessageAction = "remove"
	MessageActionKeep   MessageAction = "keep"
)

// ParseMessageAction returns the canonical message action for raw
func ParseMessageAction(raw string) (MessageAction, bool) {
	switch MessageAction(raw) {
	case MessageActionRemove:
		return MessageActionRemove, true
	case MessageActionKeep:
		return MessageActionKeep, true
	}
	return "", false
}

// Label returns the display label for the message action
func (a MessageAction) Label() string {
	switch a {
	case MessageActionRemove:
		return "Remove Message"
	case MessageActionKeep:
		return "Keep Message"
	}
	return string(a)
}

// UserAction is the sanction applied to the reported user
type UserAction string

// User actions
const (
	UserActionWarn    UserAction = "warn"
	UserActionTimeout UserAction = "timeout"
	UserActionKick    UserAction = "kick"
	UserActionBan     UserAction = "ban"
)

// ParseUserAction returns the canonical user action for raw
func ParseUserAction(raw string) (UserAction, bool) {
	switch UserAction(raw) {
	case UserActionWarn:
		return UserActionWarn, true
	case UserActionTimeout:
		return UserActionTimeout, true
	case UserActionKick:
		return UserActionKick, true
	case UserActionBan:
		return UserActionBan, true
	}
	return "", false
}

// Label returns the display label for the user action
func (a UserAction) Label() string {
	switch a {
	case UserActionWarn:
		return "Warn User"
	case UserActionTimeout:
		return "Timeout User"
	case UserActionKick:
		return "Kick User"
	case UserActionBan:
		return "Ban User"
	}
	return string(a)
}
