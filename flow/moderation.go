package flow

import (
	"context"

	"go.uber.org/zap"

	"github.com/jackle3/moderation-api/models"
)

// modStage numbers the three moderation steps so revision can reason about
// depth the same way the reporter flow does. The action prompt occupies
// trail index 0, so the prompt asking stage n sits at trail index n+1.
const (
	stageSeverity = iota
	stageMessageAction
	stageUserAction
)

var modStateForStage = map[int]ModState{
	stageSeverity:      StateSelectSeverity,
	stageMessageAction: StateSelectMessageAction,
	stageUserAction:    StateSelectUserAction,
}

// Claim marks a moderator as the one acting on an escalated report and
// presents the first step of the action sequence. Multiple moderators see
// the same escalation; exactly one claim succeeds and every later claim by
// another actor loses the race.
func (e *Engine) Claim(ctx context.Context, sessionID, actorID string) error {
	s, ok := e.store.Get(sessionID)
	if !ok {
		return ErrUnknownSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lifecycle == models.LifecycleCollecting {
		return ErrStaleInteraction
	}
	if !s.active || s.terminalLocked() {
		return ErrLostRace
	}
	if s.moderatorID != "" {
		if s.moderatorID == actorID {
			return nil // already claimed by this moderator
		}
		return ErrLostRace
	}

	surface, ok := e.surfaceFor(s.target.CommunityID)
	if !ok {
		// Surface was configured at escalation; losing it mid-flight is a
		// deployment change, not a session error. The session stays
		// unclaimed so another moderator can take it once the surface is
		// restored.
		zap.S().Errorw("moderator surface disappeared mid-session",
			"sessionId", s.id,
			"communityId", s.target.CommunityID,
		)
		return ErrNoModeratorSurface
	}
	s.moderatorID = actorID
	s.modState = StateSelectSeverity
	e.renderPromptLocked(ctx, s, surface, severityPrompt())
	zap.S().Infow("report claimed",
		"sessionId", s.id,
		"moderatorId", actorID,
	)
	return nil
}

// ModeratorInput records one step of the action sequence. The three option
// sets are disjoint, so the stage a value belongs to is derived from the
// value itself; answering an earlier stage with a different value is a
// revision that retracts the deeper prompts and clears the deeper
// decisions before the next prompt is shown.
//
// Every call re-checks the exclusivity flag first: input for a session
// another moderator closed is rejected as a lost race with no state change.
func (e *Engine) ModeratorInput(ctx context.Context, sessionID, value, actorID string) error {
	s, ok := e.store.Get(sessionID)
	if !ok {
		return ErrUnknownSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lifecycle == models.LifecycleCollecting {
		return ErrStaleInteraction
	}
	if !s.active || s.terminalLocked() {
		return ErrLostRace
	}
	if s.moderatorID == "" {
		return ErrStaleInteraction // the step sequence starts with a claim
	}
	if s.moderatorID != actorID {
		return ErrLostRace
	}

	stage, ok := stageForValue(value)
	if !ok {
		return ErrInvalidSelection
	}
	current, ok := currentStage(s.modState)
	if !ok || stage > current {
		return ErrStaleInteraction
	}

	surface, surfaceOK := e.surfaceFor(s.target.CommunityID)
	if !surfaceOK {
		zap.S().Errorw("moderator surface disappeared mid-session",
			"sessionId", s.id,
			"communityId", s.target.CommunityID,
		)
		return ErrNoModeratorSurface
	}

	if stage < current {
		if sameDecision(s.decision, stage, value) {
			return nil
		}
		retired := s.trail.TruncateTo(stage + 2)
		e.retract(ctx, s.id, retired)
		clearDecisionsBelow(&s.decision, stage)
		zap.S().Debugw("moderation decision revised",
			"sessionId", s.id,
			"stage", stage,
			"value", value,
		)
	}

	recordDecision(&s.decision, stage, value)

	switch stage {
	case stageSeverity:
		s.modState = StateSelectMessageAction
		e.renderPromptLocked(ctx, s, surface, messageActionPrompt())
	case stageMessageAction:
		s.modState = StateSelectUserAction
		e.renderPromptLocked(ctx, s, surface, userActionPrompt())
	case stageUserAction:
		e.summarizeLocked(ctx, s, surface)
	}
	return nil
}

// Dismiss closes an escalated report without entering the action sequence.
// Reachable before a claim or by the claiming moderator; any other actor
// loses the race.
func (e *Engine) Dismiss(ctx context.Context, sessionID, reason, actorID string) error {
	s, ok := e.store.Get(sessionID)
	if !ok {
		return ErrUnknownSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lifecycle == models.LifecycleCollecting {
		return ErrStaleInteraction
	}
	if !s.active || s.terminalLocked() {
		return ErrLostRace
	}
	if s.moderatorID != "" && s.moderatorID != actorID {
		return ErrLostRace
	}

	s.moderatorID = actorID
	s.dismissReason = reason
	e.closeLocked(ctx, s, models.OutcomeDismissed)

	if surface, ok := e.surfaceFor(s.target.CommunityID); ok {
		e.notify(ctx, s.id, surface,
			"Report "+s.id+" dismissed by "+actorID+".\nReason: "+reason)
	}
	e.notify(ctx, s.id, reporterTarget(s), dismissalReporterMessage(reason))
	return nil
}

// summarizeLocked is the SUMMARIZED transition: the session closes
// atomically first, then the recorded actions are applied and the summary
// is delivered. Action failures are surfaced as warnings on the moderator
// surface and never roll back the terminal state. Requires s.mu to be held.
func (e *Engine) summarizeLocked(ctx context.Context, s *Session, surface Target) {
	s.modState = StateSummarized
	e.closeLocked(ctx, s, models.OutcomeActioned)
	snap := s.snapshotLocked()

	if snap.Decision.MessageAction == models.MessageActionRemove {
		if err := e.sink.ApplyMessageAction(ctx, snap.Target, snap.Decision.MessageAction); err != nil {
			zap.S().Warnw("failed to apply message action",
				"sessionId", s.id,
				"action", string(snap.Decision.MessageAction),
				"error", err,
			)
			e.notify(ctx, s.id, surface,
				"Warning: failed to remove the reported message for report "+s.id+". The platform may lack permissions.")
		}
	}
	if err := e.sink.ApplyUserAction(ctx, snap.Target, snap.Decision.UserAction); err != nil {
		zap.S().Warnw("failed to apply user action",
			"sessionId", s.id,
			"action", string(snap.Decision.UserAction),
			"error", err,
		)
		e.notify(ctx, s.id, surface,
			"Warning: failed to apply the user action for report "+s.id+". The platform may lack permissions.")
	}

	summary := moderationSummary(snap)
	e.notify(ctx, s.id, surface, summary)
	e.notify(ctx, s.id, reporterTarget(s),
		"Your report has been reviewed by our moderators.\n"+summary)

	if e.Oversight != nil && snap.Decision.Severity.AtLeast(e.cfg.OversightMinimum) {
		if err := e.Oversight.Escalate(ctx, snap, summary); err != nil {
			zap.S().Errorw("failed to raise oversight escalation",
				"sessionId", s.id,
				"severity", string(snap.Decision.Severity),
				"error", err,
			)
		}
	}
}

func stageForValue(value string) (int, bool) {
	if _, ok := models.ParseSeverity(value); ok {
		return stageSeverity, true
	}
	if _, ok := models.ParseMessageAction(value); ok {
		return stageMessageAction, true
	}
	if _, ok := models.ParseUserAction(value); ok {
		return stageUserAction, true
	}
	return 0, false
}

func currentStage(state ModState) (int, bool) {
	for stage, st := range modStateForStage {
		if st == state {
			return stage, true
		}
	}
	return 0, false
}

func sameDecision(d models.ModerationDecision, stage int, value string) bool {
	switch stage {
	case stageSeverity:
		return string(d.Severity) == value
	case stageMessageAction:
		return string(d.MessageAction) == value
	case stageUserAction:
		return string(d.UserAction) == value
	}
	return false
}

func recordDecision(d *models.ModerationDecision, stage int, value string) {
	switch stage {
	case stageSeverity:
		d.Severity = models.Severity(value)
	case stageMessageAction:
		d.MessageAction = models.MessageAction(value)
	case stageUserAction:
		d.UserAction = models.UserAction(value)
	}
}

func clearDecisionsBelow(d *models.ModerationDecision, stage int) {
	if stage <= stageSeverity {
		d.MessageAction = ""
	}
	if stage <= stageMessageAction {
		d.UserAction = ""
	}
}
