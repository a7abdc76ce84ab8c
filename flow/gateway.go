package flow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jackle3/moderation-api/models"
)

// escalateLocked hands a collected report to the moderator pool: the
// session moves to ESCALATED, the reporter-side prompts are retracted, and
// the report is published on the community's moderator surface with a fresh
// action prompt. Requires s.mu to be held.
//
// With no moderator surface configured for the community the manual report
// stays where it is and the reporter sees a blocking error; nothing is
// silently dropped.
func (e *Engine) escalateLocked(ctx context.Context, s *Session) error {
	surface, ok := e.surfaceFor(s.target.CommunityID)
	if !ok {
		zap.S().Errorw("no moderator surface registered for community",
			"sessionId", s.id,
			"communityId", s.target.CommunityID,
		)
		e.notify(ctx, s.id, reporterTarget(s),
			"Your report could not be submitted: no moderation team is configured for this community. Please contact the community owner.")
		return ErrNoModeratorSurface
	}

	s.lifecycle = models.LifecycleEscalated
	s.reporterState = StateSubmitted
	s.promptDeadline = time.Time{} // moderator prompts carry no deadline
	e.retract(ctx, s.id, s.trail.Drain())
	e.notify(ctx, s.id, reporterTarget(s), reportConfirmationMessage)
	e.renderPromptLocked(ctx, s, surface, moderatorActionPrompt(e.cfg.Taxonomy, s.snapshotLocked()))

	zap.S().Infow("report escalated to moderators",
		"sessionId", s.id,
		"communityId", s.target.CommunityID,
		"categoryPath", s.categoryPath,
		"origin", string(s.origin),
	)
	return nil
}

// SubmitAutomatic injects a classifier-generated report directly into the
// moderator-side workflow, bypassing the reporter flow entirely. Category
// and subtype are validated against the taxonomy; unknown values fall back
// to the designated "other" node and are logged as data-quality events,
// never raised to the caller. The caller applies its confidence threshold
// before invoking this.
func (e *Engine) SubmitAutomatic(ctx context.Context, target models.TargetMessage, result models.ClassifierResult) (models.ReportSession, error) {
	path := e.classifierPath(result)

	note := result.Reasoning
	if runes := []rune(note); len(runes) > e.cfg.NoteLimit {
		note = string(runes[:e.cfg.NoteLimit])
	}

	s := &Session{
		id:                uuid.NewString(),
		origin:            models.OriginAutomatic,
		target:            target,
		categoryPath:      path,
		note:              note,
		noteSet:           note != "",
		lifecycle:         models.LifecycleEscalated,
		active:            true,
		reporterState:     StateSubmitted,
		suggestedSeverity: result.Severity,
		confidence:        result.Confidence,
		createdAt:         time.Now(),
	}

	surface, ok := e.surfaceFor(target.CommunityID)
	if !ok {
		// No reporter to notify, so the automatic report is dropped.
		zap.S().Warnw("dropping automatic report, no moderator surface registered",
			"communityId", target.CommunityID,
			"messageId", target.MessageID,
		)
		return models.ReportSession{}, ErrNoModeratorSurface
	}

	e.store.Put(s)
	s.mu.Lock()
	defer s.mu.Unlock()
	e.renderPromptLocked(ctx, s, surface, moderatorActionPrompt(e.cfg.Taxonomy, s.snapshotLocked()))
	zap.S().Infow("automatic report escalated",
		"sessionId", s.id,
		"communityId", target.CommunityID,
		"categoryPath", s.categoryPath,
		"confidence", result.Confidence,
	)
	return s.snapshotLocked(), nil
}

// classifierPath maps a classifier category/subtype pair onto a valid
// taxonomy path. Category matching is case-insensitive; anything that still
// does not validate lands on the fallback node.
func (e *Engine) classifierPath(result models.ClassifierResult) []string {
	category, ok := e.cfg.Taxonomy.NormalizeCategoryKey(result.Category)
	if !ok {
		if result.Category != "" {
			zap.S().Warnw("classifier category not in taxonomy, falling back",
				"category", result.Category,
				"fallback", models.OtherCategoryKey,
			)
		}
		return []string{models.OtherCategoryKey}
	}

	node, _ := e.cfg.Taxonomy.Category(category)
	if !node.HasSubtypes() {
		return []string{category}
	}
	if result.Subtype == "" {
		return []string{category}
	}
	subtype, ok := node.NormalizeSubtypeKey(result.Subtype)
	if !ok {
		zap.S().Warnw("classifier subtype not in taxonomy, falling back",
			"category", category,
			"subtype", result.Subtype,
		)
		if fallback, ok := node.Subtype(models.OtherCategoryKey); ok {
			return []string{category, fallback.Key}
		}
		return []string{category}
	}
	return []string{category, subtype}
}

// ListActive returns snapshots of every non-terminal session for a
// community. Read-only; no session state changes.
func (e *Engine) ListActive(communityID string) []models.ReportSession {
	return e.store.ActiveByScope(communityID)
}
