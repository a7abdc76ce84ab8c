package flow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jackle3/moderation-api/models"
)

// OpenReport starts the guided reporting flow for a message. If the
// reporter already has a non-terminal report open against the same message
// the existing session is returned instead of opening a duplicate.
func (e *Engine) OpenReport(ctx context.Context, reporterID string, target models.TargetMessage) (models.ReportSession, error) {
	s := &Session{
		id:             uuid.NewString(),
		origin:         models.OriginManual,
		target:         target,
		reporterID:     reporterID,
		lifecycle:      models.LifecycleCollecting,
		active:         true,
		reporterState:  StateSelectCategory,
		promptDeadline: time.Now().Add(e.cfg.PromptTimeout),
		createdAt:      time.Now(),
	}
	if existing, created := e.store.PutOpenManual(s); !created {
		return existing.Snapshot(), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e.renderPromptLocked(ctx, s, reporterTarget(s), categoryPrompt(e.cfg.Taxonomy, target))
	zap.S().Infow("report session opened",
		"sessionId", s.id,
		"reporterId", reporterID,
		"communityId", target.CommunityID,
	)
	return s.snapshotLocked(), nil
}

// ReporterInput records one taxonomy selection. Level is the depth the
// selection is aimed at (0 for the top-level category); pass a negative
// level to let the engine infer it, preferring the pending level and
// otherwise treating the input as a revision of the deepest answered level
// the value is valid for.
//
// Revising an earlier level retracts every prompt already shown for the
// deeper levels and truncates the recorded path before the next prompt is
// presented, so two divergent branches can never be visible at once.
func (e *Engine) ReporterInput(ctx context.Context, sessionID, value string, level int) error {
	s, ok := e.store.Get(sessionID)
	if !ok {
		return ErrUnknownSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.origin != models.OriginManual || s.lifecycle != models.LifecycleCollecting {
		return ErrStaleInteraction
	}

	pending := len(s.categoryPath)
	if level < 0 {
		level = e.inferLevelLocked(s, value, pending)
		if level < 0 {
			return ErrInvalidSelection
		}
	}
	if level > pending {
		return ErrStaleInteraction
	}
	options, ok := e.optionsAtLocked(s, level)
	if !ok {
		return ErrStaleInteraction
	}
	if _, ok := findOption(options, value); !ok {
		return ErrInvalidSelection
	}

	if level < pending {
		if s.categoryPath[level] == value {
			return nil // re-selecting the same answer changes nothing
		}
		retired := s.trail.TruncateTo(level + 1)
		e.retract(ctx, s.id, retired)
		s.categoryPath = s.categoryPath[:level]
		zap.S().Debugw("report selection revised",
			"sessionId", s.id,
			"level", level,
			"value", value,
		)
	}

	s.categoryPath = append(s.categoryPath, value)
	s.promptDeadline = time.Now().Add(e.cfg.PromptTimeout)

	node, _ := e.cfg.Taxonomy.Resolve(s.categoryPath)
	if node.HasSubtypes() {
		s.reporterState = StateSelectSubtype
		e.renderPromptLocked(ctx, s, reporterTarget(s), subtypePrompt(node))
		return nil
	}
	s.reporterState = StateOptionalNote
	e.renderPromptLocked(ctx, s, reporterTarget(s), notePrompt())
	return nil
}

// inferLevelLocked picks the level an unlabelled input is aimed at.
// Requires s.mu to be held.
func (e *Engine) inferLevelLocked(s *Session, value string, pending int) int {
	if options, ok := e.optionsAtLocked(s, pending); ok {
		if _, ok := findOption(options, value); ok {
			return pending
		}
	}
	for level := pending - 1; level >= 0; level-- {
		options, ok := e.optionsAtLocked(s, level)
		if !ok {
			continue
		}
		if _, ok := findOption(options, value); ok {
			return level
		}
	}
	return -1
}

// optionsAtLocked returns the taxonomy nodes selectable at a depth, given
// the current path prefix. Requires s.mu to be held.
func (e *Engine) optionsAtLocked(s *Session, level int) ([]models.TaxonomyNode, bool) {
	if level == 0 {
		return e.cfg.Taxonomy.Categories, true
	}
	if level > len(s.categoryPath) {
		return nil, false
	}
	node, ok := e.cfg.Taxonomy.Resolve(s.categoryPath[:level])
	if !ok || !node.HasSubtypes() {
		return nil, false
	}
	return node.Subtypes, true
}

func findOption(nodes []models.TaxonomyNode, key string) (models.TaxonomyNode, bool) {
	for _, n := range nodes {
		if n.Key == key {
			return n, true
		}
	}
	return models.TaxonomyNode{}, false
}

// ReporterNote records the optional free-text note, or skips it, and
// submits the report to the moderator pool. The note is stored verbatim up
// to the configured limit; overflow is truncated, not rejected.
func (e *Engine) ReporterNote(ctx context.Context, sessionID, note string, skip bool) error {
	s, ok := e.store.Get(sessionID)
	if !ok {
		return ErrUnknownSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.origin != models.OriginManual || s.lifecycle != models.LifecycleCollecting ||
		s.reporterState != StateOptionalNote {
		return ErrStaleInteraction
	}
	if !skip {
		if s.noteSet {
			return ErrNoteAlreadySet
		}
		if runes := []rune(note); len(runes) > e.cfg.NoteLimit {
			note = string(runes[:e.cfg.NoteLimit])
		}
		s.note = note
		s.noteSet = true
	}
	return e.escalateLocked(ctx, s)
}

// CancelReport cancels a report that is still being collected. Terminal and
// escalated sessions reject the cancel as stale.
func (e *Engine) CancelReport(ctx context.Context, sessionID string) error {
	s, ok := e.store.Get(sessionID)
	if !ok {
		return ErrUnknownSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.origin != models.OriginManual || s.lifecycle != models.LifecycleCollecting {
		return ErrStaleInteraction
	}
	s.reporterState = StateCancelled
	e.closeLocked(ctx, s, models.OutcomeCancelled)
	e.notify(ctx, s.id, reporterTarget(s), reportCancelledMessage)
	return nil
}
