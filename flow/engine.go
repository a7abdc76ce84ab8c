package flow

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jackle3/moderation-api/databases"
	"github.com/jackle3/moderation-api/models"
)

// Config carries the engine's policy knobs. ModeratorSurfaces is the
// explicit community -> moderator surface routing table; it is injected
// here rather than read from ambient state so tests can use fixtures.
type Config struct {
	Taxonomy          models.Taxonomy
	ModeratorSurfaces map[string]string
	OversightMinimum  models.Severity
	NoteLimit         int
	PromptTimeout     time.Duration
}

// Engine runs the reporter and moderator state machines over the in-memory
// session store. Oversight and Archive are optional collaborators and may
// be left nil.
type Engine struct {
	Oversight OversightNotifier
	Archive   databases.ReportArchiveDatabase

	cfg   Config
	sink  NotificationSink
	store *Store
}

// New validates the taxonomy and returns an engine. A malformed taxonomy is
// a deployment error, so it fails here rather than surfacing per-session.
func New(cfg Config, sink NotificationSink) (*Engine, error) {
	if err := cfg.Taxonomy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid taxonomy: %w", err)
	}
	if sink == nil {
		return nil, fmt.Errorf("notification sink is required")
	}
	if cfg.ModeratorSurfaces == nil {
		cfg.ModeratorSurfaces = map[string]string{}
	}
	if cfg.OversightMinimum == "" {
		cfg.OversightMinimum = models.SeverityHigh
	}
	if cfg.NoteLimit <= 0 {
		cfg.NoteLimit = 1024
	}
	if cfg.PromptTimeout <= 0 {
		cfg.PromptTimeout = 5 * time.Minute
	}
	return &Engine{
		cfg:   cfg,
		sink:  sink,
		store: NewStore(),
	}, nil
}

// Store exposes the session store for read-only visibility and the
// retention sweep.
func (e *Engine) Store() *Store {
	return e.store
}

// surfaceFor resolves the moderator surface for a community.
func (e *Engine) surfaceFor(communityID string) (Target, bool) {
	id, ok := e.cfg.ModeratorSurfaces[communityID]
	if !ok || id == "" {
		return Target{}, false
	}
	return Target{Kind: TargetModerators, ID: id}, true
}

func reporterTarget(s *Session) Target {
	return Target{Kind: TargetReporter, ID: s.reporterID}
}

// renderPromptLocked renders a prompt and records its handle on the trail.
// A failed render is logged and recorded as an empty handle so trail
// indexes stay aligned with flow depth. Requires s.mu to be held.
func (e *Engine) renderPromptLocked(ctx context.Context, s *Session, target Target, spec PromptSpec) {
	handle, err := e.sink.RenderPrompt(ctx, target, spec)
	if err != nil {
		zap.S().Warnw("failed to render prompt",
			"sessionId", s.id,
			"title", spec.Title,
			"error", err,
		)
		handle = ""
	}
	s.trail.Push(handle)
}

// retract retracts previously rendered prompts, logging failures.
func (e *Engine) retract(ctx context.Context, sessionID string, handles []PromptHandle) {
	for _, h := range handles {
		if err := e.sink.Retract(ctx, h); err != nil {
			zap.S().Warnw("failed to retract prompt",
				"sessionId", sessionID,
				"handle", h,
				"error", err,
			)
		}
	}
}

// notify delivers content to a surface, logging failures.
func (e *Engine) notify(ctx context.Context, sessionID string, target Target, content string) {
	if target.Kind == TargetReporter && target.ID == "" {
		return // automatic reports have no reporter
	}
	if err := e.sink.Notify(ctx, target, content); err != nil {
		zap.S().Warnw("failed to deliver notification",
			"sessionId", sessionID,
			"target", string(target.Kind),
			"error", err,
		)
	}
}

// closeLocked performs the terminal transition: the exclusivity flag drops
// and the lifecycle closes in the same critical section, then every prompt
// still on the trail is retracted. Requires s.mu to be held.
func (e *Engine) closeLocked(ctx context.Context, s *Session, outcome models.Outcome) {
	s.active = false
	s.lifecycle = models.LifecycleClosed
	s.outcome = outcome
	s.closedAt = time.Now()
	e.retract(ctx, s.id, s.trail.Drain())
	e.archiveLocked(ctx, s)
	zap.S().Infow("report session closed",
		"sessionId", s.id,
		"outcome", string(outcome),
	)
}

// archiveLocked writes the closed session to the archive collection.
// Write-behind: failures are logged, the in-memory state is authoritative.
// Requires s.mu to be held.
func (e *Engine) archiveLocked(ctx context.Context, s *Session) {
	if e.Archive == nil {
		return
	}
	if err := e.Archive.InsertOne(ctx, s.snapshotLocked()); err != nil {
		zap.S().Errorw("failed to archive closed report",
			"sessionId", s.id,
			"error", err,
		)
	}
}

// SweepExpiredPrompts cancels manual sessions whose reporter prompt
// deadline has lapsed and returns how many were cancelled. Moderator-side
// prompts carry no deadline.
func (e *Engine) SweepExpiredPrompts(ctx context.Context) int {
	now := time.Now()
	swept := 0
	for _, s := range e.store.All() {
		s.mu.Lock()
		expired := s.origin == models.OriginManual &&
			s.lifecycle == models.LifecycleCollecting &&
			!s.promptDeadline.IsZero() &&
			s.promptDeadline.Before(now)
		if expired {
			e.closeLocked(ctx, s, models.OutcomeCancelled)
			s.reporterState = StateCancelled
			e.notify(ctx, s.id, reporterTarget(s), reportTimeoutMessage)
			swept++
		}
		s.mu.Unlock()
	}
	return swept
}
