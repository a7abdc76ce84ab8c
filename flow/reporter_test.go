package flow_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackle3/moderation-api/flow"
	"github.com/jackle3/moderation-api/models"
)

func TestOpenReportRendersCategoryPrompt(t *testing.T) {
	engine, sink := newTestEngine(t, map[string]string{"community-1": "mod-channel"})

	snap, err := engine.OpenReport(context.Background(), "reporter-1", testMessage())
	require.NoError(t, err)

	assert.Equal(t, models.OriginManual, snap.Origin)
	assert.Equal(t, models.LifecycleCollecting, snap.Lifecycle)
	assert.True(t, snap.Active)
	assert.Empty(t, snap.CategoryPath)

	prompt := sink.lastPrompt(t)
	assert.Equal(t, flow.TargetReporter, prompt.Target.Kind)
	assert.Equal(t, "reporter-1", prompt.Target.ID)
	assert.Equal(t, "Report Message", prompt.Spec.Title)
	assert.Contains(t, prompt.Spec.Body, ">>> suspicious link")

	keys := optionKeys(prompt.Spec)
	assert.Contains(t, keys, "fraud")
	assert.Contains(t, keys, "other")
}

func TestOpenReportSuppressesDuplicate(t *testing.T) {
	engine, sink := newTestEngine(t, map[string]string{"community-1": "mod-channel"})
	ctx := context.Background()

	first, err := engine.OpenReport(ctx, "reporter-1", testMessage())
	require.NoError(t, err)
	second, err := engine.OpenReport(ctx, "reporter-1", testMessage())
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, engine.Store().Len())
	assert.Len(t, sink.Prompts, 1)

	// a different reporter gets their own session
	third, err := engine.OpenReport(ctx, "reporter-2", testMessage())
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)
}

func TestOpenReportConcurrentOpensShareOneSession(t *testing.T) {
	engine, _ := newTestEngine(t, map[string]string{"community-1": "mod-channel"})
	ctx := context.Background()

	const openers = 8
	ids := make(chan string, openers)
	var wg sync.WaitGroup
	for i := 0; i < openers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := engine.OpenReport(ctx, "reporter-1", testMessage())
			if err != nil {
				t.Error(err)
				return
			}
			ids <- snap.ID
		}()
	}
	wg.Wait()
	close(ids)

	first := ""
	for id := range ids {
		if first == "" {
			first = id
		}
		assert.Equal(t, first, id)
	}
	assert.Equal(t, 1, engine.Store().Len())
}

func TestReporterFlowSubmits(t *testing.T) {
	engine, sink := newTestEngine(t, map[string]string{"community-1": "mod-channel"})
	ctx := context.Background()

	snap, err := engine.OpenReport(ctx, "reporter-1", testMessage())
	require.NoError(t, err)

	require.NoError(t, engine.ReporterInput(ctx, snap.ID, "fraud", -1))
	subtype := sink.lastPrompt(t)
	assert.Equal(t, "Select Fraud Type", subtype.Spec.Title)
	assert.Contains(t, optionKeys(subtype.Spec), "phishing")

	require.NoError(t, engine.ReporterInput(ctx, snap.ID, "phishing", -1))
	assert.Equal(t, "Additional Information", sink.lastPrompt(t).Spec.Title)

	require.NoError(t, engine.ReporterNote(ctx, snap.ID, "they asked for my password", false))

	got := snapshotOf(t, engine, snap.ID)
	assert.Equal(t, models.LifecycleEscalated, got.Lifecycle)
	assert.Equal(t, []string{"fraud", "phishing"}, got.CategoryPath)
	assert.Equal(t, "they asked for my password", got.Note)
	assert.True(t, got.Active)

	// reporter-side prompts are all retracted on submission
	assert.Len(t, sink.Retracted, 3)

	// the reporter sees the confirmation, the moderators see the report
	reporterNotices := sink.noticesFor(flow.TargetReporter)
	require.Len(t, reporterNotices, 1)
	assert.Contains(t, reporterNotices[0].Content, "Thank you for helping keep our community safe")

	modPrompt := sink.lastPrompt(t)
	assert.Equal(t, flow.TargetModerators, modPrompt.Target.Kind)
	assert.Equal(t, "mod-channel", modPrompt.Target.ID)
	assert.Contains(t, modPrompt.Spec.Body, "Fraud → Phishing")
	assert.Contains(t, modPrompt.Spec.Body, "Additional information: they asked for my password")
	assert.Equal(t, []string{"take_action", "dismiss"}, optionKeys(modPrompt.Spec))
}

func TestReporterRevisionRetractsDeeperPrompts(t *testing.T) {
	engine, sink := newTestEngine(t, map[string]string{"community-1": "mod-channel"})
	ctx := context.Background()

	snap, err := engine.OpenReport(ctx, "reporter-1", testMessage())
	require.NoError(t, err)
	require.NoError(t, engine.ReporterInput(ctx, snap.ID, "fraud", -1))
	require.NoError(t, engine.ReporterInput(ctx, snap.ID, "phishing", -1))

	// switching the top-level category invalidates the subtype answer and
	// both deeper prompts
	require.NoError(t, engine.ReporterInput(ctx, snap.ID, "harassment", -1))

	got := snapshotOf(t, engine, snap.ID)
	assert.Equal(t, []string{"harassment"}, got.CategoryPath)
	assert.Len(t, sink.Retracted, 2, "subtype and note prompts retracted")
	assert.Equal(t, "Select Harassment Type", sink.lastPrompt(t).Spec.Title)

	// re-selecting the same answer is a no-op
	prompts := len(sink.Prompts)
	require.NoError(t, engine.ReporterInput(ctx, snap.ID, "harassment", -1))
	assert.Len(t, sink.Prompts, prompts)
	assert.Len(t, sink.Retracted, 2)
}

func TestReporterExplicitLevelRevision(t *testing.T) {
	engine, sink := newTestEngine(t, map[string]string{"community-1": "mod-channel"})
	ctx := context.Background()

	snap, err := engine.OpenReport(ctx, "reporter-1", testMessage())
	require.NoError(t, err)
	require.NoError(t, engine.ReporterInput(ctx, snap.ID, "fraud", 0))
	require.NoError(t, engine.ReporterInput(ctx, snap.ID, "phishing", 1))

	// explicit subtype revision at level 1
	require.NoError(t, engine.ReporterInput(ctx, snap.ID, "investment_scam", 1))

	got := snapshotOf(t, engine, snap.ID)
	assert.Equal(t, []string{"fraud", "investment_scam"}, got.CategoryPath)
	assert.Len(t, sink.Retracted, 1, "only the note prompt is retracted")
	assert.Equal(t, "Additional Information", sink.lastPrompt(t).Spec.Title)

	// a level beyond the pending depth is a stale interaction
	err = engine.ReporterInput(ctx, snap.ID, "low", 5)
	assert.ErrorIs(t, err, flow.ErrStaleInteraction)
}

func TestReporterInputValidation(t *testing.T) {
	engine, _ := newTestEngine(t, map[string]string{"community-1": "mod-channel"})
	ctx := context.Background()

	snap, err := engine.OpenReport(ctx, "reporter-1", testMessage())
	require.NoError(t, err)

	err = engine.ReporterInput(ctx, snap.ID, "not-a-category", -1)
	assert.ErrorIs(t, err, flow.ErrInvalidSelection)

	err = engine.ReporterInput(ctx, "no-such-session", "fraud", -1)
	assert.ErrorIs(t, err, flow.ErrUnknownSession)

	err = engine.ReporterNote(ctx, snap.ID, "too early", false)
	assert.ErrorIs(t, err, flow.ErrStaleInteraction, "note before reaching the note step")
}

func TestReporterCategoryWithoutSubtypesGoesToNote(t *testing.T) {
	engine, sink := newTestEngine(t, map[string]string{"community-1": "mod-channel"})
	ctx := context.Background()

	snap, err := engine.OpenReport(ctx, "reporter-1", testMessage())
	require.NoError(t, err)
	require.NoError(t, engine.ReporterInput(ctx, snap.ID, "spam", -1))

	assert.Equal(t, "Additional Information", sink.lastPrompt(t).Spec.Title)
}

func TestReporterNoteTruncatedToLimit(t *testing.T) {
	sink := &fakeSink{}
	engine, err := flow.New(flow.Config{
		Taxonomy:          models.DefaultTaxonomy(),
		ModeratorSurfaces: map[string]string{"community-1": "mod-channel"},
		NoteLimit:         10,
	}, sink)
	require.NoError(t, err)
	ctx := context.Background()

	snap, err := engine.OpenReport(ctx, "reporter-1", testMessage())
	require.NoError(t, err)
	require.NoError(t, engine.ReporterInput(ctx, snap.ID, "spam", -1))
	require.NoError(t, engine.ReporterNote(ctx, snap.ID, strings.Repeat("x", 40), false))

	got := snapshotOf(t, engine, snap.ID)
	assert.Equal(t, strings.Repeat("x", 10), got.Note)
}

func TestReporterNoteWithoutSurfaceBlocks(t *testing.T) {
	surfaces := map[string]string{}
	sink := &fakeSink{}
	engine, err := flow.New(flow.Config{
		Taxonomy:          models.DefaultTaxonomy(),
		ModeratorSurfaces: surfaces,
	}, sink)
	require.NoError(t, err)
	ctx := context.Background()

	snap, err := engine.OpenReport(ctx, "reporter-1", testMessage())
	require.NoError(t, err)
	require.NoError(t, engine.ReporterInput(ctx, snap.ID, "spam", -1))

	err = engine.ReporterNote(ctx, snap.ID, "something", false)
	assert.ErrorIs(t, err, flow.ErrNoModeratorSurface)

	// the session is still collecting and the reporter saw a blocking error
	got := snapshotOf(t, engine, snap.ID)
	assert.Equal(t, models.LifecycleCollecting, got.Lifecycle)
	notices := sink.noticesFor(flow.TargetReporter)
	require.NotEmpty(t, notices)
	assert.Contains(t, notices[len(notices)-1].Content, "could not be submitted")

	// the note is already recorded, a second note is rejected
	err = engine.ReporterNote(ctx, snap.ID, "again", false)
	assert.ErrorIs(t, err, flow.ErrNoteAlreadySet)

	// once a surface appears, skipping through succeeds with the kept note
	surfaces["community-1"] = "mod-channel"
	require.NoError(t, engine.ReporterNote(ctx, snap.ID, "", true))
	got = snapshotOf(t, engine, snap.ID)
	assert.Equal(t, models.LifecycleEscalated, got.Lifecycle)
	assert.Equal(t, "something", got.Note)
}

func TestCancelReport(t *testing.T) {
	engine, sink := newTestEngine(t, map[string]string{"community-1": "mod-channel"})
	ctx := context.Background()

	snap, err := engine.OpenReport(ctx, "reporter-1", testMessage())
	require.NoError(t, err)
	require.NoError(t, engine.CancelReport(ctx, snap.ID))

	got := snapshotOf(t, engine, snap.ID)
	assert.False(t, got.Active)
	assert.Equal(t, models.LifecycleClosed, got.Lifecycle)
	assert.Equal(t, models.OutcomeCancelled, got.Outcome)
	assert.Len(t, sink.Retracted, 1, "category prompt retracted")

	notices := sink.noticesFor(flow.TargetReporter)
	require.Len(t, notices, 1)
	assert.Equal(t, "Report cancelled.", notices[0].Content)

	// late interactions answer stale, not unknown
	assert.ErrorIs(t, engine.CancelReport(ctx, snap.ID), flow.ErrStaleInteraction)
	assert.ErrorIs(t, engine.ReporterInput(ctx, snap.ID, "fraud", -1), flow.ErrStaleInteraction)
}

func TestCancelAfterSubmitIsStale(t *testing.T) {
	engine, _ := newTestEngine(t, map[string]string{"community-1": "mod-channel"})
	id := submitReport(t, engine)

	err := engine.CancelReport(context.Background(), id)
	assert.ErrorIs(t, err, flow.ErrStaleInteraction)
}

func TestSweepExpiredPrompts(t *testing.T) {
	sink := &fakeSink{}
	engine, err := flow.New(flow.Config{
		Taxonomy:          models.DefaultTaxonomy(),
		ModeratorSurfaces: map[string]string{"community-1": "mod-channel"},
		PromptTimeout:     time.Nanosecond,
	}, sink)
	require.NoError(t, err)
	ctx := context.Background()

	snap, err := engine.OpenReport(ctx, "reporter-1", testMessage())
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 1, engine.SweepExpiredPrompts(ctx))

	got := snapshotOf(t, engine, snap.ID)
	assert.Equal(t, models.OutcomeCancelled, got.Outcome)

	notices := sink.noticesFor(flow.TargetReporter)
	require.Len(t, notices, 1)
	assert.Contains(t, notices[0].Content, "timed out")

	// the sweep is idempotent
	assert.Equal(t, 0, engine.SweepExpiredPrompts(ctx))
}

func TestSweepIgnoresEscalatedSessions(t *testing.T) {
	sink := &fakeSink{}
	engine, err := flow.New(flow.Config{
		Taxonomy:          models.DefaultTaxonomy(),
		ModeratorSurfaces: map[string]string{"community-1": "mod-channel"},
		PromptTimeout:     time.Nanosecond,
	}, sink)
	require.NoError(t, err)

	submitReport(t, engine)
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 0, engine.SweepExpiredPrompts(context.Background()))
}

func optionKeys(spec flow.PromptSpec) []string {
	keys := make([]string, 0, len(spec.Options))
	for _, o := range spec.Options {
		keys = append(keys, o.Key)
	}
	return keys
}
