package handlers_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/jackle3/moderation-api/flow"
	"github.com/jackle3/moderation-api/models"
)

// stubSink is a NotificationSink that records what it was asked to do and
// always succeeds. Handler tests only care about HTTP behavior, so the
// richer failure-mode coverage lives with the engine tests.
type stubSink struct {
	mu        sync.Mutex
	rendered  int
	retracted int
	notices   []string
}

func (s *stubSink) RenderPrompt(_ context.Context, _ flow.Target, _ flow.PromptSpec) (flow.PromptHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rendered++
	return flow.PromptHandle(fmt.Sprintf("prompt-%d", s.rendered)), nil
}

func (s *stubSink) Retract(_ context.Context, _ flow.PromptHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retracted++
	return nil
}

func (s *stubSink) Notify(_ context.Context, _ flow.Target, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, content)
	return nil
}

func (s *stubSink) ApplyMessageAction(_ context.Context, _ models.TargetMessage, _ models.MessageAction) error {
	return nil
}

func (s *stubSink) ApplyUserAction(_ context.Context, _ models.TargetMessage, _ models.UserAction) error {
	return nil
}

func newHandlerEngine(t *testing.T, surfaces map[string]string) *flow.Engine {
	t.Helper()
	engine, err := flow.New(flow.Config{
		Taxonomy:          models.DefaultTaxonomy(),
		ModeratorSurfaces: surfaces,
	}, &stubSink{})
	if err != nil {
		t.Fatal(err)
	}
	return engine
}

func handlerMessage() models.TargetMessage {
	return models.TargetMessage{
		MessageID:   "msg-1",
		CommunityID: "community-1",
		ChannelID:   "channel-1",
		AuthorID:    "author-1",
		Text:        "suspicious link, click here",
	}
}

// escalatedSession opens a manual report and walks it through the taxonomy
// all the way to the moderator surface.
func escalatedSession(t *testing.T, engine *flow.Engine) string {
	t.Helper()
	ctx := context.Background()
	snap, err := engine.OpenReport(ctx, "reporter-1", handlerMessage())
	if err != nil {
		t.Fatal(err)
	}
	if err := engine.ReporterInput(ctx, snap.ID, "fraud", -1); err != nil {
		t.Fatal(err)
	}
	if err := engine.ReporterInput(ctx, snap.ID, "phishing", -1); err != nil {
		t.Fatal(err)
	}
	if err := engine.ReporterNote(ctx, snap.ID, "", true); err != nil {
		t.Fatal(err)
	}
	return snap.ID
}
