package flow

// UITrail records the prompts rendered for a session, one handle per prompt
// in the order they were shown. When an actor revises an earlier answer the
// deeper prompts become stale and must be retracted; the trail is the only
// bookkeeping needed to find them.
//
// Handles for failed renders are pushed as empty strings so trail indexes
// keep lining up with flow depth.
type UITrail struct {
	handles []PromptHandle
}

// Push appends a prompt handle.
func (t *UITrail) Push(h PromptHandle) {
	t.handles = append(t.handles, h)
}

// Len returns the number of recorded prompts.
func (t *UITrail) Len() int {
	return len(t.handles)
}

// TruncateTo drops every handle at index n and beyond and returns the
// dropped ones, deepest first, for retraction. Empty handles are filtered
// out of the result.
func (t *UITrail) TruncateTo(n int) []PromptHandle {
	if n < 0 {
		n = 0
	}
	if n >= len(t.handles) {
		return nil
	}
	var dropped []PromptHandle
	for i := len(t.handles) - 1; i >= n; i-- {
		if t.handles[i] != "" {
			dropped = append(dropped, t.handles[i])
		}
	}
	t.handles = t.handles[:n]
	return dropped
}

// Drain empties the trail and returns every non-empty handle, deepest
// first.
func (t *UITrail) Drain() []PromptHandle {
	return t.TruncateTo(0)
}
