package flow

import (
	"sync"
	"time"

	"github.com/jackle3/moderation-api/models"
)

// ReporterState is the reporter-side flow position
type ReporterState string

// Reporter flow states
const (
	StateSelectCategory ReporterState = "SELECT_CATEGORY"
	StateSelectSubtype  ReporterState = "SELECT_SUBTYPE"
	StateOptionalNote   ReporterState = "OPTIONAL_NOTE"
	StateSubmitted      ReporterState = "SUBMITTED"
	StateCancelled      ReporterState = "CANCELLED"
)

// ModState is the moderator-side flow position. Empty until a moderator
// claims the session.
type ModState string

// Moderation flow states
const (
	StateSelectSeverity      ModState = "SELECT_SEVERITY"
	StateSelectMessageAction ModState = "SELECT_MESSAGE_ACTION"
	StateSelectUserAction    ModState = "SELECT_USER_ACTION"
	StateSummarized          ModState = "SUMMARIZED"
)

// Session is the live state of one report. All fields are guarded by mu;
// the engine holds the lock for the whole of each transition, including the
// outbound sink calls, so each session has a single writer at a time.
type Session struct {
	mu sync.Mutex

	id         string
	origin     models.Origin
	target     models.TargetMessage
	reporterID string

	categoryPath []string
	note         string
	noteSet      bool

	lifecycle models.Lifecycle
	outcome   models.Outcome
	active    bool

	decision          models.ModerationDecision
	moderatorID       string
	dismissReason     string
	suggestedSeverity models.Severity
	confidence        float64

	reporterState  ReporterState
	modState       ModState
	trail          UITrail
	promptDeadline time.Time

	createdAt time.Time
	closedAt  time.Time
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Snapshot returns the session's wire representation.
func (s *Session) Snapshot() models.ReportSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// snapshotLocked requires s.mu to be held.
func (s *Session) snapshotLocked() models.ReportSession {
	path := make([]string, len(s.categoryPath))
	copy(path, s.categoryPath)
	return models.ReportSession{
		ID:                s.id,
		Origin:            s.origin,
		Target:            s.target,
		ReporterID:        s.reporterID,
		CategoryPath:      path,
		Note:              s.note,
		Lifecycle:         s.lifecycle,
		Outcome:           s.outcome,
		Active:            s.active,
		Decision:          s.decision,
		ModeratorID:       s.moderatorID,
		DismissReason:     s.dismissReason,
		SuggestedSeverity: s.suggestedSeverity,
		Confidence:        s.confidence,
		CreatedAt:         s.createdAt,
		ClosedAt:          s.closedAt,
	}
}

// terminalLocked reports whether the session reached a terminal state.
// Requires s.mu to be held.
func (s *Session) terminalLocked() bool {
	return s.lifecycle == models.LifecycleClosed
}

// Store holds every live session in memory. Terminal sessions stay until
// the retention sweep collects them so late interactions can still be
// answered with a stale-interaction message instead of a blind 404.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore returns an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Get returns the session with the given id.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Put registers a session.
func (st *Store) Put(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.id] = s
}

// Len returns the number of stored sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// All returns the stored sessions in no particular order.
func (st *Store) All() []*Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		out = append(out, s)
	}
	return out
}

// ActiveByScope returns snapshots of every non-terminal session for a
// community, for operator visibility. Read-only.
func (st *Store) ActiveByScope(communityID string) []models.ReportSession {
	out := []models.ReportSession{}
	for _, s := range st.All() {
		s.mu.Lock()
		if !s.terminalLocked() && s.target.CommunityID == communityID {
			out = append(out, s.snapshotLocked())
		}
		s.mu.Unlock()
	}
	return out
}

// PutOpenManual registers s unless this reporter already has a non-terminal
// manual session open against the same message, in which case the existing
// session is returned and s is discarded. Lookup and insert share one
// critical section so two simultaneous opens cannot both miss the duplicate.
func (st *Store) PutOpenManual(s *Session) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, existing := range st.sessions {
		existing.mu.Lock()
		match := existing.origin == models.OriginManual &&
			existing.reporterID == s.reporterID &&
			existing.target.MessageID == s.target.MessageID &&
			!existing.terminalLocked()
		existing.mu.Unlock()
		if match {
			return existing, false
		}
	}
	st.sessions[s.id] = s
	return s, true
}

// CollectTerminal drops terminal sessions that closed before the cutoff and
// returns how many were collected.
func (st *Store) CollectTerminal(cutoff time.Time) int {
	collected := 0
	for _, s := range st.All() {
		s.mu.Lock()
		expired := s.terminalLocked() && !s.closedAt.IsZero() && s.closedAt.Before(cutoff)
		id := s.id
		s.mu.Unlock()
		if !expired {
			continue
		}
		st.mu.Lock()
		delete(st.sessions, id)
		st.mu.Unlock()
		collected++
	}
	return collected
}
