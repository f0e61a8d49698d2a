package session

import (
	"sync"
	"time"
)

// TTL is how long a session stays valid after its creation. The clock is
// anchored to creation, not to the last update: answering questions does not
// extend a session's life.
const TTL = 30 * time.Minute

// Store keeps per-user wizard sessions and the per-user demo trader lists.
// All state is process-local; expiry is evaluated lazily on access.
//
// Demo traders deliberately live outside the session map so that Clear (end of
// a flow) and session expiry do not wipe traders already created.
type Store struct {
	mu          sync.Mutex
	sessions    map[int64]*Session
	demoTraders map[int64][]DemoTrader
	now         func() time.Time
}

// NewStore creates an empty Store using the wall clock.
func NewStore() *Store {
	return NewStoreWithClock(time.Now)
}

// NewStoreWithClock creates a Store with an injected clock, for tests.
func NewStoreWithClock(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		sessions:    make(map[int64]*Session),
		demoTraders: make(map[int64][]DemoTrader),
		now:         now,
	}
}

// Set replaces the user's session and stamps CreatedAt, restarting the TTL.
func (s *Store) Set(userID int64, sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.UserID = userID
	sess.CreatedAt = s.now()
	s.sessions[userID] = &sess
}

// Get returns a detached copy of the user's live session: mutating the result,
// including its drafts, never touches stored state (that is what Update is
// for). An expired session is removed and reported as absent.
func (s *Store) Get(userID int64) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.live(userID)
	if sess == nil {
		return Session{}, false
	}
	out := *sess
	if sess.Model != nil {
		m := *sess.Model
		out.Model = &m
	}
	if sess.Trader != nil {
		tr := *sess.Trader
		out.Trader = &tr
	}
	return out, true
}

// Update applies fn to the user's live session in place. CreatedAt is not
// re-stamped: progressing through a flow does not extend its deadline. Absent
// or expired sessions make Update a no-op and return false.
func (s *Store) Update(userID int64, fn func(*Session)) bool {
	if fn == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.live(userID)
	if sess == nil {
		return false
	}
	created := sess.CreatedAt
	fn(sess)
	sess.UserID = userID
	sess.CreatedAt = created
	return true
}

// Clear removes the user's session. Clearing an absent session is a no-op.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// IsInFlow reports whether the user has a live (unexpired) session.
func (s *Store) IsInFlow(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live(userID) != nil
}

// SweepExpired removes all expired sessions and returns how many were dropped.
// Lazy expiry in Get/Update makes this optional; it exists for diagnostics and
// to keep the map from accumulating abandoned flows.
func (s *Store) SweepExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	dropped := 0
	nowT := s.now()
	for id, sess := range s.sessions {
		if nowT.Sub(sess.CreatedAt) > TTL {
			delete(s.sessions, id)
			dropped++
		}
	}
	return dropped
}

// AppendDemoTrader records a synthesized demo trader for the user.
func (s *Store) AppendDemoTrader(userID int64, t DemoTrader) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.demoTraders[userID] = append(s.demoTraders[userID], t)
}

// DemoTraders returns a copy of the user's demo trader list.
func (s *Store) DemoTraders(userID int64) []DemoTrader {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.demoTraders[userID]
	if len(list) == 0 {
		return nil
	}
	out := make([]DemoTrader, len(list))
	copy(out, list)
	return out
}

// live returns the stored session if present and unexpired, deleting it on
// expiry. Callers must hold s.mu.
func (s *Store) live(userID int64) *Session {
	sess, ok := s.sessions[userID]
	if !ok {
		return nil
	}
	if s.now().Sub(sess.CreatedAt) > TTL {
		delete(s.sessions, userID)
		return nil
	}
	return sess
}
