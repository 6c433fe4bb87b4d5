package session

import (
	"sync"
	"time"

	"github.com/priya/yatri/internal/extract"
	"github.com/priya/yatri/internal/travel"
)

const (
	maxHistoryTurns  = 20
	maxSearchRecords = 20
	maxTripTopics    = 10
)

// Turn is one user/assistant exchange.
type Turn struct {
	UserText      string    `json:"user_text"`
	AssistantText string    `json:"assistant_text"`
	Timestamp     time.Time `json:"timestamp"`
}

// Session is the per-conversation mutable state. All access goes through the
// methods below; each session carries its own lock so concurrent turns for
// the same chat serialize instead of racing.
type Session struct {
	mu sync.Mutex

	ID     string
	UserID string

	Profile           extract.Profile
	History           []Turn
	SearchHistory     []travel.SearchRecord
	TripTopics        []string
	LastAssistantText string
	LastInteractionAt time.Time
	InteractionCount  int
}

// Snapshot returns a copy of the mutable state safe to read without the lock.
func (s *Session) Snapshot() (extract.Profile, []Turn, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hist := make([]Turn, len(s.History))
	copy(hist, s.History)
	return s.Profile, hist, s.LastAssistantText
}

// MergeProfile folds a partial slot update into the session profile.
func (s *Session) MergeProfile(upd extract.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Profile.Merge(upd)
}

// RecordTurn appends one exchange, evicting the oldest past the window, and
// refreshes the interaction counters.
func (s *Session) RecordTurn(userText, assistantText string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.History = append(s.History, Turn{
		UserText:      userText,
		AssistantText: assistantText,
		Timestamp:     time.Now(),
	})
	if len(s.History) > maxHistoryTurns {
		s.History = s.History[len(s.History)-maxHistoryTurns:]
	}
	s.LastAssistantText = assistantText
	s.LastInteractionAt = time.Now()
	s.InteractionCount++
}

// RecordSearch appends to the bounded search log.
func (s *Session) RecordSearch(rec travel.SearchRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	s.SearchHistory = append(s.SearchHistory, rec)
	if len(s.SearchHistory) > maxSearchRecords {
		s.SearchHistory = s.SearchHistory[len(s.SearchHistory)-maxSearchRecords:]
	}
}

// RecordTripTopic appends a destination the user discussed, deduplicated,
// bounded to the most recent topics.
func (s *Session) RecordTripTopic(topic string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.TripTopics {
		if t == topic {
			return
		}
	}
	s.TripTopics = append(s.TripTopics, topic)
	if len(s.TripTopics) > maxTripTopics {
		s.TripTopics = s.TripTopics[len(s.TripTopics)-maxTripTopics:]
	}
}

// Store is the process-lifetime session cache.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// GetOrCreate returns the session for an id, creating a fresh one on first
// contact. Safe for concurrent use; the same id always yields the same
// *Session.
func (st *Store) GetOrCreate(sessionID, userID string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions[sessionID]; ok {
		return s
	}
	s := &Session{ID: sessionID, UserID: userID}
	st.sessions[sessionID] = s
	return s
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
