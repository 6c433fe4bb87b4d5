package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/priya/yatri/internal/extract"
	"github.com/stretchr/testify/assert"
)

func TestStore_GetOrCreateIdempotent(t *testing.T) {
	st := NewStore()
	a := st.GetOrCreate("chat-1", "user-1")
	b := st.GetOrCreate("chat-1", "user-1")
	if a != b {
		t.Fatal("same session id must return the same session")
	}
	assert.Equal(t, 1, st.Len())
}

func TestStore_SessionsAreIndependent(t *testing.T) {
	st := NewStore()
	a := st.GetOrCreate("chat-1", "user-1")
	b := st.GetOrCreate("chat-2", "user-2")

	a.MergeProfile(extract.Profile{TravelStyle: "budget"})
	profB, _, _ := b.Snapshot()
	assert.Empty(t, profB.TravelStyle)
}

func TestSession_HistoryBounded(t *testing.T) {
	st := NewStore()
	s := st.GetOrCreate("chat-1", "user-1")

	for i := 0; i < maxHistoryTurns+7; i++ {
		s.RecordTurn(fmt.Sprintf("msg %d", i), "ok")
	}

	_, hist, _ := s.Snapshot()
	assert.Len(t, hist, maxHistoryTurns)
	assert.Equal(t, "msg 7", hist[0].UserText)
	assert.Equal(t, maxHistoryTurns+7, s.InteractionCount)
}

func TestSession_LastAssistantText(t *testing.T) {
	st := NewStore()
	s := st.GetOrCreate("chat-1", "user-1")
	s.RecordTurn("compare flights to Goa", "Where are you flying from?")

	_, _, last := s.Snapshot()
	assert.Equal(t, "Where are you flying from?", last)
}

func TestSession_TripTopicsDedupedAndBounded(t *testing.T) {
	st := NewStore()
	s := st.GetOrCreate("chat-1", "user-1")

	for i := 0; i < maxTripTopics+5; i++ {
		s.RecordTripTopic(fmt.Sprintf("city-%d", i))
	}
	s.RecordTripTopic(fmt.Sprintf("city-%d", maxTripTopics+4)) // duplicate

	assert.Len(t, s.TripTopics, maxTripTopics)
}

func TestSession_ConcurrentTurnsSameSession(t *testing.T) {
	st := NewStore()
	s := st.GetOrCreate("chat-1", "user-1")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.RecordTurn(fmt.Sprintf("msg %d", i), "ok")
			s.MergeProfile(extract.Profile{Interests: []string{"beaches"}})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, s.InteractionCount)
	prof, _, _ := s.Snapshot()
	assert.Equal(t, []string{"beaches"}, prof.Interests)
}
