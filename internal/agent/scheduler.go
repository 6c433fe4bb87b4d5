package agent

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/priya/yatri/internal/store"
)

const watchPollInterval = 30 * time.Second

// Messenger delivers an unsolicited message to a chat. The gateway satisfies
// this so the scheduler never imports the transport.
type Messenger interface {
	Send(chatID string, text string) error
}

// Scheduler polls the watch table and re-runs saved flight searches as
// synthetic turns, pushing the narrated result back to the chat.
type Scheduler struct {
	Assistant *Assistant
	Prefs     *store.PreferenceStore
	Gateway   Messenger
}

func NewScheduler(assistant *Assistant, prefs *store.PreferenceStore, gateway Messenger) *Scheduler {
	return &Scheduler{Assistant: assistant, Prefs: prefs, Gateway: gateway}
}

// Start blocks until the context is cancelled, checking for due watches on a
// fixed interval.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(watchPollInterval)
	defer ticker.Stop()

	log.Println("Price watch scheduler started...")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runDue(ctx)
		}
	}
}

func (s *Scheduler) runDue(ctx context.Context) {
	watches, err := s.Prefs.GetDueWatches()
	if err != nil {
		log.Printf("watch poll failed: %v", err)
		return
	}

	for _, w := range watches {
		if ctx.Err() != nil {
			return
		}
		message := fmt.Sprintf("flights from %s to %s", w.Origin, w.Destination)
		result := s.Assistant.ProcessTurn(ctx, w.ChatID, w.ChatID, message)

		// Advance last_run before delivery; a send failure should not make
		// the watch fire again immediately.
		if err := s.Prefs.UpdateWatchLastRun(w.ID); err != nil {
			log.Printf("watch %d last_run update failed: %v", w.ID, err)
		}

		text := fmt.Sprintf("🔔 Price watch: %s → %s\n\n%s", w.Origin, w.Destination, result.Text)
		if s.Gateway != nil {
			if err := s.Gateway.Send(w.ChatID, text); err != nil {
				log.Printf("watch %d delivery failed: %v", w.ID, err)
			}
		}
	}
}
