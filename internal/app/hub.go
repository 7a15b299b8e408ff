package app

import (
	"sync"

	"techquiz-service/internal/domain"
)

// LeaderboardHub fans fresh per-quiz leaderboards out to websocket
// subscribers. Submissions push a snapshot after every graded attempt;
// subscribers that fall behind get the stale update replaced, never block
// the submitter.
type LeaderboardHub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan []domain.QuizLeaderboardEntry]struct{}
}

func NewLeaderboardHub() *LeaderboardHub {
	return &LeaderboardHub{
		subscribers: make(map[string]map[chan []domain.QuizLeaderboardEntry]struct{}),
	}
}

// Subscribe registers a listener for one quiz. The caller must invoke the
// returned cancel function to avoid leaks.
func (h *LeaderboardHub) Subscribe(quizID string) (<-chan []domain.QuizLeaderboardEntry, func()) {
	ch := make(chan []domain.QuizLeaderboardEntry, 8)

	h.mu.Lock()
	subs, ok := h.subscribers[quizID]
	if !ok {
		subs = make(map[chan []domain.QuizLeaderboardEntry]struct{})
		h.subscribers[quizID] = subs
	}
	subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if subs, ok := h.subscribers[quizID]; ok {
			if _, ok := subs[ch]; ok {
				delete(subs, ch)
				close(ch)
			}
			if len(subs) == 0 {
				delete(h.subscribers, quizID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Broadcast delivers a leaderboard snapshot to every subscriber of the quiz.
func (h *LeaderboardHub) Broadcast(quizID string, entries []domain.QuizLeaderboardEntry) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subscribers[quizID] {
		select {
		case ch <- entries:
		default:
			// slow consumer: drop its stale snapshot and push the new one
			select {
			case <-ch:
			default:
			}
			ch <- entries
		}
	}
}
