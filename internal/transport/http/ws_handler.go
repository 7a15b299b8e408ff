package http

import (
	"net/http"

	"github.com/gorilla/websocket"

	"techquiz-service/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// serveLeaderboardWS streams quiz leaderboard snapshots to a websocket
// client. The client receives the current standings on connect and a
// fresh snapshot after every graded submission for the quiz.
func (h *Handler) serveLeaderboardWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	if quizID == "" {
		http.Error(w, "missing quizId", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	initial, err := h.leaderboards.Quiz(r.Context(), quizID, 0)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	updates, cancel := h.hub.Subscribe(quizID)
	defer cancel()

	send := make(chan outboundMessage, 16)
	closeSignal := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Debug("ws write error", "error", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				if update == nil {
					update = []domain.QuizLeaderboardEntry{}
				}
				select {
				case send <- outboundMessage{Type: "leaderboard", Payload: update}:
				case <-closeSignal:
					return
				}
			case <-closeSignal:
				return
			}
		}
	}()

	if initial == nil {
		initial = []domain.QuizLeaderboardEntry{}
	}
	send <- outboundMessage{Type: "leaderboard", Payload: initial}

	// Block on reads so we notice the client going away; inbound frames
	// other than close are ignored, the feed is one-directional.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	close(closeSignal)
	<-updatesDone
	close(send)
	<-writerDone
}
