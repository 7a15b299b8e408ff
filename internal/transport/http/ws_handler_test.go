package http

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestLeaderboardFeed(t *testing.T) {
	server := newTestServer(t)
	token := registerUser(t, server, "Alice", "alice@example.com")
	quizID := createQuiz(t, server, "")

	u := "ws" + server.URL[len("http"):] + "/ws/leaderboard?quizId=" + quizID
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// The feed opens with the current standings: nobody yet.
	entries := readLeaderboard(t, conn)
	if len(entries) != 0 {
		t.Fatalf("expected empty initial snapshot, got %v", entries)
	}

	status, _ := doJSON(t, http.MethodPost, server.URL+"/api/quizzes/"+quizID+"/submit", token, map[string]interface{}{
		"answers": []map[string]string{
			{"questionId": "q1", "selectedAnswer": "var"},
			{"questionId": "q2", "selectedAnswer": "append"},
		},
	})
	if status != http.StatusOK {
		t.Fatalf("submit: expected 200, got %d", status)
	}

	entries = readLeaderboard(t, conn)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry after submission, got %v", entries)
	}
	if entries[0].Name != "Alice" || entries[0].Score != 100 {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
}

func TestLeaderboardFeedRequiresQuizID(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/ws/leaderboard")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without quizId, got %d", resp.StatusCode)
	}
}

type feedEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

func readLeaderboard(t *testing.T, conn *websocket.Conn) []feedEntry {
	t.Helper()
	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != "leaderboard" {
		t.Fatalf("expected leaderboard message, got %q", msg.Type)
	}
	var entries []feedEntry
	if err := json.Unmarshal(msg.Payload, &entries); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	return entries
}
