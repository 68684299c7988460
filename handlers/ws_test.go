package handlers

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWSServer(t *testing.T) (*WSHandler, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewWSHandler()
	router := gin.New()
	router.GET("/ws/goals/:id", h.HandleWS)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return h, srv
}

func goalURL(srv *httptest.Server, goalID string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/goals/" + goalID
}

func dialGoal(t *testing.T, srv *httptest.Server, goalID string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(goalURL(srv, goalID), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForSessions(t *testing.T, h *WSHandler, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.M.Len() < want {
		if time.Now().After(deadline) {
			t.Fatalf("only %d of %d sessions connected", h.M.Len(), want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestBroadcastReachesOnlyGoalSubscribers(t *testing.T) {
	h, srv := newWSServer(t)

	connA := dialGoal(t, srv, "goal-a")
	connB := dialGoal(t, srv, "goal-b")
	waitForSessions(t, h, 2)

	h.BroadcastUpdate("goal-a", "goal_updated", "user-1")

	connA.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := connA.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), "goal_updated")

	connB.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = connB.ReadMessage()
	assert.Error(t, err, "goal-b watcher must not receive goal-a events")
}

// Sessions carry their goal id from the moment they are created, so upgrades
// to different goals racing each other cannot swap tags.
func TestConcurrentConnectsKeepGoalTagging(t *testing.T) {
	h, srv := newWSServer(t)

	const pairs = 5
	type dialResult struct {
		goal string
		conn *websocket.Conn
		err  error
	}

	results := make(chan dialResult, pairs*2)
	var wg sync.WaitGroup
	for i := 0; i < pairs; i++ {
		for _, side := range []string{"a", "b"} {
			goal := fmt.Sprintf("goal-%s-%d", side, i)
			wg.Add(1)
			go func(goal string) {
				defer wg.Done()
				conn, _, err := websocket.DefaultDialer.Dial(goalURL(srv, goal), nil)
				results <- dialResult{goal: goal, conn: conn, err: err}
			}(goal)
		}
	}
	wg.Wait()
	close(results)

	conns := make(map[string]*websocket.Conn, pairs*2)
	for r := range results {
		require.NoError(t, r.err, r.goal)
		conns[r.goal] = r.conn
		defer r.conn.Close()
	}
	waitForSessions(t, h, pairs*2)

	for i := 0; i < pairs; i++ {
		goal := fmt.Sprintf("goal-a-%d", i)
		h.BroadcastUpdate(goal, "contribution_added", "user-1")

		conn := conns[goal]
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err, goal)
		assert.Contains(t, string(msg), "contribution_added", goal)
	}

	for i := 0; i < pairs; i++ {
		goal := fmt.Sprintf("goal-b-%d", i)
		conn := conns[goal]
		conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
		_, _, err := conn.ReadMessage()
		assert.Error(t, err, "%s received an event meant for another goal", goal)
	}
}
