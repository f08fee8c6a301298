package websocket

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/scenarios"
)

func startServer(t *testing.T) (*Manager, *httptest.Server) {
	gin.SetMode(gin.TestMode)
	manager := NewManager(zap.NewNop())
	router := gin.New()
	manager.RegisterRoutes(router)
	return manager, httptest.NewServer(router)
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/scenarios"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestManager_BroadcastsScenarioEvents(t *testing.T) {
	defer goleak.VerifyNone(t)

	manager, server := startServer(t)
	defer server.Close()
	defer manager.Close()

	client := dial(t, server)
	defer client.Close()

	require.Eventually(t, func() bool { return manager.ConnectionCount() == 1 }, time.Second, 5*time.Millisecond)

	id := uuid.New()
	manager.HandleScenarioEvent(context.Background(), scenarios.Event{
		Type:       scenarios.EventDeleted,
		ScenarioID: &id,
		OccurredAt: time.Now().UTC(),
	})

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got struct {
		Type string `json:"type"`
		Data struct {
			ScenarioID string `json:"scenario_id"`
		} `json:"data"`
	}
	require.NoError(t, client.ReadJSON(&got))
	assert.Equal(t, "scenario.deleted", got.Type)
	assert.Equal(t, id.String(), got.Data.ScenarioID)
}

func TestManager_SubscribeFiltersEvents(t *testing.T) {
	defer goleak.VerifyNone(t)

	manager, server := startServer(t)
	defer server.Close()
	defer manager.Close()

	client := dial(t, server)
	defer client.Close()

	require.NoError(t, client.WriteJSON(map[string]interface{}{
		"type":   "subscribe",
		"events": []string{string(scenarios.EventCleared)},
	}))
	require.Eventually(t, func() bool {
		info := manager.Connections()
		return len(info) == 1 && len(info[0].Events) == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, manager.Broadcast(Message{Type: string(scenarios.EventCreated)}))
	require.NoError(t, manager.Broadcast(Message{Type: string(scenarios.EventCleared), Data: map[string]int{"count": 3}}))

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Message
	require.NoError(t, client.ReadJSON(&got))
	assert.Equal(t, "scenarios.cleared", got.Type)
	assert.False(t, got.Timestamp.IsZero())
}

func TestManager_CloseDisconnectsClients(t *testing.T) {
	defer goleak.VerifyNone(t)

	manager, server := startServer(t)
	defer server.Close()

	client := dial(t, server)
	defer client.Close()
	require.Eventually(t, func() bool { return manager.ConnectionCount() == 1 }, time.Second, 5*time.Millisecond)

	manager.Close()
	manager.Close()

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := client.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway))
	assert.Equal(t, 0, manager.ConnectionCount())
	assert.ErrorIs(t, manager.Broadcast(Message{Type: "x"}), ErrClosed)
	assert.Nil(t, manager.Connections())
}
