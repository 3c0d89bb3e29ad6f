package publisher

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type doneToken struct {
	err  error
	done chan struct{}
}

func newDoneToken(err error) *doneToken {
	t := &doneToken{err: err, done: make(chan struct{})}
	close(t.done)
	return t
}

func (t *doneToken) Wait() bool                       { return true }
func (t *doneToken) WaitTimeout(_ time.Duration) bool { return true }
func (t *doneToken) Done() <-chan struct{}            { return t.done }
func (t *doneToken) Error() error                     { return t.err }

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakeClient struct {
	mu       sync.Mutex
	messages []published
	err      error
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, published{topic: topic, qos: qos, retained: retained, payload: payload.([]byte)})
	return newDoneToken(c.err)
}

func testState() datastructure.NavigationState {
	at := time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)
	return datastructure.NavigationState{
		Location:           *datastructure.NewGPSPoint(-7.78, 110.37, at, 10),
		SegmentIndex:       0,
		DistanceToNextTurn: 95,
		RemainingDistance:  695,
		RemainingTime:      69.5,
		CompletionPercent:  36.8,
		TurnDirection:      datastructure.TURN_RIGHT,
		CurrentStreetName:  "Jalan Kaliurang",
		NextStreetName:     "Jalan Colombo",
	}
}

func TestMQTTPublisher(t *testing.T) {
	client := &fakeClient{}
	p := NewMQTTPublisher(client, "navigatorx", 1, zaptest.NewLogger(t))

	state := testState()
	events := []datastructure.AnnouncementEvent{
		datastructure.NewTurnAnnouncement(state.Location.Time(), 0, datastructure.TIER_NEAR, datastructure.TURN_RIGHT,
			95, "Jalan Colombo", 0),
	}
	p.OnNavigationUpdate(state, events)

	require.Len(t, client.messages, 2)

	stateMsg := client.messages[0]
	assert.Equal(t, "navigatorx/state", stateMsg.topic)
	assert.True(t, stateMsg.retained)
	assert.Equal(t, byte(1), stateMsg.qos)

	var sp statePayload
	require.NoError(t, json.Unmarshal(stateMsg.payload, &sp))
	assert.Equal(t, 695.0, sp.RemainingDistance)
	assert.Equal(t, "TURN_RIGHT", sp.TurnDirection)
	assert.Equal(t, "Jalan Colombo", sp.NextStreetName)

	eventMsg := client.messages[1]
	assert.Equal(t, "navigatorx/events", eventMsg.topic)
	assert.False(t, eventMsg.retained)

	var ep eventPayload
	require.NoError(t, json.Unmarshal(eventMsg.payload, &ep))
	assert.Equal(t, "TURN_ANNOUNCEMENT", ep.Kind)
	assert.Equal(t, "NEAR", ep.Tier)
	assert.True(t, ep.Haptic)
	assert.Equal(t, "In 100 meters, turn right onto Jalan Colombo", ep.Text)
}

func TestMQTTPublisherNonTurnEvents(t *testing.T) {
	client := &fakeClient{err: errors.New("not connected")}
	p := NewMQTTPublisher(client, "car", 0, zaptest.NewLogger(t))

	state := testState()
	state.OffRoute = true
	p.OnNavigationUpdate(state, []datastructure.AnnouncementEvent{
		datastructure.NewReroutingRequested(state.Location.Time(), 0),
	})

	require.Len(t, client.messages, 2)
	var ep eventPayload
	require.NoError(t, json.Unmarshal(client.messages[1].payload, &ep))
	assert.Equal(t, "REROUTING_REQUESTED", ep.Kind)
	assert.Empty(t, ep.Tier)
	assert.Equal(t, "You are off the route, recalculating", ep.Text)
}
