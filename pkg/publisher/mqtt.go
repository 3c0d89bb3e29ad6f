package publisher

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/datastructure"
	"go.uber.org/zap"
)

// MQTTClient. the part of mqtt.Client the publisher needs
type MQTTClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// NewMQTTClient. connect to broker, e.g. tcp://localhost:1883
func NewMQTTClient(broker, clientID string, connectTimeout time.Duration) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connect to mqtt broker %s: timed out after %s", broker, connectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to mqtt broker %s: %w", broker, err)
	}
	return client, nil
}

type statePayload struct {
	Lat                float64   `json:"lat"`
	Lon                float64   `json:"lon"`
	Timestamp          time.Time `json:"timestamp"`
	SegmentIndex       int       `json:"segment_index"`
	DistanceToNextTurn float64   `json:"distance_to_next_turn"`
	RemainingDistance  float64   `json:"remaining_distance"`
	RemainingTime      float64   `json:"remaining_time"`
	CompletionPercent  float64   `json:"completion_percent"`
	OffRoute           bool      `json:"off_route"`
	Arrived            bool      `json:"arrived"`
	TurnDirection      string    `json:"turn_direction"`
	CurrentStreetName  string    `json:"current_street_name"`
	NextStreetName     string    `json:"next_street_name,omitempty"`
}

type eventPayload struct {
	Kind       string    `json:"kind"`
	Timestamp  time.Time `json:"timestamp"`
	Haptic     bool      `json:"haptic"`
	Tier       string    `json:"tier,omitempty"`
	Turn       string    `json:"turn,omitempty"`
	Distance   float64   `json:"distance,omitempty"`
	StreetName string    `json:"street_name,omitempty"`
	Text       string    `json:"text"`
}

/*
MQTTPublisher. engine subscriber publishing to

	<prefix>/state   every navigation state (retained, so late subscribers get the latest one)
	<prefix>/events  one message per announcement event

Publish only enqueues in the paho client; delivery errors are logged once the token completes.
*/
type MQTTPublisher struct {
	client MQTTClient
	prefix string
	qos    byte
	log    *zap.Logger
}

func NewMQTTPublisher(client MQTTClient, prefix string, qos byte, log *zap.Logger) *MQTTPublisher {
	return &MQTTPublisher{client: client, prefix: prefix, qos: qos, log: log}
}

func (p *MQTTPublisher) StateTopic() string {
	return p.prefix + "/state"
}

func (p *MQTTPublisher) EventsTopic() string {
	return p.prefix + "/events"
}

func (p *MQTTPublisher) OnNavigationUpdate(state datastructure.NavigationState, events []datastructure.AnnouncementEvent) {
	p.publish(p.StateTopic(), true, newStatePayload(state))
	for _, ev := range events {
		p.publish(p.EventsTopic(), false, newEventPayload(ev))
	}
}

func (p *MQTTPublisher) publish(topic string, retained bool, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		p.log.Error("encode mqtt payload", zap.String("topic", topic), zap.Error(err))
		return
	}

	token := p.client.Publish(topic, p.qos, retained, payload)
	go func() {
		<-token.Done()
		if err := token.Error(); err != nil {
			p.log.Error("mqtt publish", zap.String("topic", topic), zap.Error(err))
		}
	}()
}

func newStatePayload(state datastructure.NavigationState) statePayload {
	return statePayload{
		Lat:                state.Location.Lat(),
		Lon:                state.Location.Lon(),
		Timestamp:          state.Location.Time(),
		SegmentIndex:       state.SegmentIndex,
		DistanceToNextTurn: state.DistanceToNextTurn,
		RemainingDistance:  state.RemainingDistance,
		RemainingTime:      state.RemainingTime,
		CompletionPercent:  state.CompletionPercent,
		OffRoute:           state.OffRoute,
		Arrived:            state.Arrived,
		TurnDirection:      state.TurnDirection.String(),
		CurrentStreetName:  state.CurrentStreetName,
		NextStreetName:     state.NextStreetName,
	}
}

func newEventPayload(ev datastructure.AnnouncementEvent) eventPayload {
	p := eventPayload{
		Kind:      ev.Kind.String(),
		Timestamp: ev.Time,
		Haptic:    ev.Haptic,
		Text:      ev.Text(),
	}
	if ev.Kind == datastructure.TURN_ANNOUNCEMENT {
		p.Tier = ev.Tier.String()
		p.Turn = ev.Turn.String()
		p.Distance = ev.Distance
		p.StreetName = ev.StreetName
	}
	return p
}
