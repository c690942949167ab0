package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/joeldrotleff/JustSwim/internal/session"
)

// PendingCapacity bounds how many messages are held for replay while the
// broker is unreachable. Workout records are sparse, so a small queue
// covers long outages.
const PendingCapacity = 64

// RealPublisher publishes to an actual MQTT broker. Messages published
// while disconnected are queued and replayed on reconnect, so a flaky
// poolside network does not lose set records.
type RealPublisher struct {
	client paho.Client

	mu      sync.Mutex
	pending *replayQueue
}

// NewRealPublisher creates a publisher connected to the given broker.
func NewRealPublisher(broker string) (*RealPublisher, error) {
	p := &RealPublisher{pending: newReplayQueue(PendingCapacity)}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("justswim").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Printf("mqtt: connection lost: %v", err)
		}).
		SetOnConnectHandler(func(client paho.Client) {
			p.replay(client)
		})

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	p.client = client
	return p, nil
}

// PublishTransition sends a manual toggle.
// QoS 0: transitions are advisory, the set record carries the truth.
func (p *RealPublisher) PublishTransition(sessionID string, t session.ManualTransition) error {
	payload, err := FormatTransitionPayload(sessionID, t)
	if err != nil {
		return fmt.Errorf("format transition payload: %w", err)
	}
	return p.publish(TopicTransitions, 0, false, payload)
}

// PublishSet sends a finalized set record.
// QoS 1 (at-least-once): set records are the product of the whole device.
func (p *RealPublisher) PublishSet(sessionID string, rec session.SetRecord) error {
	payload, err := FormatSetPayload(sessionID, rec)
	if err != nil {
		return fmt.Errorf("format set payload: %w", err)
	}
	return p.publish(TopicSets, 1, false, payload)
}

// PublishSession sends a session lifecycle event at QoS 1.
func (p *RealPublisher) PublishSession(event SessionEvent) error {
	payload, err := FormatSessionPayload(event)
	if err != nil {
		return fmt.Errorf("format session payload: %w", err)
	}
	return p.publish(TopicSession, 1, false, payload)
}

// PublishSystem sends a daemon lifecycle event at QoS 1.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	return p.publish(TopicSystem, 1, event.Retained, payload)
}

// publish sends one message, queueing it for replay if the connection is
// down.
func (p *RealPublisher) publish(topic string, qos byte, retained bool, payload []byte) error {
	if !p.client.IsConnectionOpen() {
		p.mu.Lock()
		p.pending.push(outMsg{topic: topic, payload: payload, qos: qos, retained: retained})
		n := p.pending.len()
		p.mu.Unlock()
		log.Printf("mqtt: offline, queued message for %s (%d pending)", topic, n)
		return nil
	}

	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// replay flushes messages queued while disconnected.
func (p *RealPublisher) replay(client paho.Client) {
	p.mu.Lock()
	msgs := p.pending.drain()
	p.mu.Unlock()

	if len(msgs) == 0 {
		return
	}
	log.Printf("mqtt: reconnected, replaying %d queued messages", len(msgs))
	for _, m := range msgs {
		token := client.Publish(m.topic, m.qos, m.retained, m.payload)
		if token.WaitTimeout(5*time.Second) && token.Error() != nil {
			log.Printf("mqtt: replay to %s failed: %v", m.topic, token.Error())
		}
	}
}

// IsConnected reports whether the broker connection is up.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
