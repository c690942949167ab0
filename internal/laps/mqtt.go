package laps

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// Topic is the MQTT topic the external lap counter publishes on.
const Topic = "justswim/laps"

// lapPayload is the expected message shape: {"laps": 17}.
type lapPayload struct {
	Laps int `json:"laps"`
}

// MQTTCounter subscribes to the lap counter's MQTT topic.
type MQTTCounter struct {
	client paho.Client
	counts chan int
	last   int
}

// NewMQTTCounter connects to the broker and subscribes to the lap topic.
func NewMQTTCounter(broker string) (*MQTTCounter, error) {
	c := &MQTTCounter{counts: make(chan int, 8)}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("justswim-laps").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(client paho.Client) {
			// Re-subscribe on every (re)connect.
			token := client.Subscribe(Topic, 1, c.onMessage)
			if token.WaitTimeout(5*time.Second) && token.Error() != nil {
				log.Printf("laps: subscribe error: %v", token.Error())
			}
		})

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	c.client = client
	return c, nil
}

func (c *MQTTCounter) onMessage(_ paho.Client, msg paho.Message) {
	var p lapPayload
	if err := json.Unmarshal(msg.Payload(), &p); err != nil {
		log.Printf("laps: bad payload on %s: %v", msg.Topic(), err)
		return
	}
	if p.Laps <= c.last {
		// The counter only counts up; stale or duplicate readings are
		// ignored.
		return
	}
	c.last = p.Laps

	select {
	case c.counts <- p.Laps:
	default:
		log.Printf("laps: consumer behind, dropping count %d", p.Laps)
	}
}

// Counts returns the count channel.
func (c *MQTTCounter) Counts() <-chan int {
	return c.counts
}

// Close disconnects from the broker.
func (c *MQTTCounter) Close() error {
	c.client.Disconnect(1000)
	return nil
}
