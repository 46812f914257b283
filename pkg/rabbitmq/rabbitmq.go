package rabbitmq

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	amqp "github.com/streadway/amqp"
)

// DefaultQueue receives activity events when Config.Queue is empty.
const DefaultQueue = "feed_events"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	breaker *gobreaker.CircuitBreaker
	log     *logrus.Logger
	mu      sync.Mutex // serializes use of channel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL   string
	Queue string
}

// Event is the JSON envelope published for every activity event.
type Event struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// NewClient connects to RabbitMQ, opens a channel and declares the event queue.
func NewClient(cfg Config, log *logrus.Logger) (*Client, error) {
	queue := cfg.Queue
	if queue == "" {
		queue = DefaultQueue
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := declareQueue(ch, queue); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", queue, err)
	}

	log.WithField("queue", queue).Info("RabbitMQ client connected")

	return &Client{
		conn:    conn,
		channel: ch,
		queue:   queue,
		breaker: newBreaker(queue, log),
		log:     log,
	}, nil
}

func declareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	return ch.QueueDeclare(
		name,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
}

// newBreaker opens after five consecutive publish failures and lets a trial publish through
// after thirty seconds.
func newBreaker(name string, log *logrus.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "rabbitmq-publish-" + name,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{"breaker": name, "from": from.String(), "to": to.String()}).Warn("circuit breaker state changed")
		},
	})
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing RabbitMQ client: %v", errs)
	}
	return nil
}

// EncodeEvent builds the message body for an activity event.
func EncodeEvent(eventType string, data map[string]interface{}, at time.Time) ([]byte, error) {
	body, err := json.Marshal(Event{Type: eventType, Data: data, OccurredAt: at.UTC()})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}
	return body, nil
}

// PublishEvent publishes an activity event to the event queue. While the
// breaker is open calls fail fast with gobreaker.ErrOpenState.
func (c *Client) PublishEvent(eventType string, data map[string]interface{}) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := EncodeEvent(eventType, data, time.Now())
	if err != nil {
		return err
	}

	_, err = c.breaker.Execute(func() (interface{}, error) {
		c.mu.Lock()
		defer c.mu.Unlock()
		return nil, c.channel.Publish(
			"",      // default exchange
			c.queue, // routing key: the queue name
			false,   // mandatory
			false,   // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				Type:         eventType,
				Body:         body,
				DeliveryMode: amqp.Persistent,
				Timestamp:    time.Now(),
			})
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}

	c.log.WithField("event", eventType).Debug("activity event published")
	return nil
}

// ConsumeEvents starts a goroutine delivering queued events to handler.
// Messages are acked on success and requeued once on failure.
func (c *Client) ConsumeEvents(handler func(Event) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	c.mu.Lock()
	msgs, err := c.channel.Consume(
		c.queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.log.WithField("queue", c.queue).Info("waiting for activity events")

	go func() {
		for msg := range msgs {
			c.handleDelivery(msg, handler)
		}
	}()
	return nil
}

func (c *Client) handleDelivery(msg amqp.Delivery, handler func(Event) error) {
	var event Event
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		c.log.WithError(err).WithField("delivery_tag", msg.DeliveryTag).Warn("dropping malformed event")
		if nackErr := msg.Nack(false, false); nackErr != nil {
			c.log.WithError(nackErr).Warn("failed to nack message")
		}
		return
	}

	if err := handler(event); err != nil {
		c.log.WithError(err).WithField("event", event.Type).Warn("event handler failed")
		// A message that already failed once is dropped instead of requeued.
		if nackErr := msg.Nack(false, !msg.Redelivered); nackErr != nil {
			c.log.WithError(nackErr).Warn("failed to nack message")
		}
		return
	}
	if ackErr := msg.Ack(false); ackErr != nil {
		c.log.WithError(ackErr).Warn("failed to ack message")
	}
}

// LogEvent is a consumer handler that records each activity event.
func LogEvent(log *logrus.Logger) func(Event) error {
	return func(event Event) error {
		log.WithFields(logrus.Fields{
			"event":       event.Type,
			"occurred_at": event.OccurredAt.Format(time.RFC3339),
			"data":        event.Data,
		}).Info("activity event received")
		return nil
	}
}
