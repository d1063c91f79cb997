// Package rabbitmq fans tracking events out to every instance of the service
// through a fanout exchange. Each instance binds a private, auto-deleted queue
// and hands what it consumes to its local subscribers.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"tracking/internal/core/tracking"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

var (
	ErrQueueFull   = errors.New("relay publish queue is full")
	ErrRelayClosed = errors.New("relay is closed")
)

const (
	defaultQueueSize = 256
	publishTimeout   = 5 * time.Second
)

var _ tracking.Relay = (*Relay)(nil)

// Deliverer receives events consumed from the exchange.
type Deliverer interface {
	Deliver(ev tracking.Event) int
}

// Config addresses the broker and the exchange shared by all instances.
type Config struct {
	URL      string
	Exchange string
	// QueueSize bounds events waiting to be published.
	QueueSize int
}

type outgoing struct {
	ev   tracking.Event
	body []byte
}

// Relay implements tracking.Relay over a RabbitMQ fanout exchange.
type Relay struct {
	conn      *amqp.Connection
	pub       *amqp.Channel
	sub       *amqp.Channel
	exchange  string
	outbox    chan outgoing
	deliverer Deliverer
	logger    *zap.Logger

	closed    atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// Dial connects, declares the exchange and the instance queue, and starts
// publishing and consuming. Close releases everything.
func Dial(cfg Config, deliverer Deliverer, logger *zap.Logger) (*Relay, error) {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}

	conn, err := amqp.DialConfig(cfg.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(30 * time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	r := &Relay{
		conn:      conn,
		exchange:  cfg.Exchange,
		outbox:    make(chan outgoing, cfg.QueueSize),
		deliverer: deliverer,
		logger:    logger.With(zap.String("component", "relay")),
		done:      make(chan struct{}),
	}

	deliveries, err := r.declare()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	connClosed := conn.NotifyClose(make(chan *amqp.Error, 1))

	r.wg.Add(3)
	go r.publishLoop()
	go r.consumeLoop(deliveries)
	go r.watch(connClosed)

	r.logger.Info("relay connected", zap.String("exchange", r.exchange))
	return r, nil
}

func (r *Relay) declare() (<-chan amqp.Delivery, error) {
	pub, err := r.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: open publish channel: %w", err)
	}
	r.pub = pub

	if err := pub.ExchangeDeclare(r.exchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("rabbitmq: declare exchange %s: %w", r.exchange, err)
	}

	sub, err := r.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: open consume channel: %w", err)
	}
	r.sub = sub

	q, err := sub.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: declare queue: %w", err)
	}
	if err := sub.QueueBind(q.Name, "", r.exchange, false, nil); err != nil {
		return nil, fmt.Errorf("rabbitmq: bind %s: %w", q.Name, err)
	}

	deliveries, err := sub.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: consume %s: %w", q.Name, err)
	}
	return deliveries, nil
}

// Publish queues ev without waiting for the broker. A full queue or a lost
// connection is reported so the caller can deliver locally instead.
func (r *Relay) Publish(_ context.Context, ev tracking.Event) error {
	if r.closed.Load() {
		return ErrRelayClosed
	}
	body, err := encodeEvent(ev)
	if err != nil {
		return err
	}
	select {
	case r.outbox <- outgoing{ev: ev, body: body}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops the loops and closes the connection. Events still queued are
// delivered locally.
func (r *Relay) Close() error {
	var err error
	r.closeOnce.Do(func() {
		r.closed.Store(true)
		close(r.done)
		err = r.conn.Close()
		r.wg.Wait()
		r.drainLocally()
	})
	if errors.Is(err, amqp.ErrClosed) {
		return nil
	}
	return err
}

func (r *Relay) publishLoop() {
	defer r.wg.Done()
	for {
		select {
		case <-r.done:
			return
		case out := <-r.outbox:
			if err := r.publish(out.body); err != nil {
				r.logger.Warn("publish failed, delivering locally",
					zap.String("type", out.ev.Type),
					zap.String("order", out.ev.OrderID.String()),
					zap.Error(err),
				)
				r.deliverer.Deliver(out.ev)
			}
		}
	}
}

func (r *Relay) publish(body []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	return r.pub.PublishWithContext(ctx, r.exchange, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now().UTC(),
		Body:        body,
	})
}

func (r *Relay) consumeLoop(deliveries <-chan amqp.Delivery) {
	defer r.wg.Done()
	for d := range deliveries {
		ev, err := decodeEvent(d.Body)
		if err != nil {
			r.logger.Warn("dropping malformed event", zap.Error(err))
			continue
		}
		r.deliverer.Deliver(ev)
	}
}

// watch marks the relay closed when the broker connection drops, which makes
// Publish fail fast and the broadcaster fall back to local delivery.
func (r *Relay) watch(connClosed <-chan *amqp.Error) {
	defer r.wg.Done()
	select {
	case <-r.done:
	case amqpErr, ok := <-connClosed:
		if ok && amqpErr != nil {
			r.logger.Error("relay connection lost", zap.Error(amqpErr))
		}
		r.closed.Store(true)
	}
}

func (r *Relay) drainLocally() {
	for {
		select {
		case out := <-r.outbox:
			r.deliverer.Deliver(out.ev)
		default:
			return
		}
	}
}
