package tracking

import (
	"context"
	"errors"
	"time"

	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/domain/model/identity"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/order"
	"tracking/internal/pkg/errs"

	"go.uber.org/zap"
)

// Sender hands one event to one connection. It must not block: a full or
// closed connection is reported as an error and the event is dropped.
type Sender interface {
	Send(conn ConnectionID, ev Event) error
}

// Relay publishes events to every running instance, this one included. Each
// instance feeds consumed events to Broadcaster.Deliver.
type Relay interface {
	Publish(ctx context.Context, ev Event) error
}

// LocationRecorder persists a report. It is satisfied by
// commands.RecordLocationCommandHandler.
type LocationRecorder interface {
	Handle(ctx context.Context, cmd commands.RecordLocationCommand) (commands.RecordLocationResult, error)
}

// Broadcaster accepts position reports from delivery partners and pushes
// location and status events to the connections watching an order.
type Broadcaster struct {
	registry *Registry
	cache    *AssignmentCache
	recorder LocationRecorder
	sender   Sender
	relay    Relay
	logger   *zap.Logger
}

// NewBroadcaster delivers through sender until UseRelay is called.
func NewBroadcaster(
	registry *Registry,
	cache *AssignmentCache,
	recorder LocationRecorder,
	sender Sender,
	logger *zap.Logger,
) *Broadcaster {
	return &Broadcaster{
		registry: registry,
		cache:    cache,
		recorder: recorder,
		sender:   sender,
		logger:   logger.With(zap.String("component", "broadcaster")),
	}
}

// UseRelay routes events through relay instead of delivering them locally.
// Call it before the broadcaster starts serving.
func (b *Broadcaster) UseRelay(relay Relay) {
	b.relay = relay
}

// ReportLocation validates, stores and publishes one report from partner.
// A zero orderID stands for the partner's current order; when the partner has
// none, only the partner's last position is stored and nothing is published.
//
// Failures are returned to the reporting partner only. Subscribers never see them.
func (b *Broadcaster) ReportLocation(
	ctx context.Context,
	partner identity.DeliveryPartner,
	orderID kernel.UUID,
	latitude, longitude float64,
) (commands.RecordLocationResult, error) {
	if !orderID.IsZero() {
		if cached, ok := b.cache.Lookup(orderID); ok && !cached.IsEqual(partner.ID()) {
			return commands.RecordLocationResult{}, errs.NewNotAuthorizedError(
				"report location for an order not assigned to the caller")
		}
	}

	loc, err := kernel.NewLocation(latitude, longitude)
	if err != nil {
		return commands.RecordLocationResult{}, err
	}

	cmd, err := commands.NewRecordLocationCommand(partner, orderID, loc)
	if err != nil {
		return commands.RecordLocationResult{}, err
	}

	res, err := b.recorder.Handle(ctx, cmd)
	if err != nil {
		if errors.Is(err, errs.ErrNotAuthorized) && !orderID.IsZero() {
			if cached, ok := b.cache.Lookup(orderID); ok && cached.IsEqual(partner.ID()) {
				b.cache.Remove(orderID)
			}
		}
		return commands.RecordLocationResult{}, err
	}

	if res.OrderID.IsZero() {
		return res, nil
	}

	b.cache.Put(res.OrderID, partner.ID())
	b.dispatch(ctx, newLocationEvent(res.OrderID, res.Position, res.RemainingMeters))
	return res, nil
}

// OrderChanged implements ports.OrderEvents. It keeps the assignment cache in
// step with committed transitions and tells watchers about the new status.
func (b *Broadcaster) OrderChanged(ctx context.Context, o *order.Order) {
	switch {
	case o.Status().IsActive():
		b.cache.Put(o.ID(), o.DeliveryPartnerID())
	default:
		b.cache.Remove(o.ID())
	}

	data := OrderStatusUpdated{
		OrderID:   o.ID().String(),
		Status:    o.Status().String(),
		Timestamp: o.UpdatedAt(),
	}
	if o.HasPartner() {
		data.DeliveryPartnerID = o.DeliveryPartnerID().String()
	}
	if data.Timestamp.IsZero() {
		data.Timestamp = time.Now().UTC()
	}

	b.dispatch(ctx, Event{Type: EventOrderStatusUpdated, OrderID: o.ID(), Data: data})
}

// Deliver sends ev to the current members of its order and returns how many
// accepted it. A failing member is logged and skipped.
func (b *Broadcaster) Deliver(ev Event) int {
	delivered := 0
	for _, conn := range b.registry.MembersOf(ev.OrderID) {
		if err := b.sender.Send(conn, ev); err != nil {
			b.logger.Warn("event dropped",
				zap.String("connection", string(conn)),
				zap.String("order", ev.OrderID.String()),
				zap.String("type", ev.Type),
				zap.Error(err),
			)
			continue
		}
		delivered++
	}
	return delivered
}

func (b *Broadcaster) dispatch(ctx context.Context, ev Event) {
	if b.relay == nil {
		b.Deliver(ev)
		return
	}

	if err := b.relay.Publish(ctx, ev); err != nil {
		b.logger.Warn("relay publish failed, delivering locally",
			zap.String("order", ev.OrderID.String()),
			zap.String("type", ev.Type),
			zap.Error(err),
		)
		b.Deliver(ev)
	}
}
