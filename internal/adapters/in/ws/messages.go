package ws

import (
	"context"
	"encoding/json"

	"tracking/internal/core/application/usecases/queries"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/errs"

	"go.uber.org/zap"
)

func errMalformedFrame(cause error) error {
	return errs.NewValueIsInvalidErrorWithCause("frame", cause)
}

func (c *client) dispatch(ctx context.Context, msg envelope) {
	var err error
	switch msg.Type {
	case typeTrackOrder:
		err = c.trackOrder(ctx, msg.Data)
	case typeLeaveOrder:
		err = c.leaveOrder(msg.Data)
	case typeLocationUpdate:
		err = c.updateLocation(ctx, msg.Data)
	default:
		err = errs.NewValueIsInvalidError("type " + msg.Type)
	}

	if err != nil {
		if errs.KindOf(err) == errs.KindInternal {
			c.logger.Error("frame failed", zap.String("type", msg.Type), zap.Error(err))
		}
		c.replyError(err)
	}
}

func (c *client) trackOrder(ctx context.Context, data json.RawMessage) error {
	orderID, err := parseOrderRef(data)
	if err != nil {
		return err
	}

	query, err := queries.NewGetOrderQuery(c.principal, orderID)
	if err != nil {
		return err
	}
	view, err := c.handler.orders.Handle(ctx, query)
	if err != nil {
		return err
	}

	c.handler.subscriptions.Join(c.id, orderID)
	c.reply(typeTracking, trackingAck{OrderID: orderID.String(), Status: view.Status.String()})
	return nil
}

func (c *client) leaveOrder(data json.RawMessage) error {
	orderID, err := parseOrderRef(data)
	if err != nil {
		return err
	}
	c.handler.subscriptions.Leave(c.id, orderID)
	c.reply(typeLeft, orderRef{OrderID: orderID.String()})
	return nil
}

// updateLocation detaches from the connection's context so a report that was
// accepted is stored even if the socket drops mid-write.
func (c *client) updateLocation(ctx context.Context, data json.RawMessage) error {
	partner, err := c.principal.AsDeliveryPartner()
	if err != nil {
		return err
	}

	var in locationUpdate
	if err := json.Unmarshal(data, &in); err != nil {
		return errMalformedFrame(err)
	}
	if in.Latitude == nil {
		return errs.NewValueIsRequiredError("latitude")
	}
	if in.Longitude == nil {
		return errs.NewValueIsRequiredError("longitude")
	}

	var orderID kernel.UUID
	if in.OrderID != "" {
		if orderID, err = kernel.UUIDFromString(in.OrderID); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("orderId", err)
		}
	}

	_, err = c.handler.reporter.ReportLocation(context.WithoutCancel(ctx), partner, orderID, *in.Latitude, *in.Longitude)
	return err
}

func parseOrderRef(data json.RawMessage) (kernel.UUID, error) {
	var ref orderRef
	if err := json.Unmarshal(data, &ref); err != nil {
		// a bare id string is accepted as well
		var bare string
		if json.Unmarshal(data, &bare) != nil {
			return kernel.UUID{}, errMalformedFrame(err)
		}
		ref.OrderID = bare
	}
	if ref.OrderID == "" {
		return kernel.UUID{}, errs.NewValueIsRequiredError("orderId")
	}
	id, err := kernel.UUIDFromString(ref.OrderID)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("orderId", err)
	}
	return id, nil
}
