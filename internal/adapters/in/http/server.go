// Package http is the REST surface of the tracking service.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/application/usecases/queries"
	"tracking/internal/core/domain/model/identity"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/order"
	"tracking/internal/core/domain/model/user"
	"tracking/internal/core/ports"
	"tracking/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// UseCase is the shape shared by every command and query handler.
type UseCase[In, Out any] interface {
	Handle(ctx context.Context, in In) (Out, error)
}

// LocationReporter accepts position reports from delivery partners.
type LocationReporter interface {
	ReportLocation(
		ctx context.Context,
		partner identity.DeliveryPartner,
		orderID kernel.UUID,
		latitude, longitude float64,
	) (commands.RecordLocationResult, error)
}

// UseCases are the application handlers the server delegates to.
type UseCases struct {
	RegisterUser          UseCase[commands.RegisterUserCommand, *user.User]
	Authenticate          UseCase[queries.AuthenticateUserQuery, queries.AuthenticateUserQueryResponse]
	CreateOrder           UseCase[commands.CreateOrderCommand, *order.Order]
	AssignDeliveryPartner UseCase[commands.AssignDeliveryPartnerCommand, *order.Order]
	UpdateOrderStatus     UseCase[commands.UpdateOrderStatusCommand, *order.Order]
	GetOrder              UseCase[queries.GetOrderQuery, queries.OrderView]
	ListOrders            UseCase[queries.ListOrdersQuery, []queries.OrderView]
	ListAvailablePartners UseCase[queries.ListAvailablePartnersQuery, []queries.PartnerView]
	GetPartnerLocation    UseCase[queries.GetPartnerLocationQuery, queries.PartnerLocationView]
	Locations             LocationReporter
	Tokens                ports.TokenIssuer
}

// Server handles the REST operations. Every handler returns errors to the
// echo error handler, which maps them to status codes.
type Server struct {
	uc UseCases
}

// NewServer creates a server over uc.
func NewServer(uc UseCases) *Server {
	return &Server{uc: uc}
}

// RegisterUser handles POST /api/auth/register. The new user is signed in.
func (s *Server) RegisterUser(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	role, err := identity.ParseRole(req.Role)
	if err != nil {
		return err
	}
	var store kernel.Location
	if req.StoreLocation != nil {
		if store, err = req.StoreLocation.toDomain(); err != nil {
			return err
		}
	}

	cmd, err := commands.NewRegisterUserCommand(req.Email, req.Password, req.Name, role, req.StoreName, store)
	if err != nil {
		return err
	}
	u, err := s.uc.RegisterUser.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	principal, err := u.Principal()
	if err != nil {
		return err
	}
	token, expiresAt, err := s.uc.Tokens.Issue(principal)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, AuthResponse{Token: token, ExpiresAt: expiresAt, User: userOf(u)})
}

// Login handles POST /api/auth/login.
func (s *Server) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	query, err := queries.NewAuthenticateUserQuery(req.Email, req.Password)
	if err != nil {
		return err
	}
	res, err := s.uc.Authenticate.Handle(c.Request().Context(), query)
	if errors.Is(err, errs.ErrNotAuthorized) {
		return fmt.Errorf("%w: %w", errUnauthenticated, err)
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, AuthResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User: User{
			ID:    res.UserID.String(),
			Email: query.Email(),
			Name:  res.Name,
			Role:  res.Role.String(),
		},
	})
}

// CreateOrder handles POST /api/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	principal, err := principalOf(c)
	if err != nil {
		return err
	}
	customer, err := principal.AsCustomer()
	if err != nil {
		return err
	}

	var req NewOrder
	if err := c.Bind(&req); err != nil {
		return err
	}
	pickup, err := req.PickupLocation.toDomain()
	if err != nil {
		return err
	}
	delivery, err := req.DeliveryLocation.toDomain()
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreateOrderCommand(customer, kernel.UUIDFrom(req.VendorID), pickup, delivery)
	if err != nil {
		return err
	}
	o, err := s.uc.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, orderOf(o))
}

// ListOrders handles GET /api/orders: the caller's own orders for its role.
func (s *Server) ListOrders(c echo.Context) error {
	principal, err := principalOf(c)
	if err != nil {
		return err
	}
	query, err := queries.NewListOrdersQuery(principal)
	if err != nil {
		return err
	}
	views, err := s.uc.ListOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	out := make([]Order, len(views))
	for i, v := range views {
		out[i] = orderViewOf(v)
	}
	return c.JSON(http.StatusOK, out)
}

// GetOrder handles GET /api/orders/{orderId}.
func (s *Server) GetOrder(c echo.Context) error {
	principal, err := principalOf(c)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}

	query, err := queries.NewGetOrderQuery(principal, orderID)
	if err != nil {
		return err
	}
	view, err := s.uc.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderViewOf(view))
}

// AssignDeliveryPartner handles PATCH /api/orders/{orderId}/assign.
func (s *Server) AssignDeliveryPartner(c echo.Context) error {
	principal, err := principalOf(c)
	if err != nil {
		return err
	}
	vendor, err := principal.AsVendor()
	if err != nil {
		return err
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}

	var req AssignRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	cmd, err := commands.NewAssignDeliveryPartnerCommand(vendor, orderID, kernel.UUIDFrom(req.DeliveryPartnerID))
	if err != nil {
		return err
	}
	o, err := s.uc.AssignDeliveryPartner.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderOf(o))
}

// UpdateOrderStatus handles PATCH /api/orders/{orderId}/status.
func (s *Server) UpdateOrderStatus(c echo.Context) error {
	principal, err := principalOf(c)
	if err != nil {
		return err
	}
	partner, err := principal.AsDeliveryPartner()
	if err != nil {
		return err
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}

	var req StatusRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	status, err := order.ParseStatus(req.Status)
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(partner, orderID, status)
	if err != nil {
		return err
	}
	o, err := s.uc.UpdateOrderStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderOf(o))
}

// ListAvailablePartners handles GET /api/partners/available. With both
// latitude and longitude given, the nearest partner comes first.
func (s *Server) ListAvailablePartners(c echo.Context) error {
	principal, err := principalOf(c)
	if err != nil {
		return err
	}
	vendor, err := principal.AsVendor()
	if err != nil {
		return err
	}

	var near kernel.Location
	var lat, lon *float64
	if err := queryFloat(c, "latitude", &lat); err != nil {
		return err
	}
	if err := queryFloat(c, "longitude", &lon); err != nil {
		return err
	}
	if lat != nil && lon != nil {
		if near, err = kernel.NewLocation(*lat, *lon); err != nil {
			return err
		}
	}

	partners, err := s.uc.ListAvailablePartners.Handle(c.Request().Context(),
		queries.NewListAvailablePartnersQuery(vendor, near))
	if err != nil {
		return err
	}

	out := make([]Partner, len(partners))
	for i, p := range partners {
		out[i] = Partner{
			ID:           p.ID.String(),
			Name:         p.Name,
			Email:        p.Email,
			LastPosition: positionOf(p.LastPosition),
		}
	}
	return c.JSON(http.StatusOK, out)
}

// ReportLocation handles POST /api/location/update and POST /api/location. It follows the same path as a
// location-update frame, so watchers of the order see the new position.
func (s *Server) ReportLocation(c echo.Context) error {
	principal, err := principalOf(c)
	if err != nil {
		return err
	}
	partner, err := principal.AsDeliveryPartner()
	if err != nil {
		return err
	}

	var req LocationReport
	if err := c.Bind(&req); err != nil {
		return err
	}
	var orderID kernel.UUID
	if req.OrderID != nil {
		orderID = kernel.UUIDFrom(*req.OrderID)
	}

	res, err := s.uc.Locations.ReportLocation(c.Request().Context(), partner, orderID, req.Latitude, req.Longitude)
	if err != nil {
		return err
	}

	out := LocationAccepted{
		OrderID:   idOf(res.OrderID),
		Latitude:  res.Position.Location().Latitude(),
		Longitude: res.Position.Location().Longitude(),
		Timestamp: res.Position.RecordedAt(),
	}
	if !res.OrderID.IsZero() {
		remaining := res.RemainingMeters
		out.RemainingMeters = &remaining
	}
	return c.JSON(http.StatusOK, out)
}

// GetPartnerLocation handles GET /api/location/{partnerId}.
func (s *Server) GetPartnerLocation(c echo.Context) error {
	principal, err := principalOf(c)
	if err != nil {
		return err
	}
	partnerID, err := pathUUID(c, "partnerId")
	if err != nil {
		return err
	}

	query, err := queries.NewGetPartnerLocationQuery(principal, partnerID)
	if err != nil {
		return err
	}
	view, err := s.uc.GetPartnerLocation.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, PartnerLocation{
		PartnerID:      view.PartnerID.String(),
		CurrentOrderID: idOf(view.CurrentOrderID),
		Position:       positionOf(view.Position),
	})
}

func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return kernel.UUIDFrom(id), nil
}

func queryFloat(c echo.Context, name string, dst **float64) error {
	err := runtime.BindQueryParameter("form", true, false, name, c.QueryParams(), dst)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return nil
}
