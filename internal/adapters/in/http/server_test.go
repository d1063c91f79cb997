package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tracking/internal/adapters/out/auth"
	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/application/usecases/queries"
	"tracking/internal/core/domain/model/identity"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/order"
	"tracking/internal/core/domain/model/user"
	"tracking/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type useCaseFunc[In, Out any] func(context.Context, In) (Out, error)

func (f useCaseFunc[In, Out]) Handle(ctx context.Context, in In) (Out, error) {
	return f(ctx, in)
}

func unexpected[In, Out any](t *testing.T) useCaseFunc[In, Out] {
	return func(context.Context, In) (Out, error) {
		var zero Out
		t.Errorf("unexpected %T", *new(In))
		return zero, errors.New("unexpected call")
	}
}

type reporterFunc func(context.Context, identity.DeliveryPartner, kernel.UUID, float64, float64) (commands.RecordLocationResult, error)

func (f reporterFunc) ReportLocation(
	ctx context.Context,
	partner identity.DeliveryPartner,
	orderID kernel.UUID,
	lat, lon float64,
) (commands.RecordLocationResult, error) {
	return f(ctx, partner, orderID, lat, lon)
}

func noUseCases(t *testing.T) UseCases {
	return UseCases{
		RegisterUser:          unexpected[commands.RegisterUserCommand, *user.User](t),
		Authenticate:          unexpected[queries.AuthenticateUserQuery, queries.AuthenticateUserQueryResponse](t),
		CreateOrder:           unexpected[commands.CreateOrderCommand, *order.Order](t),
		AssignDeliveryPartner: unexpected[commands.AssignDeliveryPartnerCommand, *order.Order](t),
		UpdateOrderStatus:     unexpected[commands.UpdateOrderStatusCommand, *order.Order](t),
		GetOrder:              unexpected[queries.GetOrderQuery, queries.OrderView](t),
		ListOrders:            unexpected[queries.ListOrdersQuery, []queries.OrderView](t),
		ListAvailablePartners: unexpected[queries.ListAvailablePartnersQuery, []queries.PartnerView](t),
		GetPartnerLocation:    unexpected[queries.GetPartnerLocationQuery, queries.PartnerLocationView](t),
		Locations: reporterFunc(func(context.Context, identity.DeliveryPartner, kernel.UUID, float64, float64) (commands.RecordLocationResult, error) {
			t.Error("unexpected location report")
			return commands.RecordLocationResult{}, errors.New("unexpected call")
		}),
	}
}

type api struct {
	e      *echo.Echo
	tokens *auth.TokenManager
}

func newAPI(t *testing.T, uc UseCases) api {
	t.Helper()
	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)
	uc.Tokens = tokens

	e, err := NewRouter(t.Context(), NewServer(uc), tokens, RouterConfig{}, zap.NewNop())
	require.NoError(t, err)
	return api{e: e, tokens: tokens}
}

func (a api) login(t *testing.T, role identity.Role) (identity.Principal, string) {
	t.Helper()
	p, err := identity.NewPrincipal(kernel.NewUUID(), role)
	require.NoError(t, err)
	token, _, err := a.tokens.Issue(p)
	require.NoError(t, err)
	return p, token
}

func (a api) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

var (
	pickup  = map[string]float64{"latitude": 12.9716, "longitude": 77.5946}
	dropOff = map[string]float64{"latitude": 12.9352, "longitude": 77.6245}
)

func newOrder(t *testing.T, customerID, vendorID kernel.UUID) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), customerID, vendorID,
		kernel.MustNewLocation(12.9716, 77.5946), kernel.MustNewLocation(12.9352, 77.6245), time.Now())
	require.NoError(t, err)
	return o
}

func TestHealth(t *testing.T) {
	a := newAPI(t, noUseCases(t))

	rec := a.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestAuthentication(t *testing.T) {
	a := newAPI(t, noUseCases(t))

	for name, token := range map[string]string{"missing": "", "forged": "abc.def.ghi"} {
		t.Run(name, func(t *testing.T) {
			rec := a.do(t, http.MethodGet, "/api/orders", token, nil)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			body := decode[Error](t, rec)
			assert.Equal(t, errs.KindNotAuthorized, body.Kind)
			assert.Equal(t, http.StatusUnauthorized, body.Code)
		})
	}
}

func TestCreateOrder(t *testing.T) {
	uc := noUseCases(t)
	vendorID := kernel.NewUUID()
	var created *order.Order
	uc.CreateOrder = useCaseFunc[commands.CreateOrderCommand, *order.Order](
		func(_ context.Context, cmd commands.CreateOrderCommand) (*order.Order, error) {
			assert.True(t, cmd.VendorID().IsEqual(vendorID))
			assert.InDelta(t, 12.9352, cmd.Delivery().Latitude(), 1e-9)
			created = newOrder(t, cmd.Customer().ID(), cmd.VendorID())
			return created, nil
		})
	a := newAPI(t, uc)

	t.Run("customer", func(t *testing.T) {
		customer, token := a.login(t, identity.RoleCustomer)

		rec := a.do(t, http.MethodPost, "/api/orders", token, map[string]any{
			"vendorId":         vendorID.String(),
			"pickupLocation":   pickup,
			"deliveryLocation": dropOff,
		})

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		got := decode[Order](t, rec)
		assert.Equal(t, created.ID().String(), got.ID)
		assert.Equal(t, customer.UserID().String(), got.CustomerID)
		assert.Equal(t, "pending", got.Status)
		assert.Empty(t, got.DeliveryPartnerID)
		assert.Nil(t, got.CurrentLocation)
	})

	t.Run("vendor is forbidden", func(t *testing.T) {
		_, token := a.login(t, identity.RoleVendor)

		rec := a.do(t, http.MethodPost, "/api/orders", token, map[string]any{
			"vendorId":         vendorID.String(),
			"pickupLocation":   pickup,
			"deliveryLocation": dropOff,
		})

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("contract violations", func(t *testing.T) {
		_, token := a.login(t, identity.RoleCustomer)
		bodies := map[string]map[string]any{
			"missing delivery": {"vendorId": vendorID.String(), "pickupLocation": pickup},
			"latitude out of range": {
				"vendorId":         vendorID.String(),
				"pickupLocation":   map[string]float64{"latitude": 95, "longitude": 10},
				"deliveryLocation": dropOff,
			},
		}
		for name, body := range bodies {
			t.Run(name, func(t *testing.T) {
				rec := a.do(t, http.MethodPost, "/api/orders", token, body)

				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Equal(t, errs.KindValidation, decode[Error](t, rec).Kind)
			})
		}
	})
}

func TestGetOrder_ErrorMapping(t *testing.T) {
	uc := noUseCases(t)
	results := map[string]error{}
	uc.GetOrder = useCaseFunc[queries.GetOrderQuery, queries.OrderView](
		func(_ context.Context, q queries.GetOrderQuery) (queries.OrderView, error) {
			return queries.OrderView{}, results[q.OrderID().String()]
		})
	a := newAPI(t, uc)
	_, token := a.login(t, identity.RoleCustomer)

	missing, foreign, broken := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()
	results[missing.String()] = errs.NewObjectNotFoundError("orderId", missing.String())
	results[foreign.String()] = errs.NewNotAuthorizedError("view order")
	results[broken.String()] = errors.New("connection reset by peer")

	tests := []struct {
		path string
		code int
	}{
		{"/api/orders/" + missing.String(), http.StatusNotFound},
		{"/api/orders/" + foreign.String(), http.StatusForbidden},
		{"/api/orders/" + broken.String(), http.StatusInternalServerError},
		{"/api/orders/not-a-uuid", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := a.do(t, http.MethodGet, tt.path, token, nil)

			assert.Equal(t, tt.code, rec.Code)
			body := decode[Error](t, rec)
			assert.Equal(t, tt.code, body.Code)
			assert.NotContains(t, body.Message, "connection reset")
		})
	}
}

func TestListOrders(t *testing.T) {
	uc := noUseCases(t)
	var vendor identity.Principal
	var view queries.OrderView
	uc.ListOrders = useCaseFunc[queries.ListOrdersQuery, []queries.OrderView](
		func(_ context.Context, q queries.ListOrdersQuery) ([]queries.OrderView, error) {
			assert.True(t, q.Caller().UserID().IsEqual(vendor.UserID()))
			return []queries.OrderView{view}, nil
		})
	a := newAPI(t, uc)
	vendor, token := a.login(t, identity.RoleVendor)
	view = queries.OrderView{
		ID:         kernel.NewUUID(),
		CustomerID: kernel.NewUUID(),
		VendorID:   vendor.UserID(),
		Status:     order.Pending,
		Pickup:     kernel.MustNewLocation(12.9716, 77.5946),
		Delivery:   kernel.MustNewLocation(12.9352, 77.6245),
	}

	rec := a.do(t, http.MethodGet, "/api/orders", token, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[[]Order](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, view.ID.String(), got[0].ID)
	assert.Equal(t, vendor.UserID().String(), got[0].VendorID)
	assert.Equal(t, "pending", got[0].Status)
}

func TestAssignDeliveryPartner(t *testing.T) {
	uc := noUseCases(t)
	partnerID := kernel.NewUUID()
	var fail error
	uc.AssignDeliveryPartner = useCaseFunc[commands.AssignDeliveryPartnerCommand, *order.Order](
		func(_ context.Context, cmd commands.AssignDeliveryPartnerCommand) (*order.Order, error) {
			if fail != nil {
				return nil, fail
			}
			o := newOrder(t, kernel.NewUUID(), cmd.Vendor().ID())
			require.NoError(t, o.Assign(cmd.PartnerID(), time.Now()))
			return o, nil
		})
	a := newAPI(t, uc)
	_, token := a.login(t, identity.RoleVendor)
	path := "/api/orders/" + kernel.NewUUID().String() + "/assign"
	body := map[string]string{"deliveryPartnerId": partnerID.String()}

	rec := a.do(t, http.MethodPatch, path, token, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[Order](t, rec)
	assert.Equal(t, "assigned", got.Status)
	assert.Equal(t, partnerID.String(), got.DeliveryPartnerID)

	fail = errs.NewConflictError("order", "x")
	assert.Equal(t, http.StatusConflict, a.do(t, http.MethodPatch, path, token, body).Code)

	fail = errs.NewInvalidTransitionError(order.Delivered, order.Assigned)
	rec = a.do(t, http.MethodPatch, path, token, body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, errs.KindInvalidTransition, decode[Error](t, rec).Kind)

	_, customerToken := a.login(t, identity.RoleCustomer)
	assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodPatch, path, customerToken, body).Code)
}

func TestUpdateOrderStatus(t *testing.T) {
	uc := noUseCases(t)
	uc.UpdateOrderStatus = useCaseFunc[commands.UpdateOrderStatusCommand, *order.Order](
		func(_ context.Context, cmd commands.UpdateOrderStatusCommand) (*order.Order, error) {
			assert.Equal(t, order.InProgress, cmd.Status())
			o := newOrder(t, kernel.NewUUID(), kernel.NewUUID())
			require.NoError(t, o.Assign(cmd.Partner().ID(), time.Now()))
			require.NoError(t, o.Advance(order.InProgress, time.Now()))
			return o, nil
		})
	a := newAPI(t, uc)
	_, token := a.login(t, identity.RoleDelivery)
	path := "/api/orders/" + kernel.NewUUID().String() + "/status"

	rec := a.do(t, http.MethodPatch, path, token, map[string]string{"status": "in_progress"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "in_progress", decode[Order](t, rec).Status)

	rec = a.do(t, http.MethodPatch, path, token, map[string]string{"status": "lost"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	uc := noUseCases(t)
	var registered *user.User
	uc.RegisterUser = useCaseFunc[commands.RegisterUserCommand, *user.User](
		func(_ context.Context, cmd commands.RegisterUserCommand) (*user.User, error) {
			if registered != nil {
				return nil, errs.NewConflictError("user email", cmd.Email())
			}
			u, err := user.NewUser(kernel.NewUUID(), cmd.Email(), cmd.Name(), "hash", cmd.Role(), time.Now())
			require.NoError(t, err)
			require.NoError(t, u.SetStore(cmd.StoreName(), cmd.StoreLocation()))
			registered = u
			return u, nil
		})
	uc.Authenticate = useCaseFunc[queries.AuthenticateUserQuery, queries.AuthenticateUserQueryResponse](
		func(_ context.Context, q queries.AuthenticateUserQuery) (queries.AuthenticateUserQueryResponse, error) {
			if q.Password() != "s3cret!" {
				return queries.AuthenticateUserQueryResponse{}, errs.NewNotAuthorizedError("authenticate")
			}
			return queries.AuthenticateUserQueryResponse{
				Token:     "issued",
				ExpiresAt: time.Now().Add(time.Hour),
				UserID:    registered.ID(),
				Role:      registered.Role(),
				Name:      registered.Name(),
			}, nil
		})
	a := newAPI(t, uc)

	signUp := map[string]any{
		"email":         "shop@example.com",
		"password":      "s3cret!",
		"name":          "Corner Shop",
		"role":          "vendor",
		"storeName":     "Corner Shop",
		"storeLocation": pickup,
	}
	rec := a.do(t, http.MethodPost, "/api/auth/register", "", signUp)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	got := decode[AuthResponse](t, rec)
	assert.Equal(t, "vendor", got.User.Role)
	assert.Equal(t, "Corner Shop", got.User.StoreName)
	require.NotNil(t, got.User.StoreLocation)

	principal, err := a.tokens.Verify(got.Token)
	require.NoError(t, err)
	assert.Equal(t, got.User.ID, principal.UserID().String())

	assert.Equal(t, http.StatusConflict, a.do(t, http.MethodPost, "/api/auth/register", "", signUp).Code)

	signUp["role"] = "admin"
	assert.Equal(t, http.StatusBadRequest, a.do(t, http.MethodPost, "/api/auth/register", "", signUp).Code)

	rec = a.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "shop@example.com", "password": "s3cret!"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "issued", decode[AuthResponse](t, rec).Token)

	rec = a.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "shop@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReportLocation(t *testing.T) {
	uc := noUseCases(t)
	orderID := kernel.NewUUID()
	uc.Locations = reporterFunc(func(
		_ context.Context,
		partner identity.DeliveryPartner,
		gotOrder kernel.UUID,
		lat, lon float64,
	) (commands.RecordLocationResult, error) {
		assert.True(t, gotOrder.IsZero(), "REST reports target the current order")
		pos, err := kernel.NewPosition(kernel.MustNewLocation(lat, lon), time.Now())
		require.NoError(t, err)
		return commands.RecordLocationResult{OrderID: orderID, PartnerID: partner.ID(), Position: pos, RemainingMeters: 420}, nil
	})
	a := newAPI(t, uc)
	_, token := a.login(t, identity.RoleDelivery)
	_, customerToken := a.login(t, identity.RoleCustomer)

	for _, path := range []string{"/api/location/update", "/api/location"} {
		t.Run(path, func(t *testing.T) {
			rec := a.do(t, http.MethodPost, path, token, map[string]float64{"latitude": 12.95, "longitude": 77.61})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			got := decode[LocationAccepted](t, rec)
			assert.Equal(t, orderID.String(), got.OrderID)
			require.NotNil(t, got.RemainingMeters)
			assert.InDelta(t, 420, *got.RemainingMeters, 1e-9)

			rec = a.do(t, http.MethodPost, path, customerToken, map[string]float64{"latitude": 12.95, "longitude": 77.61})
			assert.Equal(t, http.StatusForbidden, rec.Code)

			rec = a.do(t, http.MethodPost, path, token, map[string]float64{"latitude": 12.95})
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestListAvailablePartners(t *testing.T) {
	uc := noUseCases(t)
	partner := kernel.NewUUID()
	uc.ListAvailablePartners = useCaseFunc[queries.ListAvailablePartnersQuery, []queries.PartnerView](
		func(_ context.Context, q queries.ListAvailablePartnersQuery) ([]queries.PartnerView, error) {
			assert.InDelta(t, 12.97, q.Near().Latitude(), 1e-9)
			assert.InDelta(t, 77.59, q.Near().Longitude(), 1e-9)
			return []queries.PartnerView{{ID: partner, Name: "Ravi", Email: "ravi@example.com"}}, nil
		})
	a := newAPI(t, uc)
	_, token := a.login(t, identity.RoleVendor)

	rec := a.do(t, http.MethodGet, "/api/partners/available?latitude=12.97&longitude=77.59", token, nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[[]Partner](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, partner.String(), got[0].ID)
	assert.Nil(t, got[0].LastPosition)
}

func TestGetPartnerLocation(t *testing.T) {
	uc := noUseCases(t)
	partnerID, orderID := kernel.NewUUID(), kernel.NewUUID()
	pos, err := kernel.NewPosition(kernel.MustNewLocation(12.95, 77.61), time.Now())
	require.NoError(t, err)
	uc.GetPartnerLocation = useCaseFunc[queries.GetPartnerLocationQuery, queries.PartnerLocationView](
		func(_ context.Context, q queries.GetPartnerLocationQuery) (queries.PartnerLocationView, error) {
			if !q.PartnerID().IsEqual(partnerID) {
				return queries.PartnerLocationView{}, errs.NewNotAuthorizedError("view partner location")
			}
			return queries.PartnerLocationView{PartnerID: partnerID, CurrentOrderID: orderID, Position: pos}, nil
		})
	a := newAPI(t, uc)
	_, token := a.login(t, identity.RoleCustomer)

	rec := a.do(t, http.MethodGet, "/api/location/"+partnerID.String(), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[PartnerLocation](t, rec)
	assert.Equal(t, orderID.String(), got.CurrentOrderID)
	require.NotNil(t, got.Position)
	assert.InDelta(t, 12.95, got.Position.Latitude, 1e-9)

	rec = a.do(t, http.MethodGet, "/api/location/"+kernel.NewUUID().String(), token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
