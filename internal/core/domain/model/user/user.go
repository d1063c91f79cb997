package user

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"tracking/internal/core/domain/model/identity"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/errs"
	"tracking/internal/pkg/guard"
)

var (
	ErrUserIsNotConstructed = errors.New("User must be created via NewUser constructor")
	ErrNameIsRequired       = errs.NewValueIsRequiredError("name")
	ErrPasswordIsRequired   = errs.NewValueIsRequiredError("password")
)

// User is a registered account with exactly one role.
type User struct {
	id           kernel.UUID
	email        string
	name         string
	passwordHash string
	role         identity.Role

	// vendor only
	storeName     string
	storeLocation kernel.Location

	// delivery partner only
	isAvailable    bool
	currentOrderID kernel.UUID
	lastPosition   kernel.Position

	createdAt time.Time
	guard     guard.ConstructorGuard
}

// NewUser registers an account. Delivery partners start available.
// passwordHash must already be hashed; the domain never sees plain passwords.
func NewUser(id kernel.UUID, email, name, passwordHash string, role identity.Role, now time.Time) (*User, error) {
	u := &User{
		isAvailable: role == identity.RoleDelivery,
		createdAt:   now.UTC(),
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		u.setID(id),
		u.setEmail(email),
		u.setName(name),
		u.setPasswordHash(passwordHash),
		role.Validate(),
	); err != nil {
		return nil, err
	}
	u.role = role
	return u, nil
}

// RestoreUser rebuilds a user from storage. The availability pair is taken as
// stored even if inconsistent so that Reconcile can repair it.
func RestoreUser(
	id kernel.UUID,
	email, name, passwordHash string,
	role identity.Role,
	storeName string,
	storeLocation kernel.Location,
	isAvailable bool,
	currentOrderID kernel.UUID,
	lastPosition kernel.Position,
	createdAt time.Time,
) (*User, error) {
	u := &User{
		role:           role,
		storeName:      storeName,
		storeLocation:  storeLocation,
		isAvailable:    isAvailable,
		currentOrderID: currentOrderID,
		lastPosition:   lastPosition,
		createdAt:      createdAt.UTC(),
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		u.setID(id),
		u.setEmail(email),
		u.setName(name),
		u.setPasswordHash(passwordHash),
		role.Validate(),
	); err != nil {
		return nil, err
	}
	return u, nil
}

// Validate fails unless the user was built by NewUser or RestoreUser.
func (u *User) Validate() error {
	if u == nil {
		return ErrUserIsNotConstructed
	}
	return u.guard.Validate(ErrUserIsNotConstructed)
}

// ID returns the user id.
func (u *User) ID() kernel.UUID { return u.id }

// Email returns the normalized email.
func (u *User) Email() string { return u.email }

// Name returns the display name.
func (u *User) Name() string { return u.name }

// PasswordHash returns the stored password hash.
func (u *User) PasswordHash() string { return u.passwordHash }

// Role returns the user's role.
func (u *User) Role() identity.Role { return u.role }

// StoreName returns the vendor's store name, empty for other roles.
func (u *User) StoreName() string { return u.storeName }

// StoreLocation returns the vendor's store location, zero if unset.
func (u *User) StoreLocation() kernel.Location { return u.storeLocation }

// IsAvailable reports whether a delivery partner can take an order.
func (u *User) IsAvailable() bool { return u.isAvailable }

// CurrentOrderID returns the partner's active order, or the zero UUID.
func (u *User) CurrentOrderID() kernel.UUID { return u.currentOrderID }

// LastPosition returns the partner's latest reported position, zero if none.
func (u *User) LastPosition() kernel.Position { return u.lastPosition }

// CreatedAt returns when the account was registered.
func (u *User) CreatedAt() time.Time { return u.createdAt }

// IsDeliveryPartner reports whether the user has the delivery role.
func (u *User) IsDeliveryPartner() bool { return u.role == identity.RoleDelivery }

// Principal returns the identity this user authenticates as.
func (u *User) Principal() (identity.Principal, error) {
	return identity.NewPrincipal(u.id, u.role)
}

// SetStore attaches the store profile. Only vendors have one.
func (u *User) SetStore(name string, location kernel.Location) error {
	if u.role != identity.RoleVendor {
		return errs.NewValueIsInvalidErrorWithCause("storeName", fmt.Errorf("role %s has no store", u.role))
	}
	u.storeName = strings.TrimSpace(name)
	u.storeLocation = location
	return nil
}

// IsConsistent reports whether availability and current order agree.
func (u *User) IsConsistent() bool {
	return u.isAvailable == u.currentOrderID.IsZero()
}

// TakeOrder binds an available delivery partner to orderID.
func (u *User) TakeOrder(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	if !u.IsDeliveryPartner() {
		return errs.NewValueIsInvalidErrorWithCause("deliveryPartnerId",
			fmt.Errorf("user %s has role %s", u.id, u.role))
	}
	if !u.isAvailable || !u.currentOrderID.IsZero() {
		return errs.NewConflictErrorWithCause("delivery partner", u.id,
			fmt.Errorf("busy with order %s", u.currentOrderID))
	}

	u.currentOrderID = orderID
	u.isAvailable = false
	return nil
}

// ReleaseOrder frees the partner from orderID and forgets its position.
// It is a no-op, returning false, when the partner is bound to another order
// or to none.
func (u *User) ReleaseOrder(orderID kernel.UUID) bool {
	if u.currentOrderID.IsZero() || !u.currentOrderID.IsEqual(orderID) {
		return false
	}
	u.currentOrderID = kernel.UUID{}
	u.isAvailable = true
	u.lastPosition = kernel.Position{}
	return true
}

// RecordPosition stores the partner's latest position.
func (u *User) RecordPosition(pos kernel.Position) error {
	if !u.IsDeliveryPartner() {
		return errs.NewNotAuthorizedError("only delivery partners report positions")
	}
	if pos.IsZero() {
		return errs.NewValueIsRequiredError("position")
	}
	u.lastPosition = pos
	return nil
}

// Reconcile aligns the partner profile with activeOrderID, the order that storage
// says the partner is working (zero if none). It returns true when something changed.
func (u *User) Reconcile(activeOrderID kernel.UUID) bool {
	if !u.IsDeliveryPartner() {
		return false
	}
	wantAvailable := activeOrderID.IsZero()
	if u.isAvailable == wantAvailable && u.currentOrderID.IsEqual(activeOrderID) {
		return false
	}

	u.currentOrderID = activeOrderID
	u.isAvailable = wantAvailable
	if wantAvailable {
		u.lastPosition = kernel.Position{}
	}
	return true
}

func (u *User) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	u.id = id
	return nil
}

func (u *User) setEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return errs.NewValueIsRequiredError("email")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errs.NewValueIsInvalidErrorWithCause("email", fmt.Errorf("%q is not an address", email))
	}
	u.email = email
	return nil
}

func (u *User) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	u.name = name
	return nil
}

func (u *User) setPasswordHash(hash string) error {
	if hash == "" {
		return ErrPasswordIsRequired
	}
	u.passwordHash = hash
	return nil
}
