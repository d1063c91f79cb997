package commands

import (
	"errors"

	"tracking/internal/pkg/guard"
)

var ErrReconcilePartnersCommandIsNotConstructed = errors.New(
	"ReconcilePartnersCommand must be created via NewReconcilePartnersCommand constructor",
)

// ReconcilePartnersCommand repairs partner profiles that disagree with the orders table.
type ReconcilePartnersCommand struct {
	guard guard.ConstructorGuard
}

// NewReconcilePartnersCommand creates the command. It has no parameters.
func NewReconcilePartnersCommand() ReconcilePartnersCommand {
	return ReconcilePartnersCommand{guard: guard.NewConstructorGuard()}
}

// Validate fails unless the command was built by its constructor.
func (c ReconcilePartnersCommand) Validate() error {
	return c.guard.Validate(ErrReconcilePartnersCommandIsNotConstructed)
}
