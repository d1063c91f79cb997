package commands

import (
	"context"
	"errors"

	"tracking/internal/pkg/errs"
)

// ReconcilePartnersCommandHandler treats the orders table as the source of truth
// for who is busy. A partner that some active order references is marked busy with
// that order; every other partner is marked available. It returns how many
// profiles were repaired.
//
// Transitions already write both sides in one transaction, so this only fixes
// rows edited out of band or left by an older deployment.
//
// Partners are read before assignments, and each repair is conditional on the
// partner row still holding what was read. Every assign and delivery rewrites the
// partner row, so a transition that commits while the pass runs turns the repair
// into a conflict. Such partners are skipped and looked at again on the next pass.
type ReconcilePartnersCommandHandler struct {
	uowFactory UoWFactory
}

// NewReconcilePartnersCommandHandler creates the handler.
func NewReconcilePartnersCommandHandler(uowFactory UoWFactory) ReconcilePartnersCommandHandler {
	return ReconcilePartnersCommandHandler{uowFactory: uowFactory}
}

// Handle runs one reconciliation pass and returns the number of repaired partners.
func (h ReconcilePartnersCommandHandler) Handle(ctx context.Context, cmd ReconcilePartnersCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	userRepo := uow.UserRepository()

	partners, err := userRepo.ListPartners(ctx, false)
	if err != nil {
		return 0, err
	}

	assignments, err := orderRepo.ActiveAssignments(ctx)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, p := range partners {
		expectedAvailable, expectedOrderID := p.IsAvailable(), p.CurrentOrderID()
		if !p.Reconcile(assignments[p.ID()]) {
			continue
		}
		err = userRepo.UpdateAssignment(ctx, p, expectedAvailable, expectedOrderID)
		if errors.Is(err, errs.ErrConflict) {
			continue
		}
		if err != nil {
			return 0, err
		}
		repaired++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return repaired, nil
}
