package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
)

// ClaimAssignmentCommandHandler is the claim arbiter. It resolves the race
// between couriers accepting the same broadcast so that exactly one wins.
//
// Precondition order is fixed: the assignment must exist (ObjectNotFound),
// must still be open (ErrAlreadyResolved), and the courier must not hold a
// claimed assignment already (ErrCourierBusy). The winner is then decided by
// a single conditional update in the repository; losing the conditional
// write also yields ErrAlreadyResolved.
type ClaimAssignmentCommandHandler struct {
	uowFactory UoWFactory
}

// NewClaimAssignmentCommandHandler creates the claim arbiter handler.
func NewClaimAssignmentCommandHandler(uowFactory UoWFactory) ClaimAssignmentCommandHandler {
	return ClaimAssignmentCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the claim attempt.
// On success the shop order's courier reference is set in the same
// transaction that flips the assignment status.
func (h *ClaimAssignmentCommandHandler) Handle(ctx context.Context, cmd ClaimAssignmentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	assignmentRepo := uow.AssignmentRepository()

	broadcast, err := assignmentRepo.Get(ctx, cmd.AssignmentID())
	if err != nil {
		return err
	}
	if broadcast.Status() != assignment.Open {
		return assignment.ErrAlreadyResolved
	}

	busy, err := assignmentRepo.GetClaimedCourierIDs(ctx, []kernel.UUID{cmd.CourierID()})
	if err != nil {
		return err
	}
	if _, holding := busy[cmd.CourierID()]; holding {
		return ErrCourierBusy
	}

	claimed, err := assignmentRepo.ClaimOpen(ctx, cmd.AssignmentID(), cmd.CourierID(), time.Now())
	if err != nil {
		return err
	}
	if !claimed {
		return assignment.ErrAlreadyResolved
	}

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.GetByShopOrder(ctx, broadcast.ShopOrderID())
	if err != nil {
		return err
	}

	shopOrder, err := aggregate.ShopOrder(broadcast.ShopOrderID())
	if err != nil {
		return err
	}

	if err = shopOrder.AssignCourier(cmd.CourierID()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
