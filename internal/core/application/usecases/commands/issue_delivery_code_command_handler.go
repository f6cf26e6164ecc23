package commands

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"dispatch/internal/core/ports"
)

// deliveryCodeDigits is the length of the numeric one-time code.
const deliveryCodeDigits = 6

// IssueDeliveryCodeCommandHandler issues the one-time code for the delivery
// completion handshake.
//
// The code is stored on the shop order with its expiry and sent to the
// customer out of band. Sending is best effort: a failed send is logged, the
// stored code stays valid and can be conveyed by other means.
type IssueDeliveryCodeCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.NotificationPublisher
	codeTTL    time.Duration
	logger     *slog.Logger
}

// NewIssueDeliveryCodeCommandHandler creates a handler for code issuing.
// codeTTL is the validity window of an issued code.
func NewIssueDeliveryCodeCommandHandler(
	uowFactory UoWFactory,
	publisher ports.NotificationPublisher,
	codeTTL time.Duration,
	logger *slog.Logger,
) IssueDeliveryCodeCommandHandler {
	return IssueDeliveryCodeCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		codeTTL:    codeTTL,
		logger:     logger.With("component", "issue_delivery_code"),
	}
}

// Handle processes the issue request.
// Generates a numeric code, stores it with its expiry, and sends it to the
// customer after the commit.
func (h *IssueDeliveryCodeCommandHandler) Handle(ctx context.Context, cmd IssueDeliveryCodeCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	code, err := generateDeliveryCode()
	if err != nil {
		return err
	}
	expiresAt := time.Now().Add(h.codeTTL)

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	shopOrder, err := aggregate.ShopOrder(cmd.ShopOrderID())
	if err != nil {
		return err
	}

	if err = shopOrder.IssueDeliveryCode(code, expiresAt); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.sendCode(ctx, cmd, code, expiresAt)
	return nil
}

func (h *IssueDeliveryCodeCommandHandler) sendCode(
	ctx context.Context,
	cmd IssueDeliveryCodeCommand,
	code string,
	expiresAt time.Time,
) {
	err := h.publisher.SendDeliveryCode(ctx, ports.DeliveryCodeNotification{
		OrderID:     cmd.OrderID().String(),
		ShopOrderID: cmd.ShopOrderID().String(),
		Code:        code,
		ExpiresAt:   expiresAt,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "delivery code send failed, code stays valid",
			"shopOrderId", cmd.ShopOrderID().String(),
			"error", err)
	}
}

// generateDeliveryCode produces a uniformly random numeric code with leading
// zeros preserved.
func generateDeliveryCode() (string, error) {
	limit := big.NewInt(1)
	for range deliveryCodeDigits {
		limit.Mul(limit, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("generate delivery code: %w", err)
	}

	return fmt.Sprintf("%0*d", deliveryCodeDigits, n), nil
}
