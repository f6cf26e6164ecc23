package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/order"

	"github.com/robfig/cron/v3"
)

// DispatchRetryJob periodically sweeps the active workload for shop orders
// that want a courier but have no live broadcast, and re-dispatches them
// with the escalation radius. Covers two gaps the request path leaves:
// broadcasts that found zero candidates, and assignments terminated by a
// courier-side cancellation.
type DispatchRetryJob struct {
	uncompletedHandler queries.GetUncompletedShopOrdersQueryHandler
	redispatchHandler  commands.RedispatchShopOrderCommandHandler
	schedule           string
	cron               *cron.Cron
	logger             *slog.Logger
}

// NewDispatchRetryJob creates the dispatch retry job. The schedule is a
// six-field cron expression with a seconds column.
func NewDispatchRetryJob(
	uncompletedHandler queries.GetUncompletedShopOrdersQueryHandler,
	redispatchHandler commands.RedispatchShopOrderCommandHandler,
	schedule string,
	logger *slog.Logger,
) *DispatchRetryJob {
	return &DispatchRetryJob{
		uncompletedHandler: uncompletedHandler,
		redispatchHandler:  redispatchHandler,
		schedule:           schedule,
		cron:               cron.New(cron.WithSeconds()),
		logger:             logger.With("component", "dispatch_retry_job"),
	}
}

// Start begins the periodic retry sweep.
func (j *DispatchRetryJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, j.sweep)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "dispatch retry job started",
		"schedule", j.schedule)
	return nil
}

// Stop stops the dispatch retry job.
func (j *DispatchRetryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "dispatch retry job stopped")
}

func (j *DispatchRetryJob) sweep() {
	ctx := context.Background()

	active, err := j.uncompletedHandler.Handle(ctx, queries.NewGetUncompletedShopOrdersQuery())
	if err != nil {
		j.logger.ErrorContext(ctx, "dispatch retry sweep failed to load workload", "error", err)
		return
	}

	for _, shopOrder := range active {
		if !needsRetry(shopOrder) {
			continue
		}

		cmd, cmdErr := commands.NewRedispatchShopOrderCommand(
			shopOrder.OrderID, shopOrder.ShopOrderID)
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "dispatch retry skipped shop order",
				"shopOrderId", shopOrder.ShopOrderID.String(),
				"error", cmdErr)
			continue
		}

		if handleErr := j.redispatchHandler.Handle(ctx, cmd); handleErr != nil {
			j.logger.ErrorContext(ctx, "dispatch retry failed",
				"shopOrderId", shopOrder.ShopOrderID.String(),
				"error", handleErr)
		}
	}
}

// needsRetry mirrors the dispatchable window on the read model: a courier
// is still wanted and none is attached. The redispatch handler re-checks
// against the aggregate before broadcasting.
func needsRetry(shopOrder queries.GetUncompletedShopOrdersQueryResponse) bool {
	if shopOrder.CourierID != "" {
		return false
	}

	status, err := order.StatusFromString(shopOrder.Status)
	if err != nil {
		return false
	}

	switch status {
	case order.Accepted, order.Preparing, order.Ready, order.OutForDelivery:
		return true
	default:
		return false
	}
}
