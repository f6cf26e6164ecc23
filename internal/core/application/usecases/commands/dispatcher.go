package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// ErrNoCandidatesAvailable is returned when the dispatch chain finds no
// eligible courier. This is a tolerated outcome, not a failure: the shop
// order keeps its status with no assignment and stays eligible for retry.
var ErrNoCandidatesAvailable = errors.New("no eligible couriers available for dispatch")

// DispatchSettings are the tunables of the dispatch chain. Radius values
// are operational knobs, not correctness properties.
type DispatchSettings struct {
	// StandardRadiusKm is the search radius for the first dispatch attempt.
	StandardRadiusKm float64
	// EscalationRadiusKm is the tighter radius used once the shop order is
	// out for delivery and still has no courier.
	EscalationRadiusKm float64
	// MaxCandidates caps how many couriers one broadcast is addressed to.
	MaxCandidates int
	// LocationMaxAge is how old a location report may be and still count.
	LocationMaxAge time.Duration
}

// Dispatcher runs the dispatch chain for one shop order: geospatial search
// around the delivery address, eligibility filtering, broadcast creation,
// and offer fan-out.
//
// The dispatcher participates in the caller's transaction through the unit
// of work it is handed; it never commits or rolls back itself. Offer fan-out
// is fire and forget: a publish failure is logged, the broadcast stands.
type Dispatcher interface {
	// Dispatch creates an open broadcast for the shop order and links it.
	// Returns ErrNoCandidatesAvailable when nobody is eligible; in that case
	// nothing is created and the shop order is left untouched.
	Dispatch(
		ctx context.Context,
		uow UoW,
		aggregate *order.Order,
		shopOrder *order.ShopOrder,
		radiusKm float64,
	) error
}

// NewDispatcher creates the standard Dispatcher implementation.
func NewDispatcher(
	geoIndex ports.CourierGeoIndex,
	filter services.CandidateFilter,
	publisher ports.NotificationPublisher,
	settings DispatchSettings,
	logger *slog.Logger,
) Dispatcher {
	return &broadcastDispatcher{
		geoIndex:  geoIndex,
		filter:    filter,
		publisher: publisher,
		settings:  settings,
		logger:    logger.With("component", "dispatcher"),
	}
}

type broadcastDispatcher struct {
	geoIndex  ports.CourierGeoIndex
	filter    services.CandidateFilter
	publisher ports.NotificationPublisher
	settings  DispatchSettings
	logger    *slog.Logger
}

func (d *broadcastDispatcher) Dispatch(
	ctx context.Context,
	uow UoW,
	aggregate *order.Order,
	shopOrder *order.ShopOrder,
	radiusKm float64,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if err := shopOrder.Validate(); err != nil {
		return err
	}

	assignmentRepo := uow.AssignmentRepository()

	// One live broadcast per shop order. A second dispatch while one is
	// open or claimed is a no-op.
	active, err := assignmentRepo.HasActiveForShopOrder(ctx, shopOrder.ID())
	if err != nil {
		return err
	}
	if active {
		return nil
	}

	nearestIDs, err := d.geoIndex.NearestCouriers(
		ctx, aggregate.DeliveryAddress(), radiusKm, d.settings.MaxCandidates)
	if err != nil {
		return err
	}
	if len(nearestIDs) == 0 {
		return ErrNoCandidatesAvailable
	}

	candidates, err := d.eligibleCandidates(ctx, uow, nearestIDs)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return ErrNoCandidatesAvailable
	}

	now := time.Now()
	broadcast, err := assignment.NewAssignment(
		kernel.NewUUID(), aggregate.ID(), shopOrder.ShopID(), shopOrder.ID(), candidates, now)
	if err != nil {
		return err
	}

	// The store enforces one live broadcast per shop order. Losing the
	// insert race means a concurrent dispatch already created one, which
	// is the same outcome as the active check firing.
	if err = assignmentRepo.Add(ctx, broadcast); err != nil {
		if errors.Is(err, assignment.ErrAlreadyResolved) {
			d.logger.InfoContext(ctx, "live broadcast already exists, skipping",
				"shopOrderId", shopOrder.ID().String())
			return nil
		}
		return err
	}

	if err = shopOrder.LinkAssignment(broadcast.ID()); err != nil {
		return err
	}

	d.publishOffer(ctx, broadcast, aggregate, shopOrder)
	return nil
}

// eligibleCandidates narrows the geo search result to couriers that may
// receive the offer, preserving the nearest-first order of the index.
func (d *broadcastDispatcher) eligibleCandidates(
	ctx context.Context,
	uow UoW,
	nearestIDs []kernel.UUID,
) ([]kernel.UUID, error) {
	couriers, err := uow.CourierRepository().GetByIDs(ctx, nearestIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[kernel.UUID]*courier.Courier, len(couriers))
	for _, candidate := range couriers {
		byID[candidate.ID()] = candidate
	}

	ordered := make([]*courier.Courier, 0, len(nearestIDs))
	for _, id := range nearestIDs {
		if candidate, ok := byID[id]; ok {
			ordered = append(ordered, candidate)
		}
	}

	busy, err := uow.AssignmentRepository().GetClaimedCourierIDs(ctx, nearestIDs)
	if err != nil {
		return nil, err
	}

	return d.filter.FilterEligible(ordered, busy, time.Now(), d.settings.LocationMaxAge)
}

// publishOffer fans the broadcast out to its candidates. Best effort: the
// broadcast is already persisted and couriers can discover it by polling
// their open broadcasts, so a publish failure is only logged.
func (d *broadcastDispatcher) publishOffer(
	ctx context.Context,
	broadcast *assignment.Assignment,
	aggregate *order.Order,
	shopOrder *order.ShopOrder,
) {
	courierIDs := make([]string, 0, len(broadcast.Candidates()))
	for _, id := range broadcast.Candidates() {
		courierIDs = append(courierIDs, id.String())
	}

	items := make([]ports.AssignmentOfferItem, 0, len(shopOrder.Items()))
	for _, item := range shopOrder.Items() {
		items = append(items, ports.AssignmentOfferItem{
			Name:     item.Name(),
			Price:    item.Price().String(),
			Quantity: item.Quantity(),
		})
	}

	err := d.publisher.PublishAssignmentOffer(ctx, ports.AssignmentOfferNotification{
		AssignmentID: broadcast.ID().String(),
		OrderID:      broadcast.OrderID().String(),
		ShopOrderID:  broadcast.ShopOrderID().String(),
		ShopID:       broadcast.ShopID().String(),
		ShopName:     shopOrder.ShopName(),
		AddressText:  aggregate.AddressText(),
		DeliveryLat:  aggregate.DeliveryAddress().Latitude(),
		DeliveryLon:  aggregate.DeliveryAddress().Longitude(),
		Items:        items,
		Subtotal:     shopOrder.Subtotal().String(),
		CourierIDs:   courierIDs,
		CreatedAt:    broadcast.CreatedAt(),
	})
	if err != nil {
		d.logger.WarnContext(ctx, "assignment offer fan-out failed",
			"assignmentId", broadcast.ID().String(),
			"error", err)
	}
}
