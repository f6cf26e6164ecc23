// Package order contains the order aggregate of the dispatch domain.
//
// An Order is one customer checkout event, split into one ShopOrder per
// distinct restaurant in the cart. The ShopOrder is the unit of fulfillment:
// it carries the frozen line item snapshots, owns the status lifecycle
// (Pending through Delivered, with Cancelled as the absorbing alternative),
// and holds the one-time delivery code used by the completion handshake.
//
// Status changes go through an explicit transition table. Delivered is only
// reachable through ShopOrder.CompleteDelivery, which validates the delivery
// code; direct status advances to Delivered are rejected.
package order
