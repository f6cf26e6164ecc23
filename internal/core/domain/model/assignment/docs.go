// Package assignment contains the delivery assignment aggregate.
//
// An Assignment is one broadcast-and-claim cycle: it is created in Open
// status addressed to a fixed set of candidate couriers, exactly one claim
// wins the race and moves it to Claimed, and it ends in Completed when the
// delivery finishes or the shop order is cancelled.
//
// A courier is busy for matching purposes while holding any Claimed
// assignment. Open assignments do not make a courier busy; losing candidates
// simply stop seeing the broadcast once its status flips.
package assignment
