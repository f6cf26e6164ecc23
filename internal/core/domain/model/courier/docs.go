// Package courier contains the courier aggregate.
//
// A courier is a delivery worker the dispatch engine can match against
// shop orders. The aggregate tracks the last reported geolocation and an
// online flag; it deliberately does not track busyness, which is derived
// from claimed assignments so a crashed process can never strand a courier
// in a busy state.
package courier
