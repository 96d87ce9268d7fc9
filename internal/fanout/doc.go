// Package fanout generates several copy variants for many products at once.
//
// A run picks K distinct copy types per product, queues one task per
// (product, copy type) pair and drains the queue with a fixed-size worker
// pool. Task failures are logged and excluded; they never abort the run.
// Progress is observable while the run is in flight.
package fanout
