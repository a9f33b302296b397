// Package tasks implements the playlist reconciliation engine: matching
// input tracks against the Spotify catalog and submitting confirmed
// matches to a Spotify playlist.
//
// # Architecture
//
// [Importer] is a single-threaded state machine. All state transitions
// happen in [Importer.Update], which consumes one [Msg] at a time and
// returns [Cmd] values for the work to run outside the loop (network
// calls). [Importer.Run] drives the loop: it executes commands on
// goroutines and feeds their resulting messages back in arrival order.
// Because only the loop goroutine touches state, no locking is needed;
// event ordering is the sole correctness mechanism.
//
// # Request budget
//
// At most one catalog call is outstanding at any moment, enforced by an
// explicit capacity-1 [CallSlot] rather than a scan over in-flight
// tasks. Search tasks drain FIFO; once the queue is empty, bulk lookups
// for previously-mapped tracks run in 50-id pages in increasing page
// order; playlist-level operations (list, create, add items) share the
// same slot.
//
// # Retries
//
// A first automatic search returning zero results queues exactly one
// relaxed-query retry, and only when the relaxed query differs from the
// original. Manual re-searches never retry. Transient API failures
// surface a one-line error and are not retried; the periodic tick
// re-enters the scheduler so untouched work keeps moving.
//
// # Sessions and staleness
//
// Loading a new playlist bumps a generation counter and rebuilds the
// queue, match cache, and remainder set. Completions stamped with an
// older generation release the call slot but are otherwise discarded.
package tasks
