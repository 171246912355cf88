// Package cascade models the one-at-a-time walk over a roster of candidates.
//
// A Cycle holds the roster snapshot, the index of the candidate currently
// offered the job and a durable timer. Advancing names the index it moves
// away from, so a timeout and a decline racing for the same candidate advance
// the cycle once: whichever comes second gets ErrStaleAdvance.
package cascade
