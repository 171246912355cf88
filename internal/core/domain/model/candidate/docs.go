// Package candidate models drivers that can be offered a job.
//
// Candidates come from an external roster and are treated as immutable snapshots:
// once a cascade has captured an ordered list of candidates it walks that list even
// if a candidate goes offline in the meantime.
package candidate
