// Package job holds the Job aggregate: a delivery or ride request walked through a
// candidate cascade, assigned to exactly one candidate and then gated by a pickup code.
//
// The package includes:
//   - Job: the aggregate root with its assignment, pickup code and last position
//   - Status: the lifecycle state machine, including the accept race guard
//   - Kind and Requirements: what the roster resolver needs to pick candidates
//   - PickupCode: the six digit one-time code with an absolute expiry
//
// Key business rules:
//   - an assignee exists exactly in Accepted, PickingUp, InProgress and Completed
//   - only Pending and Reviewing jobs can be accepted; a later accept loses the race
//   - a new pickup code replaces the previous one; verifying a code does not consume it
package job
