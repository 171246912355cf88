// Package kernel provides the shared domain primitives of the dispatch service.
//
// The package includes:
//   - UUID: identifier of jobs and candidates
//   - ContactAddress: normalized address a candidate is reached on; the key of
//     correlation entries
//   - Position: last reported latitude/longitude of a candidate
//
// All primitives are immutable values guarded against construction as struct literals.
package kernel
