// Package services holds domain services that work across aggregates of the
// dispatch domain.
//
// The package includes:
//   - RosterResolver: turns available candidates into the ordered roster of a cascade
//   - RandomCodeGenerator: draws the six digit pickup codes
package services
