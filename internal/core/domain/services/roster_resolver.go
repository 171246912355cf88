package services

import (
	"dispatch/internal/core/domain/model/candidate"
	"dispatch/internal/core/domain/model/job"
)

// RosterResolver is a domain service that turns the available candidates of a region
// into the ordered roster a cascade walks through.
//
// Business rules:
//   - a required vehicle class is matched exactly first
//   - when that yields nobody (or no class is required) the category is matched;
//     an empty category matches every candidate
//   - when both yield nobody the roster is empty, which is not an error
//   - the input order is kept, so the resolved order is stable for one cycle
//   - a contact address appears at most once; the first occurrence wins
//
// Example usage:
//
//	resolver := NewRosterResolver()
//	available, _ := rosterSource.ListAvailable(ctx, j.Requirements().RegionID)
//	roster := resolver.Resolve(j.Requirements(), available)
//	if len(roster) == 0 {
//	    // the job ends with NoCandidates, no notification is sent
//	}
type RosterResolver struct{}

// NewRosterResolver creates a new RosterResolver instance.
func NewRosterResolver() RosterResolver {
	return RosterResolver{}
}

// Resolve filters candidates by the job requirements.
//
// Parameters:
//   - req: region, category and optional vehicle class of the job
//   - candidates: the available candidates, in the roster source's order
//
// Returns:
//   - []candidate.Candidate: the eligible candidates, possibly empty, never nil
func (r RosterResolver) Resolve(req job.Requirements, candidates []candidate.Candidate) []candidate.Candidate {
	inRegion := make([]candidate.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Validate() != nil || c.RegionID() != req.RegionID {
			continue
		}
		inRegion = append(inRegion, c)
	}

	if req.VehicleClass != "" {
		exact := r.filter(inRegion, func(c candidate.Candidate) bool {
			return c.MatchesVehicleClass(req.VehicleClass)
		})
		if len(exact) > 0 {
			return exact
		}
	}

	return r.filter(inRegion, func(c candidate.Candidate) bool {
		return c.MatchesCategory(req.Category)
	})
}

func (r RosterResolver) filter(candidates []candidate.Candidate, match func(candidate.Candidate) bool) []candidate.Candidate {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]candidate.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if !match(c) {
			continue
		}
		key := c.Contact().String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}
