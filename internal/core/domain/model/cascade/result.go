package cascade

// Result is the informational outcome reported back for a candidate response.
// Losing a race is a result, not an error.
type Result string

const (
	ResultReviewing       Result = "REVIEWING"
	ResultAccepted        Result = "ACCEPTED"
	ResultDeclined        Result = "DECLINED"
	ResultAlreadyAssigned Result = "ALREADY_ASSIGNED"
	ResultStale           Result = "STALE"
	ResultNoActiveJob     Result = "NO_ACTIVE_JOB"
)
