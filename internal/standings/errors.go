package standings

import "fmt"

// ValidationError reports a malformed match result (negative score or
// self-play). The calculator performs no tallying on invalid input.
type ValidationError struct {
	Reason string
	Match  MatchResult
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid match %s vs %s: %s", e.Match.TeamA, e.Match.TeamB, e.Reason)
}

// ReferenceError reports a match naming a team that is not part of the
// supplied team set. Unknown teams are rejected rather than silently
// dropped.
type ReferenceError struct {
	Team TeamID
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("match references unknown team %q", e.Team)
}
