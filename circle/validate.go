package circle

import (
	"fmt"
	"strings"
)

// SetupError reports why a proposed circle setup was rejected. Validation
// failures are caught before any write is attempted; no partial state is
// ever persisted.
type SetupError struct {
	Problems []string
}

func (e *SetupError) Error() string {
	return "invalid setup: " + strings.Join(e.Problems, "; ")
}

// ValidateSetup checks a proposed (members, startDate) pair:
//
//   - startDate must be a valid YYYY-MM-DD date
//   - there must be at least one member
//   - every member needs a non-blank name
//   - member IDs must be unique (when set)
//   - Order values must be unique
//
// Returns nil when the setup is acceptable, otherwise a *SetupError
// listing every problem found.
func ValidateSetup(members []Member, startDate string) error {
	var problems []string

	if startDate == "" {
		problems = append(problems, "start date is required")
	} else if _, err := ParseDateKey(startDate); err != nil {
		problems = append(problems, fmt.Sprintf("start date %q is not a valid YYYY-MM-DD date", startDate))
	}

	if len(members) == 0 {
		problems = append(problems, "at least one member is required")
	}

	seenIDs := make(map[string]bool, len(members))
	seenOrders := make(map[int]bool, len(members))
	for i, m := range members {
		if strings.TrimSpace(m.Name) == "" {
			problems = append(problems, fmt.Sprintf("member %d has no name", i+1))
		}
		if m.ID != "" && seenIDs[m.ID] {
			problems = append(problems, fmt.Sprintf("duplicate member id %q", m.ID))
		}
		seenIDs[m.ID] = true
		if seenOrders[m.Order] {
			problems = append(problems, fmt.Sprintf("duplicate rotation order %d", m.Order))
		}
		seenOrders[m.Order] = true
	}

	if len(problems) > 0 {
		return &SetupError{Problems: problems}
	}
	return nil
}
