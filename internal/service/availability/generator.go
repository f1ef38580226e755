package availability

import (
	"fmt"
	"sort"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/pkg/timeutil"
)

// Generate produces the deduplicated, ascending candidate start times
// that fit inside the given blocks for one visit duration. Within each
// block it steps forward by durationMinutes while the full visit still
// fits; a slot that would overflow past the block end is dropped, not
// an error. Blocks with malformed time strings are skipped and
// reported in the second return value so callers can log them without
// aborting the pass.
func Generate(blocks []model.WorkingBlock, durationMinutes int) ([]string, []error) {
	if durationMinutes <= 0 {
		return nil, nil
	}

	seen := make(map[int]struct{})
	var skipped []error

	for _, b := range blocks {
		start, err := timeutil.ToMinutes(b.StartTime)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("block %s: bad start time: %w", b.ID, err))
			continue
		}
		end, err := timeutil.ToMinutes(b.EndTime)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("block %s: bad end time: %w", b.ID, err))
			continue
		}
		for cur := start; cur+durationMinutes <= end; cur += durationMinutes {
			seen[cur] = struct{}{}
		}
	}

	if len(seen) == 0 {
		return nil, skipped
	}

	minutes := make([]int, 0, len(seen))
	for m := range seen {
		minutes = append(minutes, m)
	}
	sort.Ints(minutes)

	times := make([]string, 0, len(minutes))
	for _, m := range minutes {
		// m < end <= 1439 here, so conversion cannot fail
		t, err := timeutil.ToTimeString(m)
		if err != nil {
			continue
		}
		times = append(times, t)
	}
	return times, skipped
}
