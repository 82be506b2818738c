package features

import (
	"cmp"
	"slices"
	"time"

	"github.com/jonathan/careerpilot/internal/types"
)

const (
	recencyFullYears = 2.0
	recencyZeroYears = 10.0
)

// monthSpan is an inclusive range of month indexes.
type monthSpan struct {
	start, end int
}

func monthIndex(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}

// workSpans converts work entries into month spans ending no later than now.
// Entries that start after now contribute nothing.
func workSpans(work []types.WorkEntry, now time.Time) ([]monthSpan, error) {
	nowIdx := monthIndex(now)
	spans := make([]monthSpan, 0, len(work))
	for i := range work {
		start, end, err := work[i].Period()
		if err != nil {
			return nil, err
		}
		span := monthSpan{start: monthIndex(start), end: nowIdx}
		if !work[i].Current() {
			span.end = min(monthIndex(end), nowIdx)
		}
		if span.start > span.end {
			continue
		}
		spans = append(spans, span)
	}
	return spans, nil
}

// mergedMonths sums the months covered by spans, counting overlaps once.
func mergedMonths(spans []monthSpan) int {
	if len(spans) == 0 {
		return 0
	}
	sorted := slices.Clone(spans)
	slices.SortFunc(sorted, func(a, b monthSpan) int {
		return cmp.Compare(a.start, b.start)
	})

	total := 0
	cur := sorted[0]
	for _, s := range sorted[1:] {
		if s.start <= cur.end {
			cur.end = max(cur.end, s.end)
			continue
		}
		total += cur.end - cur.start + 1
		cur = s
	}
	total += cur.end - cur.start + 1
	return total
}

// yearsExperience returns the merged duration of all work entries in years.
func yearsExperience(work []types.WorkEntry, now time.Time) (float64, error) {
	spans, err := workSpans(work, now)
	if err != nil {
		return 0, err
	}
	return float64(mergedMonths(spans)) / 12, nil
}

// recencyWeight is 1.0 when the latest work entry is current or ended within
// two years, decaying linearly to 0 at ten years. No work means 0.
func recencyWeight(work []types.WorkEntry, now time.Time) (float64, error) {
	if len(work) == 0 {
		return 0, nil
	}

	nowIdx := monthIndex(now)
	latest := -1
	for i := range work {
		if work[i].Current() {
			return 1.0, nil
		}
		_, end, err := work[i].Period()
		if err != nil {
			return 0, err
		}
		latest = max(latest, monthIndex(end))
	}

	yearsSince := float64(nowIdx-latest) / 12
	switch {
	case yearsSince <= recencyFullYears:
		return 1.0, nil
	case yearsSince >= recencyZeroYears:
		return 0.0, nil
	default:
		return 1.0 - (yearsSince-recencyFullYears)/(recencyZeroYears-recencyFullYears), nil
	}
}
