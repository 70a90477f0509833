package capture

import (
	"sort"
	"strings"

	"github.com/nguyentantai21042004/mdoc/internal/transcribe"
)

// KeywordTriggers returns one trigger per segment that contains any of the
// keywords, placed at the middle of the segment.
func KeywordTriggers(segments []transcribe.Segment, keywords []string) ([]Trigger, []KeywordResult) {
	var triggers []Trigger
	var results []KeywordResult

	for _, s := range segments {
		text := strings.ToLower(s.Text)
		for _, kw := range keywords {
			if kw == "" || !strings.Contains(text, strings.ToLower(kw)) {
				continue
			}
			at := s.Start
			if s.End > s.Start {
				at = s.Start + (s.End-s.Start)/2
			}
			triggers = append(triggers, Trigger{Timestamp: at, Reason: "keyword: " + kw})
			results = append(results, KeywordResult{Keyword: kw, Timestamp: s.Start, Text: s.Text})
			break
		}
	}
	return triggers, results
}

// SceneTriggers wraps scene change timestamps as triggers.
func SceneTriggers(times []float64) []Trigger {
	triggers := make([]Trigger, 0, len(times))
	for _, t := range times {
		triggers = append(triggers, Trigger{Timestamp: t, Reason: "scene change"})
	}
	return triggers
}

// Select orders triggers by time, keeps the first one in every minInterval
// window and stops after limit. limit <= 0 means no cap.
func Select(triggers []Trigger, minInterval float64, limit int) []Trigger {
	sorted := append([]Trigger(nil), triggers...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Timestamp < sorted[j].Timestamp })

	var kept []Trigger
	for _, t := range sorted {
		if limit > 0 && len(kept) >= limit {
			break
		}
		if n := len(kept); n > 0 && t.Timestamp-kept[n-1].Timestamp < minInterval {
			continue
		}
		kept = append(kept, t)
	}
	return kept
}
