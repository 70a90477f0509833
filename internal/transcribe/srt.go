package transcribe

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var reSrtTiming = regexp.MustCompile(`^(\d{1,2}):(\d{2}):(\d{2})[,.](\d{1,3})\s*-->\s*(\d{1,2}):(\d{2}):(\d{2})[,.](\d{1,3})`)

// ParseSRT reads SubRip content into segments. Blocks without a timing line
// are skipped; multi-line cues are joined with a space.
func ParseSRT(content string) ([]Segment, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimPrefix(content, "\ufeff")

	var segments []Segment
	for _, block := range strings.Split(content, "\n\n") {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		timing := -1
		for i, l := range lines {
			if reSrtTiming.MatchString(strings.TrimSpace(l)) {
				timing = i
				break
			}
		}
		if timing < 0 {
			continue
		}

		m := reSrtTiming.FindStringSubmatch(strings.TrimSpace(lines[timing]))
		start, err := srtSeconds(m[1:5])
		if err != nil {
			return nil, fmt.Errorf("parse start %q: %w", lines[timing], err)
		}
		end, err := srtSeconds(m[5:9])
		if err != nil {
			return nil, fmt.Errorf("parse end %q: %w", lines[timing], err)
		}

		var text []string
		for _, l := range lines[timing+1:] {
			if l = strings.TrimSpace(l); l != "" {
				text = append(text, l)
			}
		}
		if len(text) == 0 {
			continue
		}

		segments = append(segments, Segment{
			Start: start,
			End:   end,
			Text:  strings.Join(text, " "),
		})
	}

	return segments, nil
}

func srtSeconds(parts []string) (float64, error) {
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, err
		}
		v[i] = n
	}
	ms := parts[3]
	frac := float64(v[3]) / pow10(len(ms))
	return float64(v[0]*3600+v[1]*60+v[2]) + frac, nil
}

func pow10(n int) float64 {
	f := 1.0
	for i := 0; i < n; i++ {
		f *= 10
	}
	return f
}
