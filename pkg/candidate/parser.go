package candidate

import (
	"regexp"
	"strings"
)

// MaxCandidates bounds both the candidate list and the final recommendation.
const MaxCandidates = 5

var (
	numberedLine = regexp.MustCompile(`^\s*\d+\s*[.)]\s*(.+?)\s*$`)
	trailingYear = regexp.MustCompile(`\s*\(\d{4}\)\s*$`)
)

// Parse extracts numbered titles ("1. Title (Year)") from generated text. Titles keep
// generation order, duplicates are dropped case-insensitively and at most
// MaxCandidates are returned. Text without numbered lines yields an empty list.
func Parse(text string) []string {
	titles := make([]string, 0, MaxCandidates)
	seen := make(map[string]struct{})

	for _, line := range strings.Split(text, "\n") {
		m := numberedLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		title := cleanTitle(m[1])
		if title == "" {
			continue
		}
		key := strings.ToLower(title)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		titles = append(titles, title)
		if len(titles) == MaxCandidates {
			break
		}
	}
	return titles
}

func cleanTitle(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "*_")
	s = strings.TrimSpace(s)
	// drop a trailing " - blurb" the model sometimes adds after the year
	if idx := strings.Index(s, ") - "); idx >= 0 {
		s = s[:idx+1]
	}
	s = trailingYear.ReplaceAllString(s, "")
	s = strings.Trim(s, "*_\"'“”")
	return strings.TrimSpace(s)
}
