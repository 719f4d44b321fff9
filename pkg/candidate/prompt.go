package candidate

import (
	"fmt"
	"strings"
)

// RecentWatchedLimit is how many watched titles the generator is shown.
const RecentWatchedLimit = 3

// Request carries the context the generator prompt is built from.
type Request struct {
	Emotion     string
	VoiceTone   string
	City        string
	Weather     string
	Temperature float64
	TodayStatus string
	// Watched is ordered most recent first.
	Watched []string
	// Available restricts the answer when non-empty.
	Available []string
}

// BuildPrompt renders the natural-language instruction for the generative backend.
func BuildPrompt(req Request) string {
	watched := "none"
	if len(req.Watched) > 0 {
		recent := req.Watched
		if len(recent) > RecentWatchedLimit {
			recent = recent[:RecentWatchedLimit]
		}
		watched = strings.Join(recent, ", ")
	}

	var sb strings.Builder
	sb.WriteString("You are a movie recommendation expert. Based on the user's current context, recommend 5 movies.\n\n")
	sb.WriteString("Context:\n")
	fmt.Fprintf(&sb, "- Emotion: %s\n", req.Emotion)
	fmt.Fprintf(&sb, "- Voice tone: %s\n", req.VoiceTone)
	fmt.Fprintf(&sb, "- Location: %s\n", req.City)
	fmt.Fprintf(&sb, "- Weather: %s, %s°C\n", req.Weather, formatTemperature(req.Temperature))
	fmt.Fprintf(&sb, "- Day: %s\n", req.TodayStatus)
	fmt.Fprintf(&sb, "- Previously watched: %s\n\n", watched)
	sb.WriteString("Recommend exactly 5 movie titles that would match this mood.\n")
	sb.WriteString("Answer only with a numbered list, one title per line, in this format: \"1. Movie Title (Year)\".\n")

	if len(req.Available) > 0 {
		quoted := make([]string, len(req.Available))
		for i, t := range req.Available {
			quoted[i] = fmt.Sprintf("%q", t)
		}
		fmt.Fprintf(&sb, "Only recommend from these available movies: %s\n", strings.Join(quoted, ", "))
	} else {
		sb.WriteString("Recommend any well-known movies.\n")
	}
	return sb.String()
}

func formatTemperature(t float64) string {
	s := fmt.Sprintf("%.1f", t)
	return strings.TrimSuffix(s, ".0")
}
