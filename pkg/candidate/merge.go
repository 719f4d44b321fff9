package candidate

// Merge combines generated candidates with an ordered model ranking. Model-preferred
// titles that are also candidates move to the front in ranking order, the remaining
// candidates follow in generation order, and the result is capped at MaxCandidates.
// A nil ranking leaves the candidate order untouched. Titles absent from candidates
// are never introduced.
func Merge(candidates []string, ranking []string) []string {
	if len(candidates) == 0 {
		return []string{}
	}

	inCandidates := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		inCandidates[c] = struct{}{}
	}

	out := make([]string, 0, MaxCandidates)
	added := make(map[string]struct{}, len(candidates))
	push := func(title string) {
		if _, ok := added[title]; ok {
			return
		}
		added[title] = struct{}{}
		out = append(out, title)
	}

	for _, label := range ranking {
		if _, ok := inCandidates[label]; ok {
			push(label)
		}
	}
	for _, c := range candidates {
		push(c)
	}

	if len(out) > MaxCandidates {
		out = out[:MaxCandidates]
	}
	return out
}
