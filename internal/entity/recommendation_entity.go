package entity

// Recommendation is the outcome of one recommend call.
type Recommendation struct {
	Titles           []string
	Candidates       []string
	Emotion          string
	Reasoning        string
	RankingAvailable bool
}
