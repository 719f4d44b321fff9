package dto

type RecommendRequest struct {
	Emotion           string   `json:"emotion"`
	EmotionConfidence *float64 `json:"emotion_confidence" validate:"omitempty,gte=0,lte=1"`
	Weather           string   `json:"weather"`
	Temperature       *float64 `json:"temperature"`
	City              string   `json:"city"`
	Latitude          *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude         *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	TodayStatus       string   `json:"today_status"`
	WatchedMovies     []string `json:"watched_movies"`
	VoiceTone         string   `json:"voice_tone"`
	AvailableMovies   []string `json:"available_movies"`
}

type RecommendResponse struct {
	Recommendations  []string `json:"recommendations"`
	Emotion          string   `json:"emotion"`
	Weather          string   `json:"weather"`
	Temperature      float64  `json:"temperature"`
	Reasoning        string   `json:"reasoning"`
	Candidates       []string `json:"candidates"`
	RankingAvailable bool     `json:"ranking_available"`
}
