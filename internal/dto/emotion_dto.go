package dto

type EmotionRequest struct {
	Image     string `json:"image" validate:"required"`
	SessionId string `json:"session_id" validate:"omitempty,max=128"`
}

type EmotionResponse struct {
	Emotion         string  `json:"emotion"`
	Confidence      float64 `json:"confidence"`
	SmoothedEmotion string  `json:"smoothed_emotion,omitempty"`
	HistorySize     int     `json:"history_size,omitempty"`
}

type VoiceRequest struct {
	Audio      string    `json:"audio"`
	Samples    []float64 `json:"samples"`
	SampleRate int       `json:"sample_rate" validate:"omitempty,gte=1000,lte=192000"`
}

type VoiceResponse struct {
	VoiceTone        string  `json:"voice_tone"`
	Energy           float64 `json:"energy"`
	Pitch            float64 `json:"pitch"`
	ZeroCrossingRate float64 `json:"zero_crossing_rate"`
	Duration         float64 `json:"duration_seconds"`
}
