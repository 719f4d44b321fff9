package emotion

import "strings"

const (
	Angry    = "angry"
	Disgust  = "disgust"
	Fear     = "fear"
	Happy    = "happy"
	Sad      = "sad"
	Surprise = "surprise"
	Neutral  = "neutral"
)

// ConfidenceThreshold is the minimum confidence at which a reading should be trusted
// over the neutral fallback. The classifier itself never applies it.
const ConfidenceThreshold = 0.4

// DefaultConfidence is reported alongside the neutral fallback reading.
const DefaultConfidence = 0.5

// Vocabulary is the fixed set of labels the classifier can emit.
var Vocabulary = []string{Angry, Disgust, Fear, Happy, Sad, Surprise, Neutral}

// IsKnown reports whether label belongs to the vocabulary.
func IsKnown(label string) bool {
	for _, v := range Vocabulary {
		if v == label {
			return true
		}
	}
	return false
}

// Normalize lowercases and trims a label, mapping unknown labels to neutral.
func Normalize(label string) string {
	l := strings.ToLower(strings.TrimSpace(label))
	if IsKnown(l) {
		return l
	}
	return Neutral
}

// Reading is a single classifier output.
type Reading struct {
	Label      string  `json:"emotion"`
	Confidence float64 `json:"confidence"`
}

// Fallback is the degraded reading used whenever classification is not possible.
func Fallback() Reading {
	return Reading{Label: Neutral, Confidence: DefaultConfidence}
}

// Gate returns the reading's label, or neutral when confidence is under threshold.
func Gate(label string, confidence, threshold float64) string {
	if confidence < threshold {
		return Neutral
	}
	return label
}
