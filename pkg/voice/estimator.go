// Package voice derives a coarse emotional tone from a short mono recording.
package voice

import "strings"

type Tone string

const (
	ToneHappy   Tone = "happy"
	ToneSad     Tone = "sad"
	ToneNeutral Tone = "neutral"
)

// Classify applies the fixed threshold rule: happy is checked before sad, and anything
// matching neither is neutral.
func Classify(f Features) Tone {
	if f.Energy > 0.02 && f.Pitch > 120 && f.ZeroCrossingRate > 0.02 {
		return ToneHappy
	}
	if f.Energy < 0.01 && f.Pitch < 100 && f.ZeroCrossingRate < 0.01 {
		return ToneSad
	}
	return ToneNeutral
}

// Estimate extracts features from clip and classifies them.
func Estimate(clip Clip) (Tone, Features) {
	f := Extract(clip.Samples, clip.SampleRate)
	return Classify(f), f
}

// NormalizeTone maps free-form client input onto a known tone.
func NormalizeTone(s string) Tone {
	switch t := Tone(strings.ToLower(strings.TrimSpace(s))); t {
	case ToneHappy, ToneSad:
		return t
	}
	return ToneNeutral
}
