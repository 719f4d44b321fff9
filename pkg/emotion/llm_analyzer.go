package emotion

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"moodflix-be/pkg/llm"
)

const facePrompt = `Look at the person's face in this image and rate their facial expression.
Reply with JSON only, using exactly this shape:
{"face_found": true, "emotions": {"angry": 0, "disgust": 0, "fear": 0, "happy": 0, "sad": 0, "surprise": 0, "neutral": 0}}
Scores are percentages that sum to 100. If no human face is clearly visible, reply {"face_found": false, "emotions": {}}.`

// LLMAnalyzer scores facial expressions with a multimodal chat model.
type LLMAnalyzer struct {
	provider llm.LLMProvider
	model    string
}

var _ FaceAnalyzer = &LLMAnalyzer{}

func NewLLMAnalyzer(provider llm.LLMProvider, visionModel string) *LLMAnalyzer {
	return &LLMAnalyzer{provider: provider, model: visionModel}
}

type faceReply struct {
	FaceFound bool               `json:"face_found"`
	Emotions  map[string]float64 `json:"emotions"`
}

func (a *LLMAnalyzer) AnalyzeFace(ctx context.Context, jpegFrame []byte) (*FaceAnalysis, error) {
	opts := []llm.Option{llm.WithJSONFormat(), llm.WithTemperature(0)}
	if a.model != "" {
		opts = append(opts, llm.WithModel(a.model))
	}

	out, err := a.provider.Chat(ctx, []llm.Message{{
		Role:    "user",
		Content: facePrompt,
		Images:  [][]byte{jpegFrame},
	}}, opts...)
	if err != nil {
		return nil, fmt.Errorf("vision model: %w", err)
	}

	reply, err := parseFaceReply(out)
	if err != nil {
		return nil, err
	}
	return &FaceAnalysis{FaceFound: reply.FaceFound, Scores: reply.Emotions}, nil
}

// parseFaceReply tolerates prose or code fences around the JSON object.
func parseFaceReply(out string) (*faceReply, error) {
	start := strings.Index(out, "{")
	end := strings.LastIndex(out, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("vision model reply has no JSON object: %q", out)
	}
	var reply faceReply
	if err := json.Unmarshal([]byte(out[start:end+1]), &reply); err != nil {
		return nil, fmt.Errorf("decode vision reply: %w", err)
	}
	return &reply, nil
}
