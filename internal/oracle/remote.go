package oracle

import (
	"context"
	"fmt"

	"unify/internal/services/llm"
)

const remoteSystemPrompt = "You are a data quality expert. Determine whether two company names " +
	"refer to the same real-world company. Respond in this exact JSON format and nothing else:\n" +
	`{"same_company": true/false, "confidence": 0.0-1.0, "reasoning": "..."}`

// Completer is the slice of the LLM client the remote oracle needs.
type Completer interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Remote asks a hosted model to adjudicate the pair.
type Remote struct {
	client Completer
}

// NewRemote wraps an LLM client as an oracle.
func NewRemote(client Completer) *Remote {
	return &Remote{client: client}
}

// Resolve sends both labels to the model and decodes its verdict. Transport
// failures surface as errors; an unparseable response degrades to a
// conservative not-same verdict so one garbled reply cannot force a merge.
func (r *Remote) Resolve(ctx context.Context, pair LabelPair, score float64) (Verdict, error) {
	userPrompt := fmt.Sprintf("Company A: %q\nCompany B: %q\n\nComposite similarity score: %.3f",
		pair.LabelA, pair.LabelB, score)

	content, err := r.client.CompleteJSON(ctx, remoteSystemPrompt, userPrompt)
	if err != nil {
		return Verdict{}, fmt.Errorf("oracle: model call: %w", err)
	}

	var verdict Verdict
	if err := llm.DecodeJSON(content, &verdict); err != nil {
		return Verdict{
			SameCompany: false,
			Confidence:  0,
			Reasoning:   fmt.Sprintf("unparseable model response: %v", err),
		}, nil
	}
	verdict.Confidence = clampConfidence(verdict.Confidence)
	return verdict, nil
}
