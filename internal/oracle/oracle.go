package oracle

import (
	"context"
	"fmt"

	"unify/internal/config"
	"unify/internal/services/llm"
)

// Verdict is an oracle's judgement on one candidate pair.
type Verdict struct {
	SameCompany bool    `json:"same_company"`
	Confidence  float64 `json:"confidence"`
	Reasoning   string  `json:"reasoning"`
}

// LabelPair carries both the raw labels and their normalized forms for a
// candidate pair under review.
type LabelPair struct {
	LabelA string
	LabelB string
	NormA  string
	NormB  string
}

// Oracle decides whether two labels name the same company.
type Oracle interface {
	Resolve(ctx context.Context, pair LabelPair, score float64) (Verdict, error)
}

// FromConfig builds the oracle selected by configuration.
func FromConfig(cfg *config.Config) (Oracle, error) {
	switch cfg.Oracle.Engine {
	case config.OracleEngineHeuristic:
		return Heuristic{}, nil
	case config.OracleEngineOpenRouter:
		client := llm.NewClient(llm.Config{
			APIKey:         cfg.LLM.APIKey,
			BaseURL:        cfg.LLM.BaseURL,
			Model:          cfg.LLM.Model,
			Referer:        cfg.LLM.Referer,
			Title:          cfg.LLM.Title,
			TimeoutSeconds: cfg.LLM.TimeoutSeconds,
		})
		return NewRemote(client), nil
	default:
		return nil, fmt.Errorf("oracle: unknown engine %q", cfg.Oracle.Engine)
	}
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
