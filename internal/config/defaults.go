package config

const (
	defaultDatabasePath       = "~/.local/share/unify/companies.db"
	defaultBatchSize          = 2000
	defaultAutoDupThreshold   = 0.92
	defaultProbableThreshold  = 0.75
	defaultMaxBlockSize       = 500
	defaultCoherenceMin       = 0.60
	defaultPrimaryQualityMin  = 1.0
	defaultOracleEngine       = OracleEngineHeuristic
	defaultConfidenceAccept   = 0.7
	defaultOracleMaxCalls     = 200
	defaultCallIntervalMS     = 1000
	defaultLLMBaseURL         = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel           = "meta-llama/llama-3.1-70b-instruct"
	defaultLLMReferer         = "https://github.com/unify-dedup/unify"
	defaultLLMTitle           = "Unify Company Dedup"
	defaultLLMTimeoutSeconds  = 30
	defaultLogLevel           = "info"
	defaultLogDir             = "~/.local/share/unify/logs"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Database: Database{
			Path:      defaultDatabasePath,
			BatchSize: defaultBatchSize,
		},
		Matching: Matching{
			AutoDuplicateThreshold: defaultAutoDupThreshold,
			ProbableThreshold:      defaultProbableThreshold,
			MaxBlockSize:           defaultMaxBlockSize,
		},
		Grouping: Grouping{
			CoherenceMin: defaultCoherenceMin,
		},
		Primary: Primary{
			QualityMin: defaultPrimaryQualityMin,
		},
		Oracle: Oracle{
			Engine:           defaultOracleEngine,
			ConfidenceAccept: defaultConfidenceAccept,
			MaxCalls:         defaultOracleMaxCalls,
			CallIntervalMS:   defaultCallIntervalMS,
			RevisitProbables: true,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Logging: Logging{
			Level: defaultLogLevel,
			Dir:   defaultLogDir,
		},
	}
}
