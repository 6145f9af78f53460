package ai

import (
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
)

// NewOracle picks the backend from config and wraps it with the Redis cache
// when a store is given and caching is enabled.
func NewOracle(cfg config.AIConfig, store CacheStore, logger *zap.Logger) SeverityOracle {
	if logger == nil {
		logger = zap.NewNop()
	}

	var oracle SeverityOracle
	if cfg.Provider == "openai" && cfg.APIKey != "" {
		oracle = NewOpenAIOracle(cfg, logger)
	} else {
		if cfg.Provider == "openai" {
			logger.Warn("openai provider selected without api key; using mock severity oracle")
		}
		oracle = NewMockOracle()
	}

	if store != nil && cfg.CacheTTL() > 0 {
		oracle = NewCachedOracle(oracle, store, cfg.CacheTTL(), logger)
	}
	return oracle
}
