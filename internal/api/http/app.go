package http

import (
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/observability"
)

// AppOptions configures NewApp.
type AppOptions struct {
	Name    string
	Logger  *zap.Logger
	Metrics *observability.Metrics
	Timeout time.Duration
}
