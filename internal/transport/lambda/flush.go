package lambda

import (
	"context"
	"log/slog"
	"time"

	"github.com/astro-web3/album-api/pkg/logger"
	"github.com/astro-web3/album-api/pkg/otel"
)

const flushTimeout = 2 * time.Second

// flushTraces exports buffered spans before the execution environment is frozen.
func flushTraces(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flushTimeout)
	defer cancel()

	if err := otel.ForceFlush(ctx); err != nil {
		logger.WarnContext(ctx, "failed to flush traces", slog.String("error", err.Error()))
	}
}
