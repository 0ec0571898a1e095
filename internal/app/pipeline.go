package app

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/mudra/internal/tracking"
)

// Run feeds frames from src through ProcessFrame until the source ends or
// ctx is cancelled. It closes src before returning. End of stream and
// cancellation are not errors; any other source error is returned.
//
// Frames arriving while detection is disabled are read and dropped so the
// tracker never blocks on a full pipe.
func (a *App) Run(ctx context.Context, src tracking.Source) error {
	defer func() {
		if err := src.Close(); err != nil {
			a.log.Warn("failed to close tracking source", zap.Error(err))
		}
	}()

	a.log.Info("detection pipeline started")
	defer a.log.Info("detection pipeline stopped")

	var frames, skipped int
	lastReport := time.Now()

	for {
		frame, err := src.Next(ctx)
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case ctx.Err() != nil:
			return nil
		case err != nil:
			return err
		}

		frames++
		for _, d := range a.ProcessFrame(ctx, frame) {
			if d.Error != "" {
				skipped++
				a.log.Debug("hand skipped", zap.String("hand", d.Hand), zap.String("error", d.Error))
			}
		}

		if time.Since(lastReport) >= time.Minute {
			a.log.Debug("pipeline stats", zap.Int("frames", frames), zap.Int("skipped_hands", skipped))
			frames, skipped = 0, 0
			lastReport = time.Now()
		}
	}
}
