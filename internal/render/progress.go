package render

import (
	"context"
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	classifier "github.com/FrenchMajesty/waste-classifier"
)

// NewProgressBar creates the bar shown while a file is being analyzed
func NewProgressBar(w io.Writer, fileName string) *progressbar.ProgressBar {
	return progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan][bold]Analyzing %s...[reset]", fileName)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(w)
		}),
	)
}

// Follow drives bar from the run's progress stream and returns the result.
// A nil bar only consumes the stream.
func Follow(run *classifier.Run, bar *progressbar.ProgressBar, logger *zap.Logger) (*classifier.Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var result *classifier.Result
	for ev := range run.Events() {
		if bar != nil {
			if err := bar.Set(ev.Progress); err != nil {
				logger.Warn("failed to update progress bar", zap.Error(err))
			}
		}
		if ev.Result != nil {
			result = ev.Result
		}
	}

	if result != nil {
		return result, nil
	}

	// The stream closed without a result: report why
	if _, err := run.Wait(context.Background()); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("run %s finished without a result", run.ID())
}
