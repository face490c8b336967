package main

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	classifier "github.com/FrenchMajesty/waste-classifier"
	"github.com/FrenchMajesty/waste-classifier/internal/render"
	"github.com/FrenchMajesty/waste-classifier/internal/watch"
	"github.com/FrenchMajesty/waste-classifier/upload"
)

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Classify images as they are dropped into a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := zap.L().Named("watch")
			out := cmd.OutOrStdout()

			sim, err := newSimulator()
			if err != nil {
				return err
			}
			defer sim.Close()

			uploader, err := newUploader(sim)
			if err != nil {
				return err
			}

			var (
				wg    sync.WaitGroup
				outMu sync.Mutex
			)
			w, err := watch.New(watch.Config{
				Dir:       args[0],
				Submitter: uploader,
				Handler: func(f upload.File, run *classifier.Run) {
					wg.Add(1)
					go func() {
						defer wg.Done()
						res, err := render.Follow(run, nil, logger)
						if err != nil {
							if errors.Is(err, classifier.ErrSuperseded) {
								logger.Debug("classification superseded", zap.String("file", f.Name))
							}
							return
						}
						outMu.Lock()
						defer outMu.Unlock()
						fmt.Fprintf(out, "%s\n%s\n", f.Name, render.Card(*res))
					}()
				},
				Debounce: viper.GetDuration("watch.debounce"),
				Logger:   logger,
			})
			if err != nil {
				return err
			}

			if err := w.Start(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s for images (Ctrl+C to stop)\n", args[0])

			<-ctx.Done()
			w.Stop()
			wg.Wait()
			return nil
		},
	}

	cmd.Flags().Duration("debounce", watch.DefaultDebounce, "quiet period before a dropped file is classified")
	_ = viper.BindPFlag("watch.debounce", cmd.Flags().Lookup("debounce"))

	return cmd
}
