package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	classifier "github.com/FrenchMajesty/waste-classifier"
	"github.com/FrenchMajesty/waste-classifier/internal/render"
	"github.com/FrenchMajesty/waste-classifier/upload"
)

type classifyOptions struct {
	asJSON     bool
	noProgress bool
	parallel   int
}

func classifyCmd() *cobra.Command {
	var opts classifyOptions

	cmd := &cobra.Command{
		Use:   "classify <image>...",
		Short: "Classify one or more images",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				files []render.ExportFile
				err   error
			)
			if opts.parallel > 1 && len(args) > 1 {
				files, err = classifyParallel(cmd.Context(), args, opts.parallel)
			} else {
				files, err = classifySequential(cmd.Context(), cmd, args, opts)
			}

			if len(files) > 0 {
				if werr := writeResults(cmd.OutOrStdout(), files, opts, len(args) > 1); werr != nil {
					return werr
				}
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print results as JSON")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "hide the progress bar")
	cmd.Flags().IntVar(&opts.parallel, "parallel", 1, "number of files classified concurrently")

	return cmd
}

// classifySequential runs every file through one uploader, one after the other
func classifySequential(ctx context.Context, cmd *cobra.Command, paths []string, opts classifyOptions) ([]render.ExportFile, error) {
	sim, err := newSimulator()
	if err != nil {
		return nil, err
	}
	defer sim.Close()

	uploader, err := newUploader(sim)
	if err != nil {
		return nil, err
	}

	showProgress := !opts.noProgress && !opts.asJSON

	var (
		files  []render.ExportFile
		failed int
	)
	for _, path := range paths {
		f, res, err := classifyOne(ctx, uploader, path, showProgress, cmd.ErrOrStderr())
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return files, err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", path, upload.Message(err, uploader.MaxBytes()))
			failed++
			continue
		}
		files = append(files, render.ExportFile{Name: f.Name, Size: f.Size, Result: *res})
	}

	if failed > 0 {
		return files, fmt.Errorf("%d of %d files could not be classified", failed, len(paths))
	}
	return files, nil
}

// classifyParallel gives every file its own simulator so runs do not supersede each other
func classifyParallel(ctx context.Context, paths []string, limit int) ([]render.ExportFile, error) {
	files := make([]render.ExportFile, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			sim, err := newSimulator()
			if err != nil {
				return err
			}
			defer sim.Close()

			uploader, err := newUploader(sim)
			if err != nil {
				return err
			}

			f, res, err := classifyOne(ctx, uploader, path, false, io.Discard)
			if err != nil {
				return fmt.Errorf("%s: %s", path, upload.Message(err, uploader.MaxBytes()))
			}
			files[i] = render.ExportFile{Name: f.Name, Size: f.Size, Result: *res}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

func classifyOne(ctx context.Context, uploader *upload.Uploader, path string, showProgress bool, progressOut io.Writer) (upload.File, *classifier.Result, error) {
	f, err := upload.Open(path)
	if err != nil {
		return upload.File{}, nil, err
	}

	run, err := uploader.Submit(ctx, f)
	if err != nil {
		return f, nil, err
	}

	logger := zap.L().With(zap.String("file", f.Name), zap.String("run_id", run.ID()))
	if !showProgress {
		res, err := run.Wait(ctx)
		return f, res, err
	}

	res, err := render.Follow(run, render.NewProgressBar(progressOut, f.Name), logger)
	return f, res, err
}

func writeResults(w io.Writer, files []render.ExportFile, opts classifyOptions, batch bool) error {
	if opts.asJSON {
		data, err := render.MarshalResults(files)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	if batch {
		render.ResultsTable(w, files)
		return nil
	}

	for _, f := range files {
		if _, err := fmt.Fprintln(w, render.Card(f.Result)); err != nil {
			return err
		}
	}
	return nil
}
