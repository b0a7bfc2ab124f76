package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kievzenit/rblang/internal/compiler_errors"
	"golang.org/x/sync/errgroup"
)

// Runner checks source files from disk. Every file is an independent unit
// with its own handler; output is buffered per file and written in the order
// the paths were given.
type Runner struct {
	Pipeline Pipeline
	Jobs     int
	Stdout   io.Writer
	Stderr   io.Writer
}

type fileReport struct {
	stdout bytes.Buffer
	stderr bytes.Buffer
	err    error
}

// CheckFiles compiles every path, at most Jobs at a time. It returns the
// joined failures of all files; a failing file never stops the others.
func (r *Runner) CheckFiles(ctx context.Context, paths []string) error {
	reports := make([]fileReport, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.Jobs, 1))

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i].err = r.checkFile(path, &reports[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	var errs []error
	for i := range reports {
		r.flush(&reports[i])
		if reports[i].err != nil {
			errs = append(errs, reports[i].err)
		}
	}

	return errors.Join(errs...)
}

func (r *Runner) checkFile(path string, report *fileReport) error {
	eh := compiler_errors.NewErrorHandler(&report.stderr)
	defer func() {
		if eh.HasErrors() {
			fmt.Fprintf(&report.stderr, "%s:\n", path)
			eh.Report()
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		eh.AddError(compiler_errors.FromError(err))
		return err
	}
	defer f.Close()

	pipeline := r.Pipeline
	pipeline.Out = &report.stdout

	_, err = pipeline.Compile(path, f, eh)
	return err
}

func (r *Runner) flush(report *fileReport) {
	if r.Stdout != nil {
		r.Stdout.Write(report.stdout.Bytes())
	}
	if r.Stderr != nil {
		r.Stderr.Write(report.stderr.Bytes())
	}
}
