package main

import (
	"context"
	"fmt"
	"io"

	"github.com/scttfrdmn/bwamismatch-go/pkg/bam"
	"github.com/scttfrdmn/bwamismatch-go/pkg/chart"
	"github.com/scttfrdmn/bwamismatch-go/pkg/mismatch"
	"github.com/scttfrdmn/bwamismatch-go/pkg/storage"
	"github.com/sirupsen/logrus"
)

type options struct {
	out        string
	samIn      bool
	verbose    bool
	readLength int
	plotPath   string
}

func (o *options) format() bam.Format {
	if o.samIn {
		return bam.SAM
	}
	return bam.BAM
}

// run scans every input in order and writes the report. The output is
// opened before any input so that a bad destination fails fast.
func (o *options) run(ctx context.Context, inputs []string) (err error) {
	log := logrus.StandardLogger()

	config := mismatch.NewConfig()
	config.ReadLength = o.readLength
	config.Logger = log
	session, err := mismatch.NewSession(config)
	if err != nil {
		return err
	}

	var plotFormat string
	if o.plotPath != "" {
		if plotFormat, err = chart.FormatFor(o.plotPath); err != nil {
			return err
		}
	}

	out, err := storage.Create(ctx, o.out)
	if err != nil {
		return mismatch.OpenError("output", o.out, err)
	}
	defer closeInto(out, &err)

	for _, path := range inputs {
		log.Infof("Scanning %s...", path)
		if err := scanFile(ctx, session, path, o.format()); err != nil {
			return err
		}
	}

	if o.verbose {
		session.LogSummary(log)
	}

	if err := mismatch.WriteReport(out, session); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if o.plotPath != "" {
		if err := writePlot(ctx, session, o.plotPath, plotFormat); err != nil {
			return err
		}
		log.Infof("Wrote plot to %s", o.plotPath)
	}
	return nil
}

func scanFile(ctx context.Context, session *mismatch.Session, path string, format bam.Format) error {
	r, err := bam.Open(ctx, path, format)
	if err != nil {
		return mismatch.OpenError("input", path, err)
	}
	defer r.Close()

	if err := session.Scan(r); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func writePlot(ctx context.Context, session *mismatch.Session, path, format string) (err error) {
	p, err := chart.Profile("Mismatch rate by cycle", chart.FromSession(session))
	if err != nil {
		return err
	}

	w, err := storage.Create(ctx, path)
	if err != nil {
		return mismatch.OpenError("plot", path, err)
	}
	defer closeInto(w, &err)

	return chart.Write(w, p, format)
}

func closeInto(c io.Closer, err *error) {
	if cerr := c.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}
