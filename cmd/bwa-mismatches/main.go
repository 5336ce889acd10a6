package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command line and returns the process exit status
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if args == nil {
		// cobra falls back to os.Args for nil
		args = []string{}
	}
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "bwa-mismatches: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "bwa-mismatches [options] file ...",
		Short: "Per-cycle mismatch rates from BWA alignments",
		Long: `Generate statistics about mismatching positions in SAM/BAM files
produced by the BWA aligner.

Reads that align uniquely (X0 = 1) without gaps (XO = 0) are analyzed.
Their MD tags are decoded into mismatch counts for each sequencing cycle.
The output has a header line followed by one "fraction count" line per
cycle of read 1 and, for paired-end runs, read 2. Fractions are relative
to the number of analyzed reads.

All inputs must be either single-end or paired-end, and every read of a
lane must have the same length unless --read-length is given.

Examples:
  # BAM input, table on stdout
  bwa-mismatches run1.bam

  # SAM input (plain, gzip or zstd), table to a file
  bwa-mismatches -S -o run1.mm.txt run1.sam.gz

  # Trimmed reads of up to 150 bases, with a plot
  bwa-mismatches -l 150 --plot run1.png -o s3://qc/run1.mm.txt run1.bam`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if cmd.Flags().NFlag() == 0 {
					return cmd.Help()
				}
				cmd.Usage()
				return fmt.Errorf("no input files")
			}
			configureLogging(opts.verbose, stdout, stderr)
			return opts.run(cmd.Context(), args)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		c.Usage()
		return err
	})

	f := cmd.Flags()
	f.StringVarP(&opts.out, "out", "o", "",
		"data output file, local path or s3://bucket/key (default stdout)")
	f.BoolVarP(&opts.samIn, "sam_in", "S", false,
		"input is SAM (default BAM)")
	f.BoolVarP(&opts.verbose, "verbose", "v", false,
		"print verbose messages")
	f.IntVarP(&opts.readLength, "read-length", "l", 0,
		"fixed read length; shorter reads are allowed (0 = all reads in a lane must match)")
	f.StringVar(&opts.plotPath, "plot", "",
		"also plot the profile to this file (.png, .svg or .pdf)")

	return cmd
}

// configureLogging points the standard logger at stdout for verbose runs
// and at stderr, warnings only, otherwise
func configureLogging(verbose bool, stdout, stderr io.Writer) {
	log := logrus.StandardLogger()
	out, level := stderr, logrus.WarnLevel
	if verbose {
		out, level = stdout, logrus.InfoLevel
	}
	log.SetOutput(out)
	log.SetLevel(level)

	if f, ok := out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
}
