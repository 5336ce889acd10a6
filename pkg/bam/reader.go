// Package bam opens alignment inputs as streams of biogo sam.Records.
package bam

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/bgzf"
	"github.com/biogo/hts/sam"
	"github.com/scttfrdmn/bwamismatch-go/pkg/storage"
	log "github.com/sirupsen/logrus"
)

// Format selects how an input is decoded
type Format int

const (
	BAM Format = iota
	SAM
)

func (f Format) String() string {
	if f == SAM {
		return "SAM"
	}
	return "BAM"
}

// Reader yields the records of one input in file order
type Reader struct {
	path   string
	format Format

	in  io.ReadCloser
	dec io.Closer // SAM decompressor, nil if none

	bam *bam.Reader
	sam *sam.Reader
}

// Open opens path as format. SAM text may be gzip or zstd compressed.
func Open(ctx context.Context, path string, format Format) (*Reader, error) {
	in, err := storage.Open(ctx, path)
	if err != nil {
		return nil, err
	}

	r := &Reader{path: path, format: format, in: in}
	if err := r.init(); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

func (r *Reader) init() error {
	br := bufio.NewReader(r.in)

	if r.format == SAM {
		c := sniff(br)
		src, dec, err := decompress(br, c)
		if err != nil {
			return err
		}
		r.dec = dec
		if c != Uncompressed {
			log.Debugf("%s: %s compressed SAM", r.path, c)
		}

		r.sam, err = sam.NewReader(src)
		if err != nil {
			return fmt.Errorf("failed to create SAM reader: %w", err)
		}
		return nil
	}

	r.checkEOF()

	var err error
	r.bam, err = bam.NewReader(br, 1)
	if err != nil {
		return fmt.Errorf("failed to create BAM reader: %w", err)
	}
	return nil
}

// checkEOF warns about a truncated BAM file when the input is seekable
func (r *Reader) checkEOF() {
	ra, ok := r.in.(io.ReaderAt)
	if !ok {
		return
	}
	ok, err := bgzf.HasEOF(ra)
	if err != nil {
		log.Debugf("%s: cannot check for BGZF EOF block: %v", r.path, err)
		return
	}
	if !ok {
		log.Warnf("%s: EOF block missing", r.path)
	}
}

// Header returns the input's SAM header
func (r *Reader) Header() *sam.Header {
	if r.sam != nil {
		return r.sam.Header()
	}
	if r.bam != nil {
		return r.bam.Header()
	}
	return nil
}

// Read returns the next record, or io.EOF after the last one
func (r *Reader) Read() (*sam.Record, error) {
	if r.sam != nil {
		return r.sam.Read()
	}
	return r.bam.Read()
}

// Close releases the decoder and the underlying stream
func (r *Reader) Close() error {
	var errs []error
	if r.bam != nil {
		errs = append(errs, r.bam.Close())
	}
	if r.dec != nil {
		errs = append(errs, r.dec.Close())
	}
	if r.in != nil {
		errs = append(errs, r.in.Close())
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
