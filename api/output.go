// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/juju/errors"
	"github.com/klauspost/compress/gzip"
)

// Output returns the job's output, cut to OutputCap bytes. A cut output
// ends with a notice saying so.
func (j *Job) Output(ctx context.Context) (string, error) {
	return j.output(ctx, 0, j.OutputCap())
}

// OutputFull returns all of the job's output.
func (j *Job) OutputFull(ctx context.Context) (string, error) {
	var buf strings.Builder
	if _, err := j.WriteOutput(ctx, &buf); err != nil {
		return "", errors.Trace(err)
	}
	return buf.String(), nil
}

// OutputRange returns up to length bytes of the job's output starting at
// byte start, with a notice appended when more output follows. A zero
// length reads to the end. Starting at or beyond the end of the output
// returns ErrRangeNotSatisfiable.
func (j *Job) OutputRange(ctx context.Context, start, length int64) (string, error) {
	if start < 0 || length < 0 {
		return "", errors.NotValidf("output range start %d length %d", start, length)
	}
	return j.output(ctx, start, length)
}

// WriteOutput copies all of the job's output to w.
func (j *Job) WriteOutput(ctx context.Context, w io.Writer) (int64, error) {
	stream, err := j.openOutput(ctx, 0, 0)
	if err != nil {
		return 0, errors.Trace(err)
	}
	defer stream.Close()
	n, err := io.Copy(w, stream)
	return n, errors.Annotatef(err, "reading output of job %d", j.id)
}

// OutputSize returns the size of the job's output in bytes.
func (j *Job) OutputSize(ctx context.Context) (int64, error) {
	if err := j.checkFinished(); err != nil {
		return 0, errors.Trace(err)
	}
	return j.client.jobOutputSize(ctx, j.id)
}

func (j *Job) checkFinished() error {
	if j.ExecutionStatus() != StatusFinished {
		return errors.Annotatef(ErrJobRunning, "job %d", j.id)
	}
	return nil
}

func (j *Job) output(ctx context.Context, start, length int64) (string, error) {
	stream, err := j.openOutput(ctx, start, length)
	if err != nil {
		return "", errors.Trace(err)
	}
	defer stream.Close()

	var (
		buf bytes.Buffer
		r   io.Reader = stream
	)
	if length > 0 {
		r = io.LimitReader(stream, length)
	}
	if _, err := io.Copy(&buf, r); err != nil {
		return "", errors.Annotatef(err, "reading output of job %d", j.id)
	}
	if length <= 0 {
		return buf.String(), nil
	}

	total := stream.total
	if total < 0 {
		if total, err = j.client.jobOutputSize(ctx, j.id); err != nil {
			return "", errors.Trace(err)
		}
	}
	if total-start > length {
		buf.WriteString(truncationNotice(length))
	}
	return buf.String(), nil
}

// truncationNotice is appended to output cut to limit bytes.
func truncationNotice(limit int64) string {
	return fmt.Sprintf("\n... output truncated to %sB ...\n", compactSize(limit))
}

var binaryPrefixes = []string{"", "Ki", "Mi", "Gi", "Ti", "Pi"}

// compactSize formats n exactly with a unit prefix and no space, as in
// "1k", "2.5M" or "64Ki". Binary prefixes are used for multiples of 1024
// that are not multiples of 1000.
func compactSize(n int64) string {
	if n >= 1024 && n%1024 == 0 && n%1000 != 0 {
		i := 0
		for n%1024 == 0 && i < len(binaryPrefixes)-1 {
			n /= 1024
			i++
		}
		return strconv.FormatInt(n, 10) + binaryPrefixes[i]
	}
	si := humanize.SI(float64(n), "")
	if v, _, err := humanize.ParseSI(si); err != nil || int64(math.Round(v)) != n {
		return strconv.FormatInt(n, 10)
	}
	return strings.ReplaceAll(si, " ", "")
}

// outputStream is an open download of job output.
type outputStream struct {
	io.Reader
	closers []io.Closer
	// total is the full size of the output, or -1 if the server did
	// not say.
	total int64
}

func (s *outputStream) Close() error {
	var err error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if cerr := s.closers[i].Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// openOutput starts downloading the job's output from byte start. A
// positive length asks for that many bytes only. The whole output is
// asked for gzip encoded; a range is asked for unencoded so that the
// offsets are those of the output itself.
func (j *Job) openOutput(ctx context.Context, start, length int64) (*outputStream, error) {
	if err := j.checkFinished(); err != nil {
		return nil, errors.Trace(err)
	}
	location, err := j.client.jobOutputURL(ctx, j.id)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if location == "" {
		return nil, errors.NotFoundf("output of job %d", j.id)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, errors.Annotatef(err, "output of job %d", j.id)
	}
	ranged := start > 0 || length > 0
	if ranged {
		req.Header.Set("Accept-Encoding", "identity")
		if length > 0 {
			req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", start, start+length-1))
		} else {
			req.Header.Set("Range", fmt.Sprintf("bytes=%d-", start))
		}
	} else {
		req.Header.Set("Accept-Encoding", "gzip")
	}

	logger.Tracef("GET %s (output of job %d)", location, j.id)
	resp, err := j.client.http.Do(req)
	if err != nil {
		return nil, errors.Annotatef(err, "fetching output of job %d", j.id)
	}
	stream := &outputStream{Reader: resp.Body, closers: []io.Closer{resp.Body}, total: -1}

	switch resp.StatusCode {
	case http.StatusOK:
		if resp.ContentLength >= 0 && resp.Header.Get("Content-Encoding") == "" {
			stream.total = resp.ContentLength
		}
		if ranged && start > 0 {
			// The server ignored the range.
			if stream.total >= 0 && start >= stream.total {
				_ = stream.Close()
				return nil, errors.Annotatef(ErrRangeNotSatisfiable, "output of job %d from byte %d", j.id, start)
			}
			if _, err := io.CopyN(io.Discard, resp.Body, start); err != nil {
				_ = stream.Close()
				if errors.Is(err, io.EOF) {
					return nil, errors.Annotatef(ErrRangeNotSatisfiable, "output of job %d from byte %d", j.id, start)
				}
				return nil, errors.Annotatef(err, "fetching output of job %d", j.id)
			}
		}
	case http.StatusPartialContent:
		stream.total = contentRangeTotal(resp.Header.Get("Content-Range"))
	case http.StatusRequestedRangeNotSatisfiable:
		_ = stream.Close()
		return nil, errors.Annotatef(ErrRangeNotSatisfiable, "output of job %d from byte %d", j.id, start)
	default:
		_ = stream.Close()
		return nil, errors.Errorf("fetching output of job %d: %s", j.id, resp.Status)
	}

	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			_ = stream.Close()
			return nil, errors.Annotatef(err, "decompressing output of job %d", j.id)
		}
		stream.Reader = zr
		stream.closers = append(stream.closers, zr)
	}
	return stream, nil
}

// contentRangeTotal returns the complete length from a Content-Range
// header such as "bytes 0-999/5000", or -1 if it is unknown.
func contentRangeTotal(header string) int64 {
	i := strings.LastIndexByte(header, '/')
	if i < 0 {
		return -1
	}
	total, err := strconv.ParseInt(strings.TrimSpace(header[i+1:]), 10, 64)
	if err != nil {
		return -1
	}
	return total
}
