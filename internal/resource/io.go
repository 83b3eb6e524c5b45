package resource

import (
	"context"
	"io"
)

// Reader returns r throttled by the IO limit.
func (c *Controller) Reader(ctx context.Context, r io.Reader) io.Reader {
	if c == nil || c.io == nil {
		return r
	}
	return &limitedReader{r: r, c: c, ctx: ctx}
}

// Writer returns w throttled by the IO limit.
func (c *Controller) Writer(ctx context.Context, w io.Writer) io.Writer {
	if c == nil || c.io == nil {
		return w
	}
	return &limitedWriter{w: w, c: c, ctx: ctx}
}

type limitedReader struct {
	r   io.Reader
	c   *Controller
	ctx context.Context
}

// Read charges the limiter for the bytes actually read.
func (r *limitedReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if n > 0 {
		if werr := r.c.WaitIO(r.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}

type limitedWriter struct {
	w   io.Writer
	c   *Controller
	ctx context.Context
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if err := w.c.WaitIO(w.ctx, len(p)); err != nil {
		return 0, err
	}
	return w.w.Write(p)
}
