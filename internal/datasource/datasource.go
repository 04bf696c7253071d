// Package datasource defines where raw input bytes come from.
package datasource

import (
	"context"
	"io"
)

// Source opens the raw input for a run.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Sizer is implemented by sources that know their length up front.
type Sizer interface {
	Size() (int64, error)
}
