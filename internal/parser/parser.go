package parser

import (
	"io"

	"ordersql/pkg/records"
)

// Parser turns raw input bytes into a fully materialized table.
type Parser interface {
	Parse(r io.Reader) (records.Table, error)
}
