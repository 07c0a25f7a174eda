package importer

import (
	"io"

	"github.com/MrJamesThe3rd/till/internal/catalog"
)

type Format string

const (
	FormatCSV Format = "csv"
)

type Importer interface {
	Parse(r io.Reader) ([]catalog.ProductParams, error)
}
