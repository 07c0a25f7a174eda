package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/till/internal/catalog"
	"github.com/MrJamesThe3rd/till/internal/importer/productcsv"
)

type Result struct {
	Parsed  int
	Created int
	Updated int
}

type Service struct {
	catalog     *catalog.Service
	csvImporter Importer
}

func NewService(catalogSvc *catalog.Service) *Service {
	return &Service{
		catalog:     catalogSvc,
		csvImporter: productcsv.NewParser(),
	}
}

// Parse reads a product file without touching the catalog.
func (s *Service) Parse(format Format, r io.Reader) ([]catalog.ProductParams, error) {
	var importer Importer

	switch format {
	case FormatCSV:
		importer = s.csvImporter
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}

	return importer.Parse(r)
}

// Import parses r and upserts the products by SKU in a single save.
func (s *Service) Import(ctx context.Context, format Format, r io.Reader) (Result, error) {
	params, err := s.Parse(format, r)
	if err != nil {
		return Result{}, err
	}

	return s.Save(ctx, params)
}

// Save upserts already parsed products.
func (s *Service) Save(ctx context.Context, params []catalog.ProductParams) (Result, error) {
	created, updated, err := s.catalog.UpsertBySKU(ctx, params)
	if err != nil {
		return Result{}, fmt.Errorf("saving products: %w", err)
	}

	return Result{Parsed: len(params), Created: created, Updated: updated}, nil
}
