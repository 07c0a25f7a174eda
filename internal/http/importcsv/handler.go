package importcsv

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/till/internal/catalog"
	"github.com/MrJamesThe3rd/till/internal/http/respond"
	"github.com/MrJamesThe3rd/till/internal/importer"
)

type Handler struct {
	importSvc *importer.Service
}

func NewHandler(importSvc *importer.Service) *Handler {
	return &Handler{importSvc: importSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/products", h.importProducts)
}

type productDTO struct {
	SKU               string          `json:"sku,omitempty"`
	Barcodes          []string        `json:"barcodes,omitempty"`
	Name              string          `json:"name"`
	Category          string          `json:"category,omitempty"`
	Brand             string          `json:"brand,omitempty"`
	Supplier          string          `json:"supplier,omitempty"`
	BuyPrice          decimal.Decimal `json:"buy_price"`
	SellPrice         decimal.Decimal `json:"sell_price"`
	Stock             int             `json:"stock"`
	LowStockThreshold int             `json:"low_stock_threshold"`
}

type previewResponse struct {
	Parsed   int          `json:"parsed"`
	Products []productDTO `json:"products"`
}

type importResponse struct {
	Parsed  int `json:"parsed"`
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// importProducts reads a multipart "file". With dry_run=true the parsed rows
// are returned and the catalog is left alone.
func (h *Handler) importProducts(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		respond.BadRequest(w, "failed to parse form: "+err.Error())
		return
	}

	format := importer.Format(r.FormValue("format"))
	if format == "" {
		format = importer.FormatCSV
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.BadRequest(w, "file field is required")
		return
	}
	defer file.Close()

	params, err := h.importSvc.Parse(format, file)
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	if r.FormValue("dry_run") == "true" {
		resp := previewResponse{Parsed: len(params), Products: make([]productDTO, 0, len(params))}
		for _, p := range params {
			resp.Products = append(resp.Products, toDTO(p))
		}

		respond.JSON(w, http.StatusOK, resp)

		return
	}

	result, err := h.importSvc.Save(r.Context(), params)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, importResponse{
		Parsed:  result.Parsed,
		Created: result.Created,
		Updated: result.Updated,
	})
}

func toDTO(p catalog.ProductParams) productDTO {
	return productDTO{
		SKU:               p.SKU,
		Barcodes:          p.Barcodes,
		Name:              p.Name,
		Category:          p.Category,
		Brand:             p.Brand,
		Supplier:          p.Supplier,
		BuyPrice:          p.BuyPrice,
		SellPrice:         p.SellPrice,
		Stock:             p.Stock,
		LowStockThreshold: p.LowStockThreshold,
	}
}
