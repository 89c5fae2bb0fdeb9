package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"go-color-catalog/internal/excel"
	"go-color-catalog/internal/metrics"
	"go-color-catalog/internal/model"
	"go-color-catalog/internal/repository"
	"go-color-catalog/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImportRow is one spreadsheet row. Text fields are trimmed by the importer;
// a nil Price marks the cell as missing.
type ImportRow struct {
	Line        int
	ProductName string
	ColorName   string
	Price       *float64
	Currency    string
}

// RowsFromSheet converts parsed sheet rows into importer input.
func RowsFromSheet(sheet *excel.Sheet) []ImportRow {
	rows := make([]ImportRow, 0, len(sheet.Rows))
	for _, r := range sheet.Rows {
		rows = append(rows, ImportRow{
			Line:        r.Line,
			ProductName: r.ProductName,
			ColorName:   r.Color,
			Price:       r.Price,
			Currency:    r.Currency,
		})
	}
	return rows
}

type ImportSummary struct {
	ImportID        string `json:"import_id"`
	Rows            int    `json:"rows"`
	Dropped         int    `json:"dropped"`
	ProductsCreated int    `json:"products_created"`
	ColorsCreated   int    `json:"colors_created"`
	ColorsSkipped   int    `json:"colors_skipped"`
}

// ImportService upserts products by name and inserts colors that do not yet
// exist under their product.
type ImportService interface {
	Import(ctx context.Context, rows []ImportRow) (*ImportSummary, error)
}

type importService struct {
	productRepo repository.ProductRepository
	colorRepo   repository.ColorRepository
	db          *gorm.DB
	events      Publisher
	metrics     *metrics.Metrics
}

func NewImportService(pRepo repository.ProductRepository, cRepo repository.ColorRepository, db *gorm.DB, events Publisher, m *metrics.Metrics) ImportService {
	if events == nil {
		events = noopPublisher{}
	}
	return &importService{
		productRepo: pRepo,
		colorRepo:   cRepo,
		db:          db,
		events:      events,
		metrics:     m,
	}
}

// Import processes rows sequentially in input order inside one transaction.
// The first occurrence of a product or of a (product, color) pair wins. Any
// store failure rolls the whole batch back and is returned as a *RowError.
func (s *importService) Import(ctx context.Context, rows []ImportRow) (*ImportSummary, error) {
	summary := &ImportSummary{ImportID: uuid.NewString(), Rows: len(rows)}
	productsReused := 0

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := s.productRepo.WithTx(tx)
		colors := s.colorRepo.WithTx(tx)

		for i, raw := range rows {
			line := raw.Line
			if line == 0 {
				line = i + 1
			}

			row, ok := normalizeRow(raw)
			if !ok {
				summary.Dropped++
				continue
			}

			productID, created, err := s.resolveProduct(ctx, products, row.ProductName)
			if err != nil {
				return &RowError{Line: line, Err: err}
			}
			if created {
				summary.ProductsCreated++
			} else {
				productsReused++
			}

			_, err = colors.FindByProductAndName(ctx, productID, row.ColorName)
			if err == nil {
				summary.ColorsSkipped++
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return &RowError{Line: line, Err: err}
			}

			color := &model.Color{
				ProductID: productID,
				Name:      row.ColorName,
				Price:     *row.Price,
				Currency:  row.Currency,
			}
			if err := colors.Create(ctx, color); err != nil {
				return &RowError{Line: line, Err: err}
			}
			summary.ColorsCreated++
		}
		return nil
	})
	if err != nil {
		s.metrics.ImportFailed()
		logger.Warn().Err(err).Str("import_id", summary.ImportID).Int("rows", summary.Rows).Msg("import rolled back")
		return nil, err
	}

	s.metrics.ImportSucceeded(summary.Dropped, summary.ColorsCreated, summary.ColorsSkipped, summary.ProductsCreated, productsReused)
	logger.Info().
		Str("import_id", summary.ImportID).
		Int("rows", summary.Rows).
		Int("dropped", summary.Dropped).
		Int("products_created", summary.ProductsCreated).
		Int("colors_created", summary.ColorsCreated).
		Int("colors_skipped", summary.ColorsSkipped).
		Msg("import committed")

	s.events.Publish(map[string]interface{}{
		"type":    eventType,
		"action":  "catalog_imported",
		"summary": summary,
	})
	return summary, nil
}

// resolveProduct returns the id of the product called name, creating it when
// absent. If a concurrent writer inserts the same name first, the insert is a
// no-op and the winner's row is read back.
func (s *importService) resolveProduct(ctx context.Context, products repository.ProductRepository, name string) (uint, bool, error) {
	existing, err := products.FindByName(ctx, name)
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, err
	}

	product := &model.Product{Name: name}
	created, err := products.CreateIfAbsent(ctx, product)
	if err != nil {
		return 0, false, err
	}
	if created {
		return product.ID, true, nil
	}

	existing, err = products.FindByName(ctx, name)
	if err != nil {
		return 0, false, err
	}
	return existing.ID, false, nil
}

// normalizeRow trims the text fields and rejects rows missing any value.
func normalizeRow(row ImportRow) (ImportRow, bool) {
	row.ProductName = strings.TrimSpace(row.ProductName)
	row.ColorName = strings.TrimSpace(row.ColorName)
	row.Currency = strings.TrimSpace(row.Currency)

	if row.ProductName == "" || row.ColorName == "" || row.Currency == "" || row.Price == nil || math.IsNaN(*row.Price) {
		return row, false
	}
	return row, true
}
