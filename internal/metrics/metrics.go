// Package metrics exposes Prometheus instruments for the catalog import path.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "catalog"

const (
	ImportOutcomeSuccess = "success"
	ImportOutcomeFailed  = "failed"
)

const (
	RowResultDropped      = "dropped"
	RowResultColorCreated = "color_created"
	RowResultColorSkipped = "color_skipped"
	ProductResultCreated  = "created"
	ProductResultReused   = "reused"
)

// Metrics groups the import counters. A nil *Metrics is a valid no-op.
type Metrics struct {
	imports  *prometheus.CounterVec
	rows     *prometheus.CounterVec
	products *prometheus.CounterVec
}

// New creates the instruments and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_total",
			Help:      "Spreadsheet imports by outcome.",
		}, []string{"outcome"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_rows_total",
			Help:      "Imported rows by result.",
		}, []string{"result"}),
		products: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_products_total",
			Help:      "Products resolved during imports, created or reused.",
		}, []string{"result"}),
	}

	for _, c := range []prometheus.Collector{m.imports, m.rows, m.products} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ImportSucceeded records a committed import.
func (m *Metrics) ImportSucceeded(dropped, colorsCreated, colorsSkipped, productsCreated, productsReused int) {
	if m == nil {
		return
	}
	m.imports.WithLabelValues(ImportOutcomeSuccess).Inc()
	m.rows.WithLabelValues(RowResultDropped).Add(float64(dropped))
	m.rows.WithLabelValues(RowResultColorCreated).Add(float64(colorsCreated))
	m.rows.WithLabelValues(RowResultColorSkipped).Add(float64(colorsSkipped))
	m.products.WithLabelValues(ProductResultCreated).Add(float64(productsCreated))
	m.products.WithLabelValues(ProductResultReused).Add(float64(productsReused))
}

// ImportFailed records a rolled-back import.
func (m *Metrics) ImportFailed() {
	if m == nil {
		return
	}
	m.imports.WithLabelValues(ImportOutcomeFailed).Inc()
}
