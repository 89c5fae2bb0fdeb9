package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"go-color-catalog/internal/excel"
	"go-color-catalog/internal/metrics"
	"go-color-catalog/internal/model"
	"go-color-catalog/internal/repository"
	"go-color-catalog/internal/service"
	"go-color-catalog/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	productRepo := repository.NewProductRepo(db)
	colorRepo := repository.NewColorRepo(db)
	catalog := service.NewCatalogService(productRepo, colorRepo, db, nil)
	importer := service.NewImportService(productRepo, colorRepo, db, nil, m)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	Register(app, Handlers{
		Product:  NewProductHandler(catalog),
		Color:    NewColorHandler(catalog),
		Import:   NewImportHandler(importer),
		Health:   NewHealthHandler(db),
		Gatherer: reg,
	})
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	var out map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func upload(t *testing.T, app *fiber.App, filename string, content []byte) (*http.Response, map[string]any) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/upload-excel/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func countRows(t *testing.T, db *gorm.DB) (int64, int64) {
	t.Helper()
	var products, colors int64
	require.NoError(t, db.Model(&model.Product{}).Count(&products).Error)
	require.NoError(t, db.Model(&model.Color{}).Count(&colors).Error)
	return products, colors
}

func TestProductLifecycle(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, "POST", "/products/", map[string]any{"name": "Shirt"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Product added!", body["message"])
	id := body["id"].(float64)
	require.NotZero(t, id)

	resp, err := app.Test(httptest.NewRequest("GET", "/products", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"name":"Shirt","colors":[]}]`, string(raw))

	resp, body = doJSON(t, app, "POST", "/products/", map[string]any{"name": "Shirt"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.NotEmpty(t, body["error"])

	resp, body = doJSON(t, app, "PUT", "/products/1", map[string]any{"name": "T-Shirt"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Product updated!", body["message"])

	resp, _ = doJSON(t, app, "PUT", "/products/99", map[string]any{"name": "Ghost"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, body = doJSON(t, app, "DELETE", "/products/1", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Product deleted!", body["message"])

	resp, _ = doJSON(t, app, "DELETE", "/products/1", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestBadRequests(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, "PUT", "/products/abc", map[string]any{"name": "x"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid product ID", body["error"])

	resp, _ = doJSON(t, app, "DELETE", "/colors/0", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	req := httptest.NewRequest("POST", "/products/", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, body = doJSON(t, app, "POST", "/products/", map[string]any{"name": ""})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "name")

	resp, body = doJSON(t, app, "GET", "/nowhere", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestColorEndpoints(t *testing.T) {
	app, db := newTestApp(t)

	resp, _ := doJSON(t, app, "POST", "/colors/", map[string]any{"product_id": 7, "name": "Red", "price": 10, "currency": "USD"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	_, colors := countRows(t, db)
	assert.Zero(t, colors)

	_, body := doJSON(t, app, "POST", "/products/", map[string]any{"name": "Shirt"})
	productID := body["id"]

	resp, body = doJSON(t, app, "POST", "/colors/", map[string]any{"product_id": productID, "name": "Red", "price": 10, "currency": "USD"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Color added!", body["message"])
	colorID := int(body["id"].(float64))

	resp, err := app.Test(httptest.NewRequest("GET", "/colors/", nil))
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"name":"Red","price":10,"currency":"USD","product_id":1}]`, string(raw))

	path := "/colors/" + strconv.Itoa(colorID)
	resp, body = doJSON(t, app, "PUT", path, map[string]any{"name": "Crimson", "price": 0, "currency": "EUR"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Color updated!", body["message"])

	resp, _ = doJSON(t, app, "PUT", "/colors/99", map[string]any{"name": "X", "price": 1, "currency": "EUR"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, body = doJSON(t, app, "DELETE", path, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Color deleted!", body["message"])
}

func TestUploadExcelImportsRows(t *testing.T) {
	app, db := newTestApp(t)

	content := testutil.Workbook(t,
		[]any{" Product Name ", "Color", "Price", "Currency"},
		[]any{"Shirt", "Red", 10.0, "USD"},
		[]any{"Shirt", "Red", 12.0, "EUR"},
		[]any{"Shirt", "Blue", 10.0, "USD"},
		[]any{nil, "Green", 4.0, "USD"},
	)

	resp, body := upload(t, app, "catalog.xlsx", content)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "Excel uploaded successfully!", body["message"])

	summary := body["summary"].(map[string]any)
	assert.EqualValues(t, 4, summary["rows"])
	assert.EqualValues(t, 1, summary["dropped"])
	assert.EqualValues(t, 1, summary["products_created"])
	assert.EqualValues(t, 2, summary["colors_created"])
	assert.EqualValues(t, 1, summary["colors_skipped"])

	products, colors := countRows(t, db)
	assert.EqualValues(t, 1, products)
	assert.EqualValues(t, 2, colors)
}

func TestUploadExcelMissingCurrencyCreatesNothing(t *testing.T) {
	app, db := newTestApp(t)

	content := testutil.Workbook(t,
		[]any{"Product Name", "Color", "Price"},
		[]any{"Shirt", "Red", 10.0},
	)

	resp, body := upload(t, app, "catalog.xlsx", content)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "Currency")

	products, colors := countRows(t, db)
	assert.Zero(t, products)
	assert.Zero(t, colors)
}

func TestUploadExcelRejectsInfinitePrice(t *testing.T) {
	app, db := newTestApp(t)

	content := testutil.Workbook(t,
		[]any{"Product Name", "Color", "Price", "Currency"},
		[]any{"Shirt", "Blue", 10.0, "USD"},
		[]any{"Shirt", "Red", "Inf", "USD"},
	)

	resp, body := upload(t, app, "catalog.xlsx", content)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "row 3")

	products, colors := countRows(t, db)
	assert.Zero(t, products)
	assert.Zero(t, colors)

	for _, path := range []string{"/products/", "/colors/"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
	}
}

func TestUploadExcelDropsNaNPrice(t *testing.T) {
	app, db := newTestApp(t)

	content := testutil.Workbook(t,
		[]any{"Product Name", "Color", "Price", "Currency"},
		[]any{"Shirt", "Red", "NaN", "USD"},
		[]any{"Shirt", "Blue", 10.0, "USD"},
	)

	resp, body := upload(t, app, "catalog.xlsx", content)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
	summary := body["summary"].(map[string]any)
	assert.EqualValues(t, 1, summary["dropped"])
	assert.EqualValues(t, 1, summary["colors_created"])

	_, colors := countRows(t, db)
	assert.EqualValues(t, 1, colors)

	resp, err := app.Test(httptest.NewRequest("GET", "/colors/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestUploadExcelRejectsOtherFormats(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := upload(t, app, "catalog.csv", []byte("Product Name,Color,Price,Currency\n"))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], ".xlsx")

	resp, _ = upload(t, app, "catalog.xlsx", []byte("not a workbook"))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUploadExcelWithoutFile(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, "POST", "/upload-excel/", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No file uploaded", body["error"])
}

func TestTemplateDownload(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/upload-excel/template", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), templateFilename)

	f, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(excel.TemplateSheet)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, excel.RequiredColumns, rows[0])
}

func TestHealthAndMetrics(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, "GET", "/healthz", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])

	upload(t, app, "catalog.xlsx", testutil.Workbook(t,
		[]any{"Product Name", "Color", "Price", "Currency"},
		[]any{"Hat", "Black", 5.0, "TRY"},
	))

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `catalog_imports_total{outcome="success"} 1`)
}
