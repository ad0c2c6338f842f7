package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/HusseinZein235/SalesAssociate/internal/files"
	"github.com/HusseinZein235/SalesAssociate/internal/model"
	"github.com/HusseinZein235/SalesAssociate/internal/service"
	"github.com/HusseinZein235/SalesAssociate/internal/store"
)

func newTestEnv(t *testing.T) (*gin.Engine, *service.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	st, err := store.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	fm, err := files.NewManager(filepath.Join(dir, "data"))
	if err != nil {
		t.Fatalf("init files: %v", err)
	}

	svc := service.New(st, fm)
	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api"))
	return router, svc
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	router, _ := newTestEnv(t)
	return router
}

func writeTestWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{
		"Item", "Description", "Units", "Category", "Amount",
		"Cost Per Unit", "Wholesale Price", "Notes", "Expiry Date",
	}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			t.Fatalf("set header: %v", err)
		}
	}
	for i, row := range rows {
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "products.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return v
}

func TestListProducts(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/products", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	products := decode[[]model.Product](t, w)
	if len(products) != 6 {
		t.Fatalf("products = %d, want 6 seeded", len(products))
	}

	w = doJSON(t, router, http.MethodGet, "/api/products?q=aspirin", nil)
	hits := decode[[]model.Product](t, w)
	if len(hits) != 1 || hits[0].Item != "Aspirin" {
		t.Errorf("search = %+v", hits)
	}

	w = doJSON(t, router, http.MethodGet, "/api/products?grouped=true", nil)
	catalog := decode[model.Catalog](t, w)
	if len(catalog["Medicines"]) != 2 {
		t.Errorf("grouped medicines = %d, want 2", len(catalog["Medicines"]))
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	// Seed via a list call first so the 404 is a real miss.
	doJSON(t, router, http.MethodGet, "/api/products", nil)

	w := doJSON(t, router, http.MethodGet, "/api/products/NoSuchItem", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestCartEndpoints(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/customers", nil)
	customers := decode[[]model.Customer](t, w)
	if len(customers) != 3 {
		t.Fatalf("customers = %d, want 3 seeded", len(customers))
	}
	id := customers[0].ID
	base := fmt.Sprintf("/api/customers/%d", id)

	// Products must exist before carting; seeding happened with customers.
	doJSON(t, router, http.MethodGet, "/api/products", nil)

	w = doJSON(t, router, http.MethodPost, base+"/cart", CartItemRequest{Item: "Aspirin", Quantity: 5})
	if w.Code != http.StatusOK {
		t.Fatalf("add status = %d, body %s", w.Code, w.Body)
	}
	customer := decode[model.Customer](t, w)
	if customer.CartQuantity("Aspirin") != 5 {
		t.Errorf("cart = %+v", customer.Cart)
	}

	// Over stock maps to 409 with the shortfall details.
	w = doJSON(t, router, http.MethodPost, base+"/cart", CartItemRequest{Item: "Aspirin", Quantity: 100})
	if w.Code != http.StatusConflict {
		t.Fatalf("over-stock status = %d, body %s", w.Code, w.Body)
	}
	conflict := decode[map[string]any](t, w)
	if conflict["available"].(float64) != 45 {
		t.Errorf("conflict body = %v", conflict)
	}

	// Resize, then confirm the sale.
	w = doJSON(t, router, http.MethodPatch, base+"/cart/Aspirin", CartItemRequest{Quantity: 2})
	if w.Code != http.StatusOK {
		t.Fatalf("resize status = %d, body %s", w.Code, w.Body)
	}

	w = doJSON(t, router, http.MethodPost, base+"/sale", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("sale status = %d, body %s", w.Code, w.Body)
	}
	sale := decode[model.Sale](t, w)
	if sale.ItemCount() != 2 {
		t.Errorf("sale = %+v", sale)
	}

	// Second confirm hits the empty cart.
	w = doJSON(t, router, http.MethodPost, base+"/sale", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty-cart status = %d, body %s", w.Code, w.Body)
	}

	// Stats show up for today.
	w = doJSON(t, router, http.MethodGet, "/api/stats/today", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stats status = %d, body %s", w.Code, w.Body)
	}
	stats := decode[model.DailyStats](t, w)
	if stats.CustomerCount != 1 || stats.ItemCount != 2 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestCustomerCRUD(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/customers", model.Customer{
		Name:         "New Customer",
		Place:        "Uptown",
		PharmacyName: "Corner Pharmacy",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body)
	}
	created := decode[model.Customer](t, w)
	if created.ID <= 0 {
		t.Fatalf("created id = %d", created.ID)
	}

	base := fmt.Sprintf("/api/customers/%d", created.ID)

	created.Name = "Renamed Customer"
	w = doJSON(t, router, http.MethodPatch, base, created)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", w.Code, w.Body)
	}

	w = doJSON(t, router, http.MethodGet, base, nil)
	got := decode[model.Customer](t, w)
	if got.Name != "Renamed Customer" {
		t.Errorf("name = %q", got.Name)
	}

	w = doJSON(t, router, http.MethodDelete, base, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, base, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("after delete status = %d, want 404", w.Code)
	}

	// Bad payloads and ids.
	w = doJSON(t, router, http.MethodPost, "/api/customers", map[string]any{"name": ""})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty name status = %d, want 400", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, "/api/customers/abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", w.Code)
	}
}

func TestStatus(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	// Trigger seeding first.
	doJSON(t, router, http.MethodGet, "/api/products", nil)
	doJSON(t, router, http.MethodGet, "/api/customers", nil)

	w := doJSON(t, router, http.MethodGet, "/api/status", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	resp := decode[StatusResponse](t, w)
	if resp.Products != 6 || resp.Customers != 3 {
		t.Errorf("status = %+v", resp)
	}
}

func TestSync_NoWorkbook(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	w := doJSON(t, router, http.MethodPost, "/api/sync", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 when nothing was imported", w.Code)
	}
}

func TestImport_StreamsProgress(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	path := writeTestWorkbook(t, [][]any{
		{"Ibuprofen", "Anti-inflammatory", "Box", "Medicines", 40, 6.50, 5.00, "", "2026-05-01"},
		{"Zinc", "Mineral supplement", "Bottle", "Supplements", 20, 8.25, 6.00},
	})
	workbook, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read workbook: %v", err)
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", "products.xlsx")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(workbook); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := form.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/import", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type = %q", ct)
	}

	body := w.Body.String()
	if !strings.Contains(body, `"type":"start"`) {
		t.Errorf("stream missing start event: %s", body)
	}
	if !strings.Contains(body, `"type":"done"`) {
		t.Errorf("stream missing done event: %s", body)
	}
	for _, line := range strings.Split(strings.TrimSpace(body), "\n") {
		if line != "" && !strings.HasPrefix(line, "data: ") {
			t.Errorf("malformed event line %q", line)
		}
	}

	w2 := doJSON(t, router, http.MethodGet, "/api/products", nil)
	products := decode[[]model.Product](t, w2)
	if len(products) != 2 {
		t.Fatalf("products after import = %d, want 2", len(products))
	}
}

func TestImport_NoFile(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	if err := form.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/import", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 without a file", w.Code)
	}
}

func TestSync_PinnedWorkbook(t *testing.T) {
	t.Parallel()

	router, svc := newTestEnv(t)

	path := writeTestWorkbook(t, [][]any{
		{"Aspirin", "Pain reliever", "Box", "Medicines", 50, 5.99, 4.50, "", "2025-12-01"},
	})
	svc.PinWorkbook(path)

	// Seed the catalog so Aspirin exists with stock to write back.
	w := doJSON(t, router, http.MethodGet, "/api/products", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("seed status = %d", w.Code)
	}

	// No path in the body: the pinned workbook must be used.
	w = doJSON(t, router, http.MethodPost, "/api/sync", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	resp := decode[map[string]any](t, w)
	if resp["path"] != path {
		t.Errorf("synced path = %v, want pinned %s", resp["path"], path)
	}
	if updated, ok := resp["updated"].(float64); !ok || updated != 1 {
		t.Errorf("updated = %v, want 1", resp["updated"])
	}
}
