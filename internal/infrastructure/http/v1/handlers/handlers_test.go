package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"psi/internal/core/apperror"
	"psi/internal/core/id"
	"psi/internal/domain"
	"psi/internal/domain/catalogs/supplier"
	"psi/internal/domain/receiving"
	"psi/internal/domain/reports"
	"psi/internal/infrastructure/http/v1/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	return r
}

func do(r *gin.Engine, method, path string, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// --- catalog ---

type fakeSuppliers struct {
	byName  map[string]*supplier.Supplier
	created []*supplier.Supplier
	code    string
}

func (f *fakeSuppliers) Create(_ context.Context, s *supplier.Supplier) error {
	if s.Code == "" {
		s.Code = f.code
	}
	f.created = append(f.created, s)
	return nil
}

func (f *fakeSuppliers) GetByID(_ context.Context, entityID id.ID) (*supplier.Supplier, error) {
	return nil, apperror.NewNotFound("supplier", entityID.String())
}

func (f *fakeSuppliers) Update(context.Context, *supplier.Supplier) error   { return nil }
func (f *fakeSuppliers) Delete(context.Context, id.ID) error                { return nil }
func (f *fakeSuppliers) SetDeletionMark(context.Context, id.ID, bool) error { return nil }
func (f *fakeSuppliers) FindByExternalID(context.Context, string) (*supplier.Supplier, bool, error) {
	return nil, false, nil
}

func (f *fakeSuppliers) List(context.Context, domain.ListFilter) (domain.ListResult[*supplier.Supplier], error) {
	return domain.ListResult[*supplier.Supplier]{}, nil
}

func (f *fakeSuppliers) FindByName(_ context.Context, name string) (*supplier.Supplier, bool, error) {
	s, ok := f.byName[name]
	return s, ok, nil
}

func (f *fakeSuppliers) NextCode(context.Context) (string, error) { return f.code, nil }

func supplierRouter(svc *fakeSuppliers) *gin.Engine {
	h := NewCatalogHandler(NewBaseHandler(), CatalogHandlerConfig[*supplier.Supplier, struct{ Name string }, struct{ Name string }]{
		Service:    svc,
		EntityName: "supplier",
		MapCreateDTO: func(req struct{ Name string }) *supplier.Supplier {
			return supplier.NewSupplier("", req.Name)
		},
		MapToDTO: func(s *supplier.Supplier) any { return gin.H{"name": s.Name, "code": s.Code} },
	})
	r := newEngine()
	r.GET("/suppliers", h.List)
	r.POST("/suppliers", h.Create)
	r.GET("/suppliers/lookup", h.Lookup)
	r.GET("/suppliers/next-code", h.NextCode)
	r.GET("/suppliers/:id", h.Get)
	return r
}

func TestCatalogHandler_Lookup(t *testing.T) {
	svc := &fakeSuppliers{byName: map[string]*supplier.Supplier{
		"Acme": supplier.NewSupplier("000001", "Acme"),
	}}
	r := supplierRouter(svc)

	w := do(r, http.MethodGet, "/suppliers/lookup?name=Acme", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"000001"`)

	w = do(r, http.MethodGet, "/suppliers/lookup?name=Nobody", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/suppliers/lookup", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogHandler_NextCodeAndCreate(t *testing.T) {
	svc := &fakeSuppliers{code: "000007"}
	r := supplierRouter(svc)

	w := do(r, http.MethodGet, "/suppliers/next-code", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":"000007"}`, w.Body.String())

	w = do(r, http.MethodPost, "/suppliers", `{"Name":"Globex"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, svc.created, 1)
	assert.Equal(t, "Globex", svc.created[0].Name)
	assert.Contains(t, w.Body.String(), `"code":"000007"`)
}

func TestCatalogHandler_GetInvalidID(t *testing.T) {
	w := do(supplierRouter(&fakeSuppliers{}), http.MethodGet, "/suppliers/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogHandler_ListRejectsBadFilter(t *testing.T) {
	w := do(supplierRouter(&fakeSuppliers{}), http.MethodGet, "/suppliers?filter=notjson", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- receiving ---

type fakeReceivings struct {
	stored map[id.ID]*receiving.Receiving
	list   receiving.ListFilter
}

func (f *fakeReceivings) Create(_ context.Context, r *receiving.Receiving) error {
	f.stored[r.ID] = r
	return nil
}

func (f *fakeReceivings) Update(_ context.Context, r *receiving.Receiving) error {
	f.stored[r.ID] = r
	return nil
}

func (f *fakeReceivings) GetByID(_ context.Context, receivingID id.ID) (*receiving.Receiving, error) {
	r, ok := f.stored[receivingID]
	if !ok {
		return nil, apperror.NewNotFound("receiving", receivingID.String())
	}
	return r, nil
}

func (f *fakeReceivings) List(_ context.Context, filter receiving.ListFilter) (domain.ListResult[*receiving.Receiving], error) {
	f.list = filter
	return domain.ListResult[*receiving.Receiving]{Items: []*receiving.Receiving{}, Limit: filter.Limit}, nil
}

func (f *fakeReceivings) Delete(_ context.Context, receivingID id.ID) error {
	if _, ok := f.stored[receivingID]; !ok {
		return apperror.NewNotFound("receiving", receivingID.String())
	}
	delete(f.stored, receivingID)
	return nil
}

func receivingRouter(svc *fakeReceivings) *gin.Engine {
	h := NewReceivingHandler(NewBaseHandler(), svc)
	r := newEngine()
	r.GET("/receiving", h.List)
	r.POST("/receiving", h.Create)
	r.GET("/receiving/:id", h.Get)
	r.PUT("/receiving/:id", h.Update)
	r.DELETE("/receiving/:id", h.Delete)
	return r
}

func TestReceivingHandler_Create(t *testing.T) {
	svc := &fakeReceivings{stored: map[id.ID]*receiving.Receiving{}}
	r := receivingRouter(svc)

	poID, statusID, lineID := id.New(), id.New(), id.New()
	body := `{
		"statusId": "` + statusID.String() + `",
		"purchaseOrderId": "` + poID.String() + `",
		"lines": [
			{"purchaseOrderLineId": "` + lineID.String() + `", "quantity": "2", "price": "12.50"},
			{"purchaseOrderLineId": "` + lineID.String() + `", "quantity": null, "price": "3"}
		]
	}`

	w := do(r, http.MethodPost, "/receiving", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		ID              string          `json:"id"`
		PurchaseOrderID string          `json:"purchaseOrderId"`
		TotalAmount     decimal.Decimal `json:"totalAmount"`
		Lines           []struct {
			TotalAmount decimal.Decimal `json:"totalAmount"`
		} `json:"lines"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, poID.String(), resp.PurchaseOrderID)
	assert.Equal(t, "25.00", resp.TotalAmount.StringFixed(2))
	require.Len(t, resp.Lines, 2)
	assert.Equal(t, "0.00", resp.Lines[1].TotalAmount.StringFixed(2))

	require.Len(t, svc.stored, 1)
}

func TestReceivingHandler_CreateRequiresStatus(t *testing.T) {
	r := receivingRouter(&fakeReceivings{stored: map[id.ID]*receiving.Receiving{}})

	w := do(r, http.MethodPost, "/receiving", `{"purchaseOrderId":"`+id.New().String()+`"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), apperror.CodeValidation)
}

func TestReceivingHandler_ListFilters(t *testing.T) {
	svc := &fakeReceivings{}
	r := receivingRouter(svc)
	poID := id.New()

	w := do(r, http.MethodGet, "/receiving?purchaseOrderId="+poID.String()+"&dateFrom=2024-01-01&limit=10", "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, svc.list.PurchaseOrderID)
	assert.Equal(t, poID, *svc.list.PurchaseOrderID)
	require.NotNil(t, svc.list.DateFrom)
	assert.Equal(t, 2024, svc.list.DateFrom.Year())
	assert.Equal(t, 10, svc.list.Limit)
}

func TestReceivingHandler_Delete(t *testing.T) {
	rec := receiving.NewReceiving(id.New(), id.New())
	svc := &fakeReceivings{stored: map[id.ID]*receiving.Receiving{rec.ID: rec}}
	r := receivingRouter(svc)

	w := do(r, http.MethodDelete, "/receiving/"+rec.ID.String(), "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodDelete, "/receiving/"+rec.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// --- reports ---

type fakeReports struct {
	last reports.Filter
}

func (f *fakeReports) View() reports.ViewConfig { return reports.SupplierSalesView }

func (f *fakeReports) Query(_ context.Context, flt reports.Filter) (*reports.Page, error) {
	f.last = flt
	return &reports.Page{Window: flt.Window, Label: flt.Window.Label(), Items: []reports.SupplierSalesRow{}}, nil
}

func (f *fakeReports) Count(_ context.Context, flt reports.Filter) (int64, error) {
	f.last = flt
	return 3, nil
}

func (f *fakeReports) ContentType() string { return "application/test" }

func (f *fakeReports) Export(_ context.Context, w io.Writer, flt reports.Filter) error {
	f.last = flt
	_, err := io.Copy(w, bytes.NewBufferString("xlsx-bytes"))
	return err
}

func reportsRouter(svc *fakeReports) *gin.Engine {
	h := NewReportsHandler(NewBaseHandler(), svc)
	r := newEngine()
	r.GET("/sales", h.GetView)
	r.GET("/sales/:window", h.GetRows)
	r.GET("/sales/:window/count", h.GetCount)
	r.GET("/sales/:window/export.xlsx", h.Export)
	return r
}

func TestReportsHandler_View(t *testing.T) {
	w := do(reportsRouter(&fakeReports{}), http.MethodGet, "/sales", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"label":"Sales Profit"`)
	assert.Contains(t, w.Body.String(), `"label":"This Week"`)
}

func TestReportsHandler_Rows(t *testing.T) {
	svc := &fakeReports{}
	w := do(reportsRouter(svc), http.MethodGet,
		"/sales/this_week?search=ac&orderBy=-sales_amount&filter="+
			url.QueryEscape(`[{"field":"sales_profit","operator":"gt","value":5}]`), "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, reports.ThisWeek, svc.last.Window)
	assert.Equal(t, "ac", svc.last.Search)
	assert.Equal(t, "-sales_amount", svc.last.OrderBy)
	require.Len(t, svc.last.AdvancedFilters, 1)
	assert.Contains(t, w.Body.String(), `"label":"This Week"`)
}

func TestReportsHandler_UnknownWindow(t *testing.T) {
	w := do(reportsRouter(&fakeReports{}), http.MethodGet, "/sales/next_decade", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportsHandler_Count(t *testing.T) {
	w := do(reportsRouter(&fakeReports{}), http.MethodGet, "/sales/today/count", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":3}`, w.Body.String())
}

func TestReportsHandler_Export(t *testing.T) {
	w := do(reportsRouter(&fakeReports{}), http.MethodGet, "/sales/last_month/export.xlsx", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/test", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="supplier_sales_last_month.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "xlsx-bytes", w.Body.String())
}

// --- health ---

func TestHealthHandler_Ready(t *testing.T) {
	ok := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("down") })

	tests := []struct {
		name   string
		db     Pinger
		cache  Pinger
		status int
		check  string
	}{
		{"healthy", ok, ok, http.StatusOK, `"cache":"healthy"`},
		{"cache down degrades", ok, down, http.StatusOK, `"cache":"degraded: down"`},
		{"database down", down, nil, http.StatusServiceUnavailable, `"database":"unhealthy: down"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.db, nil, tt.cache, "test")
			r := newEngine()
			r.GET("/ready", h.Ready)

			w := do(r, http.MethodGet, "/ready", "")

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.check)
		})
	}
}
