package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen11/pallet-inventory/internal/domain"
	"github.com/jsamuelsen11/pallet-inventory/internal/domain/box"
	"github.com/jsamuelsen11/pallet-inventory/internal/domain/pallet"
	"github.com/jsamuelsen11/pallet-inventory/internal/ports"
)

type mockInventoryService struct {
	mock.Mock
}

var _ ports.InventoryService = (*mockInventoryService)(nil)

func newMockInventoryService(t *testing.T) *mockInventoryService {
	t.Helper()

	m := &mockInventoryService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *mockInventoryService) GroupedByExpiration(ctx context.Context) ([]*pallet.Pallet, error) {
	args := m.Called(ctx)
	pallets, _ := args.Get(0).([]*pallet.Pallet)
	return pallets, args.Error(1)
}

func (m *mockInventoryService) TopByBoxExpiration(ctx context.Context, topCount int) ([]*pallet.Pallet, error) {
	args := m.Called(ctx, topCount)
	pallets, _ := args.Get(0).([]*pallet.Pallet)
	return pallets, args.Error(1)
}

func (m *mockInventoryService) AddPallet(ctx context.Context, p *pallet.Pallet) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockInventoryService) AddBoxToPallet(ctx context.Context, palletID int64, b *box.Box) (*pallet.Pallet, error) {
	args := m.Called(ctx, palletID, b)
	p, _ := args.Get(0).(*pallet.Pallet)
	return p, args.Error(1)
}

func (m *mockInventoryService) AddBoxes(ctx context.Context, palletID int64, boxes []*box.Box) (*ports.BulkAddResult, error) {
	args := m.Called(ctx, palletID, boxes)
	result, _ := args.Get(0).(*ports.BulkAddResult)
	return result, args.Error(1)
}

func (m *mockInventoryService) ListPallets(ctx context.Context) ([]*pallet.Pallet, error) {
	args := m.Called(ctx)
	pallets, _ := args.Get(0).([]*pallet.Pallet)
	return pallets, args.Error(1)
}

func (m *mockInventoryService) GetPallet(ctx context.Context, id int64) (*pallet.Pallet, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*pallet.Pallet)
	return p, args.Error(1)
}

type mockHealthRegistry struct {
	mock.Mock
}

func newMockHealthRegistry(t *testing.T) *mockHealthRegistry {
	t.Helper()

	m := &mockHealthRegistry{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *mockHealthRegistry) Register(checker ports.HealthChecker) {
	m.Called(checker)
}

func (m *mockHealthRegistry) CheckAll(ctx context.Context) map[string]error {
	results, _ := m.Called(ctx).Get(0).(map[string]error)
	return results
}

func withChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func testPallet(t *testing.T, id int64) *pallet.Pallet {
	t.Helper()
	p, err := pallet.New(id, domain.MustDimensions(100, 100, 100))
	if err != nil {
		t.Fatalf("pallet.New(%d) error: %v", id, err)
	}
	return p
}

func testBox(t *testing.T, id int64, expiresIn int) *box.Box {
	t.Helper()
	b, err := box.NewWithExpirationDate(id, domain.MustDimensions(50, 50, 50), 10, box.Today().AddDays(expiresIn))
	if err != nil {
		t.Fatalf("box.NewWithExpirationDate(%d) error: %v", id, err)
	}
	return b
}

func loadedPallet(t *testing.T, id int64, boxes ...*box.Box) *pallet.Pallet {
	t.Helper()
	p := testPallet(t, id)
	for _, b := range boxes {
		if err := p.AddBox(b); err != nil {
			t.Fatalf("AddBox(%d) error: %v", b.ID(), err)
		}
	}
	return p
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		t.Fatalf("failed to encode JSON body: %v", err)
	}
	return buf
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var result T
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode JSON response: %v", err)
	}
	return result
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Errorf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
}
