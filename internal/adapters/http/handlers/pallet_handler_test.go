package handlers_test

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen11/pallet-inventory/internal/adapters/http/dto"
	"github.com/jsamuelsen11/pallet-inventory/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/pallet-inventory/internal/domain"
	"github.com/jsamuelsen11/pallet-inventory/internal/domain/box"
	"github.com/jsamuelsen11/pallet-inventory/internal/domain/pallet"
	"github.com/jsamuelsen11/pallet-inventory/internal/ports"
)

func newPalletHandler(t *testing.T) (*handlers.PalletHandler, *mockInventoryService) {
	t.Helper()
	svc := newMockInventoryService(t)
	return handlers.NewPalletHandler(svc), svc
}

func boxRequest(id int64, expiresIn int) dto.AddBoxRequest {
	return dto.AddBoxRequest{
		ID:             id,
		Width:          50,
		Height:         50,
		Depth:          50,
		Weight:         10,
		ExpirationDate: box.Today().AddDays(expiresIn).String(),
	}
}

// --- ListPallets ---

func TestListPallets_Success(t *testing.T) {
	t.Parallel()
	h, svc := newPalletHandler(t)

	svc.On("ListPallets", mock.Anything).
		Return([]*pallet.Pallet{testPallet(t, 1), testPallet(t, 2)}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/pallets", nil)
	h.ListPallets(rec, req)

	requireStatus(t, rec, http.StatusOK)
	resp := decodeJSON[dto.PalletListResponse](t, rec)
	if resp.Count != 2 {
		t.Errorf("Count = %d, want 2", resp.Count)
	}
}

func TestListPallets_StoreUnavailable(t *testing.T) {
	t.Parallel()
	h, svc := newPalletHandler(t)

	svc.On("ListPallets", mock.Anything).
		Return(nil, fmt.Errorf("listing pallets: %w", domain.ErrUnavailable))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/pallets", nil)
	h.ListPallets(rec, req)

	requireStatus(t, rec, http.StatusServiceUnavailable)
}

// --- CreatePallet ---

func TestCreatePallet_Success(t *testing.T) {
	t.Parallel()
	h, svc := newPalletHandler(t)

	svc.On("AddPallet", mock.Anything, mock.MatchedBy(func(p *pallet.Pallet) bool {
		return p.ID() == 5 && p.Dimensions().Depth() == 80
	})).Return(nil)

	body := jsonBody(t, dto.CreatePalletRequest{ID: 5, Width: 120, Height: 100, Depth: 80})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pallets", body)
	h.CreatePallet(rec, req)

	requireStatus(t, rec, http.StatusCreated)
	resp := decodeJSON[dto.PalletResponse](t, rec)
	if resp.ID != 5 || resp.Weight != pallet.BaseWeight {
		t.Errorf("response = %+v, want id 5 with base weight", resp)
	}
}

func TestCreatePallet_ValidationError(t *testing.T) {
	t.Parallel()
	h, _ := newPalletHandler(t)

	body := jsonBody(t, dto.CreatePalletRequest{ID: 5, Width: 0, Height: 100, Depth: 80})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pallets", body)
	h.CreatePallet(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
	resp := decodeJSON[dto.ErrorResponse](t, rec)
	if len(resp.Errors) != 1 || resp.Errors[0].Location != "body.width" {
		t.Errorf("Errors = %+v, want body.width", resp.Errors)
	}
}

func TestCreatePallet_InvalidJSON(t *testing.T) {
	t.Parallel()
	h, _ := newPalletHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pallets", bytes.NewBufferString("{not json"))
	h.CreatePallet(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
}

func TestCreatePallet_UnknownFieldRejected(t *testing.T) {
	t.Parallel()
	h, _ := newPalletHandler(t)

	body := bytes.NewBufferString(`{"id":1,"width":1,"height":1,"depth":1,"colour":"red"}`)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pallets", body)
	h.CreatePallet(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
}

func TestCreatePallet_Conflict(t *testing.T) {
	t.Parallel()
	h, svc := newPalletHandler(t)

	svc.On("AddPallet", mock.Anything, mock.AnythingOfType("*pallet.Pallet")).
		Return(domain.NewConflictError("pallet 5 already exists"))

	body := jsonBody(t, dto.CreatePalletRequest{ID: 5, Width: 120, Height: 100, Depth: 80})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pallets", body)
	h.CreatePallet(rec, req)

	requireStatus(t, rec, http.StatusConflict)
}

// --- GetPallet ---

func TestGetPallet_Success(t *testing.T) {
	t.Parallel()
	h, svc := newPalletHandler(t)

	svc.On("GetPallet", mock.Anything, int64(3)).
		Return(loadedPallet(t, 3, testBox(t, 30, 7)), nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/pallets/3", nil)
	req = withChiParams(req, map[string]string{"id": "3"})
	h.GetPallet(rec, req)

	requireStatus(t, rec, http.StatusOK)
	resp := decodeJSON[dto.PalletResponse](t, rec)
	if resp.BoxCount != 1 || resp.TotalWeight != 40 {
		t.Errorf("BoxCount/TotalWeight = %d/%g, want 1/40", resp.BoxCount, resp.TotalWeight)
	}
}

func TestPalletRoutes_InvalidIDReportsPathLocation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		target string
		serve  func(*handlers.PalletHandler) http.HandlerFunc
	}{
		{
			name:   "get pallet",
			method: http.MethodGet,
			target: "/api/v1/pallets/abc",
			serve:  func(h *handlers.PalletHandler) http.HandlerFunc { return h.GetPallet },
		},
		{
			name:   "add box",
			method: http.MethodPost,
			target: "/api/v1/pallets/abc/boxes",
			serve:  func(h *handlers.PalletHandler) http.HandlerFunc { return h.AddBox },
		},
		{
			name:   "add boxes",
			method: http.MethodPost,
			target: "/api/v1/pallets/abc/boxes/bulk",
			serve:  func(h *handlers.PalletHandler) http.HandlerFunc { return h.AddBoxes },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, _ := newPalletHandler(t)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.target, bytes.NewBufferString(`{}`))
			req = withChiParams(req, map[string]string{"id": "abc"})
			tt.serve(h)(rec, req)

			requireStatus(t, rec, http.StatusBadRequest)
			resp := decodeJSON[dto.ErrorResponse](t, rec)
			if len(resp.Errors) != 1 {
				t.Fatalf("errors = %+v, want one entry", resp.Errors)
			}
			if got := resp.Errors[0].Location; got != "path.id" {
				t.Errorf("location = %q, want %q", got, "path.id")
			}
			if got := resp.Errors[0].Value; got != "abc" {
				t.Errorf("value = %v, want %q", got, "abc")
			}
		})
	}
}

func TestGetPallet_NotFound(t *testing.T) {
	t.Parallel()
	h, svc := newPalletHandler(t)

	svc.On("GetPallet", mock.Anything, int64(999)).
		Return(nil, domain.NewNotFoundError("pallet 999 not found"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/pallets/999", nil)
	req = withChiParams(req, map[string]string{"id": "999"})
	h.GetPallet(rec, req)

	requireStatus(t, rec, http.StatusNotFound)
}

// --- AddBox ---

func TestAddBox_Success(t *testing.T) {
	t.Parallel()
	h, svc := newPalletHandler(t)

	updated := loadedPallet(t, 1, testBox(t, 10, 7))
	svc.On("AddBoxToPallet", mock.Anything, int64(1), mock.MatchedBy(func(b *box.Box) bool {
		return b.ID() == 10
	})).Return(updated, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pallets/1/boxes", jsonBody(t, boxRequest(10, 7)))
	req = withChiParams(req, map[string]string{"id": "1"})
	h.AddBox(rec, req)

	requireStatus(t, rec, http.StatusCreated)
	resp := decodeJSON[dto.PalletResponse](t, rec)
	if resp.Volume != 1_125_000 {
		t.Errorf("Volume = %g, want 1125000", resp.Volume)
	}
}

func TestAddBox_MissingDate(t *testing.T) {
	t.Parallel()
	h, _ := newPalletHandler(t)

	reqBody := boxRequest(10, 7)
	reqBody.ExpirationDate = ""

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pallets/1/boxes", jsonBody(t, reqBody))
	req = withChiParams(req, map[string]string{"id": "1"})
	h.AddBox(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
}

func TestAddBox_ExpiredBoxIsUnprocessable(t *testing.T) {
	t.Parallel()
	h, _ := newPalletHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pallets/1/boxes", jsonBody(t, boxRequest(10, -1)))
	req = withChiParams(req, map[string]string{"id": "1"})
	h.AddBox(rec, req)

	requireStatus(t, rec, http.StatusUnprocessableEntity)
}

func TestAddBox_DoesNotFit(t *testing.T) {
	t.Parallel()
	h, svc := newPalletHandler(t)

	svc.On("AddBoxToPallet", mock.Anything, int64(1), mock.AnythingOfType("*box.Box")).
		Return(nil, fmt.Errorf("adding box to pallet 1: %w", domain.NewRuleError("box 10 exceeds pallet 1")))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pallets/1/boxes", jsonBody(t, boxRequest(10, 7)))
	req = withChiParams(req, map[string]string{"id": "1"})
	h.AddBox(rec, req)

	requireStatus(t, rec, http.StatusUnprocessableEntity)
}

func TestAddBox_PalletNotFound(t *testing.T) {
	t.Parallel()
	h, svc := newPalletHandler(t)

	svc.On("AddBoxToPallet", mock.Anything, int64(999), mock.AnythingOfType("*box.Box")).
		Return(nil, domain.NewNotFoundError("pallet 999 not found"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pallets/999/boxes", jsonBody(t, boxRequest(10, 7)))
	req = withChiParams(req, map[string]string{"id": "999"})
	h.AddBox(rec, req)

	requireStatus(t, rec, http.StatusNotFound)
}

// --- AddBoxes ---

func TestAddBoxes_PartialSuccess(t *testing.T) {
	t.Parallel()
	h, svc := newPalletHandler(t)

	result := &ports.BulkAddResult{
		Pallet: loadedPallet(t, 1, testBox(t, 10, 7)),
		Added:  []int64{10},
		Errors: []ports.BulkAddError{{BoxID: 11, Err: errors.New("box 11 exceeds pallet 1")}},
	}
	svc.On("AddBoxes", mock.Anything, int64(1), mock.MatchedBy(func(bs []*box.Box) bool {
		return len(bs) == 2
	})).Return(result, nil)

	invalid := boxRequest(0, 7)
	body := jsonBody(t, dto.BulkAddBoxesRequest{Boxes: []dto.AddBoxRequest{
		boxRequest(10, 7), boxRequest(11, 7), invalid,
	}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pallets/1/boxes/bulk", body)
	req = withChiParams(req, map[string]string{"id": "1"})
	h.AddBoxes(rec, req)

	requireStatus(t, rec, http.StatusOK)
	resp := decodeJSON[dto.BulkAddBoxesResponse](t, rec)
	if resp.Total != 3 || resp.Succeeded != 1 || resp.Failed != 2 {
		t.Errorf("Total/Succeeded/Failed = %d/%d/%d, want 3/1/2", resp.Total, resp.Succeeded, resp.Failed)
	}
}

func TestAddBoxes_AllRejectedSkipsService(t *testing.T) {
	t.Parallel()
	h, svc := newPalletHandler(t)

	svc.On("GetPallet", mock.Anything, int64(1)).Return(testPallet(t, 1), nil)

	body := jsonBody(t, dto.BulkAddBoxesRequest{Boxes: []dto.AddBoxRequest{boxRequest(10, -3)}})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pallets/1/boxes/bulk", body)
	req = withChiParams(req, map[string]string{"id": "1"})
	h.AddBoxes(rec, req)

	requireStatus(t, rec, http.StatusOK)
	resp := decodeJSON[dto.BulkAddBoxesResponse](t, rec)
	if resp.Succeeded != 0 || resp.Failed != 1 || resp.Errors[0].BoxID != 10 {
		t.Errorf("response = %+v, want one rejected box 10", resp)
	}
}

func TestAddBoxes_EmptyBatch(t *testing.T) {
	t.Parallel()
	h, _ := newPalletHandler(t)

	body := jsonBody(t, dto.BulkAddBoxesRequest{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pallets/1/boxes/bulk", body)
	req = withChiParams(req, map[string]string{"id": "1"})
	h.AddBoxes(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
}

func TestAddBoxes_PalletNotFound(t *testing.T) {
	t.Parallel()
	h, svc := newPalletHandler(t)

	svc.On("AddBoxes", mock.Anything, int64(999), mock.Anything).
		Return(nil, domain.NewNotFoundError("pallet 999 not found"))

	body := jsonBody(t, dto.BulkAddBoxesRequest{Boxes: []dto.AddBoxRequest{boxRequest(10, 7)}})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pallets/999/boxes/bulk", body)
	req = withChiParams(req, map[string]string{"id": "999"})
	h.AddBoxes(rec, req)

	requireStatus(t, rec, http.StatusNotFound)
}
