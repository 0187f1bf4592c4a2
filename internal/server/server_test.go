package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reciptera/reciptera/internal/common"
	"github.com/reciptera/reciptera/internal/entity"
	"github.com/reciptera/reciptera/internal/export"
	"github.com/reciptera/reciptera/internal/extraction"
	"github.com/reciptera/reciptera/internal/repository"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var serverNow = time.Date(2024, time.July, 1, 12, 0, 0, 0, time.UTC)

type fakeReceipts struct {
	byID    map[uuid.UUID]*entity.Receipt
	listErr error
}

func newFakeReceipts() *fakeReceipts {
	return &fakeReceipts{byID: make(map[uuid.UUID]*entity.Receipt)}
}

func (f *fakeReceipts) Create(_ context.Context, rec *entity.Receipt) (*entity.Receipt, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.CreatedAt = serverNow
	f.byID[rec.ID] = rec
	return rec, nil
}

func (f *fakeReceipts) GetByID(_ context.Context, profileID, id uuid.UUID) (*entity.Receipt, error) {
	rec, ok := f.byID[id]
	if !ok || rec.ProfileID != profileID {
		return nil, common.NotFoundError("receipt not found")
	}
	return rec, nil
}

func (f *fakeReceipts) ListByProfile(_ context.Context, profileID uuid.UUID, _ repository.ReceiptFilter) ([]*entity.Receipt, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*entity.Receipt
	for _, r := range f.byID {
		if r.ProfileID == profileID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReceipts) Delete(_ context.Context, profileID, id uuid.UUID) error {
	rec, ok := f.byID[id]
	if !ok || rec.ProfileID != profileID {
		return common.NotFoundError("receipt not found")
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeReceipts) Stats(_ context.Context, profileID uuid.UUID) (*repository.Stats, error) {
	s := &repository.Stats{}
	for _, r := range f.byID {
		if r.ProfileID != profileID {
			continue
		}
		s.Count++
		s.TotalAmount += r.Amount
		if r.IsBusiness {
			s.BusinessAmount += r.Amount
		}
	}
	return s, nil
}

func testServer(receipts *fakeReceipts, health HealthFunc) *Server {
	engine := extraction.NewEngine(extraction.WithClock(func() time.Time { return serverNow }))
	return New(engine, receipts, export.NewService(receipts, nil), health, "USD", nil)
}

func doJSON(t *testing.T, router *gin.Engine, method, path, profile string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if profile != "" {
		req.Header.Set("X-Profile-ID", profile)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	router := testServer(newFakeReceipts(), nil).Router()
	w := doJSON(t, router, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	sick := testServer(newFakeReceipts(), func(context.Context) error {
		return errors.New("db down")
	}).Router()
	w = doJSON(t, sick, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestExtractEndpoint(t *testing.T) {
	router := testServer(newFakeReceipts(), nil).Router()

	w := doJSON(t, router, http.MethodPost, "/api/extract", "", map[string]string{
		"raw_text": "STARBUCKS #4021\n123 Main St\n01/15/2024\nSubtotal 4.25\nTax 0.38\nTotal 4.63",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		CycleID  uuid.UUID        `json:"cycle_id"`
		Merchant extraction.Field `json:"merchant"`
		Amount   extraction.Field `json:"amount"`
		Date     extraction.Field `json:"date"`
		Tax      extraction.Field `json:"tax"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEqual(t, uuid.Nil, resp.CycleID)
	assert.Equal(t, "4.63", resp.Amount.Value)
	assert.Equal(t, "2024-01-15", resp.Date.Value)
	assert.Equal(t, "0.38", resp.Tax.Value)
	assert.Equal(t, extraction.TreatmentBlank, resp.Merchant.Treatment)
}

func TestRecordEditEndpoint(t *testing.T) {
	srv := testServer(newFakeReceipts(), nil)
	router := srv.Router()

	w := doJSON(t, router, http.MethodPost, "/api/extract", "", map[string]string{
		"raw_text": "Total 4.63",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		CycleID uuid.UUID `json:"cycle_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = doJSON(t, router, http.MethodPost, "/api/edits", "", map[string]string{
		"cycle_id": resp.CycleID.String(),
		"field":    "amount",
		"final":    "5.00",
	})
	assert.Equal(t, http.StatusAccepted, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/edits", "", map[string]string{
		"cycle_id": uuid.NewString(),
		"field":    "amount",
		"final":    "5.00",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/edits", "", map[string]string{
		"cycle_id": resp.CycleID.String(),
		"field":    "subtotal",
		"final":    "5.00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateReceipt(t *testing.T) {
	receipts := newFakeReceipts()
	router := testServer(receipts, nil).Router()
	profile := uuid.NewString()

	body := map[string]any{
		"merchant_name": "Starbucks",
		"amount":        4.63,
		"receipt_date":  "2024-01-15",
		"is_business":   true,
		"notes":         "client meeting",
	}

	w := doJSON(t, router, http.MethodPost, "/api/receipts", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/receipts", profile, body)
	require.Equal(t, http.StatusCreated, w.Code)
	var rec entity.Receipt
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, "Starbucks", rec.MerchantName)
	assert.Len(t, receipts.byID, 1)

	bad := map[string]any{"merchant_name": "", "amount": 4.63, "receipt_date": "2024-01-15"}
	w = doJSON(t, router, http.MethodPost, "/api/receipts", profile, bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	bad = map[string]any{"merchant_name": "X", "amount": -1.0, "receipt_date": "2024-01-15"}
	w = doJSON(t, router, http.MethodPost, "/api/receipts", profile, bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	bad = map[string]any{"merchant_name": "X", "amount": 1.0, "receipt_date": "01/15/2024"}
	w = doJSON(t, router, http.MethodPost, "/api/receipts", profile, bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListStatsAndDelete(t *testing.T) {
	receipts := newFakeReceipts()
	router := testServer(receipts, nil).Router()
	profile := uuid.New()

	rec, err := receipts.Create(context.Background(), &entity.Receipt{
		ProfileID:    profile,
		MerchantName: "Corner Bakery",
		Amount:       3.79,
		ReceiptDate:  serverNow,
		IsBusiness:   true,
	})
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodGet, "/api/receipts", profile.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Receipts []*entity.Receipt `json:"receipts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Receipts, 1)

	w = doJSON(t, router, http.MethodGet, "/api/receipts/"+rec.ID.String(), profile.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got entity.Receipt
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Corner Bakery", got.MerchantName)

	w = doJSON(t, router, http.MethodGet, "/api/receipts/"+uuid.NewString(), profile.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/receipts/stats", profile.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats struct {
		repository.Stats
		TotalDisplay string `json:"total_display"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Count)
	assert.Equal(t, 3.79, stats.BusinessAmount)
	assert.Equal(t, "$3.79", stats.TotalDisplay)

	w = doJSON(t, router, http.MethodDelete, "/api/receipts/"+rec.ID.String(), profile.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/receipts/"+rec.ID.String(), profile.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTrackCycleEvictsOldestFirst(t *testing.T) {
	srv := testServer(newFakeReceipts(), nil)

	ids := make([]uuid.UUID, 0, maxTrackedCycles+2)
	for i := 0; i < maxTrackedCycles+2; i++ {
		cycle := srv.editLog.NewCycle(extraction.Result{})
		srv.trackCycle(cycle)
		ids = append(ids, cycle.ID())
	}

	assert.Len(t, srv.cycles, maxTrackedCycles)
	assert.Nil(t, srv.lookupCycle(ids[0]), "first tracked cycle should be evicted")
	assert.Nil(t, srv.lookupCycle(ids[1]), "second tracked cycle should be evicted")
	assert.NotNil(t, srv.lookupCycle(ids[2]))
	assert.NotNil(t, srv.lookupCycle(ids[len(ids)-1]))
}

func TestExportCSVEndpoint(t *testing.T) {
	receipts := newFakeReceipts()
	router := testServer(receipts, nil).Router()
	profile := uuid.New()

	_, err := receipts.Create(context.Background(), &entity.Receipt{
		ProfileID:    profile,
		MerchantName: "Starbucks",
		Amount:       4.63,
		ReceiptDate:  serverNow,
		IsBusiness:   true,
	})
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodGet, "/api/export/csv", profile.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "receipts.csv")
	assert.True(t, strings.HasPrefix(w.Body.String(), "Date,Merchant,Amount,Notes"))
	assert.Contains(t, w.Body.String(), "Starbucks")
}
