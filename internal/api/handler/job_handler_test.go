package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobtrack/jobtrack-be/internal/api/dto"
	"github.com/jobtrack/jobtrack-be/internal/api/events"
	"github.com/jobtrack/jobtrack-be/internal/api/handler"
	"github.com/jobtrack/jobtrack-be/internal/api/model"
	"github.com/jobtrack/jobtrack-be/internal/api/router"
	"github.com/jobtrack/jobtrack-be/internal/api/storage"
	"github.com/jobtrack/jobtrack-be/internal/testutil"
)

// fakePublisher records published events instead of talking to a broker
type fakePublisher struct {
	mu     sync.Mutex
	events []events.JobEvent
}

func (p *fakePublisher) PublishJobEvent(_ context.Context, event events.JobEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) published() []events.JobEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.JobEvent{}, p.events...)
}

type testAPI struct {
	router    *gin.Engine
	storage   *storage.Storage
	publisher *fakePublisher
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := storage.NewStorage(testutil.NewDB(t))
	publisher := &fakePublisher{}

	deps := &handler.Dependencies{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Storage:   store,
		Publisher: publisher,
	}

	return &testAPI{
		router:    router.SetupRouter(deps),
		storage:   store,
		publisher: publisher,
	}
}

func (a *testAPI) request(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func (a *testAPI) createJob(t *testing.T, body gin.H) dto.JobDTO {
	t.Helper()

	w := a.request(t, http.MethodPost, "/jobs", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp dto.JobResponse
	decodeJSON(t, w, &resp)
	return resp.Job
}

func TestCreateJob(t *testing.T) {
	api := newTestAPI(t)

	job := api.createJob(t, gin.H{
		"title":       "Deck build",
		"client_name": "Acme Corp",
		"amount":      1200.50,
	})

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, "Deck build", job.Title)
	assert.Equal(t, "", job.Description)
	assert.Equal(t, "Acme Corp", job.ClientName)
	assert.Equal(t, 1200.50, job.Amount)
	assert.False(t, job.IsPaid)
	assert.Nil(t, job.PaymentDate)
	assert.NotEmpty(t, job.CreatedAt)

	published := api.publisher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.JobCreated, published[0].Event)
	assert.Equal(t, job.ID, published[0].JobID)
	assert.Equal(t, "Acme Corp", published[0].ClientName)
}

func TestCreateJob_IgnoresClientPaidState(t *testing.T) {
	api := newTestAPI(t)

	job := api.createJob(t, gin.H{
		"title":       "Deck build",
		"client_name": "Acme Corp",
		"amount":      500,
		"is_paid":     true,
	})

	assert.False(t, job.IsPaid)
}

func TestCreateJob_MissingFields(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name string
		body gin.H
	}{
		{name: "missing title", body: gin.H{"client_name": "Acme", "amount": 100}},
		{name: "missing client_name", body: gin.H{"title": "Job", "amount": 100}},
		{name: "missing amount", body: gin.H{"title": "Job", "client_name": "Acme"}},
		{name: "empty body", body: gin.H{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.request(t, http.MethodPost, "/jobs", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp map[string]string
			decodeJSON(t, w, &resp)
			assert.Equal(t, "Missing required fields: title, client_name, amount", resp["error"])
		})
	}

	// nothing was persisted or published
	w := api.request(t, http.MethodGet, "/jobs", nil)
	var list dto.ListJobsResponse
	decodeJSON(t, w, &list)
	assert.Empty(t, list.Jobs)
	assert.Empty(t, api.publisher.published())
}

func TestGetJob(t *testing.T) {
	api := newTestAPI(t)

	created := api.createJob(t, gin.H{
		"title":       "Fence repair",
		"client_name": "Globex",
		"amount":      300,
	})

	w := api.request(t, http.MethodGet, "/jobs/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.JobResponse
	decodeJSON(t, w, &resp)
	assert.Equal(t, created.ID, resp.Job.ID)
	assert.Equal(t, "Fence repair", resp.Job.Title)
}

func TestGetJob_NotFound(t *testing.T) {
	api := newTestAPI(t)

	w := api.request(t, http.MethodGet, "/jobs/"+uuid.New().String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp map[string]string
	decodeJSON(t, w, &resp)
	assert.Equal(t, "Job not found", resp["error"])
}

func TestListJobs_NewestFirst(t *testing.T) {
	api := newTestAPI(t)

	// seed directly so creation timestamps are distinct
	base := time.Now().UTC().Add(-time.Hour)
	for i, title := range []string{"first", "second", "third"} {
		job := &model.Job{
			ID:         uuid.New().String(),
			Title:      title,
			ClientName: "Acme",
			Amount:     100,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
			UpdatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, api.storage.CreateJob(context.Background(), job))
	}

	w := api.request(t, http.MethodGet, "/jobs", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ListJobsResponse
	decodeJSON(t, w, &resp)
	require.Len(t, resp.Jobs, 3)
	assert.Equal(t, "third", resp.Jobs[0].Title)
	assert.Equal(t, "second", resp.Jobs[1].Title)
	assert.Equal(t, "first", resp.Jobs[2].Title)
}

func TestUpdateJob_MarkPaid(t *testing.T) {
	api := newTestAPI(t)

	created := api.createJob(t, gin.H{
		"title":       "Roof inspection",
		"client_name": "Globex",
		"amount":      450,
	})

	w := api.request(t, http.MethodPatch, "/jobs/"+created.ID, gin.H{
		"is_paid":           true,
		"payment_date":      "2026-08-28",
		"payment_reference": "INV-100",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp dto.JobResponse
	decodeJSON(t, w, &resp)
	assert.True(t, resp.Job.IsPaid)
	require.NotNil(t, resp.Job.PaymentDate)
	assert.Equal(t, "2026-08-28", *resp.Job.PaymentDate)
	require.NotNil(t, resp.Job.PaymentReference)
	assert.Equal(t, "INV-100", *resp.Job.PaymentReference)

	// untouched fields survive the patch
	assert.Equal(t, "Roof inspection", resp.Job.Title)
	assert.Equal(t, float64(450), resp.Job.Amount)

	published := api.publisher.published()
	require.Len(t, published, 2)
	assert.Equal(t, events.JobUpdated, published[1].Event)
	assert.Equal(t, created.ID, published[1].JobID)
}

func TestUpdateJob_NotFound(t *testing.T) {
	api := newTestAPI(t)

	w := api.request(t, http.MethodPatch, "/jobs/"+uuid.New().String(), gin.H{
		"title": "renamed",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp map[string]string
	decodeJSON(t, w, &resp)
	assert.Equal(t, "Job not found", resp["error"])
	assert.Empty(t, api.publisher.published())
}

func TestUpdateJob_InvalidBody(t *testing.T) {
	api := newTestAPI(t)

	created := api.createJob(t, gin.H{
		"title":       "Job",
		"client_name": "Acme",
		"amount":      100,
	})

	req := httptest.NewRequest(http.MethodPatch, "/jobs/"+created.ID, bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	decodeJSON(t, w, &resp)
	assert.Equal(t, "Invalid request body", resp["error"])
}

func TestDeleteJob(t *testing.T) {
	api := newTestAPI(t)

	created := api.createJob(t, gin.H{
		"title":       "Driveway sealing",
		"client_name": "Acme",
		"amount":      200,
	})

	w := api.request(t, http.MethodDelete, "/jobs/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	decodeJSON(t, w, &resp)
	assert.Equal(t, "Job deleted successfully", resp["message"])

	w = api.request(t, http.MethodGet, "/jobs/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	published := api.publisher.published()
	require.Len(t, published, 2)
	assert.Equal(t, events.JobDeleted, published[1].Event)
}

func TestDeleteJob_Idempotent(t *testing.T) {
	api := newTestAPI(t)

	created := api.createJob(t, gin.H{
		"title":       "Job",
		"client_name": "Acme",
		"amount":      100,
	})

	for i := 0; i < 2; i++ {
		w := api.request(t, http.MethodDelete, "/jobs/"+created.ID, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	// the deleted event fires only for the delete that removed the row
	deletedEvents := 0
	for _, evt := range api.publisher.published() {
		if evt.Event == events.JobDeleted {
			deletedEvents++
		}
	}
	assert.Equal(t, 1, deletedEvents)
}

func TestGetSummary(t *testing.T) {
	api := newTestAPI(t)

	paid := api.createJob(t, gin.H{
		"title":       "Paid job",
		"client_name": "Acme",
		"amount":      1000,
	})
	api.createJob(t, gin.H{
		"title":       "Pending job",
		"client_name": "Globex",
		"amount":      500,
	})

	w := api.request(t, http.MethodPatch, "/jobs/"+paid.ID, gin.H{"is_paid": true})
	require.Equal(t, http.StatusOK, w.Code)

	w = api.request(t, http.MethodGet, "/jobs/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.SummaryResponse
	decodeJSON(t, w, &resp)
	assert.Equal(t, 2, resp.Summary.JobCount)
	assert.Equal(t, 1, resp.Summary.PaidCount)
	assert.Equal(t, float64(1500), resp.Summary.TotalAmount)
	assert.Equal(t, float64(1000), resp.Summary.PaidAmount)
	assert.Equal(t, float64(500), resp.Summary.PendingAmount)
}

func TestListClients(t *testing.T) {
	api := newTestAPI(t)

	w := api.request(t, http.MethodGet, "/clients", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ListClientsResponse
	decodeJSON(t, w, &resp)
	assert.Empty(t, resp.Clients)
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	w := api.request(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	decodeJSON(t, w, &resp)
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "jobtrack-api", resp["service"])
}
