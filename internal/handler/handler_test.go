package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oggyb/portfolio-backend/internal/domain/contact"
	"github.com/oggyb/portfolio-backend/internal/domain/schedule"
	"github.com/oggyb/portfolio-backend/internal/notify"
	"github.com/oggyb/portfolio-backend/internal/queue"
	routes "github.com/oggyb/portfolio-backend/internal/router"
	"github.com/oggyb/portfolio-backend/internal/service"
	"github.com/oggyb/portfolio-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminAddr = "admin@site.dev"

// testEnv wires real services and the notification pipeline over in-memory
// repositories and broker.
type testEnv struct {
	mux    *http.ServeMux
	broker *queue.MemoryBroker
	sender *testutil.Sender

	mu        sync.Mutex
	contacts  map[uuid.UUID]*contact.Message
	schedules map[uuid.UUID]*schedule.CallSchedule
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log, _ := testutil.NullLogger()

	e := &testEnv{
		broker:    queue.NewMemoryBroker(),
		sender:    &testutil.Sender{},
		contacts:  map[uuid.UUID]*contact.Message{},
		schedules: map[uuid.UUID]*schedule.CallSchedule{},
	}

	contactRepo := &testutil.ContactRepo{
		SaveFunc: func(ctx context.Context, m *contact.Message) error {
			e.mu.Lock()
			defer e.mu.Unlock()
			e.contacts[m.ID] = m
			return nil
		},
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*contact.Message, error) {
			e.mu.Lock()
			defer e.mu.Unlock()
			if m, ok := e.contacts[id]; ok {
				return m, nil
			}
			return nil, contact.ErrNotFound
		},
		ListFunc: func(ctx context.Context, f contact.ListFilter) ([]*contact.Message, error) {
			e.mu.Lock()
			defer e.mu.Unlock()
			var out []*contact.Message
			for _, m := range e.contacts {
				out = append(out, m)
			}
			sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
			out = out[min(f.Offset, len(out)):]
			if f.Limit > 0 && len(out) > f.Limit {
				out = out[:f.Limit]
			}
			return out, nil
		},
	}
	scheduleRepo := &testutil.ScheduleRepo{
		SaveFunc: func(ctx context.Context, c *schedule.CallSchedule) error {
			e.mu.Lock()
			defer e.mu.Unlock()
			e.schedules[c.ID] = c
			return nil
		},
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*schedule.CallSchedule, error) {
			e.mu.Lock()
			defer e.mu.Unlock()
			if c, ok := e.schedules[id]; ok {
				return c, nil
			}
			return nil, schedule.ErrNotFound
		},
	}

	mux := queue.NewMux()
	notify.NewNotifier(e.sender, contactRepo, scheduleRepo, notify.Addresses{
		From:  "no-reply@site.dev",
		Admin: adminAddr,
		Owner: notify.Owner{Name: "Sam Park"},
	}, log).Register(mux)
	dispatcher := notify.NewDispatcher(e.broker, mux, nil, time.Second, time.Second, log)

	e.mux = http.NewServeMux()
	routes.Register(e.mux, routes.AppDeps{
		Home:     NewHomeHandler("Portfolio Backend API", "1.0.0", nil, e.broker, nil, log),
		Contact:  NewContactHandler(service.NewContactService(contactRepo, dispatcher, log), log),
		Schedule: NewScheduleHandler(service.NewScheduleService(scheduleRepo, dispatcher, "UTC", log), log),
	})
	return e
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return rec, out
}

func (e *testEnv) queued(t *testing.T) int64 {
	t.Helper()
	ready, delayed, err := e.broker.Len(context.Background())
	require.NoError(t, err)
	return ready + delayed
}

func TestContact_Create(t *testing.T) {
	e := newTestEnv(t)

	rec, body := e.do(t, http.MethodPost, "/api/contact/", map[string]string{
		"name":    "Jo Lee",
		"email":   "JO@X.COM",
		"message": "Interested in your backend work",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["message"])

	data := body["data"].(map[string]any)
	assert.Equal(t, "jo@x.com", data["email"])
	assert.Equal(t, "Jo Lee", data["name"])
	assert.Equal(t, false, data["is_read"])
	assert.NotEmpty(t, data["id"])

	assert.EqualValues(t, 1, e.queued(t))
	assert.Empty(t, e.sender.Sent(), "emails are sent by the worker, not the request")
}

func TestContact_Create_ValidationErrors(t *testing.T) {
	e := newTestEnv(t)

	rec, body := e.do(t, http.MethodPost, "/api/contact/", map[string]string{
		"name":    "J",
		"email":   "nope",
		"message": "short",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
	fields := body["error"].(map[string]any)["fields"].(map[string]any)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "message")
	assert.Empty(t, e.contacts)
	assert.Zero(t, e.queued(t))
}

func TestContact_Create_MalformedJSON(t *testing.T) {
	e := newTestEnv(t)

	rec, _ := e.do(t, http.MethodPost, "/api/contact/", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContact_Create_BrokerDownFallsBackInline(t *testing.T) {
	e := newTestEnv(t)
	e.broker.SetUnavailable(true)

	rec, _ := e.do(t, http.MethodPost, "/api/contact/", map[string]string{
		"name":    "Jo Lee",
		"email":   "jo@x.com",
		"message": "Interested in your backend work",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, e.sender.SentTo(adminAddr), 1)
	assert.Len(t, e.sender.SentTo("jo@x.com"), 1)
}

func TestContact_GetAndList(t *testing.T) {
	e := newTestEnv(t)
	_, created := e.do(t, http.MethodPost, "/api/contact/", map[string]string{
		"name":    "Jo Lee",
		"email":   "jo@x.com",
		"message": "Interested in your backend work",
	})
	id := created["data"].(map[string]any)["id"].(string)

	rec, body := e.do(t, http.MethodGet, "/api/contact/"+id+"/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, body["data"].(map[string]any)["id"])

	rec, body = e.do(t, http.MethodGet, "/api/contact/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["data"], 1)

	rec, _ = e.do(t, http.MethodGet, "/api/contact/"+uuid.NewString()+"/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = e.do(t, http.MethodGet, "/api/contact/not-a-uuid/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = e.do(t, http.MethodGet, "/api/contact/?is_read=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContact_ListPagination(t *testing.T) {
	e := newTestEnv(t)
	for range 3 {
		rec, _ := e.do(t, http.MethodPost, "/api/contact/", map[string]string{
			"name":    "Jo Lee",
			"email":   "jo@x.com",
			"message": "Interested in your backend work",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, body := e.do(t, http.MethodGet, "/api/contact/?limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["data"], 2)
	page := body["pagination"].(map[string]any)
	assert.EqualValues(t, 2, page["limit"])
	assert.EqualValues(t, 0, page["offset"])
	assert.Equal(t, true, page["has_more"])
	assert.EqualValues(t, 2, page["next_offset"])

	rec, body = e.do(t, http.MethodGet, "/api/contact/?limit=2&offset=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["data"], 1)
	page = body["pagination"].(map[string]any)
	assert.Equal(t, false, page["has_more"])
	assert.NotContains(t, page, "next_offset")
}

func scheduleBody(date string) map[string]string {
	return map[string]string{
		"name":           "Jo Lee",
		"email":          "jo@x.com",
		"phone":          "+1 555 123 4567",
		"preferred_date": date,
		"preferred_time": "10:00",
		"topic":          "Consulting",
	}
}

func TestSchedule_Create(t *testing.T) {
	e := newTestEnv(t)
	date := time.Now().UTC().AddDate(0, 0, 2).Format(schedule.DateLayout)

	rec, body := e.do(t, http.MethodPost, "/api/schedule-call/", scheduleBody(date))

	require.Equal(t, http.StatusCreated, rec.Code, "body: %v", body)
	data := body["data"].(map[string]any)
	assert.Equal(t, date, data["preferred_date"])
	assert.Equal(t, "10:00:00", data["preferred_time"])
	assert.Equal(t, "UTC", data["timezone"])
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, true, data["is_upcoming"])
	assert.EqualValues(t, 1, e.queued(t))
}

func TestSchedule_Create_YesterdayRejected(t *testing.T) {
	e := newTestEnv(t)
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format(schedule.DateLayout)

	rec, body := e.do(t, http.MethodPost, "/api/schedule-call/", scheduleBody(yesterday))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	fields := body["error"].(map[string]any)["fields"].(map[string]any)
	assert.Contains(t, fields, "preferred_date")
	assert.Empty(t, e.schedules, "no record created")
	assert.Zero(t, e.queued(t), "no job enqueued")
	assert.Empty(t, e.sender.Sent())
}

func TestSchedule_UpcomingAndNotFound(t *testing.T) {
	e := newTestEnv(t)

	rec, body := e.do(t, http.MethodGet, "/api/schedule-call/upcoming/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])

	rec, _ = e.do(t, http.MethodGet, "/api/schedule-call/"+uuid.NewString()+"/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = e.do(t, http.MethodGet, "/api/schedule-call/?status=archived", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHome_IndexHealthAndFallback(t *testing.T) {
	e := newTestEnv(t)

	rec, body := e.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Portfolio Backend API", data["name"])
	assert.Contains(t, data["endpoints"], "contact")

	rec, body = e.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["data"].(map[string]any)["status"])

	rec, _ = e.do(t, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoutes_WrongMethodIs405(t *testing.T) {
	e := newTestEnv(t)

	rec, body := e.do(t, http.MethodPut, "/api/contact/", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, false, body["success"])
	allow := rec.Header().Get("Allow")
	assert.Contains(t, allow, http.MethodGet)
	assert.Contains(t, allow, http.MethodPost)

	rec, _ = e.do(t, http.MethodDelete, "/api/schedule-call/"+uuid.NewString()+"/", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Header().Get("Allow"), http.MethodGet)

	rec, _ = e.do(t, http.MethodPut, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Header().Get("Allow"))
}

func TestHealth_Degraded(t *testing.T) {
	log, _ := testutil.NullLogger()
	h := NewHomeHandler("x", "1", map[string]Check{
		"database": func(ctx context.Context) error { return assert.AnError },
		"cache":    func(ctx context.Context) error { return nil },
	}, nil, nil, log)

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	checks := body["data"].(map[string]any)["checks"].(map[string]any)
	assert.Equal(t, "ok", checks["cache"])
	assert.Contains(t, checks["database"], "error")
}
