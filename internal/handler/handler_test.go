package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/mmeshcher/barbershop-system/internal/model"
	"github.com/mmeshcher/barbershop-system/internal/repository"
	"github.com/mmeshcher/barbershop-system/internal/session"
)

type stubConsole struct {
	state session.State
	stats model.Stats

	clients      []model.Client
	services     []model.Service
	appointments []model.Appointment

	addClientResp model.Client
	addClientErr  error

	addServiceResp model.Service
	addServiceErr  error

	addAppointmentResp model.Appointment
	addAppointmentErr  error

	removeServiceErr     error
	removeAppointmentErr error

	insightsResp []string
	insightsErr  error

	setViewErr   error
	openModalErr error

	clientDraft      session.ClientDraft
	serviceDraft     session.ServiceDraft
	appointmentDraft session.AppointmentDraft
}

func (s *stubConsole) Load(ctx context.Context) {}

func (s *stubConsole) Snapshot() session.State { return s.state }

func (s *stubConsole) Stats() model.Stats { return s.stats }

func (s *stubConsole) SetView(v session.View) error { return s.setViewErr }

func (s *stubConsole) OpenModal(m session.Modal) error { return s.openModalErr }

func (s *stubConsole) CloseModal() {}

func (s *stubConsole) Clients() []model.Client { return s.clients }

func (s *stubConsole) Services() []model.Service { return s.services }

func (s *stubConsole) Appointments() []model.Appointment { return s.appointments }

func (s *stubConsole) AddClient(ctx context.Context, draft session.ClientDraft) (model.Client, error) {
	return s.addClientResp, s.addClientErr
}

func (s *stubConsole) AddService(ctx context.Context, draft session.ServiceDraft) (model.Service, error) {
	return s.addServiceResp, s.addServiceErr
}

func (s *stubConsole) AddAppointment(ctx context.Context, draft session.AppointmentDraft) (model.Appointment, error) {
	return s.addAppointmentResp, s.addAppointmentErr
}

func (s *stubConsole) RemoveService(ctx context.Context, id string) error {
	return s.removeServiceErr
}

func (s *stubConsole) RemoveAppointment(ctx context.Context, id string) error {
	return s.removeAppointmentErr
}

func (s *stubConsole) SetClientDraft(d session.ClientDraft) { s.clientDraft = d }

func (s *stubConsole) SetServiceDraft(d session.ServiceDraft) { s.serviceDraft = d }

func (s *stubConsole) SetAppointmentDraft(d session.AppointmentDraft) { s.appointmentDraft = d }

func (s *stubConsole) RefreshInsights(ctx context.Context) ([]string, error) {
	return s.insightsResp, s.insightsErr
}

type stubReminder struct {
	message string
	err     error
}

func (s *stubReminder) GenerateReminder(ctx context.Context, clientName, service, clock string) (string, error) {
	return s.message, s.err
}

func newTestHandler(t *testing.T, console Console, reminder ReminderSource) *Handler {
	t.Helper()

	logger, err := zap.NewDevelopment()
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	return NewHandler(console, reminder, logger)
}

func TestCreateClient_Created(t *testing.T) {
	console := &stubConsole{
		addClientResp: model.Client{ID: "c1", Name: "Carlos", Phone: "+551199990000"},
	}
	h := newTestHandler(t, console, nil)

	body, _ := json.Marshal(session.ClientDraft{
		Name:  "Carlos",
		Phone: "+551199990000",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/clients", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.CreateClient(rec, req)

	res := rec.Result()
	defer res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusCreated)
	}

	var created model.Client
	if err := json.NewDecoder(res.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID != "c1" {
		t.Fatalf("created.ID = %q, want c1", created.ID)
	}
}

func TestCreateClient_BadDraft(t *testing.T) {
	console := &stubConsole{
		addClientErr: session.ErrInvalidDraft,
	}
	h := newTestHandler(t, console, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/clients", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()

	h.CreateClient(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestCreateAppointment_UnknownReference(t *testing.T) {
	console := &stubConsole{
		addAppointmentErr: repository.ErrClientNotFound,
	}
	h := newTestHandler(t, console, nil)

	body, _ := json.Marshal(session.AppointmentDraft{
		ClientID:  "missing",
		ServiceID: "1",
		Date:      "2024-06-10",
		Time:      "14:00",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/appointments", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.CreateAppointment(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
}

func TestGetStats_JSONResponse(t *testing.T) {
	console := &stubConsole{
		stats: model.Stats{
			TotalRevenue:     150,
			AppointmentCount: 3,
			ClientCount:      1,
			ServiceCount:     3,
		},
	}
	h := newTestHandler(t, console, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()

	h.GetStats(rec, req)

	res := rec.Result()
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content-type = %q, want application/json", ct)
	}

	var stats model.Stats
	if err := json.NewDecoder(res.Body).Decode(&stats); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if stats.TotalRevenue != 150 || stats.AppointmentCount != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestSetView_BadView(t *testing.T) {
	console := &stubConsole{
		setViewErr: session.ErrUnknownView,
	}
	h := newTestHandler(t, console, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/session/view", bytes.NewReader([]byte(`{"view":"settings"}`)))
	rec := httptest.NewRecorder()

	h.SetView(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestGenerateReminder_NotConfigured(t *testing.T) {
	h := newTestHandler(t, &stubConsole{}, nil)

	body, _ := json.Marshal(reminderRequest{
		ClientName: "Carlos",
		Service:    "Corte Social",
		Time:       "14:00",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/insights/reminder", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.GenerateReminder(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestGenerateReminder_CapabilityFailure(t *testing.T) {
	h := newTestHandler(t, &stubConsole{}, &stubReminder{err: context.DeadlineExceeded})

	body, _ := json.Marshal(reminderRequest{
		ClientName: "Carlos",
		Service:    "Corte Social",
		Time:       "14:00",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/insights/reminder", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.GenerateReminder(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadGateway)
	}
}

func TestRefreshInsights_Unavailable(t *testing.T) {
	console := &stubConsole{
		insightsErr: session.ErrInsightsUnavailable,
	}
	h := newTestHandler(t, console, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/insights", nil)
	rec := httptest.NewRecorder()

	h.RefreshInsights(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestSetClientDraft(t *testing.T) {
	console := &stubConsole{}
	h := newTestHandler(t, console, nil)

	body, _ := json.Marshal(session.ClientDraft{Name: "Carlos", Phone: "+551199990000"})

	req := httptest.NewRequest(http.MethodPost, "/api/session/draft/client", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.SetClientDraft(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if console.clientDraft.Name != "Carlos" {
		t.Fatalf("draft not stored: %+v", console.clientDraft)
	}
}

func TestRouterDeleteService(t *testing.T) {
	console := &stubConsole{}
	h := newTestHandler(t, console, nil)

	r := h.SetupRouter()

	req := httptest.NewRequest(http.MethodDelete, "/api/services/abc", nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}
