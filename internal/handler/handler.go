// Package handler содержит HTTP-обработчики барбершоп-консоли.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mmeshcher/barbershop-system/internal/model"
	"github.com/mmeshcher/barbershop-system/internal/repository"
	"github.com/mmeshcher/barbershop-system/internal/session"
)

// Console определяет контракт сессии консоли, используемый HTTP-обработчиками.
type Console interface {
	Load(ctx context.Context)
	Snapshot() session.State
	Stats() model.Stats
	SetView(v session.View) error
	OpenModal(m session.Modal) error
	CloseModal()
	Clients() []model.Client
	Services() []model.Service
	Appointments() []model.Appointment
	AddClient(ctx context.Context, draft session.ClientDraft) (model.Client, error)
	AddService(ctx context.Context, draft session.ServiceDraft) (model.Service, error)
	AddAppointment(ctx context.Context, draft session.AppointmentDraft) (model.Appointment, error)
	RemoveService(ctx context.Context, id string) error
	RemoveAppointment(ctx context.Context, id string) error
	SetClientDraft(d session.ClientDraft)
	SetServiceDraft(d session.ServiceDraft)
	SetAppointmentDraft(d session.AppointmentDraft)
	RefreshInsights(ctx context.Context) ([]string, error)
}

// ReminderSource определяет контракт генерации текста напоминания.
type ReminderSource interface {
	GenerateReminder(ctx context.Context, clientName, service, clock string) (string, error)
}

// Handler реализует HTTP-обработчики барбершоп-консоли.
type Handler struct {
	console  Console
	reminder ReminderSource
	logger   *zap.Logger
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
// reminder может быть nil, если генеративный API не настроен.
func NewHandler(console Console, reminder ReminderSource, logger *zap.Logger) *Handler {
	return &Handler{
		console:  console,
		reminder: reminder,
		logger:   logger,
	}
}

// GetSession возвращает снимок состояния сессии.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.console.Snapshot())
}

type viewRequest struct {
	View string `json:"view"`
}

// SetView переключает активное представление консоли.
func (h *Handler) SetView(w http.ResponseWriter, r *http.Request) {
	var req viewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.console.SetView(session.View(req.View)); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
}

type modalRequest struct {
	Modal string `json:"modal"`
}

// SetModal открывает указанное модальное окно либо закрывает текущее,
// если имя окна пустое.
func (h *Handler) SetModal(w http.ResponseWriter, r *http.Request) {
	var req modalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if req.Modal == "" {
		h.console.CloseModal()
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.console.OpenModal(session.Modal(req.Modal)); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// SetClientDraft сохраняет черновик формы клиента в состоянии сессии.
func (h *Handler) SetClientDraft(w http.ResponseWriter, r *http.Request) {
	var draft session.ClientDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	h.console.SetClientDraft(draft)
	w.WriteHeader(http.StatusOK)
}

// SetServiceDraft сохраняет черновик формы услуги в состоянии сессии.
func (h *Handler) SetServiceDraft(w http.ResponseWriter, r *http.Request) {
	var draft session.ServiceDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	h.console.SetServiceDraft(draft)
	w.WriteHeader(http.StatusOK)
}

// SetAppointmentDraft сохраняет черновик формы записи в состоянии сессии.
func (h *Handler) SetAppointmentDraft(w http.ResponseWriter, r *http.Request) {
	var draft session.AppointmentDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	h.console.SetAppointmentDraft(draft)
	w.WriteHeader(http.StatusOK)
}

// GetClients возвращает загруженный список клиентов.
func (h *Handler) GetClients(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.console.Clients())
}

// CreateClient сохраняет нового клиента.
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var draft session.ClientDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	created, err := h.console.AddClient(r.Context(), draft)
	if err != nil {
		if errors.Is(err, session.ErrInvalidDraft) {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		h.logger.Error("create client error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeJSONStatus(w, http.StatusCreated, created)
}

// GetServices возвращает загруженный каталог услуг.
func (h *Handler) GetServices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.console.Services())
}

// CreateService сохраняет новую услугу.
func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	var draft session.ServiceDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	created, err := h.console.AddService(r.Context(), draft)
	if err != nil {
		if errors.Is(err, session.ErrInvalidDraft) {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		h.logger.Error("create service error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeJSONStatus(w, http.StatusCreated, created)
}

// DeleteService удаляет услугу из каталога.
func (h *Handler) DeleteService(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.console.RemoveService(r.Context(), id); err != nil {
		h.logger.Error("delete service error", zap.Error(err), zap.String("id", id))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetAppointments возвращает загруженный список записей.
func (h *Handler) GetAppointments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.console.Appointments())
}

// CreateAppointment сохраняет новую запись по черновику формы.
func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var draft session.AppointmentDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	created, err := h.console.AddAppointment(r.Context(), draft)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrInvalidDraft):
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		case errors.Is(err, repository.ErrClientNotFound), errors.Is(err, repository.ErrServiceNotFound):
			http.Error(w, http.StatusText(http.StatusUnprocessableEntity), http.StatusUnprocessableEntity)
		default:
			h.logger.Error("create appointment error", zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	writeJSONStatus(w, http.StatusCreated, created)
}

// DeleteAppointment удаляет запись.
func (h *Handler) DeleteAppointment(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.console.RemoveAppointment(r.Context(), id); err != nil {
		h.logger.Error("delete appointment error", zap.Error(err), zap.String("id", id))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetStats возвращает показатели панели управления.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.console.Stats())
}

type reminderRequest struct {
	ClientName string `json:"clientName"`
	Service    string `json:"service"`
	Time       string `json:"time"`
}

type reminderResponse struct {
	Message string `json:"message"`
}

// GenerateReminder возвращает текст напоминания для клиента.
func (h *Handler) GenerateReminder(w http.ResponseWriter, r *http.Request) {
	if h.reminder == nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}

	var req reminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if req.ClientName == "" || req.Service == "" || req.Time == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	message, err := h.reminder.GenerateReminder(r.Context(), req.ClientName, req.Service, req.Time)
	if err != nil {
		h.logger.Error("generate reminder error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}

	writeJSON(w, reminderResponse{Message: message})
}

// RefreshInsights запрашивает бизнес-советы по загруженным записям.
func (h *Handler) RefreshInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.console.RefreshInsights(r.Context())
	if err != nil {
		if errors.Is(err, session.ErrInsightsUnavailable) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			return
		}
		h.logger.Error("refresh insights error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}

	writeJSON(w, insights)
}

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
