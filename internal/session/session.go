// Package session реализует состояние консоли: активное представление,
// открытое модальное окно, загруженные списки сущностей и черновики форм.
package session

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/mmeshcher/barbershop-system/internal/model"
	"github.com/mmeshcher/barbershop-system/internal/repository"
	"github.com/mmeshcher/barbershop-system/internal/validation"
)

// View описывает активное представление консоли.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewClients   View = "clients"
	ViewSchedule  View = "schedule"
	ViewServices  View = "services"
	ViewInsights  View = "ai_insights"
)

// Modal описывает открытое модальное окно.
type Modal string

const (
	ModalNone        Modal = ""
	ModalClient      Modal = "client"
	ModalService     Modal = "service"
	ModalAppointment Modal = "appointment"
)

// ErrInvalidDraft возвращается при попытке сохранить некорректный черновик формы.
var (
	ErrInvalidDraft = errors.New("invalid form draft")
	// ErrUnknownView возвращается при переключении на неизвестное представление.
	ErrUnknownView = errors.New("unknown view")
	// ErrUnknownModal возвращается при открытии неизвестного модального окна.
	ErrUnknownModal = errors.New("unknown modal")
	// ErrInsightsUnavailable возвращается, когда генеративный источник не настроен.
	ErrInsightsUnavailable = errors.New("insight source is not configured")
)

// ClientDraft — незафиксированный черновик формы клиента.
type ClientDraft struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	LoyaltyPoints int    `json:"loyaltyPoints"`
}

// ServiceDraft — незафиксированный черновик формы услуги.
type ServiceDraft struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Duration int     `json:"duration"`
}

// AppointmentDraft — незафиксированный черновик формы записи.
type AppointmentDraft struct {
	ClientID  string `json:"clientId"`
	ServiceID string `json:"serviceId"`
	Date      string `json:"date"`
	Time      string `json:"time"`
}

// Repository описывает контракт доступа к данным, используемый сессией.
type Repository interface {
	ListClients(ctx context.Context) ([]model.Client, error)
	CreateClient(ctx context.Context, c model.Client) (model.Client, error)
	ListServices(ctx context.Context) ([]model.Service, error)
	CreateService(ctx context.Context, s model.Service) (model.Service, error)
	DeleteService(ctx context.Context, id string) error
	ListAppointments(ctx context.Context) ([]model.Appointment, error)
	CreateAppointment(ctx context.Context, a model.Appointment) (model.Appointment, error)
	DeleteAppointment(ctx context.Context, id string) error
}

// InsightSource описывает внешний генеративный источник бизнес-советов.
type InsightSource interface {
	GetInsights(ctx context.Context, appointments []model.Appointment) ([]string, error)
}

// Session хранит состояние консоли и синхронизирует его с репозиторием.
// Загруженные списки — временная, возможно устаревшая копия данных:
// доверять им можно только сразу после перезагрузки.
type Session struct {
	repo     Repository
	insights InsightSource
	logger   *zap.Logger

	mu           sync.Mutex
	view         View
	modal        Modal
	loading      bool
	generation   uint64
	clients      []model.Client
	services     []model.Service
	appointments []model.Appointment
	aiInsights   []string

	clientDraft      ClientDraft
	serviceDraft     ServiceDraft
	appointmentDraft AppointmentDraft
}

// New создаёт сессию консоли. insights может быть nil — тогда
// представление советов сообщает о недоступности функции.
func New(repo Repository, insights InsightSource, logger *zap.Logger) *Session {
	return &Session{
		repo:     repo,
		insights: insights,
		logger:   logger,
		view:     ViewDashboard,
	}
}

// Load перезагружает все три списка из репозитория. Списки загружаются
// параллельно и независимо: сбой одного логируется, остальные применяются,
// консоль никогда не падает из-за неудачной загрузки. Устаревшая
// перезагрузка, завершившаяся после начала более новой, отбрасывается.
func (s *Session) Load(ctx context.Context) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.loading = true
	s.mu.Unlock()

	var (
		clients      []model.Client
		services     []model.Service
		appointments []model.Appointment
		clientsErr   error
		servicesErr  error
		aptsErr      error
	)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		clients, clientsErr = s.repo.ListClients(ctx)
	}()
	go func() {
		defer wg.Done()
		services, servicesErr = s.repo.ListServices(ctx)
	}()
	go func() {
		defer wg.Done()
		appointments, aptsErr = s.repo.ListAppointments(ctx)
	}()
	wg.Wait()

	if clientsErr != nil {
		s.logger.Error("load clients", zap.Error(clientsErr))
	}
	if servicesErr != nil {
		s.logger.Error("load services", zap.Error(servicesErr))
	}
	if aptsErr != nil {
		s.logger.Error("load appointments", zap.Error(aptsErr))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		// Пока шла эта перезагрузка, началась более новая — её результат свежее.
		return
	}

	if clientsErr == nil {
		s.clients = clients
	}
	if servicesErr == nil {
		s.services = services
	}
	if aptsErr == nil {
		s.appointments = appointments
	}
	s.loading = false
}

// AddClient сохраняет черновик клиента, перезагружает списки, закрывает
// модальное окно и очищает черновик.
func (s *Session) AddClient(ctx context.Context, draft ClientDraft) (model.Client, error) {
	if draft.Name == "" || draft.Phone == "" {
		return model.Client{}, ErrInvalidDraft
	}

	created, err := s.repo.CreateClient(ctx, model.Client{
		Name:          draft.Name,
		Phone:         draft.Phone,
		Email:         draft.Email,
		LoyaltyPoints: draft.LoyaltyPoints,
	})
	if err != nil {
		return model.Client{}, err
	}

	s.afterMutation(ctx)
	s.mu.Lock()
	s.clientDraft = ClientDraft{}
	s.mu.Unlock()

	return created, nil
}

// AddService сохраняет черновик услуги, перезагружает списки, закрывает
// модальное окно и очищает черновик.
func (s *Session) AddService(ctx context.Context, draft ServiceDraft) (model.Service, error) {
	if draft.Name == "" || draft.Price < 0 || draft.Duration <= 0 {
		return model.Service{}, ErrInvalidDraft
	}

	created, err := s.repo.CreateService(ctx, model.Service{
		Name:     draft.Name,
		Price:    draft.Price,
		Duration: draft.Duration,
	})
	if err != nil {
		return model.Service{}, err
	}

	s.afterMutation(ctx)
	s.mu.Lock()
	s.serviceDraft = ServiceDraft{}
	s.mu.Unlock()

	return created, nil
}

// AddAppointment разрешает ссылки черновика по уже загруженным спискам и
// сохраняет запись со снимками имени клиента, названия и цены услуги.
// Если клиент или услуга не найдены среди загруженных, запись не создаётся.
func (s *Session) AddAppointment(ctx context.Context, draft AppointmentDraft) (model.Appointment, error) {
	if !validation.IsValidDate(draft.Date) || !validation.IsValidTime(draft.Time) {
		return model.Appointment{}, ErrInvalidDraft
	}

	// Ссылки разрешаются по уже загруженным в память спискам,
	// без повторного чтения из хранилища.
	s.mu.Lock()
	var client model.Client
	var clientFound bool
	for _, c := range s.clients {
		if c.ID == draft.ClientID {
			client, clientFound = c, true
			break
		}
	}
	var service model.Service
	var serviceFound bool
	for _, svc := range s.services {
		if svc.ID == draft.ServiceID {
			service, serviceFound = svc, true
			break
		}
	}
	s.mu.Unlock()

	if !clientFound {
		return model.Appointment{}, repository.ErrClientNotFound
	}
	if !serviceFound {
		return model.Appointment{}, repository.ErrServiceNotFound
	}

	created, err := s.repo.CreateAppointment(ctx, model.Appointment{
		ClientID:   client.ID,
		ClientName: client.Name,
		ServiceID:  service.ID,
		Service:    service.Name,
		Date:       draft.Date,
		Time:       draft.Time,
		Status:     model.StatusScheduled,
		Price:      service.Price,
	})
	if err != nil {
		return model.Appointment{}, err
	}

	s.afterMutation(ctx)
	s.mu.Lock()
	s.appointmentDraft = AppointmentDraft{}
	s.mu.Unlock()

	return created, nil
}

// RemoveService удаляет услугу и перезагружает списки.
func (s *Session) RemoveService(ctx context.Context, id string) error {
	if err := s.repo.DeleteService(ctx, id); err != nil {
		return err
	}
	s.afterMutation(ctx)
	return nil
}

// RemoveAppointment удаляет запись и перезагружает списки.
func (s *Session) RemoveAppointment(ctx context.Context, id string) error {
	if err := s.repo.DeleteAppointment(ctx, id); err != nil {
		return err
	}
	s.afterMutation(ctx)
	return nil
}

// afterMutation выполняет общий цикл после успешного изменения: полная
// перезагрузка всех списков и закрытие открытого модального окна.
func (s *Session) afterMutation(ctx context.Context) {
	s.Load(ctx)

	s.mu.Lock()
	s.modal = ModalNone
	s.mu.Unlock()
}

// SetView переключает активное представление.
func (s *Session) SetView(v View) error {
	switch v {
	case ViewDashboard, ViewClients, ViewSchedule, ViewServices, ViewInsights:
	default:
		return ErrUnknownView
	}

	s.mu.Lock()
	s.view = v
	s.mu.Unlock()
	return nil
}

// OpenModal открывает модальное окно. Черновик соответствующей формы
// сохраняется в состоянии сессии до закрытия окна.
func (s *Session) OpenModal(m Modal) error {
	switch m {
	case ModalClient, ModalService, ModalAppointment:
	default:
		return ErrUnknownModal
	}

	s.mu.Lock()
	s.modal = m
	s.mu.Unlock()
	return nil
}

// CloseModal закрывает модальное окно и очищает черновик его формы.
func (s *Session) CloseModal() {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.modal {
	case ModalClient:
		s.clientDraft = ClientDraft{}
	case ModalService:
		s.serviceDraft = ServiceDraft{}
	case ModalAppointment:
		s.appointmentDraft = AppointmentDraft{}
	}
	s.modal = ModalNone
}

// SetClientDraft сохраняет черновик формы клиента.
func (s *Session) SetClientDraft(d ClientDraft) {
	s.mu.Lock()
	s.clientDraft = d
	s.mu.Unlock()
}

// SetServiceDraft сохраняет черновик формы услуги.
func (s *Session) SetServiceDraft(d ServiceDraft) {
	s.mu.Lock()
	s.serviceDraft = d
	s.mu.Unlock()
}

// SetAppointmentDraft сохраняет черновик формы записи.
func (s *Session) SetAppointmentDraft(d AppointmentDraft) {
	s.mu.Lock()
	s.appointmentDraft = d
	s.mu.Unlock()
}

// RefreshInsights запрашивает советы у генеративного источника по текущим
// загруженным записям. Сбой источника не затрагивает остальное состояние.
func (s *Session) RefreshInsights(ctx context.Context) ([]string, error) {
	if s.insights == nil {
		return nil, ErrInsightsUnavailable
	}

	s.mu.Lock()
	appointments := make([]model.Appointment, len(s.appointments))
	copy(appointments, s.appointments)
	s.mu.Unlock()

	insights, err := s.insights.GetInsights(ctx, appointments)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.aiInsights = insights
	s.mu.Unlock()

	return insights, nil
}

// Stats вычисляет показатели панели управления по загруженным спискам.
func (s *Session) Stats() model.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var revenue float64
	for _, a := range s.appointments {
		revenue += a.Price
	}

	return model.Stats{
		TotalRevenue:     revenue,
		AppointmentCount: len(s.appointments),
		ClientCount:      len(s.clients),
		ServiceCount:     len(s.services),
	}
}

// State — снимок состояния сессии для отображения.
type State struct {
	View             View                `json:"view"`
	Modal            Modal               `json:"modal"`
	Loading          bool                `json:"loading"`
	Clients          []model.Client      `json:"clients"`
	Services         []model.Service     `json:"services"`
	Appointments     []model.Appointment `json:"appointments"`
	Insights         []string            `json:"insights"`
	ClientDraft      ClientDraft         `json:"clientDraft"`
	ServiceDraft     ServiceDraft        `json:"serviceDraft"`
	AppointmentDraft AppointmentDraft    `json:"appointmentDraft"`
}

// Snapshot возвращает копию текущего состояния сессии.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		View:             s.view,
		Modal:            s.modal,
		Loading:          s.loading,
		Clients:          make([]model.Client, len(s.clients)),
		Services:         make([]model.Service, len(s.services)),
		Appointments:     make([]model.Appointment, len(s.appointments)),
		Insights:         make([]string, len(s.aiInsights)),
		ClientDraft:      s.clientDraft,
		ServiceDraft:     s.serviceDraft,
		AppointmentDraft: s.appointmentDraft,
	}
	copy(st.Clients, s.clients)
	copy(st.Services, s.services)
	copy(st.Appointments, s.appointments)
	copy(st.Insights, s.aiInsights)
	return st
}

// Clients возвращает копию загруженного списка клиентов.
func (s *Session) Clients() []model.Client {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Client, len(s.clients))
	copy(out, s.clients)
	return out
}

// Services возвращает копию загруженного каталога услуг.
func (s *Session) Services() []model.Service {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Service, len(s.services))
	copy(out, s.services)
	return out
}

// Appointments возвращает копию загруженного списка записей.
func (s *Session) Appointments() []model.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Appointment, len(s.appointments))
	copy(out, s.appointments)
	return out
}
