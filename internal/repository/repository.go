// Package repository содержит типизированный CRUD поверх хранилища записей.
//
// Каждая коллекция читается и записывается целиком: операция изменения —
// это цикл read-modify-write полного снимка. Хранилище не даёт взаимного
// исключения, поэтому изменения одной коллекции сериализуются мьютексом
// на уровне репозитория. Ссылочная целостность между записями и
// клиентами/услугами не поддерживается: удаление услуги не трогает
// существующие записи, их снимки цены и имён остаются как на момент
// создания.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/mmeshcher/barbershop-system/internal/model"
	"github.com/mmeshcher/barbershop-system/internal/store"
)

// ErrClientNotFound возвращается, если клиент не найден среди загруженных.
var (
	ErrClientNotFound = errors.New("client not found")
	// ErrServiceNotFound возвращается, если услуга не найдена среди загруженных.
	ErrServiceNotFound = errors.New("service not found")
)

// Записи каталога, создаваемые при первом обращении к пустому слоту услуг.
var seedServices = []model.Service{
	{ID: "1", Name: "Corte Social", Price: 45, Duration: 40},
	{ID: "2", Name: "Barba Premium", Price: 35, Duration: 30},
	{ID: "3", Name: "Combo (Corte + Barba)", Price: 70, Duration: 60},
}

// Repository предоставляет типизированный доступ к коллекциям
// клиентов, услуг и записей.
type Repository struct {
	store store.Store

	clientsMu      sync.Mutex
	servicesMu     sync.Mutex
	appointmentsMu sync.Mutex
}

// New создаёт репозиторий поверх указанного хранилища записей.
func New(s store.Store) *Repository {
	return &Repository{store: s}
}

// Close закрывает нижележащее хранилище.
func (r *Repository) Close() error {
	return r.store.Close()
}

// ListClients возвращает всех клиентов в порядке добавления.
func (r *Repository) ListClients(ctx context.Context) ([]model.Client, error) {
	return readSlot[model.Client](ctx, r.store, store.SlotClients)
}

// CreateClient добавляет клиента и возвращает его с новым идентификатором.
// Отрицательные бонусные баллы приводятся к нулю.
func (r *Repository) CreateClient(ctx context.Context, c model.Client) (model.Client, error) {
	r.clientsMu.Lock()
	defer r.clientsMu.Unlock()

	clients, err := readSlot[model.Client](ctx, r.store, store.SlotClients)
	if err != nil {
		return model.Client{}, err
	}

	c.ID = uuid.NewString()
	if c.LoyaltyPoints < 0 {
		c.LoyaltyPoints = 0
	}

	clients = append(clients, c)
	if err := writeSlot(ctx, r.store, store.SlotClients, clients); err != nil {
		return model.Client{}, err
	}

	return c, nil
}

// ListServices возвращает каталог услуг. Если слот услуг ещё ни разу не
// записывался, он атомарно заполняется тремя услугами по умолчанию.
// Повреждённый слот каталог заново не заполняет: слот уже записывался,
// и повторный посев воскресил бы удалённые услуги.
func (r *Repository) ListServices(ctx context.Context) ([]model.Service, error) {
	r.servicesMu.Lock()
	defer r.servicesMu.Unlock()

	return r.listServicesLocked(ctx)
}

// listServicesLocked выполняет чтение и посев каталога; servicesMu должен
// удерживаться вызывающей стороной.
func (r *Repository) listServicesLocked(ctx context.Context) ([]model.Service, error) {
	data, ok, err := r.store.Read(ctx, store.SlotServices)
	if err != nil {
		return nil, err
	}

	if !ok {
		if err := writeSlot(ctx, r.store, store.SlotServices, seedServices); err != nil {
			return nil, err
		}
		out := make([]model.Service, len(seedServices))
		copy(out, seedServices)
		return out, nil
	}

	var services []model.Service
	if err := json.Unmarshal(data, &services); err != nil {
		return nil, nil
	}
	return services, nil
}

// CreateService добавляет услугу в каталог и возвращает её с новым идентификатором.
func (r *Repository) CreateService(ctx context.Context, s model.Service) (model.Service, error) {
	r.servicesMu.Lock()
	defer r.servicesMu.Unlock()

	services, err := r.listServicesLocked(ctx)
	if err != nil {
		return model.Service{}, err
	}

	s.ID = uuid.NewString()

	services = append(services, s)
	if err := writeSlot(ctx, r.store, store.SlotServices, services); err != nil {
		return model.Service{}, err
	}

	return s, nil
}

// DeleteService удаляет услугу из каталога. Удаление отсутствующего
// идентификатора — тихий no-op. Проверки существующих записей на эту услугу
// нет: их снимки остаются действительными.
func (r *Repository) DeleteService(ctx context.Context, id string) error {
	r.servicesMu.Lock()
	defer r.servicesMu.Unlock()

	services, err := r.listServicesLocked(ctx)
	if err != nil {
		return err
	}

	filtered := services[:0:0]
	for _, s := range services {
		if s.ID != id {
			filtered = append(filtered, s)
		}
	}

	if len(filtered) == len(services) {
		return nil
	}

	return writeSlot(ctx, r.store, store.SlotServices, filtered)
}

// ListAppointments возвращает все записи в порядке добавления.
func (r *Repository) ListAppointments(ctx context.Context) ([]model.Appointment, error) {
	return readSlot[model.Appointment](ctx, r.store, store.SlotAppointments)
}

// CreateAppointment сохраняет запись и возвращает её с новым идентификатором.
// Поля ClientName, Service и Price должны быть уже заполнены вызывающей
// стороной по разрешённым ссылкам; пустой статус приводится к scheduled.
func (r *Repository) CreateAppointment(ctx context.Context, a model.Appointment) (model.Appointment, error) {
	r.appointmentsMu.Lock()
	defer r.appointmentsMu.Unlock()

	appointments, err := readSlot[model.Appointment](ctx, r.store, store.SlotAppointments)
	if err != nil {
		return model.Appointment{}, err
	}

	a.ID = uuid.NewString()
	if a.Status == "" {
		a.Status = model.StatusScheduled
	}

	appointments = append(appointments, a)
	if err := writeSlot(ctx, r.store, store.SlotAppointments, appointments); err != nil {
		return model.Appointment{}, err
	}

	return a, nil
}

// DeleteAppointment удаляет запись. Удаление отсутствующего
// идентификатора — тихий no-op.
func (r *Repository) DeleteAppointment(ctx context.Context, id string) error {
	r.appointmentsMu.Lock()
	defer r.appointmentsMu.Unlock()

	appointments, err := readSlot[model.Appointment](ctx, r.store, store.SlotAppointments)
	if err != nil {
		return err
	}

	filtered := appointments[:0:0]
	for _, a := range appointments {
		if a.ID != id {
			filtered = append(filtered, a)
		}
	}

	if len(filtered) == len(appointments) {
		return nil
	}

	return writeSlot(ctx, r.store, store.SlotAppointments, filtered)
}

// readSlot читает полный снимок коллекции. Отсутствующий слот — пустая
// коллекция; повреждённое содержимое также трактуется как пустая коллекция,
// чтобы один испорченный слот не блокировал всю консоль.
func readSlot[T any](ctx context.Context, s store.Store, name string) ([]T, error) {
	data, ok, err := s.Read(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if !ok {
		return nil, nil
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, nil
	}
	return records, nil
}

func writeSlot[T any](ctx context.Context, s store.Store, name string, records []T) error {
	if records == nil {
		records = []T{}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	if err := s.Write(ctx, name, data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	return nil
}
