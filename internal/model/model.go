// Package model содержит доменные сущности барбершоп-консоли.
package model

// Client представляет клиента барбершопа.
type Client struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Email         string `json:"email,omitempty"`
	LastVisit     string `json:"lastVisit,omitempty"`
	LoyaltyPoints int    `json:"loyaltyPoints"`
	Notes         string `json:"notes,omitempty"`
}

// Service описывает услугу из каталога барбершопа.
type Service struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Duration    int     `json:"duration"` // в минутах
	Description string  `json:"description,omitempty"`
}

// AppointmentStatus описывает статус записи.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Appointment описывает запись клиента на услугу.
// ClientName, Service и Price — снимки на момент создания записи:
// последующие изменения или удаление клиента и услуги их не затрагивают.
type Appointment struct {
	ID         string            `json:"id"`
	ClientID   string            `json:"clientId"`
	ClientName string            `json:"clientName"`
	ServiceID  string            `json:"serviceId"`
	Service    string            `json:"service"`
	Date       string            `json:"date"` // YYYY-MM-DD
	Time       string            `json:"time"` // HH:MM
	Status     AppointmentStatus `json:"status"`
	Price      float64           `json:"price"`
}

// Stats содержит агрегированные показатели панели управления.
// Значения всегда вычисляются заново по загруженным спискам и нигде не хранятся.
type Stats struct {
	TotalRevenue     float64 `json:"totalRevenue"`
	AppointmentCount int     `json:"appointmentCount"`
	ClientCount      int     `json:"clientCount"`
	ServiceCount     int     `json:"serviceCount"`
}
