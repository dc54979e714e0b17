// Package store содержит хранилище записей: именованные слоты,
// каждый из которых хранит полный снимок одной коллекции.
package store

import "context"

// Имена слотов хранилища. Каждый слот хранит JSON-массив записей целиком.
const (
	SlotClients      = "clients"
	SlotServices     = "services"
	SlotAppointments = "appointments"
)

// Store описывает контракт хранилища записей. Чтение возвращает полный
// снимок слота; ok=false означает, что слот ещё ни разу не записывался.
// Запись заменяет содержимое слота целиком — инкрементального добавления
// на этом уровне нет, вызывающая сторона выполняет цикл read-modify-write.
// Взаимного исключения этот уровень не предоставляет.
type Store interface {
	Read(ctx context.Context, name string) (data []byte, ok bool, err error)
	Write(ctx context.Context, name string, data []byte) error
	Close() error
}
