// Package validation содержит функции валидации входных данных.
package validation

import "time"

// IsValidDate проверяет дату записи в формате YYYY-MM-DD.
func IsValidDate(date string) bool {
	if date == "" {
		return false
	}

	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

// IsValidTime проверяет время записи в формате HH:MM.
func IsValidTime(clock string) bool {
	if clock == "" {
		return false
	}

	_, err := time.Parse("15:04", clock)
	return err == nil
}
