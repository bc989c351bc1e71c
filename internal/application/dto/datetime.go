package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/sales-dashboard-api/internal/domain/sales"
)

// LocalDateTimeLayout formato de fecha-hora sin zona del contrato JSON.
const LocalDateTimeLayout = "2006-01-02T15:04:05"

// LocalDateTime fecha-hora sin zona ("2024-01-15T10:30:00"). Internamente UTC.
type LocalDateTime struct {
	time.Time
}

// NewLocalDateTime envuelve t normalizado a UTC.
func NewLocalDateTime(t time.Time) LocalDateTime {
	return LocalDateTime{Time: t.UTC()}
}

// MarshalJSON serializa con LocalDateTimeLayout.
func (d LocalDateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.UTC().Format(LocalDateTimeLayout))
}

// UnmarshalJSON acepta los mismos formatos que los filtros de fecha.
func (d *LocalDateTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("fecha-hora: se esperaba string: %w", err)
	}
	t, _, err := sales.ParseTimestamp(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}
