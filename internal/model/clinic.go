package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Clinic struct {
	ID                uuid.UUID   `json:"id"`
	Name              string      `json:"name"`
	RegisteredAddress string      `json:"registered_address"` // юридический адрес
	ActualAddress     string      `json:"actual_address"`     // фактический адрес
	IsDeleted         bool        `json:"is_deleted"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
	DoctorIDs         []uuid.UUID `json:"doctors"`
}

func (c *Clinic) String() string {
	return fmt.Sprintf("Клиника %s, Юридический адрес: %s, Фактический адрес: %s", c.Name, c.RegisteredAddress, c.ActualAddress)
}

// HasDoctor проверяет, входит ли врач в штат клиники
func (c *Clinic) HasDoctor(doctorID uuid.UUID) bool {
	for _, id := range c.DoctorIDs {
		if id == doctorID {
			return true
		}
	}
	return false
}
