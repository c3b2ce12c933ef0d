package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/clinic_scheduler/internal/model"
	"github.com/Freeeeeet/clinic_scheduler/internal/repository/base"
	"github.com/google/uuid"
)

// ContactRepository реестр контактов person_contacts.
// Строки не удаляются при мягком удалении человека: email и телефон остаются занятыми.
type ContactRepository struct {
	*base.Repository
}

func NewContactRepository(db base.DBTX) *ContactRepository {
	return &ContactRepository{Repository: base.NewRepository(db)}
}

// FindConflicts ищет контакты других людей с тем же email или телефоном
func (r *ContactRepository) FindConflicts(ctx context.Context, email, phone string, exclude uuid.UUID) ([]model.Contact, error) {
	query := `
		SELECT person_id, person_kind, email, phone_number
		FROM person_contacts
		WHERE (email = $1 OR phone_number = $2) AND person_id <> $3
	`

	rows, err := r.Query(ctx, query, email, phone, exclude)
	if err != nil {
		return nil, fmt.Errorf("find contact conflicts: %w", err)
	}
	defer rows.Close()

	var contacts []model.Contact
	for rows.Next() {
		var contact model.Contact
		if err := rows.Scan(&contact.PersonID, &contact.Kind, &contact.Email, &contact.PhoneNumber); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}

	return contacts, rows.Err()
}

// Save создаёт или обновляет контакт человека.
// Уникальные индексы по email и телефону отклоняют конкурентные дубликаты.
func (r *ContactRepository) Save(ctx context.Context, contact model.Contact) error {
	query := `
		INSERT INTO person_contacts (person_id, person_kind, email, phone_number)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (person_id) DO UPDATE
		SET email = EXCLUDED.email, phone_number = EXCLUDED.phone_number
	`

	_, err := r.DB().Exec(ctx, query, contact.PersonID, contact.Kind, contact.Email, contact.PhoneNumber)
	if err != nil {
		return fmt.Errorf("save contact: %w", err)
	}

	return nil
}
