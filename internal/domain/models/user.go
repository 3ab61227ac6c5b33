package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Password  []byte    `json:"password" db:"password"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
