package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// Profile holds per-user presentation metadata. The photo itself lives outside
// the database; only the stored pointer is kept here.
type Profile struct {
	UserID    uuid.UUID
	PhotoPath string
	UpdatedAt time.Time
}
