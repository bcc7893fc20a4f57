package models

import (
	"time"

	"github.com/google/uuid"
)

// User — учётная запись пользователя.
// PasswordHash — это всегда bcrypt-хэш, никогда не исходный пароль;
// значение не должно попадать в логи и ответы API.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
