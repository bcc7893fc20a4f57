// storage задаёт контракт внешнего хранилища учётных записей.
// Сервис не кэширует записи дольше одной операции: каждая бизнес-операция
// делает не больше одного чтения/записи.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pribylovaa/pomodoro-backend/internal/models"
)

var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (email).
	ErrAlreadyExists = errors.New("already exists")
)

// UserStorage выполняет операции над пользователями.
// Реализация обязана быть потокобезопасной.
type UserStorage interface {
	// SaveUser создает нового пользователя.
	// Дубликат email (в том числе при гонке с параллельной регистрацией)
	// возвращается как ErrAlreadyExists.
	SaveUser(ctx context.Context, user *models.User) error
	// UserByEmail находит пользователя по email.
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UserByID находит пользователя по ID.
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Storage задает контракт работы с БД.
type Storage interface {
	UserStorage
	Close()
}
