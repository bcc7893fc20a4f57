// service содержит бизнес-логику аутентификации: регистрацию/вход
// пользователей, выпуск/проверку/ротацию токенов и работу с внешним
// хранилищем учётных записей через интерфейсы из пакета storage.
//
// Основные аспекты:
//   - Service не хранит состояние запроса; экземпляр безопасен для
//     конкурентного использования из разных горутин при условии, что
//     переданное хранилище (storage.Storage) потокобезопасно.
//   - Выпуск и проверка токенов — чистые функции от (токен, время,
//     секрет): без I/O и разделяемого изменяемого состояния.
//   - Ошибки возвращаются типизированными и далее маппятся HTTP-слоем
//     на статусы (см. комментарии к переменным ошибок ниже).
package service

import (
	"errors"

	"github.com/pribylovaa/pomodoro-backend/internal/config"
	"github.com/pribylovaa/pomodoro-backend/internal/storage"
)

var (
	// ErrInvalidCredentials — пароль не подошёл к найденной учётной записи.
	// HTTP-слой: 401.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound — учётная запись не существует (вход по неизвестному
	// email или subject refresh-токена указывает на удалённого пользователя).
	// HTTP-слой: 401 — наружу неотличимо от неверного пароля.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken — email уже занят другим пользователем. HTTP-слой: 409.
	ErrEmailTaken = errors.New("email already taken")

	// ErrInvalidToken — токен не парсится, подпись/алгоритм/вид токена
	// не совпадают с ожидаемыми. HTTP-слой: 401.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — срок действия токена истёк. HTTP-слой: 401.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenMissingSubject — в корректно подписанном токене отсутствует
	// subject; такой токен не считается частично валидным. HTTP-слой: 401.
	ErrTokenMissingSubject = errors.New("token missing subject")

	// ErrInvalidEmail — email имеет некорректный формат. HTTP-слой: 400.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrWeakPassword — пароль не удовлетворяет политике сложности.
	// HTTP-слой: 400.
	ErrWeakPassword = errors.New("password is too weak")

	// ErrEmptyPassword — пароль пустой. HTTP-слой: 400.
	ErrEmptyPassword = errors.New("password is empty")
)

// Service описывает бизнес-логику аутентификации.
type Service struct {
	storage storage.Storage
	cfg     config.AuthConfig
}

// New создаёт новый экземпляр Service.
func New(storage storage.Storage, cfg config.AuthConfig) *Service {
	return &Service{
		storage: storage,
		cfg:     cfg,
	}
}
