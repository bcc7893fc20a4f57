package service

import (
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash — валидный bcrypt-хэш, против которого выполняется холостая
// проверка пароля, когда пользователь не найден. Ветка "нет пользователя"
// и ветка "неверный пароль" должны занимать сопоставимое время, иначе по
// задержке ответа можно перебирать занятые email.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// hashPassword хэширует пароль с помощью bcrypt.
// Пустой пароль — ошибка вызывающего, а не повод хэшировать пустую строку.
func hashPassword(password string) (string, error) {
	const op = "service.password.hashPassword"

	if password == "" {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyPassword)
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(bytes), nil
}

// checkPassword сравнивает пароль с хэшем.
// Возвращает только bool: битый хэш или пустые аргументы — это false,
// не ошибка. Сравнение внутри bcrypt выполняется за постоянное время.
func checkPassword(hash, password string) bool {
	if hash == "" || password == "" {
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// equalizeTiming выполняет холостое bcrypt-сравнение на ветке
// "пользователь не найден".
func equalizeTiming(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
}

// validatePassword проверяет минимальные требования к паролю.
// Политика по умолчанию: длина >= 8, хотя бы одна строчная, заглавная,
// цифра и спецсимвол.
func validatePassword(pw string) error {
	const op = "service.password.validatePassword"

	if len(pw) == 0 {
		return fmt.Errorf("%s: %w", op, ErrEmptyPassword)
	}

	if len([]rune(pw)) < 8 {
		return fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if !(hasLower && hasUpper && hasDigit && hasSpecial) {
		return fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	return nil
}
