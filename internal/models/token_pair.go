package models

import "time"

// TokenPair — пара токенов, выдаваемая при регистрации/входе/обновлении.
//
// Описание:
//   - AccessToken — короткоживущий JWT для доступа к API;
//   - RefreshToken — долгоживущий JWT, который клиент получает только
//     через HttpOnly-куку и предъявляет для выпуска новой пары;
//   - AccessExpiresAt — момент истечения access-токена (UTC).
//
// Серверного состояния у пары нет: отзыв refresh-токена — это его
// собственный срок действия.
type TokenPair struct {
	AccessToken     string
	RefreshToken    string
	AccessExpiresAt time.Time
}
