package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Виды токенов. Refresh-токен с kind=access (и наоборот) недействителен:
// короткоживущий access нельзя предъявить как долгоживущий refresh.
const (
	tokenKindAccess  = "access"
	tokenKindRefresh = "refresh"
)

// tokenClaims — полезная нагрузка обоих видов токенов.
// Клиент видит токен как непрозрачную строку; контракт наружу —
// поля "id" и "exp". Поле "jti" (RegisteredClaims.ID) делает каждый
// выпущенный токен уникальным даже в пределах одной секунды.
type tokenClaims struct {
	UserID string `json:"id"`
	Kind   string `json:"kind"`
	jwt.RegisteredClaims
}

// newSignedToken выпускает подписанный токен заданного вида.
func (s *Service) newSignedToken(userID uuid.UUID, kind string, ttl time.Duration, now time.Time) (string, error) {
	const op = "service.token.newSignedToken"

	claims := tokenClaims{
		UserID: userID.String(),
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// generateAccessToken выпускает access-токен.
func (s *Service) generateAccessToken(userID uuid.UUID, now time.Time) (string, error) {
	return s.newSignedToken(userID, tokenKindAccess, s.cfg.AccessTokenTTL, now)
}

// generateRefreshToken выпускает refresh-токен.
func (s *Service) generateRefreshToken(userID uuid.UUID, now time.Time) (string, error) {
	return s.newSignedToken(userID, tokenKindRefresh, s.cfg.RefreshTokenTTL, now)
}

// parseToken валидирует токен и возвращает subject.
// Проверка — чистая функция от (токен, текущее время, секрет):
//   - не парсится/битая подпись/чужой алгоритм -> ErrInvalidToken;
//   - истёк -> ErrTokenExpired (независимо от подписи дальше не смотрим);
//   - подписан, но subject отсутствует -> ErrTokenMissingSubject;
//   - вид токена не совпал с ожидаемым -> ErrInvalidToken.
func (s *Service) parseToken(tokenStr, wantKind string) (uuid.UUID, error) {
	const op = "service.token.parseToken"

	token, err := jwt.ParseWithClaims(tokenStr, &tokenClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return []byte(s.cfg.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if claims.UserID == "" {
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrTokenMissingSubject)
	}

	if claims.Kind != wantKind {
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return uid, nil
}
