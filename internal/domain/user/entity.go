// Package user содержит доменную модель пользователя и граф дружбы.
// Дружба — направленные рёбра со статусом: односторонняя заявка остаётся
// в состоянии pending, взаимность выводится из наличия обоих рёбер.
package user

import (
	"strings"
	"time"

	"github.com/practicum-go/filmorate/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// USER ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// User представляет пользователя сервиса.
type User struct {
	// ID — серверный идентификатор, 0 до первого сохранения.
	ID int64 `json:"id"`

	// Email — адрес электронной почты, должен содержать '@'.
	Email string `json:"email"`

	// Login — логин без пробелов, не может быть пустым.
	Login string `json:"login"`

	// Name — отображаемое имя. Пустое имя заменяется логином один раз,
	// при создании, а не при каждом чтении.
	Name string `json:"name"`

	// Birthday — дата рождения, не может быть в будущем.
	Birthday time.Time `json:"birthday"`

	// Friends — производное множество идентификаторов друзей: все B,
	// для которых существует ребро user → B (любой статус).
	// Заполняется сервисным слоем при чтении, не хранится.
	Friends []int64 `json:"friends,omitempty"`
}

// Validate проверяет инварианты пользователя на создании и обновлении.
func (u *User) Validate() error {
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return shared.ErrUserEmail
	}
	if u.Login == "" || strings.Contains(u.Login, " ") {
		return shared.ErrUserLogin
	}
	if u.Birthday.After(time.Now()) {
		return shared.ErrUserBirthday
	}
	return nil
}

// NormalizeName подставляет логин вместо пустого имени.
// Вызывается ровно один раз — при создании пользователя.
func (u *User) NormalizeName() {
	if strings.TrimSpace(u.Name) == "" {
		u.Name = u.Login
	}
}

// ApplyUpdate переносит изменяемые поля из payload, сохраняя идентификатор.
func (u *User) ApplyUpdate(payload *User) {
	u.Email = payload.Email
	u.Login = payload.Login
	u.Name = payload.Name
	u.Birthday = payload.Birthday
}
