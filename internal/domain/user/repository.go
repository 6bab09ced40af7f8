package user

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY CONTRACTS
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет контракт хранилища пользователей.
// Семантика отсутствия записи та же, что и у фильмов: Find возвращает
// (nil, false, nil), а не ошибку.
type Repository interface {
	// Save сохраняет нового пользователя и присваивает идентификатор.
	Save(ctx context.Context, u *User) (*User, error)

	// Find возвращает пользователя по идентификатору.
	Find(ctx context.Context, id int64) (*User, bool, error)

	// GetAll возвращает всех пользователей.
	GetAll(ctx context.Context) ([]*User, error)

	// Update заменяет изменяемые поля существующего пользователя.
	Update(ctx context.Context, u *User) error

	// Delete удаляет пользователя. Рёбра лайков и дружбы удаляются каскадно.
	Delete(ctx context.Context, id int64) error
}

// FriendshipRepository поддерживает направленные рёбра дружбы.
//
// Переходы состояний (promote/demote) выполняет сервисный слой; хранилище
// предоставляет только примитивы над отдельными рёбрами и выборки.
type FriendshipRepository interface {
	// AddEdge создаёт ребро user → friend в статусе pending.
	// Если ребро уже существует — no-op (статус не сбрасывается).
	AddEdge(ctx context.Context, userID, friendID int64) error

	// RemoveEdge удаляет ребро user → friend. Возвращает true, если
	// ребро существовало. Удаление отсутствующего ребра — no-op.
	RemoveEdge(ctx context.Context, userID, friendID int64) (bool, error)

	// Edge возвращает ребро user → friend вместе со статусом.
	// Второе значение — признак наличия ребра.
	Edge(ctx context.Context, userID, friendID int64) (*FriendshipEdge, bool, error)

	// SetStatus выставляет статус существующего ребра user → friend.
	SetStatus(ctx context.Context, userID, friendID int64, status FriendshipStatus) error

	// FriendIDs возвращает идентификаторы всех friend, для которых
	// существует ребро user → friend (любой статус).
	FriendIDs(ctx context.Context, userID int64) ([]int64, error)

	// CommonFriendIDs возвращает пересечение FriendIDs(a) и FriendIDs(b)
	// без дубликатов. Порядок не специфицирован.
	CommonFriendIDs(ctx context.Context, a, b int64) ([]int64, error)
}
