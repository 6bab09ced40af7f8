package user

import "time"

// ══════════════════════════════════════════════════════════════════════════════
// FRIENDSHIP STATUS
// ══════════════════════════════════════════════════════════════════════════════

// FriendshipStatus определяет статус направленного ребра дружбы.
type FriendshipStatus string

const (
	// StatusPending — заявка отправлена, встречное ребро отсутствует
	// либо дружба перестала быть взаимной.
	StatusPending FriendshipStatus = "pending"

	// StatusApproved — дружба взаимно подтверждена: оба ребра существуют.
	StatusApproved FriendshipStatus = "approved"
)

// IsValid проверяет корректность статуса.
func (s FriendshipStatus) IsValid() bool {
	return s == StatusPending || s == StatusApproved
}

// ══════════════════════════════════════════════════════════════════════════════
// FRIENDSHIP EDGE
// ══════════════════════════════════════════════════════════════════════════════

// FriendshipEdge — направленное ребро user → friend со статусом.
//
// Ребро A→B не зависит от ребра B→A: модель допускает одностороннее
// "слежение" как промежуточное состояние. Взаимная дружба — производное
// условие (оба ребра существуют), а не третий хранимый статус; тег на
// ребре лишь позволяет ответить «подтверждена ли дружба» без просмотра
// обратного направления.
type FriendshipEdge struct {
	UserID    int64            `json:"userId"`
	FriendID  int64            `json:"friendId"`
	Status    FriendshipStatus `json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
}

// NewFriendshipEdge создаёт ребро-заявку в статусе pending.
func NewFriendshipEdge(userID, friendID int64) *FriendshipEdge {
	return &FriendshipEdge{
		UserID:    userID,
		FriendID:  friendID,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
}

// IsApproved возвращает true для подтверждённого ребра.
func (e *FriendshipEdge) IsApproved() bool {
	return e.Status == StatusApproved
}
