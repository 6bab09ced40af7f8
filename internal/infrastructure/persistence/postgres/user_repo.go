package postgres

import (
	"context"
	"fmt"

	"github.com/practicum-go/filmorate/internal/domain/shared"
	"github.com/practicum-go/filmorate/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// USER REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// UserRepository implements user.Repository backed by PostgreSQL.
type UserRepository struct {
	conn *Connection
}

// NewUserRepository creates a PostgreSQL user repository.
func NewUserRepository(conn *Connection) *UserRepository {
	return &UserRepository{conn: conn}
}

// Save inserts a new user and assigns its identifier.
func (r *UserRepository) Save(ctx context.Context, u *user.User) (*user.User, error) {
	query := `
		INSERT INTO users (email, login, name, birthday)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.conn.QueryRow(ctx, query,
		u.Email,
		u.Login,
		u.Name,
		u.Birthday,
	).Scan(&u.ID)
	if err != nil {
		return nil, shared.WrapError("user", "Save", shared.ErrStorageOperationFailed, "failed to insert user", err)
	}

	return u, nil
}

// Find returns a user by identifier. The second value reports presence.
func (r *UserRepository) Find(ctx context.Context, id int64) (*user.User, bool, error) {
	query := `
		SELECT id, email, login, name, birthday
		FROM users
		WHERE id = $1
	`

	u := &user.User{}
	err := r.conn.QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.Email,
		&u.Login,
		&u.Name,
		&u.Birthday,
	)
	if IsNoRows(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, shared.WrapError("user", "Find", shared.ErrStorageOperationFailed, "failed to query user", err)
	}

	return u, true, nil
}

// GetAll returns all users ordered by identifier.
func (r *UserRepository) GetAll(ctx context.Context) ([]*user.User, error) {
	query := `
		SELECT id, email, login, name, birthday
		FROM users
		ORDER BY id
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, shared.WrapError("user", "GetAll", shared.ErrStorageOperationFailed, "failed to query users", err)
	}
	defer rows.Close()

	users := make([]*user.User, 0)
	for rows.Next() {
		u := &user.User{}
		if err := rows.Scan(&u.ID, &u.Email, &u.Login, &u.Name, &u.Birthday); err != nil {
			return nil, shared.WrapError("user", "GetAll", shared.ErrStorageOperationFailed, "failed to scan user row", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, shared.WrapError("user", "GetAll", shared.ErrStorageOperationFailed, "row iteration failed", err)
	}

	return users, nil
}

// Update replaces the mutable fields of an existing user.
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users
		SET email = $2, login = $3, name = $4, birthday = $5, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.conn.Exec(ctx, query, u.ID, u.Email, u.Login, u.Name, u.Birthday)
	if err != nil {
		return shared.WrapError("user", "Update", shared.ErrStorageOperationFailed, "failed to update user", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NewDomainError("user", "Update", shared.ErrStorageOperationFailed,
			fmt.Sprintf("no rows affected for user %d", u.ID))
	}

	return nil
}

// Delete removes a user. Like and friendship edges cascade.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return shared.WrapError("user", "Delete", shared.ErrStorageOperationFailed, "failed to delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NewDomainError("user", "Delete", shared.ErrStorageOperationFailed,
			fmt.Sprintf("no rows affected for user %d", id))
	}

	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// FRIENDSHIP REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// FriendshipRepository implements user.FriendshipRepository backed by
// PostgreSQL. The service layer owns the pending/approved state machine;
// this type only provides edge primitives and set queries.
type FriendshipRepository struct {
	conn *Connection
}

// NewFriendshipRepository creates a PostgreSQL friendship repository.
func NewFriendshipRepository(conn *Connection) *FriendshipRepository {
	return &FriendshipRepository{conn: conn}
}

// AddEdge inserts a pending edge user → friend. An existing edge keeps
// its status.
func (r *FriendshipRepository) AddEdge(ctx context.Context, userID, friendID int64) error {
	query := `
		INSERT INTO friendships (user_id, friend_id, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, friend_id) DO NOTHING
	`

	if _, err := r.conn.Exec(ctx, query, userID, friendID, string(user.StatusPending)); err != nil {
		return shared.WrapError("friendship", "AddEdge", shared.ErrStorageOperationFailed, "failed to insert friendship edge", err)
	}

	return nil
}

// RemoveEdge deletes the edge user → friend and reports whether it existed.
func (r *FriendshipRepository) RemoveEdge(ctx context.Context, userID, friendID int64) (bool, error) {
	query := `DELETE FROM friendships WHERE user_id = $1 AND friend_id = $2`

	tag, err := r.conn.Exec(ctx, query, userID, friendID)
	if err != nil {
		return false, shared.WrapError("friendship", "RemoveEdge", shared.ErrStorageOperationFailed, "failed to delete friendship edge", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Edge returns the edge user → friend along with its status.
func (r *FriendshipRepository) Edge(ctx context.Context, userID, friendID int64) (*user.FriendshipEdge, bool, error) {
	query := `
		SELECT user_id, friend_id, status, created_at
		FROM friendships
		WHERE user_id = $1 AND friend_id = $2
	`

	edge := &user.FriendshipEdge{}
	var status string
	err := r.conn.QueryRow(ctx, query, userID, friendID).Scan(
		&edge.UserID,
		&edge.FriendID,
		&status,
		&edge.CreatedAt,
	)
	if IsNoRows(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, shared.WrapError("friendship", "Edge", shared.ErrStorageOperationFailed, "failed to query friendship edge", err)
	}

	edge.Status = user.FriendshipStatus(status)
	return edge, true, nil
}

// SetStatus updates the status of an existing edge user → friend.
func (r *FriendshipRepository) SetStatus(ctx context.Context, userID, friendID int64, status user.FriendshipStatus) error {
	query := `UPDATE friendships SET status = $3 WHERE user_id = $1 AND friend_id = $2`

	tag, err := r.conn.Exec(ctx, query, userID, friendID, string(status))
	if err != nil {
		return shared.WrapError("friendship", "SetStatus", shared.ErrStorageOperationFailed, "failed to update friendship status", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NewDomainError("friendship", "SetStatus", shared.ErrStorageOperationFailed,
			fmt.Sprintf("no edge %d -> %d to update", userID, friendID))
	}

	return nil
}

// FriendIDs returns the identifiers of every friend the user has an edge
// to, any status, in ascending order.
func (r *FriendshipRepository) FriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	query := `SELECT friend_id FROM friendships WHERE user_id = $1 ORDER BY friend_id`

	rows, err := r.conn.Query(ctx, query, userID)
	if err != nil {
		return nil, shared.WrapError("friendship", "FriendIDs", shared.ErrStorageOperationFailed, "failed to query friend ids", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, shared.WrapError("friendship", "FriendIDs", shared.ErrStorageOperationFailed, "failed to scan friend id", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, shared.WrapError("friendship", "FriendIDs", shared.ErrStorageOperationFailed, "row iteration failed", err)
	}

	return ids, nil
}

// CommonFriendIDs returns the intersection of both users' friend sets.
func (r *FriendshipRepository) CommonFriendIDs(ctx context.Context, a, b int64) ([]int64, error) {
	query := `
		SELECT f1.friend_id
		FROM friendships f1
		JOIN friendships f2 ON f1.friend_id = f2.friend_id
		WHERE f1.user_id = $1 AND f2.user_id = $2
		ORDER BY f1.friend_id
	`

	rows, err := r.conn.Query(ctx, query, a, b)
	if err != nil {
		return nil, shared.WrapError("friendship", "CommonFriendIDs", shared.ErrStorageOperationFailed, "failed to query common friends", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, shared.WrapError("friendship", "CommonFriendIDs", shared.ErrStorageOperationFailed, "failed to scan friend id", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, shared.WrapError("friendship", "CommonFriendIDs", shared.ErrStorageOperationFailed, "row iteration failed", err)
	}

	return ids, nil
}
