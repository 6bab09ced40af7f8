package memory

import (
	"context"
	"sort"

	"github.com/practicum-go/filmorate/internal/domain/shared"
	"github.com/practicum-go/filmorate/internal/domain/user"
)

// ─────────────────────────────────────────────────────────────────────────────
// USER REPOSITORY
// ─────────────────────────────────────────────────────────────────────────────

type userRepo struct {
	s *Store
}

func (r *userRepo) Save(ctx context.Context, u *user.User) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := *u
	stored.ID = r.s.nextUserID()
	r.s.userIDFloor = stored.ID
	r.s.users[stored.ID] = stored

	result := stored
	return &result, nil
}

func (r *userRepo) Find(ctx context.Context, id int64) (*user.User, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, false, nil
	}
	result := u
	return &result, true, nil
}

func (r *userRepo) GetAll(ctx context.Context) ([]*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*user.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		u := u
		result = append(result, &u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *userRepo) Update(ctx context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[u.ID]; !ok {
		return shared.WrapError("user", "Update", shared.ErrStorageOperationFailed, "no rows affected", nil)
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.users, id)

	// Eager cascade: likes by this user and friendship edges touching
	// this user in either direction.
	for key := range r.s.likes {
		if key.UserID == id {
			delete(r.s.likes, key)
		}
	}
	for key := range r.s.friendships {
		if key.UserID == id || key.FriendID == id {
			delete(r.s.friendships, key)
		}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// FRIENDSHIP GRAPH
// ─────────────────────────────────────────────────────────────────────────────

type friendshipRepo struct {
	s *Store
}

func (r *friendshipRepo) AddEdge(ctx context.Context, userID, friendID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := edgeKey{UserID: userID, FriendID: friendID}
	if _, ok := r.s.friendships[key]; ok {
		return nil // idempotent: an existing edge keeps its status
	}
	r.s.friendships[key] = *user.NewFriendshipEdge(userID, friendID)
	return nil
}

func (r *friendshipRepo) RemoveEdge(ctx context.Context, userID, friendID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := edgeKey{UserID: userID, FriendID: friendID}
	if _, ok := r.s.friendships[key]; !ok {
		return false, nil
	}
	delete(r.s.friendships, key)
	return true, nil
}

func (r *friendshipRepo) Edge(ctx context.Context, userID, friendID int64) (*user.FriendshipEdge, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	edge, ok := r.s.friendships[edgeKey{UserID: userID, FriendID: friendID}]
	if !ok {
		return nil, false, nil
	}
	result := edge
	return &result, true, nil
}

func (r *friendshipRepo) SetStatus(ctx context.Context, userID, friendID int64, status user.FriendshipStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := edgeKey{UserID: userID, FriendID: friendID}
	edge, ok := r.s.friendships[key]
	if !ok {
		return shared.WrapError("friendship", "SetStatus", shared.ErrStorageOperationFailed, "no rows affected", nil)
	}
	edge.Status = status
	r.s.friendships[key] = edge
	return nil
}

func (r *friendshipRepo) FriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var ids []int64
	for key := range r.s.friendships {
		if key.UserID == userID {
			ids = append(ids, key.FriendID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *friendshipRepo) CommonFriendIDs(ctx context.Context, a, b int64) ([]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	mine := make(map[int64]bool)
	for key := range r.s.friendships {
		if key.UserID == a {
			mine[key.FriendID] = true
		}
	}

	var common []int64
	for key := range r.s.friendships {
		if key.UserID == b && mine[key.FriendID] {
			common = append(common, key.FriendID)
		}
	}
	sort.Slice(common, func(i, j int) bool { return common[i] < common[j] })
	return common, nil
}
