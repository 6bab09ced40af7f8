package service

import (
	"context"

	"github.com/practicum-go/filmorate/internal/domain/shared"
	"github.com/practicum-go/filmorate/internal/domain/user"
	"github.com/practicum-go/filmorate/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// USER SERVICE
// ══════════════════════════════════════════════════════════════════════════════

// UserService реализует операции над пользователями и машину состояний
// дружбы поверх примитивов FriendshipRepository.
type UserService struct {
	users       user.Repository
	friendships user.FriendshipRepository
	log         *logger.Logger
}

// NewUserService создаёт UserService.
func NewUserService(users user.Repository, friendships user.FriendshipRepository, log *logger.Logger) *UserService {
	if log == nil {
		log = logger.Default()
	}
	return &UserService{
		users:       users,
		friendships: friendships,
		log:         log.With(logger.Component("user_service")),
	}
}

// GetAll возвращает всех пользователей.
func (s *UserService) GetAll(ctx context.Context) ([]*user.User, error) {
	return s.users.GetAll(ctx)
}

// GetByID возвращает пользователя по идентификатору.
func (s *UserService) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return s.userExistence(ctx, id)
}

// Create валидирует и сохраняет нового пользователя. Пустое имя
// заменяется логином здесь — один раз, а не при каждом чтении.
func (s *UserService) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	u.NormalizeName()

	saved, err := s.users.Save(ctx, u)
	if err != nil {
		return nil, err
	}
	s.log.Info("user created", logger.UserID(saved.ID))
	return saved, nil
}

// Update обновляет изменяемые поля пользователя. Неизвестный
// идентификатор — NotFound, и мутация не выполняется.
func (s *UserService) Update(ctx context.Context, payload *user.User) (*user.User, error) {
	if payload.ID == 0 {
		return nil, shared.NewDomainError("user", "Update", shared.ErrInvalidID, "user id is required")
	}

	existing, err := s.userExistence(ctx, payload.ID)
	if err != nil {
		return nil, err
	}

	existing.ApplyUpdate(payload)
	if err := existing.Validate(); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, existing); err != nil {
		return nil, err
	}
	s.log.Info("user updated", logger.UserID(existing.ID))
	return existing, nil
}

// Delete удаляет пользователя вместе с его рёбрами лайков и дружбы.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if _, err := s.userExistence(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("user deleted", logger.UserID(id))
	return nil
}

// AddFriend создаёт заявку userID → friendID. Если встречное ребро уже
// существует, оба ребра переводятся в approved — дружба стала взаимной.
// Повторная заявка — no-op. Возвращает пользователя с актуальным
// множеством друзей.
func (s *UserService) AddFriend(ctx context.Context, userID, friendID int64) (*user.User, error) {
	u, err := s.userExistence(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.userExistence(ctx, friendID); err != nil {
		return nil, err
	}

	if err := s.friendships.AddEdge(ctx, userID, friendID); err != nil {
		return nil, err
	}

	// Взаимное подтверждение: ребро только что создано (или уже было),
	// поэтому взаимность определяется наличием встречного ребра.
	if _, reverseExists, err := s.friendships.Edge(ctx, friendID, userID); err != nil {
		return nil, err
	} else if reverseExists {
		if err := s.friendships.SetStatus(ctx, userID, friendID, user.StatusApproved); err != nil {
			return nil, err
		}
		if err := s.friendships.SetStatus(ctx, friendID, userID, user.StatusApproved); err != nil {
			return nil, err
		}
		s.log.Info("friendship approved", logger.UserID(userID), logger.FriendID(friendID))
	} else {
		s.log.Info("friend request created", logger.UserID(userID), logger.FriendID(friendID))
	}

	if err := s.attachFriends(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteFriend удаляет ребро userID → friendID. Отсутствующее ребро —
// no-op. Если встречное ребро осталось, оно понижается до pending:
// у friendID всё ещё есть заявка к userID, хотя взаимности больше нет.
func (s *UserService) DeleteFriend(ctx context.Context, userID, friendID int64) (*user.User, error) {
	u, err := s.userExistence(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.userExistence(ctx, friendID); err != nil {
		return nil, err
	}

	removed, err := s.friendships.RemoveEdge(ctx, userID, friendID)
	if err != nil {
		return nil, err
	}
	if removed {
		if _, reverseExists, err := s.friendships.Edge(ctx, friendID, userID); err != nil {
			return nil, err
		} else if reverseExists {
			if err := s.friendships.SetStatus(ctx, friendID, userID, user.StatusPending); err != nil {
				return nil, err
			}
		}
		s.log.Info("friend removed", logger.UserID(userID), logger.FriendID(friendID))
	}

	if err := s.attachFriends(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Friends возвращает друзей пользователя: всех B с ребром userID → B
// любого статуса. Односторонняя заявка видна её автору — асимметрия
// намеренная. Идентификаторы, не разрешившиеся в записи, молча
// отбрасываются.
func (s *UserService) Friends(ctx context.Context, userID int64) ([]*user.User, error) {
	if _, err := s.userExistence(ctx, userID); err != nil {
		return nil, err
	}

	ids, err := s.friendships.FriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolveUsers(ctx, ids)
}

// CommonFriends возвращает общих друзей двух пользователей.
// Результат симметричен и не содержит дубликатов.
func (s *UserService) CommonFriends(ctx context.Context, userID, otherID int64) ([]*user.User, error) {
	if _, err := s.userExistence(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.userExistence(ctx, otherID); err != nil {
		return nil, err
	}

	ids, err := s.friendships.CommonFriendIDs(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	return s.resolveUsers(ctx, ids)
}

// resolveUsers материализует идентификаторы в записи пользователей.
// В отличие от материализации рейтинга фильмов, нерешившийся
// идентификатор здесь — безобидная гонка, а не сбой: запись молча
// пропускается.
func (s *UserService) resolveUsers(ctx context.Context, ids []int64) ([]*user.User, error) {
	result := make([]*user.User, 0, len(ids))
	for _, id := range ids {
		u, found, err := s.users.Find(ctx, id)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		result = append(result, u)
	}
	return result, nil
}

// attachFriends заполняет производное множество друзей пользователя.
func (s *UserService) attachFriends(ctx context.Context, u *user.User) error {
	ids, err := s.friendships.FriendIDs(ctx, u.ID)
	if err != nil {
		return err
	}
	u.Friends = ids
	return nil
}

// userExistence возвращает пользователя или NotFound.
func (s *UserService) userExistence(ctx context.Context, id int64) (*user.User, error) {
	u, found, err := s.users.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, shared.ErrUserNotFound
	}
	return u, nil
}
