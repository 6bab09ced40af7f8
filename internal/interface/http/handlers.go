package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/practicum-go/filmorate/internal/domain/film"
	"github.com/practicum-go/filmorate/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// SERVICE CONTRACTS
// ══════════════════════════════════════════════════════════════════════════════

// FilmAPI is the film catalog surface the handlers depend on.
type FilmAPI interface {
	GetAll(ctx context.Context) ([]*film.Film, error)
	GetByID(ctx context.Context, id int64) (*film.Film, error)
	Create(ctx context.Context, f *film.Film) (*film.Film, error)
	Update(ctx context.Context, f *film.Film) (*film.Film, error)
	Delete(ctx context.Context, id int64) error
	AddLike(ctx context.Context, filmID, userID int64) (*film.Film, error)
	DeleteLike(ctx context.Context, filmID, userID int64) (*film.Film, error)
	MostPopular(ctx context.Context, limit int) ([]*film.Film, error)
}

// UserAPI is the user and friendship surface the handlers depend on.
type UserAPI interface {
	GetAll(ctx context.Context) ([]*user.User, error)
	GetByID(ctx context.Context, id int64) (*user.User, error)
	Create(ctx context.Context, u *user.User) (*user.User, error)
	Update(ctx context.Context, u *user.User) (*user.User, error)
	Delete(ctx context.Context, id int64) error
	AddFriend(ctx context.Context, userID, friendID int64) (*user.User, error)
	DeleteFriend(ctx context.Context, userID, friendID int64) (*user.User, error)
	Friends(ctx context.Context, userID int64) ([]*user.User, error)
	CommonFriends(ctx context.Context, userID, otherID int64) ([]*user.User, error)
}

// GenreAPI is the genre lookup surface.
type GenreAPI interface {
	GetAll(ctx context.Context) ([]*film.Genre, error)
	GetByID(ctx context.Context, id int64) (*film.Genre, error)
}

// MPAAPI is the MPA rating lookup surface.
type MPAAPI interface {
	GetAll(ctx context.Context) ([]*film.MPA, error)
	GetByID(ctx context.Context, id int64) (*film.MPA, error)
}

// ══════════════════════════════════════════════════════════════════════════════
// DATE ENCODING
// ══════════════════════════════════════════════════════════════════════════════

// dateLayout is the wire format for dates. The API speaks date-only
// strings ("1967-03-25"), not RFC 3339 timestamps.
const dateLayout = "2006-01-02"

// Date wraps time.Time with date-only JSON encoding.
type Date struct {
	time.Time
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	d.Time = t
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// WIRE PAYLOADS
// ══════════════════════════════════════════════════════════════════════════════

// filmPayload is the wire representation of a film.
type filmPayload struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	ReleaseDate Date         `json:"releaseDate"`
	Duration    int          `json:"duration"`
	MPA         film.MPA     `json:"mpa"`
	Genres      []film.Genre `json:"genres"`
	Likes       int          `json:"likes"`
}

func (p *filmPayload) toDomain() *film.Film {
	return &film.Film{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ReleaseDate: p.ReleaseDate.Time,
		Duration:    p.Duration,
		MPA:         p.MPA,
		Genres:      p.Genres,
	}
}

func filmToPayload(f *film.Film) filmPayload {
	genres := f.Genres
	if genres == nil {
		genres = []film.Genre{}
	}
	return filmPayload{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		ReleaseDate: Date{f.ReleaseDate},
		Duration:    f.Duration,
		MPA:         f.MPA,
		Genres:      genres,
		Likes:       f.Likes,
	}
}

func filmsToPayload(films []*film.Film) []filmPayload {
	out := make([]filmPayload, 0, len(films))
	for _, f := range films {
		out = append(out, filmToPayload(f))
	}
	return out
}

// userPayload is the wire representation of a user.
type userPayload struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	Login    string  `json:"login"`
	Name     string  `json:"name"`
	Birthday Date    `json:"birthday"`
	Friends  []int64 `json:"friends,omitempty"`
}

func (p *userPayload) toDomain() *user.User {
	return &user.User{
		ID:       p.ID,
		Email:    p.Email,
		Login:    p.Login,
		Name:     p.Name,
		Birthday: p.Birthday.Time,
	}
}

func userToPayload(u *user.User) userPayload {
	return userPayload{
		ID:       u.ID,
		Email:    u.Email,
		Login:    u.Login,
		Name:     u.Name,
		Birthday: Date{u.Birthday},
		Friends:  u.Friends,
	}
}

func usersToPayload(users []*user.User) []userPayload {
	out := make([]userPayload, 0, len(users))
	for _, u := range users {
		out = append(out, userToPayload(u))
	}
	return out
}

// pathID parses a path segment into an identifier.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// healthStatus is the health endpoint body.
type healthStatus struct {
	Status     string            `json:"status"`
	Uptime     string            `json:"uptime"`
	Components map[string]string `json:"components,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := healthStatus{
		Status: "ok",
		Uptime: s.Uptime().String(),
	}

	if len(s.deps.HealthCheckers) > 0 {
		status.Components = make(map[string]string, len(s.deps.HealthCheckers))
		for name, checker := range s.deps.HealthCheckers {
			if err := checker.Ping(r.Context()); err != nil {
				status.Status = "degraded"
				status.Components[name] = err.Error()
			} else {
				status.Components[name] = "ok"
			}
		}
	}

	code := http.StatusOK
	if status.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

// ══════════════════════════════════════════════════════════════════════════════
// FILM HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleGetFilms(w http.ResponseWriter, r *http.Request) {
	films, err := s.deps.Films.GetAll(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, filmsToPayload(films))
}

func (s *Server) handleGetFilm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "film id must be a positive integer")
		return
	}

	f, err := s.deps.Films.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, filmToPayload(f))
}

func (s *Server) handleCreateFilm(w http.ResponseWriter, r *http.Request) {
	var payload filmPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	created, err := s.deps.Films.Create(r.Context(), payload.toDomain())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, filmToPayload(created))
}

func (s *Server) handleUpdateFilm(w http.ResponseWriter, r *http.Request) {
	var payload filmPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	updated, err := s.deps.Films.Update(r.Context(), payload.toDomain())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, filmToPayload(updated))
}

func (s *Server) handleDeleteFilm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "film id must be a positive integer")
		return
	}

	if err := s.deps.Films.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleAddLike(w http.ResponseWriter, r *http.Request) {
	filmID, ok := pathID(r, "id")
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "film id must be a positive integer")
		return
	}
	userID, ok := pathID(r, "userId")
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "user id must be a positive integer")
		return
	}

	f, err := s.deps.Films.AddLike(r.Context(), filmID, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, filmToPayload(f))
}

func (s *Server) handleDeleteLike(w http.ResponseWriter, r *http.Request) {
	filmID, ok := pathID(r, "id")
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "film id must be a positive integer")
		return
	}
	userID, ok := pathID(r, "userId")
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "user id must be a positive integer")
		return
	}

	f, err := s.deps.Films.DeleteLike(r.Context(), filmID, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, filmToPayload(f))
}

func (s *Server) handleGetPopularFilms(w http.ResponseWriter, r *http.Request) {
	count := getQueryParamInt(r, "count", 0)

	films, err := s.deps.Films.MostPopular(r.Context(), count)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, filmsToPayload(films))
}

// ══════════════════════════════════════════════════════════════════════════════
// USER HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleGetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.deps.Users.GetAll(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, usersToPayload(users))
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "user id must be a positive integer")
		return
	}

	u, err := s.deps.Users.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userToPayload(u))
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var payload userPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	created, err := s.deps.Users.Create(r.Context(), payload.toDomain())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, userToPayload(created))
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var payload userPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	updated, err := s.deps.Users.Update(r.Context(), payload.toDomain())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userToPayload(updated))
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "user id must be a positive integer")
		return
	}

	if err := s.deps.Users.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleAddFriend(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "id")
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "user id must be a positive integer")
		return
	}
	friendID, ok := pathID(r, "friendId")
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "friend id must be a positive integer")
		return
	}

	u, err := s.deps.Users.AddFriend(r.Context(), userID, friendID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userToPayload(u))
}

func (s *Server) handleDeleteFriend(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "id")
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "user id must be a positive integer")
		return
	}
	friendID, ok := pathID(r, "friendId")
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "friend id must be a positive integer")
		return
	}

	u, err := s.deps.Users.DeleteFriend(r.Context(), userID, friendID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userToPayload(u))
}

func (s *Server) handleGetFriends(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "user id must be a positive integer")
		return
	}

	friends, err := s.deps.Users.Friends(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, usersToPayload(friends))
}

func (s *Server) handleGetCommonFriends(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "user id must be a positive integer")
		return
	}
	otherID, ok := pathID(r, "otherId")
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "other user id must be a positive integer")
		return
	}

	common, err := s.deps.Users.CommonFriends(r.Context(), id, otherID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, usersToPayload(common))
}

// ══════════════════════════════════════════════════════════════════════════════
// LOOKUP HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleGetGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := s.deps.Genres.GetAll(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, genres)
}

func (s *Server) handleGetGenre(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "genre id must be a positive integer")
		return
	}

	g, err := s.deps.Genres.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleGetMPAs(w http.ResponseWriter, r *http.Request) {
	ratings, err := s.deps.MPA.GetAll(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ratings)
}

func (s *Server) handleGetMPA(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "MPA id must be a positive integer")
		return
	}

	m, err := s.deps.MPA.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}
