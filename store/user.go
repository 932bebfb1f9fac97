package store

import (
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/jimui/biblioteca/log"
	"github.com/jimui/biblioteca/model"
	"github.com/jimui/biblioteca/util"
	"go.uber.org/zap"
)

func (s *Store) GetUser(find *model.FindUser) (*model.User, error) {
	if find.ID != nil {
		if cache, ok := s.UserCache.Load(*find.ID); ok {
			user := cache.(*model.User)
			if err := s.attachCachedBookIDs(user); err != nil {
				return nil, err
			}
			return user, nil
		}
	}

	list, err := s.ListUsers(find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}

	user := list[0]
	s.UserCache.Store(user.ID, user)
	if err := s.attachCachedBookIDs(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Store) ListUsers(find *model.FindUser) ([]*model.User, error) {
	return s.driver.ListUsers(find)
}

// Register creates a user with a bcrypt password hash and empty
// favorites and history. Field validation is the caller's job.
func (s *Store) Register(name, email, password string, role model.Role) (*model.User, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	user := &model.User{
		ID:             util.GenUUID(),
		Name:           name,
		Email:          email,
		PasswordHash:   string(passwordHash),
		Role:           role,
		Favorites:      []string{},
		ReadingHistory: []model.ReadingHistoryItem{},
		CachedBookIDs:  []string{},
		CreatedTs:      time.Now().Unix(),
	}

	newUser, err := s.driver.CreateUser(user)
	if err != nil {
		return nil, err
	}

	s.UserCache.Store(newUser.ID, newUser)
	return newUser, nil
}

// Login returns the user matching (email, password), or nil for both
// an unknown email and a wrong password. The two cases are deliberately
// indistinguishable so the API never leaks which emails exist.
func (s *Store) Login(email, password string) (*model.User, error) {
	candidates, err := s.driver.ListUsers(&model.FindUser{Email: &email})
	if err != nil {
		return nil, err
	}

	for _, user := range candidates {
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil {
			s.UserCache.Store(user.ID, user)
			if err := s.attachCachedBookIDs(user); err != nil {
				return nil, err
			}
			return user, nil
		}
	}
	return nil, nil
}

// UpdateUser replaces the stored record matching user.ID, a no-op when
// the id is unknown.
func (s *Store) UpdateUser(user *model.User) (*model.User, error) {
	updated, err := s.driver.UpdateUser(user)
	if err != nil {
		// The cache must never serve state the driver rejected.
		s.UserCache.Delete(user.ID)
		return nil, err
	}
	if updated == nil {
		s.UserCache.Delete(user.ID)
		return nil, nil
	}

	s.UserCache.Store(updated.ID, updated)
	return updated, nil
}

// ToggleFavorite adds bookID to the user's favorites, or removes it
// when already present.
func (s *Store) ToggleFavorite(userID, bookID string) (*model.User, error) {
	user, err := s.GetUser(&model.FindUser{ID: &userID})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	// Work on a copy: the cached record must stay untouched until the
	// driver accepts the write.
	updated := *user
	if user.HasFavorite(bookID) {
		favorites := make([]string, 0, len(user.Favorites))
		for _, id := range user.Favorites {
			if id != bookID {
				favorites = append(favorites, id)
			}
		}
		updated.Favorites = favorites
	} else {
		updated.Favorites = append(append([]string{}, user.Favorites...), bookID)
	}

	return s.UpdateUser(&updated)
}

// AddToHistory prepends a fresh entry for bookID after dropping any
// prior entry for the same book, so each book appears at most once at
// its most recent read time.
func (s *Store) AddToHistory(userID, bookID string) (*model.User, error) {
	user, err := s.GetUser(&model.FindUser{ID: &userID})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	cleaned := make([]model.ReadingHistoryItem, 0, len(user.ReadingHistory)+1)
	cleaned = append(cleaned, model.ReadingHistoryItem{
		BookID: bookID,
		ReadAt: time.Now().UnixMilli(),
	})
	for _, item := range user.ReadingHistory {
		if item.BookID != bookID {
			cleaned = append(cleaned, item)
		}
	}
	updated := *user
	updated.ReadingHistory = cleaned

	log.Debug("Recorded reading history",
		zap.String("user_id", userID),
		zap.String("book_id", bookID))
	return s.UpdateUser(&updated)
}
