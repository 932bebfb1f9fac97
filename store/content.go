package store

import (
	"github.com/jimui/biblioteca/model"
)

// SaveContentLocally writes the book text into the local content cache
// of the given user. Cache membership is the single source of truth for
// the user's cached books, so this is one driver write: either it
// commits fully or nothing changes.
func (s *Store) SaveContentLocally(userID, bookID, content string) error {
	return s.driver.PutContent(userID, bookID, content)
}

// RemoveContentLocally evicts the cached text, a no-op when the book
// was never cached.
func (s *Store) RemoveContentLocally(userID, bookID string) error {
	return s.driver.DeleteContent(userID, bookID)
}

// GetLocalContent returns the cached text, or false when absent.
func (s *Store) GetLocalContent(userID, bookID string) (string, bool, error) {
	return s.driver.GetContent(userID, bookID)
}

// CachedBookIDs lists the books the user has cached, derived from
// cache membership.
func (s *Store) CachedBookIDs(userID string) ([]string, error) {
	return s.driver.ListCachedBookIDs(userID)
}

func (s *Store) attachCachedBookIDs(user *model.User) error {
	ids, err := s.driver.ListCachedBookIDs(user.ID)
	if err != nil {
		return err
	}
	user.CachedBookIDs = ids
	return nil
}
