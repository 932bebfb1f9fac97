package store

import (
	"time"

	"github.com/jimui/biblioteca/log"
	"github.com/jimui/biblioteca/model"
	"github.com/jimui/biblioteca/util"
	"go.uber.org/zap"
)

func (s *Store) GetBook(find *model.FindBook) (*model.Book, error) {
	if find.ID != nil {
		if cache, ok := s.BookCache.Load(*find.ID); ok {
			return cache.(*model.Book), nil
		}
	}

	list, err := s.ListBooks(find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}

	book := list[0]
	s.BookCache.Store(book.ID, book)
	return book, nil
}

func (s *Store) ListBooks(find *model.FindBook) ([]*model.Book, error) {
	return s.driver.ListBooks(find)
}

// SaveBook upserts by id. An empty id means insert: a fresh unique id
// is assigned and the stored record is returned so the caller can
// observe it.
func (s *Store) SaveBook(book *model.Book) (*model.Book, error) {
	if book.ID == "" {
		book.ID = util.GenUUID()
	}
	if book.CreatedTs == 0 {
		book.CreatedTs = time.Now().Unix()
	}

	saved, err := s.driver.UpsertBook(book)
	if err != nil {
		return nil, err
	}

	s.BookCache.Store(saved.ID, saved)
	return saved, nil
}

// DeleteBook removes the record and evicts every local content cache
// entry for it. Both are no-ops when nothing matches.
func (s *Store) DeleteBook(id string) error {
	// Evict content first so a partial failure can never leave cached
	// text for a book that no longer exists.
	if err := s.driver.DeleteBookContent(id); err != nil {
		return err
	}
	if err := s.driver.DeleteBook(id); err != nil {
		return err
	}

	s.BookCache.Delete(id)
	log.Debug("Deleted book", zap.String("book_id", id))
	return nil
}
