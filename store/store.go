package store // import "github.com/jimui/biblioteca/store"

import (
	"sync"

	"github.com/jimui/biblioteca/store/db"
)

// Store is the data access facade. It owns every read and write of
// durable state and is the only component that knows which driver
// keeps the data.
type Store struct {
	driver    db.Driver
	UserCache sync.Map // map[string]*model.User
	BookCache sync.Map // map[string]*model.Book
}

func NewStore(driver db.Driver) *Store {
	return &Store{
		driver: driver,
	}
}

func (s *Store) Ping() error {
	return s.driver.Ping()
}

func (s *Store) Close() error {
	return s.driver.Close()
}
