package db // import "github.com/jimui/biblioteca/store/db"

import (
	"github.com/pkg/errors"

	"github.com/jimui/biblioteca/config"
	"github.com/jimui/biblioteca/model"
)

// Driver is the per-record storage contract backing the store facade.
// Every operation addresses individual records, there is no
// whole-collection read-modify-write anywhere behind this interface.
type Driver interface {
	// Books
	ListBooks(find *model.FindBook) ([]*model.Book, error)
	UpsertBook(book *model.Book) (*model.Book, error)
	// DeleteBook is a no-op when the id is unknown.
	DeleteBook(id string) error

	// Categories
	ListCategories() ([]*model.Category, error)
	UpsertCategory(category *model.Category) (*model.Category, error)
	DeleteCategory(id string) error

	// Users
	ListUsers(find *model.FindUser) ([]*model.User, error)
	CreateUser(user *model.User) (*model.User, error)
	// UpdateUser replaces the record matching user.ID and is a no-op
	// when the id is unknown.
	UpdateUser(user *model.User) (*model.User, error)

	// Local content cache. Membership here is the single source of
	// truth for a user's cached books.
	PutContent(userID, bookID, content string) error
	GetContent(userID, bookID string) (string, bool, error)
	DeleteContent(userID, bookID string) error
	// DeleteBookContent removes the entries of every user for bookID.
	DeleteBookContent(bookID string) error
	ListCachedBookIDs(userID string) ([]string, error)

	// Download jobs
	AddJob(job *model.Job) (*model.Job, error)
	UpdateJob(job *model.Job) (*model.Job, error)
	ListJobs(find *model.FindJob) ([]*model.Job, error)

	Ping() error
	Close() error
}

// New opens the driver selected by the backend option.
func New(opts *config.Options) (Driver, error) {
	switch opts.Backend {
	case "sqlite", "":
		return NewDB(opts.DSN)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, errors.Errorf("unknown storage backend: %q", opts.Backend)
	}
}
