package db

import (
	"sync"

	"github.com/jimui/biblioteca/model"
)

// Memory is the in-process key-value driver. It keeps every record in
// maps guarded by one mutex and preserves insertion order for listings.
// It backs tests and single-node deployments without a database file.
type Memory struct {
	mu         sync.RWMutex
	books      map[string]*model.Book
	bookOrder  []string
	categories map[string]*model.Category
	catOrder   []string
	users      map[string]*model.User
	userOrder  []string
	content    map[string]map[string]string // userID -> bookID -> content
	cacheOrder map[string][]string          // userID -> bookIDs in insertion order
	jobs       map[string]*model.Job
	jobOrder   []string
}

func NewMemory() *Memory {
	return &Memory{
		books:      make(map[string]*model.Book),
		categories: make(map[string]*model.Category),
		users:      make(map[string]*model.User),
		content:    make(map[string]map[string]string),
		cacheOrder: make(map[string][]string),
		jobs:       make(map[string]*model.Job),
	}
}

func (m *Memory) Ping() error { return nil }

func (m *Memory) Close() error { return nil }

func (m *Memory) ListBooks(find *model.FindBook) ([]*model.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*model.Book, 0, len(m.bookOrder))
	for _, id := range m.bookOrder {
		book, ok := m.books[id]
		if !ok {
			continue
		}
		if v := find.ID; v != nil && book.ID != *v {
			continue
		}
		if v := find.Title; v != nil && book.Title != *v {
			continue
		}
		if v := find.Author; v != nil && book.Author != *v {
			continue
		}
		if v := find.Category; v != nil && book.Category != *v {
			continue
		}
		list = append(list, copyBook(book))
		if v := find.Limit; v != nil && len(list) >= *v {
			break
		}
	}
	return list, nil
}

func (m *Memory) UpsertBook(book *model.Book) (*model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.books[book.ID]; !exists {
		m.bookOrder = append(m.bookOrder, book.ID)
	}
	m.books[book.ID] = copyBook(book)
	return copyBook(book), nil
}

func (m *Memory) DeleteBook(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.books, id)
	m.bookOrder = removeID(m.bookOrder, id)
	return nil
}

func (m *Memory) ListCategories() ([]*model.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*model.Category, 0, len(m.catOrder))
	for _, id := range m.catOrder {
		if c, ok := m.categories[id]; ok {
			clone := *c
			list = append(list, &clone)
		}
	}
	return list, nil
}

func (m *Memory) UpsertCategory(category *model.Category) (*model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.categories[category.ID]; !exists {
		m.catOrder = append(m.catOrder, category.ID)
	}
	clone := *category
	m.categories[category.ID] = &clone
	result := *category
	return &result, nil
}

func (m *Memory) DeleteCategory(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.categories, id)
	m.catOrder = removeID(m.catOrder, id)
	return nil
}

func (m *Memory) ListUsers(find *model.FindUser) ([]*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*model.User, 0)
	for _, id := range m.userOrder {
		user, ok := m.users[id]
		if !ok {
			continue
		}
		if v := find.ID; v != nil && user.ID != *v {
			continue
		}
		if v := find.Email; v != nil && user.Email != *v {
			continue
		}
		if v := find.Role; v != nil && user.Role != *v {
			continue
		}
		list = append(list, copyUser(user))
		if v := find.Limit; v != nil && len(list) >= *v {
			break
		}
	}
	return list, nil
}

func (m *Memory) CreateUser(user *model.User) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[user.ID]; !exists {
		m.userOrder = append(m.userOrder, user.ID)
	}
	m.users[user.ID] = copyUser(user)
	return copyUser(user), nil
}

func (m *Memory) UpdateUser(user *model.User) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Unknown id is a silent no-op, deliberately.
	if _, exists := m.users[user.ID]; !exists {
		return nil, nil
	}
	m.users[user.ID] = copyUser(user)
	return copyUser(user), nil
}

func (m *Memory) PutContent(userID, bookID, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, ok := m.content[userID]
	if !ok {
		entries = make(map[string]string)
		m.content[userID] = entries
	}
	if _, exists := entries[bookID]; !exists {
		m.cacheOrder[userID] = append(m.cacheOrder[userID], bookID)
	}
	entries[bookID] = content
	return nil
}

func (m *Memory) GetContent(userID, bookID string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	content, ok := m.content[userID][bookID]
	return content, ok, nil
}

func (m *Memory) DeleteContent(userID, bookID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.content[userID], bookID)
	m.cacheOrder[userID] = removeID(m.cacheOrder[userID], bookID)
	return nil
}

func (m *Memory) DeleteBookContent(bookID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for userID, entries := range m.content {
		if _, ok := entries[bookID]; ok {
			delete(entries, bookID)
			m.cacheOrder[userID] = removeID(m.cacheOrder[userID], bookID)
		}
	}
	return nil
}

func (m *Memory) ListCachedBookIDs(userID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]string{}, m.cacheOrder[userID]...), nil
}

func (m *Memory) AddJob(job *model.Job) (*model.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.jobs[job.ID]; !exists {
		m.jobOrder = append(m.jobOrder, job.ID)
	}
	clone := *job
	m.jobs[job.ID] = &clone
	result := *job
	return &result, nil
}

func (m *Memory) UpdateJob(job *model.Job) (*model.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.jobs[job.ID]; !exists {
		return nil, nil
	}
	clone := *job
	m.jobs[job.ID] = &clone
	result := *job
	return &result, nil
}

func (m *Memory) ListJobs(find *model.FindJob) ([]*model.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Most recent first, mirroring the sqlite ordering.
	list := make([]*model.Job, 0)
	for i := len(m.jobOrder) - 1; i >= 0; i-- {
		job, ok := m.jobs[m.jobOrder[i]]
		if !ok {
			continue
		}
		if v := find.ID; v != nil && job.ID != *v {
			continue
		}
		if v := find.UserID; v != nil && job.UserID != *v {
			continue
		}
		if v := find.BookID; v != nil && job.BookID != *v {
			continue
		}
		if v := find.Status; v != nil && job.Status != *v {
			continue
		}
		clone := *job
		list = append(list, &clone)
	}
	return list, nil
}

func copyBook(book *model.Book) *model.Book {
	clone := *book
	return &clone
}

func copyUser(user *model.User) *model.User {
	clone := *user
	clone.Favorites = append([]string{}, user.Favorites...)
	clone.ReadingHistory = append([]model.ReadingHistoryItem{}, user.ReadingHistory...)
	clone.CachedBookIDs = append([]string{}, user.CachedBookIDs...)
	return &clone
}

func removeID(ids []string, id string) []string {
	filtered := ids[:0]
	for _, item := range ids {
		if item != id {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
