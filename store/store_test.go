package store_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/jimui/biblioteca/config"
	"github.com/jimui/biblioteca/log"
	"github.com/jimui/biblioteca/model"
	"github.com/jimui/biblioteca/store"
	"github.com/jimui/biblioteca/store/db"
)

// Initialize the logger and config
func init() {
	config.Opts = config.GetDefaultOptions()
	log.Logger = log.NewLogger()
}

// forEachDriver runs fn once per storage backend. The facade must
// behave identically over both.
func forEachDriver(t *testing.T, fn func(t *testing.T, s *store.Store)) {
	t.Run("memory", func(t *testing.T) {
		s := store.NewStore(db.NewMemory())
		defer s.Close()
		fn(t, s)
	})
	t.Run("sqlite", func(t *testing.T) {
		driver, err := db.NewDB(t.TempDir() + "/test.db")
		if err != nil {
			t.Fatalf("Failed to open sqlite: %v", err)
		}
		if err := driver.Migrate(context.Background()); err != nil {
			t.Fatalf("Failed to migrate: %v", err)
		}
		s := store.NewStore(driver)
		defer s.Close()
		fn(t, s)
	})
}

func TestSaveBookAssignsID(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s *store.Store) {
		book, err := s.SaveBook(&model.Book{Title: "Dom Casmurro", Author: "Machado de Assis"})
		if err != nil {
			t.Fatalf("Failed to save book: %v", err)
		}
		if book.ID == "" {
			t.Error("Expected a generated id for a new book")
		}
		if book.CreatedTs == 0 {
			t.Error("Expected a creation timestamp for a new book")
		}

		got, err := s.GetBook(&model.FindBook{ID: &book.ID})
		if err != nil {
			t.Fatalf("Failed to get book: %v", err)
		}
		if got == nil || got.Title != "Dom Casmurro" {
			t.Errorf("Unexpected book: %+v", got)
		}
	})
}

func TestSaveBookReplacesRecord(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s *store.Store) {
		book, err := s.SaveBook(&model.Book{
			Title:    "Original",
			Author:   "Autor",
			Category: "Literatura",
			Summary:  "Um resumo",
		})
		if err != nil {
			t.Fatalf("Failed to save book: %v", err)
		}

		// Saving with the same id replaces the whole record, fields
		// left empty do not survive from the old one.
		updated, err := s.SaveBook(&model.Book{
			ID:     book.ID,
			Title:  "Renomeado",
			Author: "Autor",
		})
		if err != nil {
			t.Fatalf("Failed to update book: %v", err)
		}
		if updated.Title != "Renomeado" {
			t.Errorf("Expected replaced title, got %q", updated.Title)
		}
		if updated.Summary != "" || updated.Category != "" {
			t.Errorf("Expected full replacement, got %+v", updated)
		}

		books, err := s.ListBooks(&model.FindBook{})
		if err != nil {
			t.Fatalf("Failed to list books: %v", err)
		}
		if len(books) != 1 {
			t.Errorf("Expected 1 book after update, got %d", len(books))
		}
	})
}

func TestDeleteBookEvictsCachedContent(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s *store.Store) {
		book, err := s.SaveBook(&model.Book{Title: "Livro", Author: "Autor"})
		if err != nil {
			t.Fatalf("Failed to save book: %v", err)
		}
		ana, err := s.Register("Ana", "ana@x.org", "secret123", model.RoleUser)
		if err != nil {
			t.Fatalf("Failed to register: %v", err)
		}
		rui, err := s.Register("Rui", "rui@x.org", "secret123", model.RoleUser)
		if err != nil {
			t.Fatalf("Failed to register: %v", err)
		}
		for _, userID := range []string{ana.ID, rui.ID} {
			if err := s.SaveContentLocally(userID, book.ID, "conteúdo"); err != nil {
				t.Fatalf("Failed to save content: %v", err)
			}
		}

		if err := s.DeleteBook(book.ID); err != nil {
			t.Fatalf("Failed to delete book: %v", err)
		}

		got, err := s.GetBook(&model.FindBook{ID: &book.ID})
		if err != nil {
			t.Fatalf("Failed to get book: %v", err)
		}
		if got != nil {
			t.Error("Expected book to be gone")
		}
		for _, userID := range []string{ana.ID, rui.ID} {
			if _, ok, err := s.GetLocalContent(userID, book.ID); err != nil || ok {
				t.Errorf("Expected no cached content for user %s, ok=%v err=%v", userID, ok, err)
			}
			user, err := s.GetUser(&model.FindUser{ID: &userID})
			if err != nil {
				t.Fatalf("Failed to get user: %v", err)
			}
			if len(user.CachedBookIDs) != 0 {
				t.Errorf("Expected empty cached list, got %v", user.CachedBookIDs)
			}
		}
	})
}

func TestLoginDoesNotLeakAccountExistence(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s *store.Store) {
		ana, err := s.Register("Ana", "ana@x.org", "secret123", model.RoleUser)
		if err != nil {
			t.Fatalf("Failed to register: %v", err)
		}

		unknown, err := s.Login("nobody@x.org", "secret123")
		if err != nil {
			t.Fatalf("Login with unknown email errored: %v", err)
		}
		wrong, err := s.Login("ana@x.org", "not-the-password")
		if err != nil {
			t.Fatalf("Login with wrong password errored: %v", err)
		}
		if unknown != nil || wrong != nil {
			t.Error("Expected nil user for both unknown email and wrong password")
		}

		user, err := s.Login("ana@x.org", "secret123")
		if err != nil {
			t.Fatalf("Login errored: %v", err)
		}
		if user == nil || user.Email != "ana@x.org" {
			t.Fatalf("Expected Ana, got %+v", user)
		}
		if user.ID != ana.ID {
			t.Errorf("Expected login to return the registered id %s, got %s", ana.ID, user.ID)
		}
	})
}

func TestAddToHistoryKeepsOneEntryPerBook(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s *store.Store) {
		user, err := s.Register("Ana", "ana@x.org", "secret123", model.RoleUser)
		if err != nil {
			t.Fatalf("Failed to register: %v", err)
		}

		for _, bookID := range []string{"b1", "b2", "b1"} {
			if user, err = s.AddToHistory(user.ID, bookID); err != nil {
				t.Fatalf("Failed to add to history: %v", err)
			}
		}

		if len(user.ReadingHistory) != 2 {
			t.Fatalf("Expected 2 history entries, got %d", len(user.ReadingHistory))
		}
		if user.ReadingHistory[0].BookID != "b1" || user.ReadingHistory[1].BookID != "b2" {
			t.Errorf("Expected most recent first, got %+v", user.ReadingHistory)
		}
		if user.ReadingHistory[0].ReadAt < user.ReadingHistory[1].ReadAt {
			t.Error("Expected the re-read entry to carry the newer timestamp")
		}
	})
}

func TestToggleFavorite(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s *store.Store) {
		user, err := s.Register("Ana", "ana@x.org", "secret123", model.RoleUser)
		if err != nil {
			t.Fatalf("Failed to register: %v", err)
		}

		user, err = s.ToggleFavorite(user.ID, "b1")
		if err != nil {
			t.Fatalf("Failed to toggle: %v", err)
		}
		if !user.HasFavorite("b1") {
			t.Error("Expected b1 to be a favorite after first toggle")
		}

		user, err = s.ToggleFavorite(user.ID, "b1")
		if err != nil {
			t.Fatalf("Failed to toggle: %v", err)
		}
		if user.HasFavorite("b1") {
			t.Error("Expected b1 to be removed after second toggle")
		}
	})
}

func TestContentCacheRoundTrip(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s *store.Store) {
		user, err := s.Register("Ana", "ana@x.org", "secret123", model.RoleUser)
		if err != nil {
			t.Fatalf("Failed to register: %v", err)
		}

		if err := s.SaveContentLocally(user.ID, "b1", "texto"); err != nil {
			t.Fatalf("Failed to save content: %v", err)
		}
		// Saving again is an overwrite, not a duplicate.
		if err := s.SaveContentLocally(user.ID, "b1", "texto novo"); err != nil {
			t.Fatalf("Failed to overwrite content: %v", err)
		}

		content, ok, err := s.GetLocalContent(user.ID, "b1")
		if err != nil || !ok {
			t.Fatalf("Expected cached content, ok=%v err=%v", ok, err)
		}
		if content != "texto novo" {
			t.Errorf("Unexpected content: %q", content)
		}

		ids, err := s.CachedBookIDs(user.ID)
		if err != nil {
			t.Fatalf("Failed to list cached ids: %v", err)
		}
		if len(ids) != 1 || ids[0] != "b1" {
			t.Errorf("Unexpected cached ids: %v", ids)
		}

		if err := s.RemoveContentLocally(user.ID, "b1"); err != nil {
			t.Fatalf("Failed to remove content: %v", err)
		}
		// Removing an absent entry is a no-op.
		if err := s.RemoveContentLocally(user.ID, "b1"); err != nil {
			t.Fatalf("Expected removing twice to succeed: %v", err)
		}
		if _, ok, _ := s.GetLocalContent(user.ID, "b1"); ok {
			t.Error("Expected content to be gone")
		}
	})
}

func TestRegisterStartsEmpty(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s *store.Store) {
		user, err := s.Register("Ana", "ana@x.org", "secret123", model.RoleUser)
		if err != nil {
			t.Fatalf("Failed to register: %v", err)
		}
		if user.Role != model.RoleUser {
			t.Errorf("Expected role user, got %s", user.Role)
		}
		if len(user.Favorites) != 0 || len(user.ReadingHistory) != 0 || len(user.CachedBookIDs) != 0 {
			t.Errorf("Expected empty profile, got %+v", user)
		}
		if user.PasswordHash == "secret123" {
			t.Error("Password must never be stored in clear")
		}
	})
}

func TestSeedIsIdempotent(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s *store.Store) {
		for i := 0; i < 2; i++ {
			if err := s.Init(); err != nil {
				t.Fatalf("Init run %d failed: %v", i+1, err)
			}
		}

		books, err := s.ListBooks(&model.FindBook{})
		if err != nil {
			t.Fatalf("Failed to list books: %v", err)
		}
		if len(books) != 2 {
			t.Errorf("Expected 2 seeded books, got %d", len(books))
		}
		categories, err := s.ListCategories()
		if err != nil {
			t.Fatalf("Failed to list categories: %v", err)
		}
		if len(categories) != 4 {
			t.Errorf("Expected 4 seeded categories, got %d", len(categories))
		}

		admin, err := s.Login(store.SeedAdminEmail, "admin")
		if err != nil {
			t.Fatalf("Failed to sign in as administrator: %v", err)
		}
		if admin == nil || admin.Role != model.RoleAdmin || admin.ID != store.SeedAdminID {
			t.Errorf("Unexpected administrator: %+v", admin)
		}

		users, err := s.ListUsers(&model.FindUser{})
		if err != nil {
			t.Fatalf("Failed to list users: %v", err)
		}
		if len(users) != 1 {
			t.Errorf("Expected a single administrator, got %d users", len(users))
		}
	})
}

func TestCategoryLifecycle(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s *store.Store) {
		category, err := s.SaveCategory("Poesia")
		if err != nil {
			t.Fatalf("Failed to save category: %v", err)
		}
		if category.ID == "" {
			t.Error("Expected a generated id for the category")
		}

		book, err := s.SaveBook(&model.Book{Title: "Livro", Author: "Autor", Category: "Poesia"})
		if err != nil {
			t.Fatalf("Failed to save book: %v", err)
		}

		if err := s.DeleteCategory(category.ID); err != nil {
			t.Fatalf("Failed to delete category: %v", err)
		}

		// Deleting a category never touches the catalog.
		got, err := s.GetBook(&model.FindBook{ID: &book.ID})
		if err != nil {
			t.Fatalf("Failed to get book: %v", err)
		}
		if got == nil || got.Category != "Poesia" {
			t.Errorf("Expected book untouched, got %+v", got)
		}
	})
}

// brokenWriteDriver rejects user updates, everything else passes
// through.
type brokenWriteDriver struct {
	db.Driver
}

func (d *brokenWriteDriver) UpdateUser(user *model.User) (*model.User, error) {
	return nil, errors.New("write rejected")
}

func TestFailedUpdateDoesNotPoisonCache(t *testing.T) {
	s := store.NewStore(&brokenWriteDriver{Driver: db.NewMemory()})
	defer s.Close()

	user, err := s.Register("Ana", "ana@x.org", "secret123", model.RoleUser)
	if err != nil {
		t.Fatalf("Failed to register: %v", err)
	}

	if _, err := s.ToggleFavorite(user.ID, "b1"); err == nil {
		t.Fatal("Expected the rejected write to surface an error")
	}
	if _, err := s.AddToHistory(user.ID, "b1"); err == nil {
		t.Fatal("Expected the rejected write to surface an error")
	}

	// A rejected write must leave no trace: later reads serve what
	// storage holds, not the attempted mutation.
	got, err := s.GetUser(&model.FindUser{ID: &user.ID})
	if err != nil {
		t.Fatalf("Failed to get user: %v", err)
	}
	if got.HasFavorite("b1") {
		t.Error("Cache serves a favorite that storage rejected")
	}
	if len(got.ReadingHistory) != 0 {
		t.Errorf("Cache serves history that storage rejected: %+v", got.ReadingHistory)
	}
}

func TestMutationsOnUnknownUserAreNil(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s *store.Store) {
		user, err := s.ToggleFavorite("ghost", "b1")
		if err != nil || user != nil {
			t.Errorf("Expected (nil, nil) for an unknown user, got (%+v, %v)", user, err)
		}
		user, err = s.AddToHistory("ghost", "b1")
		if err != nil || user != nil {
			t.Errorf("Expected (nil, nil) for an unknown user, got (%+v, %v)", user, err)
		}
	})
}
