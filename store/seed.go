package store

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jimui/biblioteca/log"
	"github.com/jimui/biblioteca/model"
	"github.com/pkg/errors"
)

// The fixed administrator account created on first run.
const (
	SeedAdminID       = "admin_1"
	SeedAdminEmail    = "admin@jimui.org"
	seedAdminName     = "Administrador JIMUI"
	seedAdminPassword = "admin"
)

var seedCategories = []*model.Category{
	{ID: "cat1", Name: "Tecnologia"},
	{ID: "cat2", Name: "Filosofia"},
	{ID: "cat3", Name: "Literatura"},
	{ID: "cat4", Name: "Artes"},
}

var seedBooks = []*model.Book{
	{
		ID:         "1",
		Title:      "A Arte da Sabedoria",
		Author:     "Baltasar Gracián",
		Category:   "Filosofia",
		Summary:    "Um guia prático para a vida e os costumes sociais.",
		CoverURL:   "https://picsum.photos/seed/wisdom/400/600",
		ContentURL: "https://www.gutenberg.org/ebooks/search/?query=wisdom",
	},
	{
		ID:         "2",
		Title:      "Código Limpo",
		Author:     "Robert C. Martin",
		Category:   "Tecnologia",
		Summary:    "Habilidades práticas do software Agile.",
		CoverURL:   "https://picsum.photos/seed/code/400/600",
		ContentURL: "https://archive.org/details/clean-code-a-handbook-of-agile-software-craftsmanship-by-robert-c.-martin",
	},
}

// Init seeds the default catalog, category set and administrator
// account. It is idempotent: existing data is never overwritten, so it
// is safe to call on every start.
func (s *Store) Init() error {
	books, err := s.ListBooks(&model.FindBook{})
	if err != nil {
		return errors.Wrap(err, "failed to list books")
	}
	if len(books) == 0 {
		now := time.Now().Unix()
		for _, seed := range seedBooks {
			book := *seed
			book.CreatedTs = now
			if _, err := s.driver.UpsertBook(&book); err != nil {
				return errors.Wrapf(err, "failed to seed book %s", book.ID)
			}
		}
		log.Info("Seeded default catalog")
	}

	categories, err := s.ListCategories()
	if err != nil {
		return errors.Wrap(err, "failed to list categories")
	}
	if len(categories) == 0 {
		for _, category := range seedCategories {
			if _, err := s.driver.UpsertCategory(category); err != nil {
				return errors.Wrapf(err, "failed to seed category %s", category.ID)
			}
		}
	}

	email := SeedAdminEmail
	admin, err := s.GetUser(&model.FindUser{Email: &email})
	if err != nil {
		return errors.Wrap(err, "failed to look up administrator")
	}
	if admin == nil {
		passwordHash, err := bcrypt.GenerateFromPassword([]byte(seedAdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return errors.Wrap(err, "failed to hash administrator password")
		}
		if _, err := s.driver.CreateUser(&model.User{
			ID:             SeedAdminID,
			Name:           seedAdminName,
			Email:          SeedAdminEmail,
			PasswordHash:   string(passwordHash),
			Role:           model.RoleAdmin,
			Favorites:      []string{},
			ReadingHistory: []model.ReadingHistoryItem{},
			CreatedTs:      time.Now().Unix(),
		}); err != nil {
			return errors.Wrap(err, "failed to seed administrator")
		}
		log.Info("Seeded administrator account")
	}

	return nil
}
