package store

import (
	"github.com/jimui/biblioteca/model"
	"github.com/jimui/biblioteca/util"
)

func (s *Store) ListCategories() ([]*model.Category, error) {
	return s.driver.ListCategories()
}

func (s *Store) SaveCategory(name string) (*model.Category, error) {
	category := &model.Category{
		ID:   util.GenUUID(),
		Name: name,
	}
	return s.driver.UpsertCategory(category)
}

// DeleteCategory does not cascade to books referencing the category
// name, an orphaned label is tolerated.
func (s *Store) DeleteCategory(id string) error {
	return s.driver.DeleteCategory(id)
}
