package validator

import (
	"github.com/pkg/errors"

	"github.com/jimui/biblioteca/model"
)

func ValidateBookSaveRequest(book *model.BookSaveRequest) error {
	if book == nil {
		return errors.New("request is nil")
	}
	if book.Title == "" {
		return errors.New("title is empty")
	}
	if book.Author == "" {
		return errors.New("author is empty")
	}
	return nil
}

func ValidateCategorySaveRequest(category *model.CategorySaveRequest) error {
	if category == nil {
		return errors.New("request is nil")
	}
	if category.Name == "" {
		return errors.New("name is empty")
	}
	return nil
}
