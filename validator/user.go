package validator // import "github.com/jimui/biblioteca/validator"

import (
	"github.com/pkg/errors"

	"github.com/jimui/biblioteca/model"
	"github.com/jimui/biblioteca/store"
	"github.com/jimui/biblioteca/util"
)

// ValidateRegisterRequest checks required fields before any store
// write. The store itself does not enforce email uniqueness, that gap
// is closed here at the caller boundary.
func ValidateRegisterRequest(s *store.Store, register *model.UserRegisterRequest) error {
	if register == nil {
		return errors.New("request is nil")
	}
	if register.Name == "" {
		return errors.New("name is empty")
	}
	if register.Email == "" {
		return errors.New("email is empty")
	}
	if !util.ValidateEmail(register.Email) {
		return errors.New("email is invalid")
	}
	if register.Password == "" {
		return errors.New("password is empty")
	}
	if err := validatePassword(register.Password); err != nil {
		return err
	}
	if user, _ := s.GetUser(&model.FindUser{Email: &register.Email}); user != nil {
		return errors.New("email already registered")
	}
	return nil
}

func ValidateSigninRequest(signin *model.UserSigninRequest) error {
	if signin == nil {
		return errors.New("request is nil")
	}
	if signin.Email == "" {
		return errors.New("email is empty")
	}
	if signin.Password == "" {
		return errors.New("password is empty")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 6 {
		return errors.New("password is too short")
	}
	return nil
}
