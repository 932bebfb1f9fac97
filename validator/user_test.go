package validator

import (
	"testing"

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

func TestValidateRegisterRequest(t *testing.T) {
	s := store.NewStore(db.NewMemory())
	defer s.Close()
	if _, err := s.Register("Ana", "ana@x.org", "secret123", model.RoleUser); err != nil {
		t.Fatalf("Failed to register: %v", err)
	}

	tests := []struct {
		name    string
		request *model.UserRegisterRequest
		wantErr bool
	}{
		{"valid", &model.UserRegisterRequest{Name: "Rui", Email: "rui@x.org", Password: "secret123"}, false},
		{"missing name", &model.UserRegisterRequest{Email: "rui@x.org", Password: "secret123"}, true},
		{"bad email", &model.UserRegisterRequest{Name: "Rui", Email: "not-an-email", Password: "secret123"}, true},
		{"short password", &model.UserRegisterRequest{Name: "Rui", Email: "rui@x.org", Password: "abc"}, true},
		{"duplicate email", &model.UserRegisterRequest{Name: "Outra Ana", Email: "ana@x.org", Password: "secret123"}, true},
	}
	for _, test := range tests {
		err := ValidateRegisterRequest(s, test.request)
		if (err != nil) != test.wantErr {
			t.Errorf("%s: got err=%v, wantErr=%v", test.name, err, test.wantErr)
		}
	}
}

func TestValidateSigninRequest(t *testing.T) {
	if err := ValidateSigninRequest(&model.UserSigninRequest{Email: "ana@x.org", Password: "secret123"}); err != nil {
		t.Errorf("Expected valid signin request, got %v", err)
	}
	if err := ValidateSigninRequest(&model.UserSigninRequest{Password: "secret123"}); err == nil {
		t.Error("Expected an error for a missing email")
	}
	if err := ValidateSigninRequest(&model.UserSigninRequest{Email: "ana@x.org"}); err == nil {
		t.Error("Expected an error for a missing password")
	}
}
