package v1_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	v1 "github.com/jimui/biblioteca/api/v1"
	"github.com/jimui/biblioteca/config"
	"github.com/jimui/biblioteca/log"
	"github.com/jimui/biblioteca/model"
	"github.com/jimui/biblioteca/store"
	"github.com/jimui/biblioteca/store/db"
	"github.com/jimui/biblioteca/summary"
	"github.com/jimui/biblioteca/worker"
	"github.com/gorilla/mux"
)

// Initialize the logger and config
func init() {
	config.Opts = config.GetDefaultOptions()
	log.Logger = log.NewLogger()
}

func newTestServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()
	s := store.NewStore(db.NewMemory())
	if err := s.Init(); err != nil {
		t.Fatalf("Failed to seed store: %v", err)
	}

	router := mux.NewRouter()
	handler := v1.NewHandler(s, worker.NewDownloadPool(s, 1), summary.New(config.Opts), "test-secret")
	v1.Server(router, handler)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	t.Cleanup(func() { s.Close() })
	return server, s
}

func postJSON(t *testing.T, client *http.Client, url string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal body: %v", err)
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	return resp
}

func TestSignUpAndMe(t *testing.T) {
	server, _ := newTestServer(t)
	client := server.Client()

	resp := postJSON(t, client, server.URL+"/api/v1/signup", &model.UserRegisterRequest{
		Name:     "Ana",
		Email:    "ana@x.org",
		Password: "secret123",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}

	user := &model.User{}
	if err := json.NewDecoder(resp.Body).Decode(user); err != nil {
		t.Fatalf("Failed to decode user: %v", err)
	}
	if user.Role != model.RoleUser {
		t.Errorf("Expected role user, got %s", user.Role)
	}

	cookies := resp.Cookies()
	if len(cookies) == 0 {
		t.Fatal("Expected an access token cookie")
	}

	req, err := http.NewRequest(http.MethodGet, server.URL+"/api/v1/me", nil)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	meResp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer meResp.Body.Close()
	if meResp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 from /me, got %d", meResp.StatusCode)
	}

	me := &model.User{}
	if err := json.NewDecoder(meResp.Body).Decode(me); err != nil {
		t.Fatalf("Failed to decode user: %v", err)
	}
	if me.Email != "ana@x.org" {
		t.Errorf("Expected Ana back, got %+v", me)
	}
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	server, _ := newTestServer(t)
	client := server.Client()

	for _, signin := range []*model.UserSigninRequest{
		{Email: "nobody@x.org", Password: "admin"},
		{Email: store.SeedAdminEmail, Password: "wrong"},
	} {
		resp := postJSON(t, client, server.URL+"/api/v1/signin", signin)
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("Expected 401 for %s, got %d", signin.Email, resp.StatusCode)
		}
	}

	resp := postJSON(t, client, server.URL+"/api/v1/signin", &model.UserSigninRequest{
		Email:    store.SeedAdminEmail,
		Password: "admin",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 for the administrator, got %d", resp.StatusCode)
	}
}

func TestUnauthenticatedRequestsAreRejected(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := server.Client().Get(server.URL + "/api/v1/books")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("Expected 401 without a token, got %d", resp.StatusCode)
	}
}

func TestBookWritesRequireAdmin(t *testing.T) {
	server, _ := newTestServer(t)
	client := server.Client()

	resp := postJSON(t, client, server.URL+"/api/v1/signup", &model.UserRegisterRequest{
		Name:     "Ana",
		Email:    "ana@x.org",
		Password: "secret123",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	cookies := resp.Cookies()

	payload, _ := json.Marshal(&model.BookSaveRequest{Title: "Livro", Author: "Autor"})
	req, err := http.NewRequest(http.MethodPost, server.URL+"/api/v1/books", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	saveResp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer saveResp.Body.Close()
	if saveResp.StatusCode != http.StatusForbidden {
		t.Fatalf("Expected 403 for a regular user, got %d", saveResp.StatusCode)
	}
}
