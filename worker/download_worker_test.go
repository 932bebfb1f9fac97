package worker

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

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

func TestDownloadWorker(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("texto completo do livro"))
	}))
	defer upstream.Close()

	s := store.NewStore(db.NewMemory())
	user, err := s.Register("Ana", "ana@x.org", "secret123", model.RoleUser)
	if err != nil {
		t.Fatalf("Failed to register user: %v", err)
	}
	book, err := s.SaveBook(&model.Book{Title: "Título", Author: "Autor", ContentURL: upstream.URL})
	if err != nil {
		t.Fatalf("Failed to save book: %v", err)
	}

	job, err := s.AddJob(user.ID, book.ID)
	if err != nil {
		t.Fatalf("Failed to add job: %v", err)
	}

	pool := NewDownloadPool(s, 1)
	pool.Push(*job)

	deadline := time.Now().Add(5 * time.Second)
	for {
		got, err := s.GetJob(&model.FindJob{ID: &job.ID})
		if err != nil {
			t.Fatalf("Failed to get job: %v", err)
		}
		if got != nil && got.Status == model.JobStatusDone {
			break
		}
		if got != nil && got.Status == model.JobStatusFailed {
			t.Fatalf("Job failed: %s", got.Detail)
		}
		if time.Now().After(deadline) {
			t.Fatalf("Job did not finish in time")
		}
		time.Sleep(10 * time.Millisecond)
	}

	content, ok, err := s.GetLocalContent(user.ID, book.ID)
	if err != nil {
		t.Fatalf("Failed to get local content: %v", err)
	}
	if !ok {
		t.Fatalf("Expected cached content after download")
	}
	if content != "texto completo do livro" {
		t.Fatalf("Unexpected content: %q", content)
	}
}

func TestDownloadWorkerFailsWithoutContentURL(t *testing.T) {
	s := store.NewStore(db.NewMemory())
	user, err := s.Register("Rui", "rui@x.org", "secret123", model.RoleUser)
	if err != nil {
		t.Fatalf("Failed to register user: %v", err)
	}
	book, err := s.SaveBook(&model.Book{Title: "Sem conteúdo", Author: "Autor"})
	if err != nil {
		t.Fatalf("Failed to save book: %v", err)
	}

	job, err := s.AddJob(user.ID, book.ID)
	if err != nil {
		t.Fatalf("Failed to add job: %v", err)
	}

	pool := NewDownloadPool(s, 1)
	pool.Push(*job)

	deadline := time.Now().Add(5 * time.Second)
	for {
		got, err := s.GetJob(&model.FindJob{ID: &job.ID})
		if err != nil {
			t.Fatalf("Failed to get job: %v", err)
		}
		if got != nil && got.Status == model.JobStatusFailed {
			if got.Detail == "" {
				t.Fatalf("Expected a failure detail")
			}
			break
		}
		if got != nil && got.Status == model.JobStatusDone {
			t.Fatalf("Job should have failed")
		}
		if time.Now().After(deadline) {
			t.Fatalf("Job did not finish in time")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if _, ok, _ := s.GetLocalContent(user.ID, book.ID); ok {
		t.Fatalf("No content should be cached after a failed job")
	}
}
