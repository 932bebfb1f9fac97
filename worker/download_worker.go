package worker

import (
	"io"
	"net/http"
	"time"

	"github.com/jimui/biblioteca/config"
	"github.com/jimui/biblioteca/log"
	"github.com/jimui/biblioteca/model"
	"github.com/jimui/biblioteca/store"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DownloadWorker fetches a book's content and places it in the local
// content cache of the requesting user.
type DownloadWorker struct {
	id    int
	store *store.Store
}

func (w *DownloadWorker) Run(c <-chan model.Job) {
	log.Debug("DownloadWorker is running", zap.Int("worker_id", w.id))

	for job := range c {
		if _, err := w.store.UpdateJobStatus(&job, model.JobStatusRunning, ""); err != nil {
			log.Error("Failed to mark job running", zap.String("job_id", job.ID), zap.Error(err))
			continue
		}

		if err := w.download(&job); err != nil {
			log.Error("Download job failed",
				zap.String("job_id", job.ID),
				zap.String("book_id", job.BookID),
				zap.Error(err))
			if _, err := w.store.UpdateJobStatus(&job, model.JobStatusFailed, err.Error()); err != nil {
				log.Error("Failed to mark job failed", zap.String("job_id", job.ID), zap.Error(err))
			}
			continue
		}

		if _, err := w.store.UpdateJobStatus(&job, model.JobStatusDone, ""); err != nil {
			log.Error("Failed to mark job done", zap.String("job_id", job.ID), zap.Error(err))
		}
		log.Info("Downloaded book content",
			zap.String("book_id", job.BookID),
			zap.String("user_id", job.UserID))
	}
}

func (w *DownloadWorker) download(job *model.Job) error {
	book, err := w.store.GetBook(&model.FindBook{ID: &job.BookID})
	if err != nil {
		return err
	}
	if book == nil {
		return errors.Errorf("book not found: %s", job.BookID)
	}
	if book.ContentURL == "" {
		return errors.Errorf("book has no content reference: %s", job.BookID)
	}

	content, err := fetch(book.ContentURL)
	if err != nil {
		return err
	}

	// One driver write: either the cache entry commits or nothing
	// changed for this user.
	return w.store.SaveContentLocally(job.UserID, job.BookID, content)
}

func fetch(url string) (string, error) {
	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch content")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("unexpected status fetching content: %s", resp.Status)
	}

	maxBytes := config.Opts.MaxDownloadSize * 1024 * 1024
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return "", errors.Wrap(err, "failed to read content")
	}
	if int64(len(body)) > maxBytes {
		return "", errors.Errorf("content exceeds the %d MiB limit", config.Opts.MaxDownloadSize)
	}

	return string(body), nil
}
