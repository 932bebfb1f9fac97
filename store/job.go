package store

import (
	"time"

	"github.com/jimui/biblioteca/model"
	"github.com/jimui/biblioteca/util"
)

// AddJob enqueues a pending download job record.
func (s *Store) AddJob(userID, bookID string) (*model.Job, error) {
	job := &model.Job{
		ID:        util.GenUUID(),
		UserID:    userID,
		BookID:    bookID,
		Status:    model.JobStatusPending,
		CreatedTs: time.Now().Unix(),
	}
	return s.driver.AddJob(job)
}

func (s *Store) UpdateJobStatus(job *model.Job, status model.JobStatus, detail string) (*model.Job, error) {
	job.Status = status
	job.Detail = detail
	return s.driver.UpdateJob(job)
}

func (s *Store) GetJob(find *model.FindJob) (*model.Job, error) {
	list, err := s.driver.ListJobs(find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) ListJobs(find *model.FindJob) ([]*model.Job, error) {
	return s.driver.ListJobs(find)
}
