package model

// JobStatus is the lifecycle state of a background download job.
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusDone    JobStatus = "DONE"
	JobStatusFailed  JobStatus = "FAILED"
)

// Job is one offline-download unit of work: fetch a book's content and
// place it in the local content cache of the requesting user.
type Job struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	BookID    string    `json:"book_id"`
	Status    JobStatus `json:"status"`
	Detail    string    `json:"detail"`
	CreatedTs int64     `json:"created_ts"`
}

type FindJob struct {
	ID     *string    `json:"id"`
	UserID *string    `json:"user_id"`
	BookID *string    `json:"book_id"`
	Status *JobStatus `json:"status"`
}
