package model // import "github.com/jimui/biblioteca/model"

type Book struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	// Category is a free-text label matching a Category name.
	Category string `json:"category"`
	Summary  string `json:"summary"`
	CoverURL string `json:"cover_url"`
	// ContentURL points at the full text used by the offline download.
	ContentURL string `json:"content_url,omitempty"`
	CreatedTs  int64  `json:"created_ts"`
}

type FindBook struct {
	ID       *string `json:"id"`
	Title    *string `json:"title"`
	Author   *string `json:"author"`
	Category *string `json:"category"`

	// The maximum number of books to return.
	Limit *int `json:"limit"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type BookSaveRequest struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	Category   string `json:"category"`
	Summary    string `json:"summary"`
	CoverURL   string `json:"cover_url"`
	ContentURL string `json:"content_url"`
}

type CategorySaveRequest struct {
	Name string `json:"name"`
}
