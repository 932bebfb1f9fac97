package v1

import (
	"encoding/json"
	"net/http"

	"github.com/jimui/biblioteca/http/request"
	"github.com/jimui/biblioteca/http/response"
	"github.com/jimui/biblioteca/log"
	"github.com/jimui/biblioteca/model"
	"github.com/jimui/biblioteca/validator"
	"go.uber.org/zap"
)

func (h *Handler) listBooks(w http.ResponseWriter, r *http.Request) {
	find := &model.FindBook{}
	if category := request.QueryStringParam(r, "category", ""); category != "" {
		find.Category = &category
	}
	books, err := h.store.ListBooks(find)
	if err != nil {
		log.Error("Failed to list books", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, books)
}

func (h *Handler) getBook(w http.ResponseWriter, r *http.Request) {
	id := request.RouteStringParam(r, "id")
	book, err := h.store.GetBook(&model.FindBook{ID: &id})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if book == nil {
		response.NotFound(w, r)
		return
	}
	response.OK(w, r, book)
}

// saveBook creates or fully replaces a book. Admin only.
func (h *Handler) saveBook(w http.ResponseWriter, r *http.Request) {
	if request.GetUserRole(r) != model.RoleAdmin {
		response.Forbidden(w, r)
		return
	}
	save := &model.BookSaveRequest{}
	if err := json.NewDecoder(r.Body).Decode(save); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.ValidateBookSaveRequest(save); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	book, err := h.store.SaveBook(&model.Book{
		ID:         save.ID,
		Title:      save.Title,
		Author:     save.Author,
		Category:   save.Category,
		Summary:    save.Summary,
		CoverURL:   save.CoverURL,
		ContentURL: save.ContentURL,
	})
	if err != nil {
		log.Error("Failed to save book", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, book)
}

// deleteBook removes a book and every user's cached copy of it. Admin only.
func (h *Handler) deleteBook(w http.ResponseWriter, r *http.Request) {
	if request.GetUserRole(r) != model.RoleAdmin {
		response.Forbidden(w, r)
		return
	}
	id := request.RouteStringParam(r, "id")
	if err := h.store.DeleteBook(id); err != nil {
		log.Error("Failed to delete book", zap.String("book_id", id), zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	response.NoContent(w, r)
}

func (h *Handler) bookSummary(w http.ResponseWriter, r *http.Request) {
	id := request.RouteStringParam(r, "id")
	book, err := h.store.GetBook(&model.FindBook{ID: &id})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if book == nil {
		response.NotFound(w, r)
		return
	}
	text := h.summarizer.Summarize(r.Context(), book.Title, book.Author)
	response.OK(w, r, map[string]string{"summary": text})
}

// downloadBook enqueues a background download of the book's content for
// the signed-in user and answers with the pending job.
func (h *Handler) downloadBook(w http.ResponseWriter, r *http.Request) {
	userID := request.GetUserID(r)
	id := request.RouteStringParam(r, "id")

	book, err := h.store.GetBook(&model.FindBook{ID: &id})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if book == nil {
		response.NotFound(w, r)
		return
	}

	job, err := h.store.AddJob(userID, id)
	if err != nil {
		log.Error("Failed to add download job", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	h.downloadPool.Push(*job)
	response.Accepted(w, r, job)
}

func (h *Handler) getBookContent(w http.ResponseWriter, r *http.Request) {
	userID := request.GetUserID(r)
	id := request.RouteStringParam(r, "id")

	content, ok, err := h.store.GetLocalContent(userID, id)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if !ok {
		response.NotFound(w, r)
		return
	}
	response.OK(w, r, map[string]string{"book_id": id, "content": content})
}

func (h *Handler) removeBookContent(w http.ResponseWriter, r *http.Request) {
	userID := request.GetUserID(r)
	id := request.RouteStringParam(r, "id")

	if err := h.store.RemoveContentLocally(userID, id); err != nil {
		log.Error("Failed to remove cached content",
			zap.String("user_id", userID),
			zap.String("book_id", id),
			zap.Error(err),
		)
		response.ServerError(w, r, err)
		return
	}
	response.NoContent(w, r)
}
