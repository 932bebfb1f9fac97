package v1

import (
	"net/http"

	"github.com/jimui/biblioteca/http/request"
	"github.com/jimui/biblioteca/http/response"
	"github.com/jimui/biblioteca/log"
	"github.com/jimui/biblioteca/model"
	"go.uber.org/zap"
)

// toggleFavorite flips the membership of a book in the signed-in user's
// favorites and returns the updated profile.
func (h *Handler) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	userID := request.GetUserID(r)
	bookID := request.RouteStringParam(r, "bookID")

	book, err := h.store.GetBook(&model.FindBook{ID: &bookID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if book == nil {
		response.NotFound(w, r)
		return
	}

	user, err := h.store.ToggleFavorite(userID, bookID)
	if err != nil {
		log.Error("Failed to toggle favorite", zap.String("user_id", userID), zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	if user == nil {
		response.NotFound(w, r)
		return
	}
	response.OK(w, r, user)
}

func (h *Handler) getHistory(w http.ResponseWriter, r *http.Request) {
	userID := request.GetUserID(r)
	user, err := h.store.GetUser(&model.FindUser{ID: &userID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if user == nil {
		response.NotFound(w, r)
		return
	}
	response.OK(w, r, user.ReadingHistory)
}

func (h *Handler) addToHistory(w http.ResponseWriter, r *http.Request) {
	userID := request.GetUserID(r)
	bookID := request.RouteStringParam(r, "bookID")

	book, err := h.store.GetBook(&model.FindBook{ID: &bookID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if book == nil {
		response.NotFound(w, r)
		return
	}

	user, err := h.store.AddToHistory(userID, bookID)
	if err != nil {
		log.Error("Failed to record reading history", zap.String("user_id", userID), zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	if user == nil {
		response.NotFound(w, r)
		return
	}
	response.OK(w, r, user.ReadingHistory)
}

// recommendations suggests titles based on the user's favorites.
func (h *Handler) recommendations(w http.ResponseWriter, r *http.Request) {
	userID := request.GetUserID(r)
	user, err := h.store.GetUser(&model.FindUser{ID: &userID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if user == nil {
		response.NotFound(w, r)
		return
	}

	titles := make([]string, 0, len(user.Favorites))
	for _, bookID := range user.Favorites {
		id := bookID
		book, err := h.store.GetBook(&model.FindBook{ID: &id})
		if err != nil {
			response.ServerError(w, r, err)
			return
		}
		if book != nil {
			titles = append(titles, book.Title)
		}
	}
	response.OK(w, r, h.summarizer.Recommend(r.Context(), titles))
}

func (h *Handler) listJobs(w http.ResponseWriter, r *http.Request) {
	userID := request.GetUserID(r)
	jobs, err := h.store.ListJobs(&model.FindJob{UserID: &userID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, jobs)
}

func (h *Handler) getJob(w http.ResponseWriter, r *http.Request) {
	userID := request.GetUserID(r)
	id := request.RouteStringParam(r, "id")
	job, err := h.store.GetJob(&model.FindJob{ID: &id})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	// Jobs are private to their owner
	if job == nil || job.UserID != userID {
		response.NotFound(w, r)
		return
	}
	response.OK(w, r, job)
}
