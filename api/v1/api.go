package v1

import (
	"github.com/jimui/biblioteca/middleware"
	"github.com/jimui/biblioteca/store"
	"github.com/jimui/biblioteca/summary"
	"github.com/jimui/biblioteca/worker"
	"github.com/gorilla/mux"
	"net/http"
)

type Handler struct {
	store        *store.Store
	downloadPool worker.WorkPool
	summarizer   summary.Summarizer
	// For JWT
	secret string
}

// NewHandler is a constructor for the v1.Handler
func NewHandler(store *store.Store, pool worker.WorkPool, summarizer summary.Summarizer, secret string) *Handler {
	return &Handler{
		store:        store,
		downloadPool: pool,
		summarizer:   summarizer,
		secret:       secret,
	}
}

func Server(router *mux.Router, handler *Handler) {
	sr := router.PathPrefix("/api/v1").Subrouter()
	m := middleware.NewMiddleware(handler.store)
	sr.Use(m.HandleCORS)
	sr.Use(m.LoggingRequest)
	sr.Use(m.Compress)
	sr.Use(NewAuthInterceptor(handler.store, handler.secret).AuthenticationInterceptor)
	sr.Methods(http.MethodOptions)

	sr.HandleFunc("/signup", handler.signUp).Methods(http.MethodPost)
	sr.HandleFunc("/signin", handler.signIn).Methods(http.MethodPost)
	sr.HandleFunc("/signout", handler.signOut).Methods(http.MethodPost)
	sr.HandleFunc("/me", handler.me).Methods(http.MethodGet)

	sr.HandleFunc("/books", handler.listBooks).Methods(http.MethodGet)
	sr.HandleFunc("/books", handler.saveBook).Methods(http.MethodPost)
	sr.HandleFunc("/books", handler.saveBook).Methods(http.MethodPut)
	sr.HandleFunc("/books/{id}", handler.getBook).Methods(http.MethodGet)
	sr.HandleFunc("/books/{id}", handler.deleteBook).Methods(http.MethodDelete)
	sr.HandleFunc("/books/{id}/summary", handler.bookSummary).Methods(http.MethodGet)
	sr.HandleFunc("/books/{id}/download", handler.downloadBook).Methods(http.MethodPost)
	sr.HandleFunc("/books/{id}/content", handler.getBookContent).Methods(http.MethodGet)
	sr.HandleFunc("/books/{id}/content", handler.removeBookContent).Methods(http.MethodDelete)

	sr.HandleFunc("/categories", handler.listCategories).Methods(http.MethodGet)
	sr.HandleFunc("/categories", handler.addCategory).Methods(http.MethodPost)
	sr.HandleFunc("/categories/{id}", handler.deleteCategory).Methods(http.MethodDelete)

	sr.HandleFunc("/favorites/{bookID}", handler.toggleFavorite).Methods(http.MethodPost)
	sr.HandleFunc("/history", handler.getHistory).Methods(http.MethodGet)
	sr.HandleFunc("/history/{bookID}", handler.addToHistory).Methods(http.MethodPost)
	sr.HandleFunc("/recommendations", handler.recommendations).Methods(http.MethodGet)

	sr.HandleFunc("/jobs", handler.listJobs).Methods(http.MethodGet)
	sr.HandleFunc("/jobs/{id}", handler.getJob).Methods(http.MethodGet)
}
