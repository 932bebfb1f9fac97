package server

import (
	"context"
	"fmt"
	"net/http"
	"os"

	v1 "github.com/jimui/biblioteca/api/v1"
	"github.com/jimui/biblioteca/config"
	"github.com/jimui/biblioteca/store"
	"github.com/jimui/biblioteca/summary"
	"github.com/jimui/biblioteca/version"
	"github.com/jimui/biblioteca/worker"
	"github.com/gorilla/mux"
)

// StartServer starts the HTTP server
func StartServer(ctx context.Context, store *store.Store, pool worker.WorkPool, summarizer summary.Summarizer) (*http.Server, error) {
	addr := config.Opts.Host
	port := config.Opts.Port
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", addr, port),
		Handler: setupHandler(store, pool, summarizer),
	}

	startHTTPServer(server)

	return server, nil
}

func startHTTPServer(server *http.Server) {
	go func() {
		fmt.Println("Starting HTTP server in:", server.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			fmt.Println("HTTP server error", err)
			os.Exit(1)
		}
	}()
}

func setupHandler(store *store.Store, pool worker.WorkPool, summarizer summary.Summarizer) http.Handler {
	router := mux.NewRouter()

	apiHandler := v1.NewHandler(store, pool, summarizer, config.Opts.JWTSecret)
	v1.Server(router, apiHandler)

	router.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(); err != nil {
			http.Error(w, "Storage Connection Error", http.StatusInternalServerError)
			return
		}

		w.Write([]byte("OK"))
	}).Name("healthcheck")

	router.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(version.GetCurrentVersion()))
	}).Name("version")

	return router
}
