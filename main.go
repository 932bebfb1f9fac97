package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jimui/biblioteca/config"
	"github.com/jimui/biblioteca/log"
	"github.com/jimui/biblioteca/server"
	"github.com/jimui/biblioteca/store"
	"github.com/jimui/biblioteca/store/db"
	"github.com/jimui/biblioteca/summary"
	"github.com/jimui/biblioteca/util"
	"github.com/jimui/biblioteca/worker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	greetingBanner = `
██████  ██ ██████  ██      ██  ██████  ████████ ███████  ██████  █████
██   ██ ██ ██   ██ ██      ██ ██    ██    ██    ██      ██      ██   ██
██████  ██ ██████  ██      ██ ██    ██    ██    █████   ██      ███████
██   ██ ██ ██   ██ ██      ██ ██    ██    ██    ██      ██      ██   ██
██████  ██ ██████  ███████ ██  ██████     ██    ███████  ██████ ██   ██
`
)

var (
	configFile string

	rootCmd = &cobra.Command{
		Use:   "biblioteca",
		Short: "Biblioteca is a digital library and reading tracker",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			driver, err := db.New(config.Opts)
			if err != nil {
				log.Error("Error opening storage backend", zap.Error(err))
				return
			}
			defer driver.Close()

			if sqlDriver, ok := driver.(*db.DB); ok {
				if err := sqlDriver.Migrate(ctx); err != nil {
					log.Error("Error migrating database", zap.Error(err))
					return
				}
			}

			s := store.NewStore(driver)
			if err := s.Ping(); err != nil {
				log.Error("Error pinging storage backend", zap.Error(err))
				return
			}
			if err := s.Init(); err != nil {
				log.Error("Error seeding storage backend", zap.Error(err))
				return
			}

			pool := worker.NewDownloadPool(s, config.Opts.WorkerPoolSize)
			summarizer := summary.New(config.Opts)

			httpServer, err := server.StartServer(ctx, s, pool, summarizer)
			if err != nil {
				log.Error("Error starting server", zap.Error(err))
				return
			}
			fmt.Print(greetingBanner, "\n")

			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt, syscall.SIGTERM)
			select {
			case <-c:
			case <-ctx.Done():
			}

			if err := httpServer.Shutdown(ctx); err != nil {
				log.Error("Error shutting down server", zap.Error(err))
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to the config file")
	rootCmd.PersistentFlags().String("host", "", "host to listen on")
	rootCmd.PersistentFlags().Int("port", 0, "port to listen on")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("backend", "", `storage backend: "sqlite" or "memory"`)

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	opts, err := config.GetConfig()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}
	if configFile != "" {
		if opts, err = config.ParseFile(configFile); err != nil {
			fmt.Println("Error parsing config file:", err)
			os.Exit(1)
		}
	}

	if host, _ := rootCmd.PersistentFlags().GetString("host"); host != "" {
		opts.Host = host
	}
	if port, _ := rootCmd.PersistentFlags().GetInt("port"); port != 0 {
		opts.Port = port
	}
	if data, _ := rootCmd.PersistentFlags().GetString("data"); data != "" {
		opts.Data = data
	}
	if backend, _ := rootCmd.PersistentFlags().GetString("backend"); backend != "" {
		opts.Backend = backend
	}
	if opts.JWTSecret == "" {
		// Sessions do not survive a restart without a configured secret
		secret, err := util.RandomString(32)
		if err != nil {
			fmt.Println("Error generating JWT secret:", err)
			os.Exit(1)
		}
		opts.JWTSecret = secret
	}

	log.Logger = log.NewLogger()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error executing command:", err)
		os.Exit(1)
	}
	if log.Logger != nil {
		defer log.Logger.Sync()
	}
}
