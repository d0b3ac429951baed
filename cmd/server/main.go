package main

import (
	"context"
	"errors"
	"flag"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vncsmyrnk/pollweb/internal/adapters/handler/http"
	"github.com/vncsmyrnk/pollweb/internal/adapters/pollservice"
	"github.com/vncsmyrnk/pollweb/internal/adapters/session/cookie"
	"github.com/vncsmyrnk/pollweb/internal/config"
	"github.com/vncsmyrnk/pollweb/internal/core/services"
	"github.com/vncsmyrnk/pollweb/internal/logging"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		logging.Log.Fatalf("failed to load config: %v", err)
	}

	flag.StringVar(&conf.Addr, "addr", conf.Addr, "Listen address")
	flag.StringVar(&conf.BaseURL, "poll-service", conf.BaseURL, "Poll service base URL")
	flag.Parse()

	logOut, closeLog, err := logging.Output(conf.File, os.Stdout)
	if err != nil {
		logging.Log.Fatal(err)
	}
	defer closeLog()
	logging.BootstrapLogger(conf.Level, logOut)

	client, err := pollservice.NewClient(conf.BaseURL, conf.Timeout)
	if err != nil {
		logging.Log.Fatal(err)
	}

	views, err := http.NewViews()
	if err != nil {
		logging.Log.Fatal(err)
	}

	authService := services.NewAuthService(client)
	sessions := http.NewSessions(authService, cookie.Options{
		Name:   conf.CookieName,
		Secure: conf.CookieSecure,
	})

	pollHandler := http.NewPollHandler(client, views)
	authHandler := http.NewAuthHandler(authService, sessions, views)
	handler := http.NewHandler(pollHandler, authHandler, sessions)

	server := &stdhttp.Server{
		Addr:              conf.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logging.Log.Infof("listening on %s, poll service at %s", conf.Addr, conf.BaseURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			logging.Log.Fatal(err)
		}
	}()

	<-ctx.Done()
	logging.Log.Info("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Log.Errorf("shutdown failed: %v", err)
		os.Exit(1)
	}
}
