package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vncsmyrnk/pollweb/internal/adapters/handler/tui"
	"github.com/vncsmyrnk/pollweb/internal/adapters/pollservice"
	"github.com/vncsmyrnk/pollweb/internal/adapters/session/file"
	"github.com/vncsmyrnk/pollweb/internal/config"
	"github.com/vncsmyrnk/pollweb/internal/core/domain"
	"github.com/vncsmyrnk/pollweb/internal/core/ports"
	"github.com/vncsmyrnk/pollweb/internal/core/services"
	"github.com/vncsmyrnk/pollweb/internal/logging"
)

const usage = `usage: pollterm [flags] [command]

commands:
  browse                          browse polls and vote (default)
  login -name NAME -password PW   log in and remember the session
  register -name NAME -password PW
  logout                          forget the session
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "pollterm:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	conf, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fs := flag.NewFlagSet("pollterm", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(fs.Output(), usage) }
	fs.StringVar(&conf.BaseURL, "poll-service", conf.BaseURL, "Poll service base URL")
	fs.StringVar(&conf.TokenFile, "token-file", conf.TokenFile, "Where the session token is kept")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Log lines stay off the terminal the program draws on.
	logOut, closeLog, err := logging.Output(conf.File, io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()
	logging.BootstrapLogger(conf.Level, logOut)

	client, err := pollservice.NewClient(conf.BaseURL, conf.Timeout)
	if err != nil {
		return err
	}
	store := file.New(conf.TokenFile)
	auth := services.NewAuthService(client)

	cmd, rest := "browse", fs.Args()
	if len(rest) > 0 {
		cmd, rest = rest[0], rest[1:]
	}

	ctx := context.Background()
	switch cmd {
	case "browse":
		return browse(ctx, client, auth, store)
	case "login":
		return authenticate(ctx, "login", rest, store, auth.Login)
	case "register":
		return authenticate(ctx, "register", rest, store, auth.Register)
	case "logout":
		if err := auth.Logout(store); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func browse(ctx context.Context, client ports.PollClient, auth ports.AuthService, store ports.SessionStore) error {
	session, err := auth.Current(store)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			return errors.New("not logged in, run `pollterm login -name NAME -password PW` first")
		}
		return err
	}

	_, err = tea.NewProgram(tui.New(ctx, client, session)).Run()
	return err
}

type authFunc func(ctx context.Context, store ports.SessionStore, creds ports.Credentials) (*domain.Session, error)

func authenticate(ctx context.Context, name string, args []string, store ports.SessionStore, fn authFunc) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	var creds ports.Credentials
	fs.StringVar(&creds.Name, "name", "", "User name")
	fs.StringVar(&creds.Password, "password", os.Getenv("POLL_PASSWORD"), "Password (prefer POLL_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if creds.Name == "" || creds.Password == "" {
		return errors.New("name and password are required")
	}

	session, err := fn(ctx, store, creds)
	if err != nil {
		return err
	}
	fmt.Printf("Welcome, %s.\n", session.Name)
	return nil
}
