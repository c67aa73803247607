package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/phonebook/internal/client/client"
	"github.com/dmitrijs2005/phonebook/internal/client/config"
	"github.com/dmitrijs2005/phonebook/internal/common"
)

type App struct {
	config *config.Config
	client client.Client
	reader *bufio.Reader
	out    io.Writer

	userName string
}

func NewApp(c *config.Config) (*App, error) {
	if c.ServerURL == "" {
		return nil, errors.New("server url is empty")
	}

	return &App{
		config: c,
		client: client.NewHTTPClient(c.ServerURL, c.RequestTimeout),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.client.LoggedIn()
}

func (a *App) getStatus() string {
	if !a.isLoggedIn() {
		a.userName = ""
		return "(guest)"
	}
	return fmt.Sprintf("(%s)", a.userName)
}

// Run waits briefly for the server and then blocks in the REPL until the
// user exits or stdin closes. The session is revoked on the way out.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to phonebook CLI (type 'help' for commands)")

	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := a.client.WaitReady(waitCtx, 5*time.Second); err != nil {
		fmt.Fprintf(a.out, "warning: server at %s is not responding: %v\n", a.config.ServerURL, err)
	}
	cancel()

	runREPL(ctx, a, a.getStatus, a.reader)

	if a.isLoggedIn() {
		_ = a.client.Logout(context.Background())
	}
}

// describeErr turns client errors into a line for the user.
func describeErr(err error) string {
	switch {
	case errors.Is(err, client.ErrSessionExpired):
		return "Session expired, please log in again."
	case errors.Is(err, client.ErrNotLoggedIn):
		return "You are not logged in. Use 'login' first."
	case errors.Is(err, client.ErrUnavailable):
		return "Server is unavailable, try again later."
	case errors.Is(err, common.ErrWrongPassword):
		return "Wrong password."
	case errors.Is(err, common.ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, common.ErrAvatarStorageDisabled):
		return "Avatar uploads are disabled on this server."
	default:
		return "error: " + err.Error()
	}
}
