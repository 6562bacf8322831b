// autopayctl is a terminal client for the autopay backend. It signs in
// once, keeps the credential in the user's home directory, and reuses it
// across invocations until the backend rejects it.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	session "github.com/ussdautopay/go-session"
)

const usage = `usage: autopayctl <command>

commands:
  login        sign in with email and password
  register     create an account
  logout       sign out and drop the stored credential
  whoami       show the signed-in user
  profile      update profile fields interactively
  passwd       change the account password
  influencers  list creators and their shortcodes
  subs         list your subscriptions
  subscribe    start a subscription
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	baseURL := os.Getenv("AUTOPAY_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}

	app, err := newApp(baseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "autopayctl: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	ctx := context.Background()

	if err := app.Run(ctx, os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "autopayctl: %v\n", session.ErrorMessage(err))
		os.Exit(1)
	}
}

// App holds the session manager and the reader the commands prompt
// through.
type App struct {
	client  *session.Client
	manager *session.Manager
	reader  *bufio.Reader
}

func newApp(baseURL string) (*App, error) {
	client := session.NewClient(baseURL)

	store, err := openStore()
	if err != nil {
		return nil, err
	}

	manager := session.NewManager(client, store)

	return &App{
		client:  client,
		manager: manager,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

// openStore places the credential file under the user's home.
func openStore() (session.TokenStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return session.NewFileStore(filepath.Join(home, ".autopay", "session.json")), nil
}

func (a *App) Close() {
	a.manager.Close()
}

func (a *App) Run(ctx context.Context, command string) error {
	state := a.manager.Start(ctx)

	switch command {
	case "login":
		return a.cmdLogin(ctx)
	case "register":
		return a.cmdRegister(ctx)
	case "logout":
		a.manager.Logout(ctx)
		fmt.Println("signed out")
		return nil
	case "whoami":
		return a.cmdWhoami(state)
	case "profile":
		return a.cmdProfile(ctx)
	case "passwd":
		return a.cmdPasswd(ctx)
	case "influencers":
		return a.cmdInfluencers(ctx)
	case "subs":
		return a.cmdSubscriptions(ctx)
	case "subscribe":
		return a.cmdSubscribe(ctx)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}
