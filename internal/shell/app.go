// Package shell is the admin command line: one cobra command per dashboard
// route, rendering tables on stdout and notices on stderr.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"admin-dashboard/internal/client"
	"admin-dashboard/internal/config"
	"admin-dashboard/internal/logger"
	"admin-dashboard/internal/resource"
	"admin-dashboard/internal/session"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Options wires the shell to its surroundings. Zero values mean the
// process defaults.
type Options struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// Config skips loading from the environment when set
	Config *config.Config
	Store  session.Store
	Logger *zap.Logger
}

// App is the state shared by all commands of one invocation
type App struct {
	opts Options

	envFile string
	baseURL string
	verbose bool

	cfg      *config.Config
	logger   *zap.Logger
	client   *client.Client
	session  *session.Session
	notifier *heldNotifier
}

// reportedError marks an error the user has already been told about
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }

func (e reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return reportedError{err: err}
}

// Execute runs the command line and returns the process exit code
func Execute(ctx context.Context, args []string, opts Options) int {
	root := NewRootCommand(opts)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var rep reportedError
	if !errors.As(err, &rep) {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
	}
	return 1
}

func NewRootCommand(opts Options) *cobra.Command {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}

	app := &App{opts: opts}

	root := &cobra.Command{
		Use:           "admin",
		Short:         "Manage users, products and categories of the dashboard API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup()
		},
	}
	root.SetIn(opts.In)
	root.SetOut(opts.Out)
	root.SetErr(opts.Err)

	flags := root.PersistentFlags()
	flags.StringVar(&app.envFile, "env-file", "", "load variables from this .env file first")
	flags.StringVar(&app.baseURL, "base-url", "", "API base URL (overrides API_BASE_URL)")
	flags.BoolVarP(&app.verbose, "verbose", "v", false, "log requests to stderr")

	root.AddCommand(
		app.loginCommand(),
		app.registerCommand(),
		app.logoutCommand(),
		app.whoamiCommand(),
		resourceCommand(app, userResource),
		resourceCommand(app, productResource),
		resourceCommand(app, categoryResource),
	)

	return root
}

func (a *App) setup() error {
	cfg := a.opts.Config
	if cfg == nil {
		loaded, err := config.LoadFile(a.envFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if a.baseURL != "" {
		cfg.Client.BaseURL = a.baseURL
	}
	a.cfg = cfg

	a.logger = a.opts.Logger
	if a.logger == nil {
		log, err := logger.NewShell(a.verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		a.logger = log
	}

	a.client = client.New(cfg.Client.BaseURL,
		client.WithTimeout(cfg.Client.Timeout),
		client.WithLogger(a.logger),
	)

	store := a.opts.Store
	if store == nil {
		store = session.NewFileStore(cfg.Client.SessionFile)
	}
	a.session = session.New(a.client, store, a.logger)
	a.client.SetTokenSource(a.session)

	if _, err := a.session.Restore(context.Background()); err != nil && !errors.Is(err, session.ErrNoIdentity) {
		a.logger.Warn("Ignoring unreadable session", zap.Error(err))
	}

	a.notifier = &heldNotifier{w: a.opts.Err}
	return nil
}

// requireSession stops commands that need a signed-in identity
func (a *App) requireSession() error {
	if a.session.Token() == "" {
		return errors.New("not signed in, run 'admin login' first")
	}
	return nil
}

// authorized runs op, and runs it once more with a refreshed access token
// when the server rejects the current one. Notices of the rejected attempt
// are dropped. When the refresh fails the local identity is cleared.
func (a *App) authorized(ctx context.Context, op func() error) error {
	a.notifier.hold()
	err := op()
	if !isUnauthorized(err) {
		a.notifier.release(true)
		return err
	}

	if refreshErr := a.session.Refresh(ctx); refreshErr != nil {
		a.logger.Debug("Access token refresh failed", zap.Error(refreshErr))
		a.notifier.release(true)
		a.endSession()
		return err
	}
	a.notifier.release(false)

	err = op()
	if isUnauthorized(err) {
		a.endSession()
	}
	return err
}

func isUnauthorized(err error) bool {
	var apiErr *client.APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

func (a *App) endSession() {
	if err := a.session.Invalidate(); err != nil {
		a.logger.Warn("Failed to clear session", zap.Error(err))
	}
	fmt.Fprintln(a.opts.Err, "Session expired, run 'admin login' again")
}

func (a *App) deps(confirmer resource.Confirmer) resource.Deps {
	return resource.Deps{
		Client:    a.client,
		Confirmer: confirmer,
		Notifier:  a.notifier,
		PageSize:  a.cfg.Client.PageSize,
		Logger:    a.logger,
	}
}
