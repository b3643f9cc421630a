// Package cli implements the ytlikes command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"ytlikes/auth"
	"ytlikes/config"
	ythttp "ytlikes/http"
	"ytlikes/internal/logger"
	"ytlikes/library"
	"ytlikes/storage"
	"ytlikes/youtube"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// Env holds the process streams and replaceable collaborators.
type Env struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Provider overrides the Data API client provider.
	Provider youtube.ClientProvider
}

// DefaultEnv is bound to the process streams.
func DefaultEnv() Env {
	return Env{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// app is built from the configuration before each command runs.
type app struct {
	env    Env
	cfg    *config.Config
	layout storage.Layout
	log    *logger.Logger
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.layout = storage.Layout{
		InputDir:   cfg.InputDir,
		OutputDir:  cfg.OutputDir,
		SecretsDir: cfg.SecretsDir,
	}
	a.log = logger.New(a.env.Stdout, a.env.Stderr)
	return nil
}

func (a *app) openStore() (*storage.JSONProfileStore, error) {
	return storage.NewJSONProfileStore(a.layout.ProfilesFile())
}

// profiles resolves the optional profile argument: the named profile, which
// must be registered, or every registered profile in registry order.
func (a *app) profiles(ctx context.Context, args []string) ([]string, error) {
	store, err := a.openStore()
	if err != nil {
		return nil, err
	}
	defer store.Close()

	if len(args) > 0 {
		ok, err := store.HasProfile(ctx, args[0])
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("profile %q does not exist, create it with `ytlikes create %s`: %w", args[0], args[0], storage.ErrNotFound)
		}
		return args[:1], nil
	}

	profiles, err := store.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		a.log.Warn("No profiles found, create one with `ytlikes create <profile>`")
	}
	return profiles, nil
}

func (a *app) httpConfig() ythttp.Config {
	cfg := ythttp.DefaultConfig()
	cfg.RequestsPerSecond = a.cfg.RequestsPerSecond
	return cfg
}

func (a *app) authManager() *auth.Manager {
	return auth.NewManager(a.layout, a.log, a.cfg.CallbackPort, ythttp.NewClient(a.httpConfig()))
}

func (a *app) synchronizer() *youtube.Synchronizer {
	provider := a.env.Provider
	if provider == nil {
		provider = &youtube.APIClientProvider{
			Source: a.authManager(),
			Retry:  a.cfg.RetryConfig(),
			Quota:  youtube.NewQuotaTracker(a.cfg.QuotaReserve, a.log),
		}
	}
	return youtube.NewSynchronizer(provider, a.layout, a.log, youtube.SynchronizerConfig{
		PageDelay:      a.cfg.PageDelay,
		RatingInterval: a.cfg.RatingInterval,
	})
}

func (a *app) downloader() *youtube.Downloader {
	d := youtube.NewDownloader(a.layout, a.log)
	d.YtdlpPath = a.cfg.YtdlpPath
	d.ExtraFlags = a.cfg.YtdlpExtraFlags
	return d
}

func (a *app) validator() *library.Validator {
	return library.NewValidator(a.layout, a.log)
}

func newRootCmd(env Env) *cobra.Command {
	a := &app{env: env}

	root := &cobra.Command{
		Use:           "ytlikes",
		Short:         "Archive liked YouTube videos per profile",
		Long:          "ytlikes keeps a local archive of the videos liked by one or more YouTube accounts: it imports likes into a text file, downloads them with yt-dlp, keeps file names canonical and can export likes to another account.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}
	root.SetIn(env.Stdin)
	root.SetOut(env.Stdout)
	root.SetErr(env.Stderr)

	root.PersistentFlags().String("input-dir", "input", "Directory with likes files, download archives and the profile registry")
	root.PersistentFlags().String("output-dir", "output", "Directory receiving one sub-directory of videos per profile")
	root.PersistentFlags().String("secrets-dir", "secrets", "Directory with OAuth client secrets and credentials")
	root.PersistentFlags().String("ytdlp-path", "yt-dlp", "Path to the yt-dlp executable")

	root.AddCommand(
		newImportCmd(a),
		newExportCmd(a),
		newDownloadCmd(a),
		newValidateCmd(a),
		newRunCmd(a),
		newLoginCmd(a),
		newCreateCmd(a),
		newProfilesCmd(a),
		newAddCmd(a),
	)
	return root
}

// Execute runs the command line given by args.
func Execute(ctx context.Context, args []string, env Env) error {
	root := newRootCmd(env)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee
	}
	return &ExitError{Code: ExitFailure, Err: err}
}
