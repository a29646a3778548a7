// Package cli implements panchayatctl, the admin command line client for
// the Gram Panchayat backend. It shares the web app's API client, listing
// controller and stores, so list/delete/move behave the same in both.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dalemusser/grampanchayat/internal/app/system/apiclient"
	"github.com/dalemusser/grampanchayat/internal/app/system/auth"
	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
	"github.com/dalemusser/grampanchayat/internal/app/system/listing"
)

// ErrNotSignedIn is returned by commands that need a token when none is saved.
var ErrNotSignedIn = errors.New("not signed in; run `panchayatctl login` first")

// App carries what every command needs. Tests fill it directly; main
// builds it from the environment with NewApp.
type App struct {
	Config Config
	Out    io.Writer
	Log    *zap.Logger

	// Confirm overrides the terminal prompt used before deletes and resets.
	Confirm listing.Confirmer
	// ReadPassword overrides the masked terminal prompt used by login.
	ReadPassword func(prompt string) (string, error)

	creds     *FileCredentials
	assumeYes bool
}

// NewApp loads the environment and sets up stderr warning logs.
func NewApp() (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), zapcore.WarnLevel)
	return &App{Config: cfg, Out: os.Stdout, Log: zap.New(core)}, nil
}

// Execute builds the command tree and runs it.
func Execute(ctx context.Context) int {
	app, err := NewApp()
	if err != nil {
		pterm.Error.Println(err)
		return 2
	}
	defer func() { _ = app.Log.Sync() }()

	if err := NewRootCmd(app).ExecuteContext(ctx); err != nil {
		pterm.Error.Println(describe(err))
		return 1
	}
	return 0
}

// NewRootCmd returns the panchayatctl command tree bound to app.
func NewRootCmd(app *App) *cobra.Command {
	if app.Out == nil {
		app.Out = os.Stdout
	}
	if app.Log == nil {
		app.Log = zap.NewNop()
	}

	root := &cobra.Command{
		Use:           "panchayatctl",
		Short:         "Manage Gram Panchayat site content from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !fieldmodel.IsSupported(app.Config.Lang) {
				return fmt.Errorf("unsupported language %q (want one of %s)", app.Config.Lang, strings.Join(fieldmodel.Codes(), ", "))
			}
			app.Config.Lang = fieldmodel.Normalize(app.Config.Lang)
			app.creds = NewFileCredentials(app.Config.Credentials)
			return nil
		},
	}
	root.SetOut(app.Out)

	pf := root.PersistentFlags()
	pf.StringVar(&app.Config.APIURL, "api", app.Config.APIURL, "backend base URL (PANCHAYAT_API_URL)")
	pf.StringVarP(&app.Config.Lang, "lang", "l", app.Config.Lang, "content language: mr, hi or en (PANCHAYAT_LANG)")
	pf.StringVar(&app.Config.Credentials, "credentials", app.Config.Credentials, "token file (PANCHAYAT_CREDENTIALS)")
	pf.BoolVarP(&app.assumeYes, "yes", "y", false, "do not ask before deleting or resetting")

	root.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newTypesCmd(app),
		newListCmd(app),
		newDeleteCmd(app),
		newMoveCmd(app),
		newMessagesCmd(app),
		newVillageCmd(app),
	)
	return root
}

func (a *App) client() (*apiclient.Client, error) {
	return apiclient.New(apiclient.Config{
		BaseURL: a.Config.APIURL,
		Timeout: a.Config.Timeout,
		Logger:  a.Log,
	})
}

// anonymous is a session without credentials (login only).
func (a *App) anonymous() (*apiclient.Session, error) {
	c, err := a.client()
	if err != nil {
		return nil, err
	}
	return c.Session(nil, a.Config.Lang, nil), nil
}

// session is an authenticated session. An expired token is dropped
// before any request is sent.
func (a *App) session() (*apiclient.Session, error) {
	tok := a.creds.Token()
	if tok == "" {
		return nil, ErrNotSignedIn
	}
	if exp := auth.TokenExpiry(tok); !exp.IsZero() && time.Now().After(exp) {
		a.Log.Warn("saved token has expired", zap.Time("expired_at", exp))
		_ = a.creds.Clear()
		return nil, ErrNotSignedIn
	}
	c, err := a.client()
	if err != nil {
		return nil, err
	}
	return c.Session(a.creds, a.Config.Lang, func() {
		a.Log.Warn("backend rejected the saved token; credentials cleared", zap.String("file", a.creds.Path()))
	}), nil
}

func (a *App) confirmer() listing.Confirmer {
	if a.Confirm != nil && !a.assumeYes {
		return a.Confirm
	}
	return promptConfirmer{assumeYes: a.assumeYes}
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.Out, format, args...)
}

func (a *App) success(format string, args ...any) {
	fmt.Fprint(a.Out, pterm.Success.Sprintfln(format, args...))
}

func (a *App) info(format string, args ...any) {
	fmt.Fprint(a.Out, pterm.Info.Sprintfln(format, args...))
}

func (a *App) table(rows [][]string) error {
	s, err := pterm.DefaultTable.WithHasHeader().WithData(rows).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.Out, s)
	return nil
}

// describe turns an error into the line shown to the user.
func describe(err error) string {
	if _, ok := apiclient.AsError(err); ok {
		return apiclient.UserMessage(err)
	}
	return err.Error()
}
