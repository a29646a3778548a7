package cli

import (
	"errors"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/dalemusser/grampanchayat/internal/app/system/auth"
	"github.com/dalemusser/grampanchayat/internal/app/system/display"
)

func newLoginCmd(app *App) *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the admin token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			username = strings.TrimSpace(username)
			if username == "" {
				return errors.New("--username is required")
			}
			password, err := app.password("Password for " + username)
			if err != nil {
				return err
			}
			if password == "" {
				return errors.New("password is required")
			}

			sess, err := app.anonymous()
			if err != nil {
				return err
			}
			res, err := sess.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			if res.Token == "" {
				return errors.New("backend returned no token")
			}
			if err := app.creds.Save(res); err != nil {
				return err
			}
			app.success("Signed in as %s", res.AdminInfo.DisplayName())
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "admin username")
	return cmd
}

func (a *App) password(prompt string) (string, error) {
	if a.ReadPassword != nil {
		return a.ReadPassword(prompt)
	}
	return pterm.DefaultInteractiveTextInput.WithMask("*").Show(prompt)
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved admin token",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := app.creds.Clear(); err != nil {
				return err
			}
			app.success("Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in admin",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			p, ok := app.creds.Profile()
			if !ok {
				return ErrNotSignedIn
			}
			app.printf("%s", p.DisplayName())
			if p.Role != "" {
				app.printf(" (%s)", p.Role)
			}
			app.printf("\n")
			if exp := auth.TokenExpiry(app.creds.Token()); !exp.IsZero() {
				app.printf("token expires %s\n", display.NewFormatter(app.Config.Lang).DateTime(exp))
			}
			return nil
		},
	}
}
