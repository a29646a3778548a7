package cli

import (
	"github.com/spf13/cobra"

	"github.com/dalemusser/grampanchayat/internal/app/system/display"

	villagestore "github.com/dalemusser/grampanchayat/internal/app/store/village"
)

func newVillageCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "village",
		Short: "Inspect or reset the village profile",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the village profile and slider",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				sess, err := app.session()
				if err != nil {
					return err
				}
				p, err := villagestore.New(sess).Admin(cmd.Context())
				if err != nil {
					return err
				}
				if p.Record.ID == "" && len(p.Record.Fields) == 0 {
					app.info("The village profile has not been set up yet")
					return nil
				}
				name := display.Resolve(p.Record, "name", app.Config.Lang)
				app.printf("%s\n", name)
				rows := [][]string{{"Slide", "Image", "Caption"}}
				for _, s := range p.Slides {
					rows = append(rows, []string{s.ID, s.ImageURL, s.Captions[app.Config.Lang]})
				}
				if len(p.Slides) == 0 {
					app.info("No slider images")
					return nil
				}
				return app.table(rows)
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Clear the village profile (asks first unless --yes)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				sess, err := app.session()
				if err != nil {
					return err
				}
				done, err := villagestore.New(sess).Reset(cmd.Context(), app.confirmer())
				if err != nil {
					return err
				}
				if !done {
					app.info("Cancelled; the profile was left as it is")
					return nil
				}
				app.success("Village profile reset")
				return nil
			},
		},
	)
	return cmd
}
