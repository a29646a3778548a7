package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dalemusser/grampanchayat/internal/app/system/display"
	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
	"github.com/dalemusser/grampanchayat/internal/app/system/listing"
	"github.com/dalemusser/grampanchayat/internal/domain/models"
)

// collectionSchema resolves a resource type that has a list (not the
// village singleton).
func collectionSchema(resourceType string) (fieldmodel.Schema, error) {
	s, ok := fieldmodel.Lookup(resourceType)
	if !ok || s.Singleton {
		return fieldmodel.Schema{}, fmt.Errorf("unknown resource type %q; see `panchayatctl types`", resourceType)
	}
	return s, nil
}

func newTypesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the resource types that can be managed",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			rows := [][]string{{"Type", "Ordered", "Read only"}}
			for _, t := range fieldmodel.Types() {
				s := fieldmodel.MustLookup(t)
				if s.Singleton {
					continue
				}
				rows = append(rows, []string{t, yesNo(s.Ordered), yesNo(s.ReadOnly)})
			}
			return app.table(rows)
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func newListCmd(app *App) *cobra.Command {
	var (
		search string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "list <type>",
		Short: "List the records of a resource type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := collectionSchema(args[0])
			if err != nil {
				return err
			}
			sess, err := app.session()
			if err != nil {
				return err
			}
			col, err := listing.New(schema, sess).Load(cmd.Context(), listing.Query{Limit: limit})
			if err != nil {
				return err
			}
			col = listing.Filter(col, listing.Contains(search, schema.SearchKeys()...))
			if col.Len() == 0 {
				app.info("No %s found", schema.Type)
				return nil
			}
			return app.table(recordRows(schema, col, app.Config.Lang))
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "only records containing this text")
	cmd.Flags().IntVar(&limit, "limit", 0, "ask the backend for at most this many records")
	return cmd
}

func recordRows(schema fieldmodel.Schema, col listing.Collection, lang string) [][]string {
	f := display.NewFormatter(lang)
	header := []string{"#", "ID", "Title", "Updated"}
	if schema.Ordered {
		header = append(header, "Order")
	}
	rows := [][]string{header}
	for i, res := range col.Items {
		updated := ""
		if !res.UpdatedAt.IsZero() {
			updated = f.Date(res.UpdatedAt)
		}
		row := []string{strconv.Itoa(i + 1), res.ID, display.Resolve(res, schema.TitleField, lang), updated}
		if schema.Ordered {
			row = append(row, res.Str("order"))
		}
		rows = append(rows, row)
	}
	return rows
}

func newDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <type> <id>",
		Short: "Delete one record (asks first unless --yes)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := collectionSchema(args[0])
			if err != nil {
				return err
			}
			sess, err := app.session()
			if err != nil {
				return err
			}
			col, removed, err := listing.New(schema, sess).Remove(cmd.Context(), args[1], app.confirmer())
			if err != nil {
				return err
			}
			if !removed {
				app.info("Cancelled; nothing was deleted")
				return nil
			}
			app.success("Deleted %s %s (%d left)", schema.Type, args[1], col.Len())
			return nil
		},
	}
}

func newMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:       "move <type> <id> <up|down>",
		Short:     "Move a record one place up or down",
		Args:      cobra.ExactArgs(3),
		ValidArgs: []string{models.MoveUp, models.MoveDown},
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := collectionSchema(args[0])
			if err != nil {
				return err
			}
			sess, err := app.session()
			if err != nil {
				return err
			}
			col, err := listing.New(schema, sess).Reorder(cmd.Context(), args[1], args[2])
			if err != nil {
				return err
			}
			app.success("Moved %s %s %s", schema.Type, args[1], args[2])
			return app.table(recordRows(schema, col, app.Config.Lang))
		},
	}
}
