package cli

import (
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dalemusser/grampanchayat/internal/app/system/display"
	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
	"github.com/dalemusser/grampanchayat/internal/app/system/listing"
	"github.com/dalemusser/grampanchayat/internal/domain/models"

	messagestore "github.com/dalemusser/grampanchayat/internal/app/store/messages"
)

func newMessagesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "messages",
		Aliases: []string{"msg"},
		Short:   "Read and answer messages sent from the contact pages",
	}
	cmd.AddCommand(
		newMessagesListCmd(app),
		newMessagesReadCmd(app, true),
		newMessagesReadCmd(app, false),
		newMessagesStatusCmd(app),
		newMessagesReplyCmd(app),
	)
	return cmd
}

func newMessagesListCmd(app *App) *cobra.Command {
	var (
		status string
		search string
		page   int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List messages with the inbox counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if status != "" && !slices.Contains(models.MessageStatuses, status) {
				return messagestore.ErrStatus
			}
			sess, err := app.session()
			if err != nil {
				return err
			}

			var (
				col   listing.Collection
				stats messagestore.Stats
			)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				var err error
				col, err = listing.New(fieldmodel.MustLookup(models.TypeContactMessages), sess).
					Load(ctx, listing.Query{Page: page, Limit: 20, Status: status, Search: search})
				return err
			})
			g.Go(func() error {
				var err error
				stats, err = messagestore.New(sess).Stats(ctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			app.info("%d total, %d unread, %d pending, %d replied", stats.Total, stats.Unread, stats.Pending, stats.Replied)
			if col.Len() == 0 {
				app.info("No messages")
				return nil
			}
			return app.table(messageRows(col, app.Config.Lang))
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only messages with this status ("+strings.Join(models.MessageStatuses, ", ")+")")
	cmd.Flags().StringVarP(&search, "search", "s", "", "search name, email and text")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	return cmd
}

func messageRows(col listing.Collection, lang string) [][]string {
	f := display.NewFormatter(lang)
	rows := [][]string{{"ID", "From", "Email", "Status", "Read", "Received"}}
	for _, m := range col.Items {
		received := ""
		if !m.CreatedAt.IsZero() {
			received = f.DateTime(m.CreatedAt)
		}
		st := m.Str("status")
		if st == "" {
			st = "pending"
		}
		rows = append(rows, []string{
			m.ID,
			m.Str("name"),
			m.Str("email"),
			st,
			strconv.FormatBool(m.Bool("isRead")),
			received,
		})
	}
	return rows
}

func newMessagesReadCmd(app *App, read bool) *cobra.Command {
	use, short := "read <id>", "Mark a message as read"
	if !read {
		use, short = "unread <id>", "Mark a message as unread"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.session()
			if err != nil {
				return err
			}
			store := messagestore.New(sess)
			if read {
				err = store.MarkRead(cmd.Context(), args[0])
			} else {
				err = store.MarkUnread(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			app.success("Updated message %s", args[0])
			return nil
		},
	}
}

func newMessagesStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:       "status <id> <status>",
		Short:     "Set a message's status",
		Args:      cobra.ExactArgs(2),
		ValidArgs: models.MessageStatuses,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.session()
			if err != nil {
				return err
			}
			if err := messagestore.New(sess).SetStatus(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			app.success("Message %s is now %s", args[0], args[1])
			return nil
		},
	}
}

func newMessagesReplyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reply <id> <text...>",
		Short: "Save a reply and mark the message replied",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.session()
			if err != nil {
				return err
			}
			text := strings.Join(args[1:], " ")
			if err := messagestore.New(sess).Reply(cmd.Context(), args[0], text); err != nil {
				return err
			}
			app.success("Replied to message %s", args[0])
			return nil
		},
	}
}
