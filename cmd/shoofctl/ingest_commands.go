package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"shoof/internal/adapters/ingest/channel"
	"shoof/internal/adapters/ingest/source"
	"shoof/internal/modkit/module"
	perr "shoof/internal/platform/errors"
	"shoof/internal/platform/store/migrate"
	ptime "shoof/internal/platform/time"
	backfilldom "shoof/internal/services/backfill/domain"
	backfillmod "shoof/internal/services/backfill/module"
	ingestmod "shoof/internal/services/ingest/module"
	monitormod "shoof/internal/services/monitor/module"
)

func newMigrateCommand(c *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.ensureStore(cmd.Context())
			if err != nil {
				return err
			}
			applied, err := migrate.Up(cmd.Context(), st.PG)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", strings.Join(applied, ", "))
			return err
		},
	}
}

func newBackfillCommand(c *commandContext) *cobra.Command {
	var (
		limit    int
		beforeID int64
	)

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Import a window of channel history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := c.deps(cmd.Context())
			if err != nil {
				return err
			}
			ing := ingestmod.New(deps, ingestmod.Options{WriteTimeout: monitormod.FromConfig(c.root).WriteTimeout})
			if err := ing.Prepare(cmd.Context()); err != nil {
				return err
			}
			src, err := source.Open(source.FromConfig(c.root), deps.RDS, 0)
			if err != nil {
				return err
			}
			proc := module.MustPortsOf[ingestmod.Ports](ing).Processor
			bf := backfillmod.New(deps, src, proc)

			w := bf.Options().Window
			if cmd.Flags().Changed("limit") {
				w.Limit = limit
			}
			if cmd.Flags().Changed("before") {
				w.BeforeID = beforeID
			}
			rep, err := module.MustPortsOf[backfillmod.Ports](bf).Runner.Import(cmd.Context(), w)
			if err != nil && rep.RunID == "" {
				return err
			}
			if werr := emitReport(cmd, c, rep); werr != nil {
				return werr
			}
			return err
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 500, "Posts to fetch, newest first")
	cmd.Flags().Int64Var(&beforeID, "before", 0, "Only posts older than this message id")
	return cmd
}

func emitReport(cmd *cobra.Command, c *commandContext, rep backfilldom.Report) error {
	return emit(cmd, c, rep, func() string {
		return renderTable(
			[]string{"Run", "Channel", "Fetched", "Imported", "Duplicates", "Skipped", "Took"},
			[][]string{{
				rep.RunID, rep.Channel,
				strconv.Itoa(rep.Fetched), strconv.Itoa(rep.Imported),
				strconv.Itoa(rep.Duplicates), strconv.Itoa(rep.Skipped),
				rep.FinishedAt.Sub(rep.StartedAt).Round(time.Millisecond).String(),
			}},
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
		)
	})
}

func newRelayCommand(c *commandContext) *cobra.Command {
	relayCmd := &cobra.Command{
		Use:   "relay",
		Short: "Work with the redis relay stream",
	}
	relayCmd.AddCommand(newRelayPushCommand(c))
	return relayCmd
}

func newRelayPushCommand(c *commandContext) *cobra.Command {
	var postedAt string

	cmd := &cobra.Command{
		Use:   "push <message-id> <text>",
		Short: "Append one post to the relay stream",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p := channel.Post{ID: id, Text: strings.Join(args[1:], " "), PostedAt: time.Now().UTC()}
			if postedAt != "" {
				at, err := ptime.ParseUTC(postedAt)
				if err != nil {
					return perr.WithField(perr.InvalidArgf("posted-at must be RFC3339: %v", err), "posted_at")
				}
				p.PostedAt = at
			}

			deps, err := c.deps(cmd.Context())
			if err != nil {
				return err
			}
			r, err := source.OpenRelay(source.FromConfig(c.root), deps.RDS)
			if err != nil {
				return err
			}
			if err := r.Publish(cmd.Context(), p); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "pushed %d to %s\n", id, r.Key())
			return err
		},
	}

	cmd.Flags().StringVar(&postedAt, "posted-at", "", "Post time, RFC3339; defaults to now")
	return cmd
}
