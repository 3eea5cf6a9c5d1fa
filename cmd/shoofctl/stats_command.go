package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"shoof/internal/modkit"
	"shoof/internal/modkit/module"
	catalogmod "shoof/internal/services/api/catalog/module"
	statsdom "shoof/internal/services/api/stats/domain"
	statsmod "shoof/internal/services/api/stats/module"
	auditdom "shoof/internal/services/audit/domain"
	auditsvc "shoof/internal/services/audit/service"
)

func newStatsCommand(c *commandContext) *cobra.Command {
	var (
		recent int
		hours  int
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Catalog counts, latest parts and ingest outcomes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := c.deps(cmd.Context())
			if err != nil {
				return err
			}
			links := module.MustPortsOf[statsdom.Linker](catalogmod.New(deps))
			var reader auditdom.ReaderPort
			if a := auditsvc.New(deps); a.Enabled() {
				reader = a
			}
			svc := module.MustPortsOf[statsdom.ServicePort](statsmod.New(deps, reader, modkit.WithPorts(links)))

			sum, err := svc.Summary(cmd.Context(), statsdom.SummaryInput{Recent: recent})
			if err != nil {
				return err
			}
			out := struct {
				Summary statsdom.Summary      `json:"summary"`
				Ingest  *statsdom.IngestStats `json:"ingest,omitempty"`
			}{Summary: sum}
			if reader != nil {
				ing, err := svc.Ingest(cmd.Context(), statsdom.IngestInput{Hours: hours})
				if err != nil {
					return err
				}
				out.Ingest = &ing
			}

			return emit(cmd, c, out, func() string {
				var b strings.Builder
				fmt.Fprintf(&b, "titles %d (series %d, movies %d), parts %d\n",
					sum.Titles.Total, sum.Titles.Series, sum.Titles.Movies, sum.Parts)
				if len(sum.Samples) > 0 {
					fmt.Fprintf(&b, "latest titles: %s\n", strings.Join(sum.Samples, ", "))
				}
				rows := make([][]string, 0, len(sum.Recent))
				for _, p := range sum.Recent {
					rows = append(rows, []string{itoa(p.ID), p.TitleName, strconv.Itoa(p.Season), strconv.Itoa(p.Number), orDash(p.Link)})
				}
				b.WriteString(renderTable([]string{"ID", "Title", "Season", "Part", "Link"}, rows,
					[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft}))
				if out.Ingest != nil {
					rows = rows[:0]
					for _, o := range out.Ingest.Outcomes {
						rows = append(rows, []string{o.Outcome, orDash(o.Rule), strconv.FormatUint(o.Events, 10)})
					}
					b.WriteString("\n")
					b.WriteString(renderTable([]string{"Outcome", "Rule", "Events"}, rows,
						[]columnAlignment{alignLeft, alignLeft, alignRight}))
				}
				return b.String()
			})
		},
	}

	cmd.Flags().IntVar(&recent, "recent", statsdom.DefaultRecent, "Latest parts to list")
	cmd.Flags().IntVar(&hours, "hours", 24, "Ingest outcome window in hours")
	return cmd
}
