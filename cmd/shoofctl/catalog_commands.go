package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"shoof/internal/modkit/module"
	perr "shoof/internal/platform/errors"
	catalogdom "shoof/internal/services/api/catalog/domain"
	catalogmod "shoof/internal/services/api/catalog/module"
	catalogsvc "shoof/internal/services/api/catalog/service"
	"shoof/internal/services/api/catalog/repo"
)

func (c *commandContext) catalog(ctx context.Context) (*catalogsvc.Service, error) {
	deps, err := c.deps(ctx)
	if err != nil {
		return nil, err
	}
	return module.MustPortsOf[catalogmod.Ports](catalogmod.New(deps)).Query, nil
}

func newTitlesCommand(c *commandContext) *cobra.Command {
	var in catalogdom.ListTitlesInput

	cmd := &cobra.Command{
		Use:   "titles",
		Short: "List titles with their part counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.catalog(cmd.Context())
			if err != nil {
				return err
			}
			page, err := svc.ListTitles(cmd.Context(), in)
			if err != nil {
				return err
			}
			return emit(cmd, c, page.Items, func() string {
				rows := make([][]string, 0, len(page.Items))
				for _, t := range page.Items {
					rows = append(rows, []string{itoa(t.ID), t.Name, string(t.Kind), strconv.Itoa(t.PartCount)})
				}
				return renderTable([]string{"ID", "Title", "Kind", "Parts"}, rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight}) +
					fmt.Sprintf("\n%d of %d titles", len(page.Items), page.Total)
			})
		},
	}

	cmd.Flags().StringVar(&in.Sort, "sort", "", "insertion, alphabetical or recent")
	cmd.Flags().StringVar(&in.Kind, "kind", "", "series or movie")
	cmd.Flags().IntVar(&in.Limit, "limit", 0, "Page size")
	cmd.Flags().IntVar(&in.Offset, "offset", 0, "Rows to skip")
	return cmd
}

func newTitleCommand(c *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "title <id>",
		Short: "Show one title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, err := c.catalog(cmd.Context())
			if err != nil {
				return err
			}
			t, err := svc.GetTitle(cmd.Context(), id)
			if err != nil {
				return err
			}
			return emit(cmd, c, t, func() string {
				return renderTable([]string{"ID", "Title", "Kind", "Parts", "Added"},
					[][]string{{itoa(t.ID), t.Name, string(t.Kind), strconv.Itoa(t.PartCount), t.CreatedAt.Format("2006-01-02")}},
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft})
			})
		},
	}
}

func newPartsCommand(c *commandContext) *cobra.Command {
	var rowSize int

	cmd := &cobra.Command{
		Use:   "parts <title-id>",
		Short: "List a title's parts by season",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, err := c.catalog(cmd.Context())
			if err != nil {
				return err
			}
			tp, err := svc.ListParts(cmd.Context(), id)
			if err != nil {
				return err
			}
			size := rowSize
			if size <= 0 {
				size = svc.RowSize()
			}
			for i := range tp.Seasons {
				tp.Seasons[i].Grid = tp.Seasons[i].Rows(size)
			}
			return emit(cmd, c, tp, func() string { return renderSeasons(tp) })
		},
	}

	cmd.Flags().IntVar(&rowSize, "row-size", 0, "Parts per row")
	return cmd
}

// renderSeasons prints one table per season with a row per grid line
func renderSeasons(tp catalogdom.TitleParts) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", tp.Title.Name, tp.Title.Kind)
	for _, s := range tp.Seasons {
		rows := make([][]string, 0, len(s.Grid))
		for _, line := range s.Grid {
			cells := make([]string, len(line))
			for i, p := range line {
				cells[i] = strconv.Itoa(p.Number)
			}
			rows = append(rows, cells)
		}
		width := 1
		for _, r := range rows {
			width = max(width, len(r))
		}
		headers := make([]string, width)
		headers[0] = fmt.Sprintf("S%d", s.Season)
		b.WriteString(renderTable(headers, rows, nil))
		b.WriteString("\n")
	}
	if len(tp.Seasons) == 0 {
		b.WriteString("no parts\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func newPartCommand(c *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "part <id>",
		Short: "Show one part with its link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, err := c.catalog(cmd.Context())
			if err != nil {
				return err
			}
			p, err := svc.GetPart(cmd.Context(), id)
			if err != nil {
				return err
			}
			return emit(cmd, c, p, func() string {
				return renderTable([]string{"ID", "Title", "Season", "Part", "Link"},
					[][]string{{itoa(p.ID), p.TitleName, strconv.Itoa(p.Season), strconv.Itoa(p.PartNumber), orDash(p.Link)}},
					[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft})
			})
		},
	}
}

// classify needs no store, it runs the same cascade the pipeline does
func newClassifyCommand(c *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <text>",
		Short: "Show how a post would be catalogued",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := catalogsvc.New(offlineDB{}, repo.NewPG(), catalogsvc.Config{})
			out, err := svc.Classify(cmd.Context(), catalogdom.ClassifyInput{Text: strings.Join(args, " ")})
			if err != nil {
				return err
			}
			return emit(cmd, c, out, func() string {
				if !out.Recognized {
					return "not recognized: " + out.Normalized
				}
				k := out.Candidate
				return renderTable([]string{"Rule", "Title", "Kind", "Season", "Part"},
					[][]string{{out.Rule, k.Name, string(k.Kind), strconv.Itoa(k.Season), strconv.Itoa(k.Number)}},
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight})
			})
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, perr.WithField(perr.InvalidArgf("id must be a positive integer, got %q", s), "id")
	}
	return id, nil
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
