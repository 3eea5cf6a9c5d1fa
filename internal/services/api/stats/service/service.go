// Package service contains stats workflows
package service

import (
	"context"
	"time"

	"shoof/internal/modkit/repokit"
	perr "shoof/internal/platform/errors"
	ptime "shoof/internal/platform/time"
	"shoof/internal/services/api/stats/domain"
	"shoof/internal/services/api/stats/repo"
	auditdom "shoof/internal/services/audit/domain"
)

// Service defines the stats service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the stats service
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	audit  auditdom.ReaderPort
	links  domain.Linker
	now    func() time.Time
}

var _ Service = (*Svc)(nil)

// New constructs a stats service; audit and links may be nil
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], audit auditdom.ReaderPort, links domain.Linker) *Svc {
	if db == nil {
		panic("stats.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("stats.Service requires a non nil Repo binder")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db, audit: audit, links: links, now: time.Now}
}

// Summary counts titles and parts and lists the latest parts
func (s *Svc) Summary(ctx context.Context, in domain.SummaryInput) (domain.Summary, error) {
	n := in.Recent
	switch {
	case n <= 0:
		n = domain.DefaultRecent
	case n > domain.MaxRecent:
		n = domain.MaxRecent
	}

	var (
		out domain.Summary
		err error
	)
	if out.Titles, err = s.Repo.KindCounts(ctx); err != nil {
		return domain.Summary{}, perr.FromPostgres(err, "stats kind counts")
	}
	if out.Parts, err = s.Repo.PartCount(ctx); err != nil {
		return domain.Summary{}, perr.FromPostgres(err, "stats part count")
	}
	if out.Samples, err = s.Repo.SampleTitles(ctx, domain.SampleTitles); err != nil {
		return domain.Summary{}, perr.FromPostgres(err, "stats sample titles")
	}
	rows, err := s.Repo.RecentParts(ctx, n)
	if err != nil {
		return domain.Summary{}, perr.FromPostgres(err, "stats recent parts")
	}
	out.Recent = make([]domain.RecentPart, 0, len(rows))
	for _, r := range rows {
		p := r.RecentPart
		if s.links != nil {
			p.Link = s.links.DeepLink(r.ExternalMessageID)
		}
		out.Recent = append(out.Recent, p)
	}
	if out.Samples == nil {
		out.Samples = []string{}
	}
	return out, nil
}

// Ingest reports audit outcome counts over the last hours and the latest runs
// without an audit reader it answers Unavailable
func (s *Svc) Ingest(ctx context.Context, in domain.IngestInput) (domain.IngestStats, error) {
	if s.audit == nil {
		return domain.IngestStats{}, perr.Unavailablef("ingest audit is disabled")
	}
	hours := in.Hours
	if hours <= 0 {
		hours = 24
	}
	since := ptime.HoursBack(s.now(), hours)

	counts, err := s.audit.OutcomeCounts(ctx, since)
	if err != nil {
		return domain.IngestStats{}, err
	}
	runs, err := s.Repo.RecentRuns(ctx, domain.DefaultRecent)
	if err != nil {
		return domain.IngestStats{}, perr.FromPostgres(err, "stats recent runs")
	}
	if counts == nil {
		counts = []auditdom.OutcomeCount{}
	}
	return domain.IngestStats{Since: since, Outcomes: counts, Runs: runs}, nil
}
