// Package service implements the catalog query api
package service

import (
	"context"
	"time"

	"shoof/internal/core/classify"
	"shoof/internal/core/normalize"
	"shoof/internal/modkit/repokit"
	perr "shoof/internal/platform/errors"
	"shoof/internal/services/api/catalog/domain"
	"shoof/internal/services/api/catalog/repo"
)

// Config carries listing defaults and the link base
type Config struct {
	DefaultSort  domain.Sort   // <empty> -> insertion
	ChannelURL   string        // deep link base, e.g. https://t.me/ShoofFilm
	RowSize      int           // default row width for grouped parts; <=0 -> 5
	QueryTimeout time.Duration // per call bound; <=0 -> none
}

// Service implements domain.QueryPort
type Service struct {
	db   repokit.TxRunner
	repo repokit.Binder[repo.Repo]
	cfg  Config
	cls  *classify.Classifier
	norm *normalize.Normalizer
}

var _ domain.QueryPort = (*Service)(nil)

// New constructs the query service
func New(db repokit.TxRunner, r repokit.Binder[repo.Repo], cfg Config) *Service {
	if db == nil || r == nil {
		panic("catalog.Service requires a TxRunner and a repo binder")
	}
	if !cfg.DefaultSort.Valid() {
		cfg.DefaultSort = domain.SortInsertion
	}
	if cfg.RowSize <= 0 {
		cfg.RowSize = 5
	}
	return &Service{db: db, repo: r, cfg: cfg, cls: classify.New(), norm: normalize.New()}
}

// RowSize is the configured row width
func (s *Service) RowSize() int { return s.cfg.RowSize }

// ListTitles returns one window of titles with part counts
func (s *Service) ListTitles(ctx context.Context, in domain.ListTitlesInput) (domain.TitlePage, error) {
	sort := domain.Sort(in.Sort)
	if in.Sort == "" {
		sort = s.cfg.DefaultSort
	}
	if !sort.Valid() {
		return domain.TitlePage{}, perr.WithField(perr.InvalidArgf("unknown sort %q", in.Sort), "sort")
	}
	if in.Kind != "" && !domain.Kind(in.Kind).Valid() {
		return domain.TitlePage{}, perr.WithField(perr.InvalidArgf("unknown kind %q", in.Kind), "kind")
	}
	if in.Offset < 0 {
		return domain.TitlePage{}, perr.WithField(perr.InvalidArgf("offset must not be negative"), "offset")
	}
	limit := in.Limit
	switch {
	case limit <= 0:
		limit = domain.DefaultLimit
	case limit > domain.MaxLimit:
		limit = domain.MaxLimit
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	r := s.repo.Bind(s.db)
	items, err := r.ListTitles(ctx, repo.TitleFilter{Sort: sort, Kind: in.Kind, Limit: limit, Offset: in.Offset})
	if err != nil {
		return domain.TitlePage{}, perr.FromPostgres(err, "list titles")
	}
	total, err := r.CountTitles(ctx, in.Kind)
	if err != nil {
		return domain.TitlePage{}, perr.FromPostgres(err, "count titles")
	}
	if items == nil {
		items = []domain.TitleSummary{}
	}
	return domain.TitlePage{Items: items, Total: total, Limit: limit, Offset: in.Offset}, nil
}

// GetTitle returns one title with its part count
func (s *Service) GetTitle(ctx context.Context, id int64) (domain.TitleSummary, error) {
	if id <= 0 {
		return domain.TitleSummary{}, perr.WithField(perr.InvalidArgf("title id must be positive"), "id")
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()
	t, err := s.repo.Bind(s.db).GetTitle(ctx, id)
	if err != nil {
		return domain.TitleSummary{}, notFound(err, "title %d not found", id)
	}
	return t, nil
}

// ListParts returns a title's parts grouped by season, both ascending
func (s *Service) ListParts(ctx context.Context, titleID int64) (domain.TitleParts, error) {
	t, err := s.GetTitle(ctx, titleID)
	if err != nil {
		return domain.TitleParts{}, err
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()
	rows, err := s.repo.Bind(s.db).ListParts(ctx, titleID)
	if err != nil {
		return domain.TitleParts{}, perr.FromPostgres(err, "list parts")
	}
	return domain.TitleParts{Title: t, Seasons: s.group(rows)}, nil
}

// GetPart returns one part with its title and deep link
func (s *Service) GetPart(ctx context.Context, id int64) (domain.PartView, error) {
	if id <= 0 {
		return domain.PartView{}, perr.WithField(perr.InvalidArgf("part id must be positive"), "id")
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()
	v, err := s.repo.Bind(s.db).GetPart(ctx, id)
	if err != nil {
		return domain.PartView{}, notFound(err, "part %d not found", id)
	}
	v.Link = s.DeepLink(v.ExternalMessageID)
	return v, nil
}

// DeepLink is the channel url of a message, empty for id 0
func (s *Service) DeepLink(externalMessageID int64) string {
	return domain.DeepLink(s.cfg.ChannelURL, externalMessageID)
}

// Classify runs text through the same classifier the ingest pipeline uses
func (s *Service) Classify(_ context.Context, in domain.ClassifyInput) (domain.ClassifyOutput, error) {
	res := s.cls.Classify(in.Text)
	out := domain.ClassifyOutput{Rule: res.Matched(), Normalized: s.norm.Normalize(in.Text)}
	if c, ok := res.Candidate(); ok {
		out.Recognized = true
		out.Candidate = &c
	}
	return out, nil
}

// group folds ordered rows into seasons; rows arrive sorted by season then number
func (s *Service) group(rows []repo.PartRow) []domain.SeasonGroup {
	out := []domain.SeasonGroup{}
	for _, r := range rows {
		if n := len(out); n == 0 || out[n-1].Season != r.Season {
			out = append(out, domain.SeasonGroup{Season: r.Season})
		}
		g := &out[len(out)-1]
		g.Parts = append(g.Parts, domain.PartItem{
			ID:                r.ID,
			Season:            r.Season,
			Number:            r.Number,
			ExternalMessageID: r.ExternalMessageID,
			Link:              s.DeepLink(r.ExternalMessageID),
			AddedAt:           r.AddedAt,
		})
	}
	return out
}

func (s *Service) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.QueryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.cfg.QueryTimeout)
}

func notFound(err error, format string, args ...any) error {
	if perr.IsNotFound(err) {
		return perr.WithField(perr.NotFoundf(format, args...), "id")
	}
	return perr.FromPostgres(err, "catalog lookup")
}
