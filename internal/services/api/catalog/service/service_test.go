package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"shoof/internal/modkit/repokit"
	perr "shoof/internal/platform/errors"
	kit "shoof/internal/platform/testkit"
	"shoof/internal/services/api/catalog/domain"
	"shoof/internal/services/api/catalog/repo"
)

type nopDB struct{}

func (nopDB) Exec(context.Context, string, ...any) (repokit.CommandTag, error) { return nil, nil }
func (nopDB) Query(context.Context, string, ...any) (repokit.Rows, error)      { return nil, nil }
func (nopDB) QueryRow(context.Context, string, ...any) repokit.Row             { return nil }
func (d nopDB) Tx(ctx context.Context, fn func(repokit.Queryer) error) error   { return fn(d) }

// fakeRepo serves a fixed catalog and records the last filter
type fakeRepo struct {
	titles []domain.TitleSummary
	parts  map[int64][]repo.PartRow
	views  map[int64]domain.PartView
	err    error

	filter repo.TitleFilter
}

func (f *fakeRepo) ListTitles(_ context.Context, tf repo.TitleFilter) ([]domain.TitleSummary, error) {
	f.filter = tf
	return f.titles, f.err
}

func (f *fakeRepo) CountTitles(context.Context, string) (int, error) { return len(f.titles), f.err }

func (f *fakeRepo) GetTitle(_ context.Context, id int64) (domain.TitleSummary, error) {
	if f.err != nil {
		return domain.TitleSummary{}, f.err
	}
	for _, t := range f.titles {
		if t.ID == id {
			return t, nil
		}
	}
	return domain.TitleSummary{}, perr.ErrNotFound
}

func (f *fakeRepo) ListParts(_ context.Context, id int64) ([]repo.PartRow, error) {
	return f.parts[id], f.err
}

func (f *fakeRepo) GetPart(_ context.Context, id int64) (domain.PartView, error) {
	v, ok := f.views[id]
	if !ok {
		return domain.PartView{}, perr.ErrNotFound
	}
	return v, nil
}

func newSvc(f *fakeRepo, cfg Config) *Service {
	return New(nopDB{}, repokit.Static[repo.Repo](f), cfg)
}

func catalog() *fakeRepo {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return &fakeRepo{
		titles: []domain.TitleSummary{
			{ID: 1, Name: "برغم القانون", Kind: "series", PartCount: 3},
			{ID: 2, Name: "وش في وش", Kind: "movie", PartCount: 1},
		},
		parts: map[int64][]repo.PartRow{
			1: {
				{ID: 10, Season: 1, Number: 24, ExternalMessageID: 500, AddedAt: now},
				{ID: 11, Season: 1, Number: 25, ExternalMessageID: 501, AddedAt: now},
				{ID: 12, Season: 2, Number: 1, ExternalMessageID: 0, AddedAt: now},
			},
		},
		views: map[int64]domain.PartView{
			11: {ID: 11, TitleID: 1, TitleName: "برغم القانون", Kind: "series", Season: 1, PartNumber: 25, ExternalMessageID: 501},
			12: {ID: 12, TitleID: 1, Season: 2, PartNumber: 1},
		},
	}
}

func TestListTitles_Defaults(t *testing.T) {
	f := catalog()
	s := newSvc(f, Config{DefaultSort: domain.SortRecent})

	page, err := s.ListTitles(context.Background(), domain.ListTitlesInput{})
	if err != nil {
		t.Fatalf("ListTitles: %v", err)
	}
	if f.filter.Sort != domain.SortRecent || f.filter.Limit != domain.DefaultLimit {
		t.Fatalf("filter = %+v", f.filter)
	}
	if page.Total != 2 || len(page.Items) != 2 || page.Limit != domain.DefaultLimit {
		t.Fatalf("page = %+v", page)
	}
}

func TestListTitles_ClampsAndFilters(t *testing.T) {
	f := catalog()
	s := newSvc(f, Config{})

	if _, err := s.ListTitles(context.Background(), domain.ListTitlesInput{Sort: "alphabetical", Kind: "movie", Limit: 5000, Offset: 3}); err != nil {
		t.Fatalf("ListTitles: %v", err)
	}
	want := repo.TitleFilter{Sort: domain.SortAlphabetical, Kind: "movie", Limit: domain.MaxLimit, Offset: 3}
	if f.filter != want {
		t.Fatalf("filter = %+v, want %+v", f.filter, want)
	}
}

func TestListTitles_RejectsBadInput(t *testing.T) {
	s := newSvc(catalog(), Config{})
	for _, in := range []domain.ListTitlesInput{{Sort: "newest"}, {Kind: "anime"}, {Offset: -1}} {
		_, err := s.ListTitles(context.Background(), in)
		kit.MustCode(t, err, perr.ErrorCodeInvalidArgument)
	}
}

func TestListTitles_EmptyIsNotNil(t *testing.T) {
	page, err := newSvc(&fakeRepo{}, Config{}).ListTitles(context.Background(), domain.ListTitlesInput{})
	if err != nil || page.Items == nil {
		t.Fatalf("page = %+v err = %v", page, err)
	}
}

func TestListParts_GroupsBySeason(t *testing.T) {
	s := newSvc(catalog(), Config{ChannelURL: "https://t.me/ShoofFilm"})

	tp, err := s.ListParts(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListParts: %v", err)
	}
	if tp.Title.Name != "برغم القانون" || len(tp.Seasons) != 2 {
		t.Fatalf("title parts = %+v", tp)
	}
	s1 := tp.Seasons[0]
	if s1.Season != 1 || len(s1.Parts) != 2 || s1.Parts[1].Number != 25 {
		t.Fatalf("season 1 = %+v", s1)
	}
	if s1.Parts[1].Link != "https://t.me/ShoofFilm/501" {
		t.Fatalf("link = %q", s1.Parts[1].Link)
	}
	if l := tp.Seasons[1].Parts[0].Link; l != "" {
		t.Fatalf("zero message id must have no link, got %q", l)
	}
}

func TestListParts_UnknownTitle(t *testing.T) {
	_, err := newSvc(catalog(), Config{}).ListParts(context.Background(), 99)
	if !perr.IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestGetPart(t *testing.T) {
	s := newSvc(catalog(), Config{ChannelURL: "https://t.me/ShoofFilm/"})

	v, err := s.GetPart(context.Background(), 11)
	if err != nil {
		t.Fatalf("GetPart: %v", err)
	}
	if v.Link != "https://t.me/ShoofFilm/501" || v.PartNumber != 25 {
		t.Fatalf("view = %+v", v)
	}

	v, err = s.GetPart(context.Background(), 12)
	if err != nil || v.Link != "" {
		t.Fatalf("view = %+v err = %v", v, err)
	}

	if _, err := s.GetPart(context.Background(), 404); !perr.IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
	_, err = s.GetPart(context.Background(), 0)
	kit.MustCode(t, err, perr.ErrorCodeInvalidArgument)
}

func TestGetTitle_StoreFailure(t *testing.T) {
	f := catalog()
	f.err = errors.New("conn reset")
	_, err := newSvc(f, Config{}).GetTitle(context.Background(), 1)
	if err == nil || perr.IsNotFound(err) {
		t.Fatalf("err = %v, want a store error", err)
	}
}

func TestClassify(t *testing.T) {
	s := newSvc(catalog(), Config{})
	cases := []struct {
		text        string
		season, num int
		kind        domain.Kind
		recognized  bool
	}{
		{"برغم القانون 25", 1, 25, "series", true},
		{"كارثة طبيعية الحلقة 1", 1, 1, "series", true},
		{"فيلم وش في وش 3", 1, 3, "movie", true},
		{"المحافظ الموسم 2 الحلقة 7", 2, 7, "series", true},
		{"صباح الخير", 0, 0, "", false},
	}
	for _, tc := range cases {
		out, err := s.Classify(context.Background(), domain.ClassifyInput{Text: tc.text})
		if err != nil {
			t.Fatalf("Classify: %v", err)
		}
		if out.Recognized != tc.recognized {
			t.Fatalf("%q: recognized = %v", tc.text, out.Recognized)
		}
		if !tc.recognized {
			if out.Candidate != nil || out.Rule != "" {
				t.Fatalf("%q: out = %+v", tc.text, out)
			}
			continue
		}
		c := out.Candidate
		if c.Kind != tc.kind || c.Number != tc.num || c.Season != tc.season {
			t.Fatalf("%q: candidate = %+v", tc.text, *c)
		}
	}
}

func TestNew(t *testing.T) {
	kit.MustPanic(t, func() { New(nil, repo.NewPG(), Config{}) })
	s := New(nopDB{}, repo.NewPG(), Config{DefaultSort: "bogus"})
	if s.cfg.DefaultSort != domain.SortInsertion || s.RowSize() != 5 {
		t.Fatalf("defaults = %+v", s.cfg)
	}
}
