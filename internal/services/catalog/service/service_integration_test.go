//go:build integration_pg

package service

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"shoof/internal/modkit"
	"shoof/internal/platform/store"
	"shoof/internal/platform/store/pgtest"
	"shoof/internal/services/catalog/domain"
)

func TestUpsert_Integration_Idempotent(t *testing.T) {
	s := pgtest.Open(t)
	svc := New(modkit.Deps{PG: s.PG}, Config{StatementTimeout: 2 * time.Second})
	ctx := context.Background()
	c := candidate("كارثة طبيعية الحلقة 1")

	if got, err := svc.Upsert(ctx, c, 500, "ShoofFilm", time.Now()); err != nil || got != domain.OutcomeInserted {
		t.Fatalf("first = %v, %v", got, err)
	}
	if got, err := svc.Upsert(ctx, c, 500, "ShoofFilm", time.Now()); err != nil || got != domain.OutcomeDuplicateIgnored {
		t.Fatalf("second = %v, %v", got, err)
	}

	parts, err := store.Scalar[int64](ctx, s.PG, `SELECT count(*) FROM parts WHERE external_message_id = 500`)
	if err != nil || parts != 1 {
		t.Fatalf("parts = %d, %v", parts, err)
	}

	// a different classification of the same message must not create a title
	if got, err := svc.Upsert(ctx, candidate("فيلم وش في وش 3"), 500, "ShoofFilm", time.Time{}); err != nil || got != domain.OutcomeDuplicateIgnored {
		t.Fatalf("reclassified = %v, %v", got, err)
	}
	titles, err := store.Scalar[int64](ctx, s.PG, `SELECT count(*) FROM titles`)
	if err != nil || titles != 1 {
		t.Fatalf("titles = %d, %v", titles, err)
	}

	last, err := svc.LastMessageID(ctx, "ShoofFilm")
	if err != nil || last != 500 {
		t.Fatalf("LastMessageID = %d, %v", last, err)
	}
}

func TestUpsert_Integration_ConcurrentSameMessage(t *testing.T) {
	s := pgtest.Open(t)
	svc := New(modkit.Deps{PG: s.PG}, Config{})
	ctx := context.Background()
	c := candidate("المحافظ الموسم 2 الحلقة 7")

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		inserted int
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := svc.Upsert(ctx, c, 900, "ShoofFilm", time.Time{})
			if err != nil {
				t.Errorf("upsert: %v", err)
				return
			}
			if got == domain.OutcomeInserted {
				mu.Lock()
				inserted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if inserted != 1 {
		t.Fatalf("inserted = %d, want 1", inserted)
	}
	n, err := store.Scalar[int64](ctx, s.PG, `SELECT count(*) FROM parts`)
	if err != nil || n != 1 {
		t.Fatalf("parts = %d, %v", n, err)
	}
}

func TestUpsert_Integration_KnownTitleWritesNothing(t *testing.T) {
	s := pgtest.Open(t)
	svc := New(modkit.Deps{PG: s.PG}, Config{})
	ctx := context.Background()

	for ep := range 5 {
		c := candidate("برغم القانون " + strconv.Itoa(ep+1))
		if got, err := svc.Upsert(ctx, c, int64(1000+ep), "ShoofFilm", time.Time{}); err != nil || got != domain.OutcomeInserted {
			t.Fatalf("episode %d = %v, %v", ep+1, got, err)
		}
	}
	if _, err := svc.Upsert(ctx, candidate("فيلم وش في وش 3"), 1005, "ShoofFilm", time.Time{}); err != nil {
		t.Fatalf("movie: %v", err)
	}

	// reused titles neither rewrite the row nor burn sequence values
	gap, err := store.Scalar[int64](ctx, s.PG, `SELECT max(id) - min(id) FROM titles`)
	if err != nil || gap != 1 {
		t.Fatalf("title id gap = %d, %v; want 1", gap, err)
	}
}
