package domain

import "testing"

func sizes[T any](groups [][]T) []int {
	out := make([]int, len(groups))
	for i, g := range groups {
		out[i] = len(g)
	}
	return out
}

func TestChunk(t *testing.T) {
	items := make([]int, 12)
	for i := range items {
		items[i] = i + 1
	}
	cases := []struct {
		name string
		n    int
		size int
		want []int
	}{
		{"twelve by five", 12, 5, []int{5, 5, 2}},
		{"exact", 10, 5, []int{5, 5}},
		{"single row", 3, 5, []int{3}},
		{"zero size", 4, 0, []int{4}},
		{"empty", 0, 5, []int{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := sizes(Chunk(items[:tc.n], tc.size))
			if len(got) != len(tc.want) {
				t.Fatalf("sizes = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("sizes = %v, want %v", got, tc.want)
				}
			}
		})
	}

	groups := Chunk(items, 5)
	if groups[0][0] != 1 || groups[1][0] != 6 || groups[2][1] != 12 {
		t.Fatalf("order not kept: %v", groups)
	}
}

func TestSeasonGroupRows(t *testing.T) {
	g := SeasonGroup{Season: 1}
	for i := 1; i <= 7; i++ {
		g.Parts = append(g.Parts, PartItem{Number: i})
	}
	rows := g.Rows(3)
	if got := sizes(rows); len(got) != 3 || got[2] != 1 || rows[2][0].Number != 7 {
		t.Fatalf("rows = %v", got)
	}
}

func TestDeepLink(t *testing.T) {
	cases := []struct {
		base string
		id   int64
		want string
	}{
		{"https://t.me/ShoofFilm", 1534, "https://t.me/ShoofFilm/1534"},
		{"https://t.me/ShoofFilm/", 7, "https://t.me/ShoofFilm/7"},
		{"https://t.me/ShoofFilm", 0, ""},
		{"", 7, ""},
	}
	for _, tc := range cases {
		if got := DeepLink(tc.base, tc.id); got != tc.want {
			t.Fatalf("DeepLink(%q, %d) = %q, want %q", tc.base, tc.id, got, tc.want)
		}
	}
}

func TestSortValid(t *testing.T) {
	for _, s := range []Sort{SortInsertion, SortAlphabetical, SortRecent} {
		if !s.Valid() {
			t.Fatalf("%q should be valid", s)
		}
	}
	if Sort("newest").Valid() {
		t.Fatal("unknown sort accepted")
	}
}
