package classify

// Kind is the catalog kind a post resolves to
type Kind string

const (
	// KindSeries is an episodic title
	KindSeries Kind = "series"
	// KindMovie is a film, possibly in several parts
	KindMovie Kind = "movie"
)

// Valid reports whether k is a known kind
func (k Kind) Valid() bool { return k == KindSeries || k == KindMovie }

// Candidate is the flattened catalog entry a recognized post produces
type Candidate struct {
	Name   string `json:"name"`
	Kind   Kind   `json:"kind"`
	Season int    `json:"season"`
	Number int    `json:"number"`
}

// Result is one of Series, Movie or Unrecognized
type Result interface {
	// Candidate flattens a recognized result; ok is false for Unrecognized
	Candidate() (c Candidate, ok bool)
	// Matched names the rule that produced the result, empty when nothing did
	Matched() string

	sealed()
}

// Series is an episode of a series season
type Series struct {
	Name    string
	Season  int
	Episode int
	Rule    string
}

// Movie is one part of a movie
type Movie struct {
	Name string
	Part int
	Rule string
}

// Unrecognized carries the normalized text no rule accepted
type Unrecognized struct {
	Text string
}

func (s Series) Candidate() (Candidate, bool) {
	return Candidate{Name: s.Name, Kind: KindSeries, Season: s.Season, Number: s.Episode}, true
}

func (m Movie) Candidate() (Candidate, bool) {
	return Candidate{Name: m.Name, Kind: KindMovie, Season: 1, Number: m.Part}, true
}

func (Unrecognized) Candidate() (Candidate, bool) { return Candidate{}, false }

func (s Series) Matched() string     { return s.Rule }
func (m Movie) Matched() string      { return m.Rule }
func (Unrecognized) Matched() string { return "" }

func (Series) sealed()       {}
func (Movie) sealed()        {}
func (Unrecognized) sealed() {}
