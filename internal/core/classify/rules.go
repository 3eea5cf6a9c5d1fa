package classify

import (
	"regexp"
	"strconv"
	"strings"
)

// Rule names, in cascade order
const (
	RuleMovie               = "movie"
	RuleSeriesSeasonEpisode = "series-season-episode"
	RuleSeriesEpisode       = "series-episode"
	RuleTrailingNumber      = "trailing-number"
)

// marker alternations; Go regexp has no unicode word boundary so rules anchor on spaces
const (
	movieMarker   = `(?:فيلم|movie|film)`
	partMarker    = `(?:الجزء|جزء|part)`
	seasonMarker  = `(?:الموسم|موسم|season)`
	episodeMarker = `(?:الحلقة|حلقة|episode|ep)`
	number        = `([0-9]{1,6})`
	// tail accepts trailing words without digits, e.g. "... الحلقة 7 مترجمة"
	tail          = `(?: [^0-9]*)?`
)

// qualifier tokens removed from every captured name
var qualifiers = map[string]struct{}{
	"مسلسل":  {},
	"فيلم":   {},
	"series": {},
	"movie":  {},
	"film":   {},
}

type rule struct {
	name string
	re   *regexp.Regexp
	// build turns submatches into a result; ok false lets the cascade continue
	build func(m []string) (Result, bool)
}

func defaultRules() []rule {
	return []rule{
		{
			name: RuleMovie,
			re:   regexp.MustCompile(`(?i)^` + movieMarker + ` (.+?)(?: ` + partMarker + `)? ` + number + tail + `$`),
			build: func(m []string) (Result, bool) {
				name, n, ok := nameAndNumber(m[1], m[2])
				if !ok {
					return nil, false
				}
				return Movie{Name: name, Part: n, Rule: RuleMovie}, true
			},
		},
		{
			name: RuleSeriesSeasonEpisode,
			re: regexp.MustCompile(`(?i)^(.+?) ` + seasonMarker + ` ?` + number +
				` ` + episodeMarker + ` ?` + number + tail + `$`),
			build: func(m []string) (Result, bool) {
				name, season, ok := nameAndNumber(m[1], m[2])
				if !ok {
					return nil, false
				}
				ep, ok := positive(m[3])
				if !ok {
					return nil, false
				}
				return Series{Name: name, Season: season, Episode: ep, Rule: RuleSeriesSeasonEpisode}, true
			},
		},
		{
			name: RuleSeriesEpisode,
			re:   regexp.MustCompile(`(?i)^(.+?) ` + episodeMarker + ` ?` + number + tail + `$`),
			build: func(m []string) (Result, bool) {
				name, ep, ok := nameAndNumber(m[1], m[2])
				if !ok {
					return nil, false
				}
				return Series{Name: name, Season: 1, Episode: ep, Rule: RuleSeriesEpisode}, true
			},
		},
		{
			name: RuleTrailingNumber,
			re:   regexp.MustCompile(`^(.+?) ` + number + `$`),
			build: func(m []string) (Result, bool) {
				if endsWithSeasonMarker(m[1]) || markersOnly(m[1]) {
					return nil, false
				}
				movie := hasMovieToken(m[1])
				name, n, ok := nameAndNumber(m[1], m[2])
				if !ok {
					return nil, false
				}
				if movie {
					return Movie{Name: name, Part: n, Rule: RuleTrailingNumber}, true
				}
				return Series{Name: name, Season: 1, Episode: n, Rule: RuleTrailingNumber}, true
			},
		},
	}
}

func nameAndNumber(rawName, rawNum string) (string, int, bool) {
	name := CleanName(rawName)
	if name == "" {
		return "", 0, false
	}
	n, ok := positive(rawNum)
	if !ok {
		return "", 0, false
	}
	return name, n, true
}

// positive parses a matched digit run, rejecting zero
func positive(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// CleanName drops qualifier words and collapses whitespace
func CleanName(s string) string {
	fields := strings.Fields(s)
	kept := fields[:0]
	for _, f := range fields {
		if _, q := qualifiers[strings.ToLower(strings.TrimSuffix(f, ":"))]; q {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

func hasMovieToken(s string) bool {
	for _, f := range strings.Fields(s) {
		switch strings.ToLower(strings.TrimSuffix(f, ":")) {
		case "فيلم", "movie", "film":
			return true
		}
	}
	return false
}

var seasonOnly = regexp.MustCompile(`(?i)(?:^| )` + seasonMarker + `$`)

// endsWithSeasonMarker rejects "<name> الموسم 2" so a season number is never read as an episode
func endsWithSeasonMarker(s string) bool { return seasonOnly.MatchString(s) }

// markerWords are the episode, part and season tokens a bare trailing number may not be named after
var markerWords = map[string]struct{}{
	"الحلقة": {}, "حلقة": {}, "episode": {}, "ep": {},
	"الجزء": {}, "جزء": {}, "part": {},
	"الموسم": {}, "موسم": {}, "season": {},
}

// markersOnly reports whether the cleaned name is nothing but marker words, e.g. "الحلقة" in "الحلقة 5"
func markersOnly(s string) bool {
	fields := strings.Fields(CleanName(s))
	if len(fields) == 0 {
		return false
	}
	for _, f := range fields {
		if _, ok := markerWords[strings.ToLower(strings.TrimSuffix(f, ":"))]; !ok {
			return false
		}
	}
	return true
}
