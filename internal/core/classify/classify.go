// Package classify turns free text channel posts into catalog candidates
//
// Rules run as an ordered cascade over each normalized line, first match wins:
// movie marker, then series with season, then episode only, then a bare trailing number
package classify

import (
	"shoof/internal/core/normalize"
)

// Classifier is immutable after New and safe for concurrent use
type Classifier struct {
	norm  *normalize.Normalizer
	rules []rule
}

// New builds a Classifier with the standard rule cascade
func New() *Classifier {
	return &Classifier{norm: normalize.New(), rules: defaultRules()}
}

var std = New()

// Classify runs the shared Classifier
func Classify(text string) Result { return std.Classify(text) }

// Rules lists rule names in the order they are tried
func (c *Classifier) Rules() []string {
	out := make([]string, len(c.rules))
	for i, r := range c.rules {
		out[i] = r.name
	}
	return out
}

// Classify normalizes text and tries every rule against each line top to bottom
// the first line any rule recognizes decides the result
func (c *Classifier) Classify(text string) Result {
	lines := c.norm.Lines(text)
	for _, line := range lines {
		if res, ok := c.line(line); ok {
			return res
		}
	}
	return Unrecognized{Text: c.norm.Normalize(text)}
}

func (c *Classifier) line(line string) (Result, bool) {
	for _, r := range c.rules {
		m := r.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if res, ok := r.build(m); ok {
			return res, true
		}
	}
	return nil, false
}
