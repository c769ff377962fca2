package logname

import (
	_ "embed"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	perr "killfeed/internal/platform/errors"
)

//go:embed patterns.yaml
var embedded []byte

// Pattern is one tier of the filename cascade
type Pattern struct {
	Name  string `yaml:"name"`
	Regex string `yaml:"regex"`

	re *regexp.Regexp
}

// Cascade is the ordered filename pattern list used during discovery.
// Tier zero is the primary export contract; discovery falls through the
// remaining tiers only when earlier ones match nothing
type Cascade struct {
	Patterns []Pattern `yaml:"patterns"`
}

type rawCascade struct {
	Patterns []Pattern `yaml:"patterns"`
}

// Default returns the cascade compiled from the embedded patterns file.
// The embedded file is validated at build time by tests, so failure to
// compile it is a programmer error
func Default() *Cascade {
	c, err := parse(embedded)
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads a cascade override from path, falling back to the embedded
// default when path is empty
func Load(path string) (*Cascade, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeNotFound, "read pattern cascade %s", path)
	}
	c, err := parse(raw)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "parse pattern cascade %s", path)
	}
	return c, nil
}

func parse(raw []byte) (*Cascade, error) {
	var rc rawCascade
	if err := yaml.Unmarshal(raw, &rc); err != nil {
		return nil, err
	}
	if len(rc.Patterns) == 0 {
		return nil, perr.Newf(perr.ErrorCodeInvalidArgument, "pattern cascade is empty")
	}
	c := &Cascade{Patterns: rc.Patterns}
	for i := range c.Patterns {
		p := &c.Patterns[i]
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "pattern %q", p.Name)
		}
		p.re = re
	}
	return c, nil
}

// WithPrimary returns a copy of c whose tier zero expression is replaced.
// Server rows may carry their own export pattern; the fallback tiers are
// kept so drifted names still surface
func (c *Cascade) WithPrimary(expr string) (*Cascade, error) {
	if expr == "" {
		return c, nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "server pattern %q", expr)
	}
	out := &Cascade{Patterns: make([]Pattern, len(c.Patterns))}
	copy(out.Patterns, c.Patterns)
	out.Patterns[0] = Pattern{Name: "server", Regex: expr, re: re}
	return out, nil
}

// Tiers returns the number of patterns in the cascade
func (c *Cascade) Tiers() int { return len(c.Patterns) }

// MatchTier reports whether base matches the pattern at tier i
func (c *Cascade) MatchTier(i int, base string) bool {
	if i < 0 || i >= len(c.Patterns) {
		return false
	}
	return c.Patterns[i].re.MatchString(base)
}

// Match reports whether base matches any tier
func (c *Cascade) Match(base string) bool {
	for i := range c.Patterns {
		if c.Patterns[i].re.MatchString(base) {
			return true
		}
	}
	return false
}
