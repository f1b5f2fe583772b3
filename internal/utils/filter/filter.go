// Package filter contains the metric name filtering logic that reporters use
// to decide which metrics of a registry get reported.  Filter instances have
// a Matches function which takes a metric name and returns whether that name
// matches the filter.
package filter

import (
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

// StringFilter matches against simple strings
type StringFilter interface {
	Matches(string) bool
}

// MatchStrategy determines how the items of a StringFilter are compared to
// the strings being matched.
type MatchStrategy int

const (
	// ExactMatching compares items literally, except for items that contain
	// glob metacharacters, which are compiled as globs.
	ExactMatching MatchStrategy = iota
	// SubstringMatching matches if any item is contained in the string.
	SubstringMatching
	// RegexMatching compiles every item as a regular expression.
	RegexMatching
)

// StrategyFor picks the strategy that corresponds to the reporter filter
// flags.  Regular expressions win if both flags are set.
func StrategyFor(useRegex, useSubstring bool) MatchStrategy {
	switch {
	case useRegex:
		return RegexMatching
	case useSubstring:
		return SubstringMatching
	default:
		return ExactMatching
	}
}

type basicStringFilter struct {
	staticSet map[string]bool
	globs     []glob.Glob
}

type substringFilter struct {
	items []string
}

type regexStringFilter struct {
	regexps []*regexp.Regexp
}

// NewStringFilter returns a filter that can match against the provided items
// using the given strategy.
func NewStringFilter(items []string, strategy MatchStrategy) (StringFilter, error) {
	switch strategy {
	case SubstringMatching:
		return &substringFilter{items: items}, nil
	case RegexMatching:
		var regexps []*regexp.Regexp
		for _, m := range items {
			re, err := regexp.Compile(m)
			if err != nil {
				return nil, err
			}
			regexps = append(regexps, re)
		}
		return &regexStringFilter{regexps: regexps}, nil
	}

	staticSet := make(map[string]bool)
	var globs []glob.Glob
	for _, m := range items {
		if isGlobbed(m) {
			g, err := glob.Compile(m)
			if err != nil {
				return nil, err
			}
			globs = append(globs, g)
		} else {
			staticSet[m] = true
		}
	}

	return &basicStringFilter{
		staticSet: staticSet,
		globs:     globs,
	}, nil
}

func (f *basicStringFilter) Matches(s string) bool {
	if f.staticSet[s] {
		return true
	}
	for _, g := range f.globs {
		if g.Match(s) {
			return true
		}
	}
	return false
}

func (f *substringFilter) Matches(s string) bool {
	for _, item := range f.items {
		if strings.Contains(s, item) {
			return true
		}
	}
	return false
}

func (f *regexStringFilter) Matches(s string) bool {
	for _, re := range f.regexps {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

func isGlobbed(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

// MetricFilter decides whether a metric gets reported based on its name.
type MetricFilter interface {
	Matches(name string) bool
}

type includeExcludeFilter struct {
	includes    StringFilter
	excludes    StringFilter
	hasIncludes bool
}

// NewMetricFilter returns a filter that matches a metric name if it is not
// matched by any of the excludes and either there are no includes or it is
// matched by one of them.
func NewMetricFilter(includes, excludes []string, strategy MatchStrategy) (MetricFilter, error) {
	inc, err := NewStringFilter(includes, strategy)
	if err != nil {
		return nil, err
	}
	exc, err := NewStringFilter(excludes, strategy)
	if err != nil {
		return nil, err
	}
	return &includeExcludeFilter{
		includes:    inc,
		excludes:    exc,
		hasIncludes: len(includes) > 0,
	}, nil
}

func (f *includeExcludeFilter) Matches(name string) bool {
	if f.excludes.Matches(name) {
		return false
	}
	return !f.hasIncludes || f.includes.Matches(name)
}

type allFilter struct{}

func (allFilter) Matches(string) bool { return true }

// All matches every metric name
var All MetricFilter = allFilter{}
