package config

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	traitsPairSeparator  = "//||//"
	traitsRegexSeparator = "///"
	traitsTraitSeparator = ","
)

// RegexTraitPair assigns a trait to every test whose full name matches Regex
type RegexTraitPair struct {
	Regex string `yaml:"regex"`
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// ParseTraitsRegexes parses the compact "regex///name,value//||//regex///name,value" notation.
// Malformed pairs are skipped when ignoreErrors is set, otherwise the first one is returned as error.
func ParseTraitsRegexes(value string, ignoreErrors bool) ([]RegexTraitPair, error) {
	var pairs []RegexTraitPair
	for _, pair := range strings.Split(value, traitsPairSeparator) {
		if pair == "" {
			continue
		}

		parsed, err := parseTraitsPair(pair)
		if err != nil {
			if ignoreErrors {
				continue
			}
			return nil, err
		}
		pairs = append(pairs, parsed)
	}
	return pairs, nil
}

func parseTraitsPair(pair string) (RegexTraitPair, error) {
	values := strings.SplitN(pair, traitsRegexSeparator, 2)
	if len(values) != 2 {
		return RegexTraitPair{}, fmt.Errorf("could not parse trait pair '%s': missing '%s'", pair, traitsRegexSeparator)
	}
	trait := strings.SplitN(values[1], traitsTraitSeparator, 2)
	if len(trait) != 2 {
		return RegexTraitPair{}, fmt.Errorf("could not parse trait pair '%s': missing '%s'", pair, traitsTraitSeparator)
	}
	if err := ValidateRegex(values[0]); err != nil {
		return RegexTraitPair{}, err
	}
	return RegexTraitPair{Regex: values[0], Name: trait[0], Value: trait[1]}, nil
}

// ValidateRegex reports whether pattern compiles
func ValidateRegex(pattern string) error {
	if _, err := regexp.Compile(pattern); err != nil {
		return fmt.Errorf("invalid regular expression '%s': %w", pattern, err)
	}
	return nil
}
