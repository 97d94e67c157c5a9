package reconcile

import (
	"fmt"
	"regexp"
	"strings"
)

// Normalizer derives the comparable and filesystem forms of video titles.
// Both transforms are pure: an input that does not contain the suffix or
// prefix is returned unchanged.
type Normalizer struct {
	suffix     string
	datePrefix *regexp.Regexp
}

// NewNormalizer creates a Normalizer for the given channel title suffix and
// date prefix pattern. The suffix is a literal substring, not a pattern.
// It returns an error if datePrefixPattern is not a valid regular expression.
func NewNormalizer(suffix, datePrefixPattern string) (*Normalizer, error) {
	re, err := regexp.Compile(datePrefixPattern)
	if err != nil {
		return nil, fmt.Errorf("compile date prefix pattern: %w", err)
	}
	return &Normalizer{suffix: suffix, datePrefix: re}, nil
}

// Normalize removes every occurrence of the channel title suffix from a raw
// catalog title. The result is the join key used against ledger titles;
// the ledger is assumed to already store titles in this form.
func (n *Normalizer) Normalize(title string) string {
	if n.suffix == "" {
		return title
	}
	return strings.ReplaceAll(title, n.suffix, "")
}

// FileStem strips the leading date prefix (e.g. "Mensagem 03/04 - ") from a
// ledger title, producing the base name used for downloaded clip and cover
// files. It is never used for matching.
func (n *Normalizer) FileStem(title string) string {
	return n.datePrefix.ReplaceAllString(title, "")
}
