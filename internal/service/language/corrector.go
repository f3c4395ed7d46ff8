// Package language holds the rule-based grammar correction and fluency scoring.
package language

import "regexp"

type rewrite struct {
	pattern     *regexp.Regexp
	replacement string
}

// Applied in order, each on the previous rule's output.
var rewrites = []rewrite{
	{regexp.MustCompile(`(?i)\bi am\b`), "I am"},
	{regexp.MustCompile(`(?i)\bi dont\b`), "I don't"},
	{regexp.MustCompile(`(?i)\bi cant\b`), "I can't"},
}

// Correct rewrites every case-insensitive occurrence of the known phrases
// to their fixed-case form. Everything else in text is left untouched.
func Correct(text string) string {
	for _, rw := range rewrites {
		text = rw.pattern.ReplaceAllLiteralString(text, rw.replacement)
	}
	return text
}
