package language

import "regexp"

const (
	MaxScore      = 100
	fillerPenalty = 10
)

var fillers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)um`),
	regexp.MustCompile(`(?i)uh`),
	regexp.MustCompile(`(?i)like`),
	regexp.MustCompile(`(?i)you know`),
}

// FillerCount counts substring occurrences of every filler token in text.
func FillerCount(text string) int {
	count := 0
	for _, f := range fillers {
		count += len(f.FindAllStringIndex(text, -1))
	}
	return count
}

// Score converts the filler count into a value in [0, 100].
func Score(text string) int {
	return max(0, MaxScore-fillerPenalty*FillerCount(text))
}
