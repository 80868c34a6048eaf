package parser

import (
	"regexp"
	"strings"
)

// tradelineStart matches the first line of a tradeline block: three
// slash-separated segments followed by a dash, e.g.
// "CAPITAL ONE / 1270246 / BC - Bank Credit Cards", optionally prefixed
// by an asterisk marker.
var tradelineStart = regexp.MustCompile(`^(?:\* )?.*/.*/.* - `)

// Segment splits report text into per-tradeline blocks. Every line
// matching the tradeline-start pattern opens a new block; following
// non-matching lines accumulate into it. Text before the first match is
// discarded.
func Segment(text string) []string {
	var blocks []string
	var current []string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if tradelineStart.MatchString(line) {
			if len(current) > 0 {
				blocks = append(blocks, strings.Join(current, "\n"))
			}
			current = []string{line}
		} else if len(current) > 0 {
			current = append(current, line)
		}
	}
	if len(current) > 0 {
		blocks = append(blocks, strings.Join(current, "\n"))
	}
	return blocks
}
