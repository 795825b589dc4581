// Package evidence parses noisy evidence text (OCR output, saved listings)
// into filename/size candidates.
//
// A line mentioning a filename with a recognizable archive or installer
// extension anchors a candidate. Size tokens are collected from the anchor
// line and a short window of following lines; each token pairs with the
// anchored name to form one candidate. Candidates are deliberately not
// deduplicated, since repeated mentions are themselves evidence.
package evidence

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Candidate pairs a filename seen in the evidence with one size claim near it.
// Size is zero when the window held no usable size token.
type Candidate struct {
	Name string
	Size int64
	// Line is the 1-based evidence line the name appeared on.
	Line int
}

// Extensions recognized as quarantine-worthy user files. Matching is
// case-insensitive.
var knownExtensions = []string{
	"7z", "apk", "bin", "bz2", "dll", "exe", "gz", "img", "iso",
	"jar", "msi", "pdf", "php", "rar", "scr", "sis", "sisx",
	"tar", "xz", "zip",
}

var (
	namePattern = regexp.MustCompile(
		`(?i)[\w(\[][\w .,'&%#@!~+\-()\[\]]*?\.(?:` + strings.Join(knownExtensions, "|") + `)\b`)
	sizePattern = regexp.MustCompile(
		`(?i)\b(\d+(?:[.,]\d+)?)\s*(B|KB|KiB|MB|MiB|GB|GiB|K|M|G)\b`)
)

// Parser extracts candidates from evidence text.
type Parser struct {
	lookahead int
	exclude   *regexp.Regexp
}

// NewParser builds a parser. lookahead is how many lines after an anchor are
// scanned for size tokens; excludePattern discards matching names and may be
// empty.
func NewParser(lookahead int, excludePattern string) (*Parser, error) {
	if lookahead < 0 {
		return nil, fmt.Errorf("lookahead must not be negative, got %d", lookahead)
	}
	parser := &Parser{lookahead: lookahead}
	if excludePattern != "" {
		compiled, err := regexp.Compile(excludePattern)
		if err != nil {
			return nil, fmt.Errorf("compile exclude pattern: %w", err)
		}
		parser.exclude = compiled
	}
	return parser, nil
}

// Parse scans text and returns every candidate in evidence order.
func (p *Parser) Parse(text string) []Candidate {
	lines := strings.Split(text, "\n")
	var candidates []Candidate

	for i, line := range lines {
		names := namePattern.FindAllString(line, -1)
		if len(names) == 0 {
			continue
		}

		// Size tokens on the anchor line are scanned with the matched
		// names removed, so a version number inside a filename is never
		// mistaken for a size.
		window := []string{namePattern.ReplaceAllString(line, " ")}
		for j := i + 1; j <= i+p.lookahead && j < len(lines); j++ {
			window = append(window, lines[j])
		}
		sizes := sizesInWindow(window)

		for _, raw := range names {
			name := strings.TrimSpace(raw)
			if p.exclude != nil && p.exclude.MatchString(name) {
				continue
			}
			if len(sizes) == 0 {
				candidates = append(candidates, Candidate{Name: name, Line: i + 1})
				continue
			}
			for _, size := range sizes {
				candidates = append(candidates, Candidate{Name: name, Size: size, Line: i + 1})
			}
		}
	}
	return candidates
}

func sizesInWindow(window []string) []int64 {
	var sizes []int64
	for _, line := range window {
		for _, match := range sizePattern.FindAllStringSubmatch(line, -1) {
			size, ok := parseSize(match[1], match[2])
			if ok {
				sizes = append(sizes, size)
			}
		}
	}
	return sizes
}

// parseSize converts a number plus unit into bytes. OCR sources often use a
// comma as the decimal separator; units use 1024 multipliers.
func parseSize(number, unit string) (int64, bool) {
	normalized := strings.ReplaceAll(number, ",", ".")
	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, false
	}
	var multiplier float64
	switch strings.ToUpper(unit) {
	case "B":
		multiplier = 1
	case "K", "KB", "KIB":
		multiplier = 1024
	case "M", "MB", "MIB":
		multiplier = 1024 * 1024
	case "G", "GB", "GIB":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, false
	}
	return int64(math.Round(value * multiplier)), true
}
