package autocorrect

import (
	"bufio"
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"
)

// maxDistance is the smallest edit distance that is no longer accepted as
// a correction.
const maxDistance = 3

// tokenPattern splits a passage into words and runs of separators.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_']+|[, ]+`)

//go:embed words.txt
var defaultWords string

type Corrector struct {
	byFirst map[rune][]string
}

// New builds a corrector over words. Blank and repeated words are ignored;
// otherwise the input order decides ties between equally close candidates.
func New(words []string) *Corrector {
	c := &Corrector{byFirst: make(map[rune][]string)}
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		first, _ := utf8.DecodeRuneInString(w)
		c.byFirst[first] = append(c.byFirst[first], w)
	}
	return c
}

var defaultCorrector = sync.OnceValue(func() *Corrector {
	return New(DefaultWords())
})

// Default returns the corrector for the built-in query vocabulary.
func Default() *Corrector {
	return defaultCorrector()
}

func DefaultWords() []string {
	return strings.Fields(defaultWords)
}

// LoadWords reads a whitespace separated word list.
func LoadWords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return words, nil
}

// CorrectWord returns the closest dictionary word sharing word's first
// character and its distance. If nothing is closer than maxDistance the
// word comes back unchanged with distance 0.
func (c *Corrector) CorrectWord(word string) (int, string) {
	if word == "" {
		return 0, word
	}
	first, _ := utf8.DecodeRuneInString(word)
	candidates := c.byFirst[first]
	if len(candidates) == 0 {
		return 0, word
	}

	runes := []rune(word)
	closest, closestDist := word, maxDistance
	for _, w := range candidates {
		d := boundedDistance(runes, []rune(w), closestDist)
		if d < closestDist {
			closest, closestDist = w, d
		}
	}

	if closestDist >= maxDistance {
		return 0, word
	}
	return closestDist, closest
}

// Correct corrects every word of passage independently and returns the
// summed distance of the accepted corrections together with the rebuilt
// passage. Separator runs are kept verbatim; any other character is
// dropped.
func (c *Corrector) Correct(passage string) (int, string) {
	var b strings.Builder
	total := 0
	for _, tok := range tokenPattern.FindAllString(passage, -1) {
		if isSeparator(tok) {
			b.WriteString(tok)
			continue
		}
		d, w := c.CorrectWord(tok)
		total += d
		b.WriteString(w)
	}
	return total, b.String()
}

func isSeparator(tok string) bool {
	return tok[0] == ' ' || tok[0] == ','
}
