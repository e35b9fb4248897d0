package sentiment

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

//go:embed afinn.txt
var afinnData string

// negators flip the valence of the word that follows them.
var negators = map[string]struct{}{
	"cant": {}, "can't": {}, "dont": {}, "don't": {}, "doesnt": {}, "doesn't": {},
	"not": {}, "non": {}, "wont": {}, "won't": {}, "isnt": {}, "isn't": {},
	"never": {}, "wasnt": {}, "wasn't": {}, "didnt": {}, "didn't": {},
}

// LexiconScorer sums per-word valences from a word list.
// It is safe for concurrent use once constructed.
type LexiconScorer struct {
	words map[string]int
}

// NewLexiconScorer builds a scorer over the given word valences.
func NewLexiconScorer(words map[string]int) *LexiconScorer {
	return &LexiconScorer{words: words}
}

// DefaultScorer returns a scorer over the embedded word list, a subset of
// AFINN-165 covering common journaling vocabulary. Use LoadLexicon to score
// against the full list.
func DefaultScorer() *LexiconScorer {
	words, err := ParseLexicon(strings.NewReader(afinnData))
	if err != nil {
		panic(fmt.Sprintf("sentiment: embedded lexicon: %v", err))
	}
	return NewLexiconScorer(words)
}

// LoadLexicon reads a word list file in the ParseLexicon format.
func LoadLexicon(path string) (*LexiconScorer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	words, err := ParseLexicon(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%s: no words", path)
	}
	return NewLexiconScorer(words), nil
}

// ParseLexicon reads "word<TAB>score" lines. Blank lines and lines starting
// with '#' are skipped.
func ParseLexicon(r io.Reader) (map[string]int, error) {
	words := make(map[string]int)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		word, score, ok := strings.Cut(text, "\t")
		if !ok {
			return nil, fmt.Errorf("line %d: missing tab separator", line)
		}
		n, err := strconv.Atoi(strings.TrimSpace(score))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		words[strings.TrimSpace(word)] = n
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// Score returns the summed valence of text. Unknown words count zero.
func (s *LexiconScorer) Score(text string) int {
	tokens := s.tokenize(text)
	total := 0
	for i, tok := range tokens {
		v, ok := s.words[tok]
		if !ok {
			continue
		}
		if i > 0 {
			if _, neg := negators[tokens[i-1]]; neg {
				v = -v
			}
		}
		total += v
	}
	return total
}

func (s *LexiconScorer) tokenize(text string) []string {
	// A Caser keeps state between calls, so one is built per text.
	folded := cases.Fold().String(text)
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == '’' || r == '\'':
			return '\''
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			return r
		default:
			return ' '
		}
	}, folded)
	fields := strings.Fields(cleaned)
	for i, f := range fields {
		fields[i] = strings.Trim(f, "'-")
	}
	return fields
}
