package tokenizer

import (
	"sort"
	"strings"
	"unicode"
)

// PorterStemmer implements a simplified Porter stemming algorithm,
// operating on the lowercase ASCII terms this package's tokenizer produces.
type PorterStemmer struct{}

// NewPorterStemmer creates a new Porter stemmer.
func NewPorterStemmer() *PorterStemmer {
	return &PorterStemmer{}
}

// Stem reduces a word to its stem.
func (ps *PorterStemmer) Stem(word string) string {
	word = strings.ToLower(word)

	if len(word) < 3 {
		return word
	}

	word = ps.step1a(word)
	word = ps.step1b(word)
	word = ps.step1c(word)
	word = ps.step2(word)
	word = ps.step3(word)
	word = ps.step4(word)
	word = ps.step5(word)

	return word
}

func (ps *PorterStemmer) step1a(word string) string {
	if strings.HasSuffix(word, "sses") {
		return word[:len(word)-2]
	}
	if strings.HasSuffix(word, "ies") {
		return word[:len(word)-2]
	}
	if strings.HasSuffix(word, "ss") {
		return word
	}
	if strings.HasSuffix(word, "s") && len(word) > 3 {
		return word[:len(word)-1]
	}
	return word
}

func (ps *PorterStemmer) step1b(word string) string {
	if strings.HasSuffix(word, "eed") {
		if ps.measure(word[:len(word)-3]) > 0 {
			return word[:len(word)-1]
		}
		return word
	}

	if strings.HasSuffix(word, "ed") {
		stem := word[:len(word)-2]
		if ps.containsVowel(stem) {
			return ps.step1bHelper(stem)
		}
		return word
	}

	if strings.HasSuffix(word, "ing") {
		stem := word[:len(word)-3]
		if ps.containsVowel(stem) {
			return ps.step1bHelper(stem)
		}
		return word
	}

	return word
}

func (ps *PorterStemmer) step1bHelper(word string) string {
	if strings.HasSuffix(word, "at") || strings.HasSuffix(word, "bl") || strings.HasSuffix(word, "iz") {
		return word + "e"
	}

	if len(word) >= 2 {
		last := word[len(word)-1]
		prev := word[len(word)-2]
		if last == prev && ps.isConsonant(rune(last)) && last != 'l' && last != 's' && last != 'z' {
			return word[:len(word)-1]
		}
	}

	if ps.measure(word) == 1 && ps.endsWithCVC(word) {
		return word + "e"
	}

	return word
}

func (ps *PorterStemmer) step1c(word string) string {
	if strings.HasSuffix(word, "y") {
		stem := word[:len(word)-1]
		if ps.containsVowel(stem) {
			return stem + "i"
		}
	}
	return word
}

func (ps *PorterStemmer) step2(word string) string {
	suffixes := map[string]string{
		"ational": "ate",
		"tional":  "tion",
		"enci":    "ence",
		"anci":    "ance",
		"izer":    "ize",
		"alli":    "al",
		"entli":   "ent",
		"eli":     "e",
		"ousli":   "ous",
		"ization": "ize",
		"ation":   "ate",
		"ator":    "ate",
		"alism":   "al",
		"iveness": "ive",
		"fulness": "ful",
		"ousness": "ous",
		"aliti":   "al",
		"iviti":   "ive",
		"biliti":  "ble",
	}

	for _, suffix := range longestFirst(suffixes) {
		replacement := suffixes[suffix]
		if strings.HasSuffix(word, suffix) {
			stem := word[:len(word)-len(suffix)]
			if ps.measure(stem) > 0 {
				return stem + replacement
			}
		}
	}

	return word
}

func (ps *PorterStemmer) step3(word string) string {
	suffixes := map[string]string{
		"icate": "ic",
		"ative": "",
		"alize": "al",
		"iciti": "ic",
		"ical":  "ic",
		"ful":   "",
		"ness":  "",
	}

	for _, suffix := range longestFirst(suffixes) {
		replacement := suffixes[suffix]
		if strings.HasSuffix(word, suffix) {
			stem := word[:len(word)-len(suffix)]
			if ps.measure(stem) > 0 {
				return stem + replacement
			}
		}
	}

	return word
}

func (ps *PorterStemmer) step4(word string) string {
	suffixes := []string{
		"al", "ance", "ence", "er", "ic", "able", "ible", "ant",
		"ement", "ment", "ent", "ion", "ou", "ism", "ate", "iti",
		"ous", "ive", "ize",
	}

	for _, suffix := range suffixes {
		if strings.HasSuffix(word, suffix) {
			stem := word[:len(word)-len(suffix)]
			if ps.measure(stem) > 1 {
				if suffix == "ion" && len(stem) > 0 {
					last := stem[len(stem)-1]
					if last == 's' || last == 't' {
						return stem
					}
				} else {
					return stem
				}
			}
		}
	}

	return word
}

func (ps *PorterStemmer) step5(word string) string {
	if strings.HasSuffix(word, "e") {
		stem := word[:len(word)-1]
		m := ps.measure(stem)
		if m > 1 || (m == 1 && !ps.endsWithCVC(stem)) {
			return stem
		}
	}

	if len(word) > 1 && strings.HasSuffix(word, "ll") {
		if ps.measure(word) > 1 {
			return word[:len(word)-1]
		}
	}

	return word
}

// longestFirst returns the keys of a suffix table ordered longest first,
// so that a word matching several suffixes (e.g. "ization" and "ation")
// is always stemmed by the same one.
func longestFirst(suffixes map[string]string) []string {
	keys := make([]string, 0, len(suffixes))
	for suffix := range suffixes {
		keys = append(keys, suffix)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })
	return keys
}

// measure counts the number of consonant-vowel sequences.
func (ps *PorterStemmer) measure(word string) int {
	count := 0
	inVowelSeq := false

	for _, r := range word {
		if ps.isVowel(r) {
			inVowelSeq = true
		} else if inVowelSeq {
			count++
			inVowelSeq = false
		}
	}

	return count
}

func (ps *PorterStemmer) containsVowel(word string) bool {
	for _, r := range word {
		if ps.isVowel(r) {
			return true
		}
	}
	return false
}

func (ps *PorterStemmer) isVowel(r rune) bool {
	r = unicode.ToLower(r)
	return r == 'a' || r == 'e' || r == 'i' || r == 'o' || r == 'u'
}

func (ps *PorterStemmer) isConsonant(r rune) bool {
	return !ps.isVowel(r) && unicode.IsLetter(r)
}

// endsWithCVC reports whether word ends consonant-vowel-consonant,
// excluding w, x, y as the final consonant.
func (ps *PorterStemmer) endsWithCVC(word string) bool {
	if len(word) < 3 {
		return false
	}

	runes := []rune(word)
	n := len(runes)

	last := runes[n-1]
	middle := runes[n-2]
	first := runes[n-3]

	return ps.isConsonant(first) &&
		ps.isVowel(middle) &&
		ps.isConsonant(last) &&
		last != 'w' && last != 'x' && last != 'y'
}
