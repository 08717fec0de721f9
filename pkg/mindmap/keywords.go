package mindmap

import (
	"sort"
	"strings"

	"github.com/OFFIS-RIT/studymap/backend/pkg/common"
)

// defaultStopWords is the fixed stop-word set applied when the caller
// does not supply one.
var defaultStopWords = map[string]bool{
	"a": true, "about": true, "after": true, "all": true, "also": true,
	"an": true, "and": true, "any": true, "are": true, "as": true,
	"at": true, "be": true, "because": true, "been": true, "but": true,
	"by": true, "can": true, "could": true, "did": true, "do": true,
	"does": true, "for": true, "from": true, "had": true, "has": true,
	"have": true, "he": true, "her": true, "his": true, "how": true,
	"if": true, "in": true, "into": true, "is": true, "it": true,
	"its": true, "may": true, "more": true, "most": true, "no": true,
	"not": true, "of": true, "on": true, "one": true, "or": true,
	"our": true, "she": true, "so": true, "some": true, "such": true,
	"than": true, "that": true, "the": true, "their": true, "them": true,
	"then": true, "there": true, "these": true, "they": true, "this": true,
	"to": true, "was": true, "we": true, "were": true, "what": true,
	"when": true, "which": true, "who": true, "will": true, "with": true,
	"would": true, "you": true, "your": true,
}

// ExtractKeywords ranks the words of text by frequency and returns the
// top k entries. It is pure and deterministic: lowercase normalization,
// punctuation stripped from word boundaries, stop words removed, and
// ties broken by first occurrence in the text. A nil stopWords map uses
// the default set; k <= 0 means 15. Empty input yields an empty list.
func ExtractKeywords(text string, k int, stopWords map[string]bool) []common.Keyword {
	if k <= 0 {
		k = 15
	}
	if stopWords == nil {
		stopWords = defaultStopWords
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)

	position := 0
	for _, token := range strings.Fields(strings.ToLower(text)) {
		word := strings.Trim(token, ".,:;!?\"'()[]{}«»—–-_/\\")
		if len(word) < 2 || stopWords[word] {
			continue
		}
		if _, ok := firstSeen[word]; !ok {
			firstSeen[word] = position
		}
		counts[word]++
		position++
	}

	keywords := make([]common.Keyword, 0, len(counts))
	for word, count := range counts {
		keywords = append(keywords, common.Keyword{Word: word, Count: count})
	}
	sort.SliceStable(keywords, func(i, j int) bool {
		if keywords[i].Count != keywords[j].Count {
			return keywords[i].Count > keywords[j].Count
		}
		return firstSeen[keywords[i].Word] < firstSeen[keywords[j].Word]
	})

	if len(keywords) > k {
		keywords = keywords[:k]
	}
	return keywords
}
