package mindmap

import (
	"strings"
	"unicode"

	"github.com/pkoukk/tiktoken-go"
)

// Chunk is a bounded, ordered fragment of the source text. Index is the
// 0-based position in the chunk sequence, Start and End the half-open
// sentence span the chunk covers. Chunks only live until their summary
// has been produced.
type Chunk struct {
	Index int
	Start int
	End   int
	Text  string
}

// chunkText splits text into token-bounded chunks without breaking inside
// a sentence wherever a sentence boundary exists. A single sentence that
// exceeds the limit on its own is hard-split at the token limit. Empty
// input yields no chunks, input under the limit yields exactly one.
func chunkText(text string, encoder string, maxTokens int) ([]Chunk, error) {
	enc, err := tiktoken.GetEncoding(encoder)
	if err != nil {
		return nil, err
	}

	sentences := splitIntoSentences(text)
	if len(sentences) == 0 {
		return nil, nil
	}

	var chunks []Chunk
	var current []string
	currentTokens := 0
	chunkStart := 0

	flush := func(end int) {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, Chunk{
			Index: len(chunks),
			Start: chunkStart,
			End:   end,
			Text:  strings.Join(current, " "),
		})
		current = nil
		currentTokens = 0
		chunkStart = end
	}

	for i, sentence := range sentences {
		tokens := enc.Encode(sentence, nil, nil)

		if len(tokens) > maxTokens {
			// No usable boundary inside the sentence, hard-split on tokens.
			flush(i)
			for off := 0; off < len(tokens); off += maxTokens {
				end := off + maxTokens
				if end > len(tokens) {
					end = len(tokens)
				}
				chunks = append(chunks, Chunk{
					Index: len(chunks),
					Start: i,
					End:   i + 1,
					Text:  strings.TrimSpace(enc.Decode(tokens[off:end])),
				})
			}
			chunkStart = i + 1
			continue
		}

		if currentTokens+len(tokens)+1 > maxTokens && len(current) > 0 {
			flush(i)
		}
		current = append(current, sentence)
		currentTokens += len(tokens) + 1
	}
	flush(len(sentences))

	return chunks, nil
}

// splitIntoSentences breaks text into sentences. Blank lines always end
// the current sentence, so slide bullets and headings without terminal
// punctuation still become their own sentences instead of gluing whole
// slides together.
func splitIntoSentences(text string) []string {
	lines := strings.Split(text, "\n")
	var sentences []string
	var current strings.Builder

	flush := func() {
		s := strings.TrimSpace(current.String())
		if s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			flush()
			continue
		}

		if isBulletLine(trimmed) {
			flush()
			current.WriteString(trimmed)
			if hasSentenceEnd(trimmed) {
				flush()
			}
			continue
		}

		for _, sentence := range splitLineIntoSentences(trimmed) {
			if current.Len() > 0 {
				current.WriteString(" ")
			}
			current.WriteString(sentence)

			if hasSentenceEnd(sentence) {
				flush()
			}
		}
	}
	flush()

	return sentences
}

func isBulletLine(line string) bool {
	return strings.HasPrefix(line, "- ") ||
		strings.HasPrefix(line, "* ") ||
		strings.HasPrefix(line, "• ")
}

func hasSentenceEnd(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasSuffix(s, ".") ||
		strings.HasSuffix(s, "!") ||
		strings.HasSuffix(s, "?")
}

// splitLineIntoSentences splits a single line on terminal punctuation,
// keeping numeric listings ("1. First item") and closing quotes or
// brackets attached to the sentence they belong to.
func splitLineIntoSentences(line string) []string {
	var sentences []string
	var current strings.Builder

	for i := 0; i < len(line); i++ {
		current.WriteByte(line[i])

		if line[i] == '.' || line[i] == '!' || line[i] == '?' {
			isNumericListing := false

			if i > 0 && unicode.IsDigit(rune(line[i-1])) {
				if i+1 < len(line) && line[i+1] == ' ' {
					isNumericListing = true
				}
			}

			if isNumericListing {
				continue
			}
			j := i + 1
			for j < len(line) && (line[j] == '.' || line[j] == '!' || line[j] == '?') {
				current.WriteByte(line[j])
				j++
			}

			for j < len(line) && (line[j] == '"' || line[j] == '\'' || line[j] == ')' ||
				line[j] == ']' || line[j] == '}') {
				current.WriteByte(line[j])
				j++
			}

			sentence := strings.TrimSpace(current.String())
			if sentence != "" {
				sentences = append(sentences, sentence)
			}
			current.Reset()
			i = j - 1
		}
	}

	remaining := strings.TrimSpace(current.String())
	if remaining != "" {
		sentences = append(sentences, remaining)
	}

	return sentences
}
