package pdf

import (
	"context"
	"sync"

	"github.com/OFFIS-RIT/studymap/backend/pkg/loader"

	"golang.org/x/sync/singleflight"
)

// PDFTextSource loads PDF files and extracts their text content with
// pdftotext. The inner source supplies the raw PDF bytes.
type PDFTextSource struct {
	source loader.TextSource

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewPDFTextSource creates a PDF text source wrapping the given byte source.
func NewPDFTextSource(source loader.TextSource) *PDFTextSource {
	return &PDFTextSource{
		source: source,
		cache:  make(map[string][]byte),
	}
}

// GetFileText extracts the text of a PDF file.
func (l *PDFTextSource) GetFileText(ctx context.Context, file loader.SourceFile) ([]byte, error) {
	key := loader.CacheKey(file)

	l.cacheMu.RLock()
	if cached, ok := l.cache[key]; ok {
		l.cacheMu.RUnlock()
		return cached, nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.group.Do(key, func() (any, error) {
		l.cacheMu.RLock()
		if cached, ok := l.cache[key]; ok {
			l.cacheMu.RUnlock()
			return cached, nil
		}
		l.cacheMu.RUnlock()

		content, err := l.source.GetFileText(ctx, file)
		if err != nil {
			return nil, err
		}

		result, err := parsePDF(content)
		if err != nil {
			return nil, err
		}

		l.cacheMu.Lock()
		l.cache[key] = result
		l.cacheMu.Unlock()

		return result, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}
