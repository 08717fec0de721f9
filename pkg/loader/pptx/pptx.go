package pptx

import (
	"context"
	"sync"

	"github.com/OFFIS-RIT/studymap/backend/pkg/loader"

	"golang.org/x/sync/singleflight"
)

// PPTXTextSource loads PowerPoint files and extracts slide text from the
// embedded slide XML. The inner source supplies the raw file bytes.
type PPTXTextSource struct {
	source loader.TextSource

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewPPTXTextSource creates a PowerPoint text source wrapping the given
// byte source.
func NewPPTXTextSource(source loader.TextSource) *PPTXTextSource {
	return &PPTXTextSource{
		source: source,
		cache:  make(map[string][]byte),
	}
}

// GetFileText extracts the text of every slide in presentation order,
// one paragraph per line, slides separated by a blank line.
func (l *PPTXTextSource) GetFileText(ctx context.Context, file loader.SourceFile) ([]byte, error) {
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

		result, err := parseSlides(content)
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
