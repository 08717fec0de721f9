package loader

import (
	"context"
)

type SourceFileType string

const (
	SourceFileTypeDocument SourceFileType = "document"
	SourceFileTypeSlides   SourceFileType = "slides"
	SourceFileTypeWeb      SourceFileType = "web"
	SourceFileTypeText     SourceFileType = "text"
)

// SourceFile represents one piece of study material that can be turned
// into plain text for mind-map processing. Path is a filesystem path or
// a URL depending on the source type; for SourceFileTypeText the content
// is carried inline and no TextSource is consulted.
type SourceFile struct {
	ID       string
	Path     string
	FileType SourceFileType
	Source   TextSource
	Content  string
}

// NewSourceFileParams defines the input parameters for creating a new
// SourceFile. It is used by the constructor functions to initialize
// SourceFile values with consistent metadata and source configuration.
type NewSourceFileParams struct {
	ID     string
	Path   string
	Source TextSource
}

// NewDocumentSourceFile creates a SourceFile of type
// SourceFileTypeDocument. This is used for text-based documents such as
// PDFs, markdown, or plain text files.
func NewDocumentSourceFile(params NewSourceFileParams) SourceFile {
	return SourceFile{
		ID:       params.ID,
		Path:     params.Path,
		FileType: SourceFileTypeDocument,
		Source:   params.Source,
	}
}

// NewSlidesSourceFile creates a SourceFile of type SourceFileTypeSlides
// for presentation files.
func NewSlidesSourceFile(params NewSourceFileParams) SourceFile {
	return SourceFile{
		ID:       params.ID,
		Path:     params.Path,
		FileType: SourceFileTypeSlides,
		Source:   params.Source,
	}
}

// NewWebSourceFile creates a SourceFile of type SourceFileTypeWeb whose
// Path is a URL.
func NewWebSourceFile(params NewSourceFileParams) SourceFile {
	return SourceFile{
		ID:       params.ID,
		Path:     params.Path,
		FileType: SourceFileTypeWeb,
		Source:   params.Source,
	}
}

// NewTextSourceFile creates a SourceFile carrying its content inline,
// used for pasted notes that never touch a loader.
func NewTextSourceFile(id string, content string) SourceFile {
	return SourceFile{
		ID:       id,
		FileType: SourceFileTypeText,
		Content:  content,
	}
}

// GetText retrieves the plain-text content of the file using its Source.
//
// Example:
//
//	text, err := file.GetText(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(string(text))
func (f *SourceFile) GetText(ctx context.Context) ([]byte, error) {
	if f.FileType == SourceFileTypeText {
		return []byte(f.Content), nil
	}
	return f.Source.GetFileText(ctx, *f)
}

// TextSource defines the interface for extracting the text content of a
// SourceFile. Implementations may read from disk, fetch URLs, or shell
// out to external converters.
type TextSource interface {
	GetFileText(ctx context.Context, file SourceFile) ([]byte, error)
}

// CacheKey builds the cache key under which loaders memoize extracted
// text for a file.
func CacheKey(file SourceFile) string {
	return file.ID + ":" + file.Path
}
