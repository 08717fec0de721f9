package pptx

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

const slideXMLTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
       xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:cSld><p:spTree><p:sp><p:txBody>%BODY%</p:txBody></p:sp></p:spTree></p:cSld>
</p:sld>`

func buildPPTX(t *testing.T, slides map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range slides {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to create zip entry: %v", err)
		}
		content := strings.Replace(slideXMLTemplate, "%BODY%", body, 1)
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func TestParseSlides(t *testing.T) {
	content := buildPPTX(t, map[string]string{
		"ppt/slides/slide2.xml": `<a:p><a:r><a:t>Second slide</a:t></a:r></a:p>`,
		"ppt/slides/slide1.xml": `<a:p><a:r><a:t>First slide</a:t></a:r></a:p>` +
			`<a:p><a:r><a:t>Split </a:t></a:r><a:r><a:t>run</a:t></a:r></a:p>`,
		"ppt/slides/slide10.xml":  `<a:p><a:r><a:t>Tenth slide</a:t></a:r></a:p>`,
		"ppt/notesSlides/notes1.xml": `<a:p><a:r><a:t>Speaker notes</a:t></a:r></a:p>`,
	})

	got, err := parseSlides(content)
	if err != nil {
		t.Fatalf("parseSlides() error = %v", err)
	}

	want := "First slide\nSplit run\n\nSecond slide\n\nTenth slide\n"
	if string(got) != want {
		t.Errorf("parseSlides() = %q, want %q", got, want)
	}
	if strings.Contains(string(got), "Speaker notes") {
		t.Error("parseSlides() included notes slide content")
	}
}

func TestParseSlidesNoSlides(t *testing.T) {
	content := buildPPTX(t, map[string]string{
		"docProps/app.xml": `<a:p><a:r><a:t>metadata</a:t></a:r></a:p>`,
	})
	if _, err := parseSlides(content); err == nil {
		t.Error("parseSlides() expected error for archive without slides")
	}
}

func TestParseSlidesInvalidZip(t *testing.T) {
	if _, err := parseSlides([]byte("not a zip archive")); err == nil {
		t.Error("parseSlides() expected error for invalid archive")
	}
}
