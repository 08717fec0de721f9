package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// slideXMLMax bounds a single decompressed slide document.
const slideXMLMax = 50 << 20

var slidePathPattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

type slideEntry struct {
	number int
	file   *zip.File
}

func parseSlides(content []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pptx: %w", err)
	}

	var slides []slideEntry
	for _, f := range zr.File {
		m := slidePathPattern.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		slides = append(slides, slideEntry{number: n, file: f})
	}
	if len(slides) == 0 {
		return nil, fmt.Errorf("no slides found in pptx")
	}
	sort.Slice(slides, func(i, j int) bool {
		return slides[i].number < slides[j].number
	})

	var sb strings.Builder
	for i, slide := range slides {
		text, err := parseSlideXML(slide.file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse slide %d: %w", slide.number, err)
		}
		if text == "" {
			continue
		}
		if i > 0 && sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(text)
		sb.WriteByte('\n')
	}

	return []byte(sb.String()), nil
}

// parseSlideXML walks one slide document and collects its text runs,
// one paragraph per line.
func parseSlideXML(f *zip.File) (string, error) {
	if f.UncompressedSize64 > slideXMLMax {
		return "", fmt.Errorf("slide XML too large: %d bytes", f.UncompressedSize64)
	}

	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open slide XML: %w", err)
	}
	defer rc.Close()

	dec := xml.NewDecoder(io.LimitReader(rc, int64(slideXMLMax)))

	var sb strings.Builder
	inText := false
	lineHasText := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "br":
				if lineHasText {
					sb.WriteByte('\n')
					lineHasText = false
				}
			case "tab":
				if lineHasText {
					sb.WriteByte(' ')
				}
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if lineHasText {
					sb.WriteByte('\n')
					lineHasText = false
				}
			}

		case xml.CharData:
			if !inText {
				continue
			}
			s := string(t)
			if strings.TrimSpace(s) == "" {
				continue
			}
			sb.WriteString(s)
			lineHasText = true
		}
	}

	return strings.TrimRight(sb.String(), "\n"), nil
}
