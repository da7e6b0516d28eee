package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const docxDocumentPart = "word/document.xml"

// docxDocument mirrors the parts of word/document.xml that carry text.
// Element names are matched by local name, so the w: namespace is implied.
type docxDocument struct {
	Body docxBody `xml:"body"`
}

type docxBody struct {
	Paragraphs []docxParagraph `xml:"p"`
	Tables     []docxTable     `xml:"tbl"`
}

type docxTable struct {
	Rows []docxRow `xml:"tr"`
}

type docxRow struct {
	Cells []docxCell `xml:"tc"`
}

type docxCell struct {
	Paragraphs []docxParagraph `xml:"p"`
}

// Text joins the cell's paragraphs with newlines.
func (c docxCell) Text() string {
	parts := make([]string, len(c.Paragraphs))
	for i, p := range c.Paragraphs {
		parts[i] = p.Text
	}
	return strings.Join(parts, "\n")
}

// docxParagraph collects the text of a <w:p> in document order, including
// runs nested in hyperlinks, insertions and smart tags.
type docxParagraph struct {
	Text string
}

// UnmarshalXML walks the paragraph tokens: <w:t> contributes its text,
// <w:tab> a tab, <w:br> and <w:cr> a newline. Property blocks are skipped
// because they contain tab-stop definitions that are not text; deleted
// tracked-change text is dropped.
func (p *docxParagraph) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var b strings.Builder
	depth := 0

	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "t":
				var s string
				if err := d.DecodeElement(&s, &el); err != nil {
					return err
				}
				b.WriteString(s)
			case "tab":
				b.WriteString("\t")
				if err := d.Skip(); err != nil {
					return err
				}
			case "br", "cr":
				b.WriteString("\n")
				if err := d.Skip(); err != nil {
					return err
				}
			case "pPr", "rPr", "delText":
				if err := d.Skip(); err != nil {
					return err
				}
			default:
				depth++
			}
		case xml.EndElement:
			if depth == 0 {
				p.Text = b.String()
				return nil
			}
			depth--
		}
	}
}

// ExtractDOCX returns the document text: every body paragraph followed by a
// newline, then every table row with each cell followed by a space and the
// row followed by a newline.
func ExtractDOCX(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX archive: %w", err)
	}
	defer func() {
		_ = zr.Close()
	}()

	data, err := readZipPart(&zr.Reader, docxDocumentPart)
	if err != nil {
		return "", err
	}

	var doc docxDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", docxDocumentPart, err)
	}

	var b strings.Builder
	for _, p := range doc.Body.Paragraphs {
		b.WriteString(p.Text)
		b.WriteString("\n")
	}
	for _, table := range doc.Body.Tables {
		for _, row := range table.Rows {
			for _, cell := range row.Cells {
				b.WriteString(cell.Text())
				b.WriteString(" ")
			}
			b.WriteString("\n")
		}
	}

	return b.String(), nil
}

// readZipPart reads a single named file from the archive.
func readZipPart(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", name, err)
		}
		defer func() {
			_ = rc.Close()
		}()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("missing required part: %s", name)
}
