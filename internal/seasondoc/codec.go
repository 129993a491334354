package seasondoc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/google/renameio/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse decodes a season document. Input with a UTF-8 or UTF-16 byte-order
// mark is transcoded first; input without one is read as UTF-8.
func Parse(data []byte) (*Document, error) {
	reader := transform.NewReader(bytes.NewReader(data), unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	decoder := xml.NewDecoder(reader)
	decoder.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		switch strings.ToLower(label) {
		case "utf-8", "utf8", "utf-16", "utf16", "utf-16le", "utf-16be":
			return input, nil
		default:
			return nil, fmt.Errorf("unsupported charset %q", label)
		}
	}

	var doc Document
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode season document: %w", err)
	}
	return &doc, nil
}

// Encode renders doc with a UTF-8 byte-order mark, an XML declaration, and
// tab indentation.
func Encode(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	buf.WriteString(xml.Header)

	encoder := xml.NewEncoder(&buf)
	encoder.Indent("", "\t")
	if err := encoder.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode season document: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("encode season document: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// WriteFile encodes doc and atomically replaces path with the result.
func WriteFile(path string, doc *Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write season document %s: %w", path, err)
	}
	return nil
}
