package htmltags

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// DetectEncoding returns the canonical name of the template's encoding,
// from its BOM or meta declaration. Undeclared templates are sniffed as
// UTF-8, falling back to windows-1252.
func DetectEncoding(content []byte) string {
	enc, name, _ := charset.DetermineEncoding(content, "text/html")
	if canonical, err := htmlindex.Name(enc); err == nil {
		return canonical
	}
	if name != "" {
		return strings.ToLower(name)
	}
	return "utf-8"
}

// ToUTF8 decodes content from its detected encoding to UTF-8. Unknown
// encodings are returned as-is.
func ToUTF8(content []byte) ([]byte, error) {
	name := DetectEncoding(content)
	if name == "utf-8" {
		return content, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return content, nil
	}

	return io.ReadAll(transform.NewReader(bytes.NewReader(content), enc.NewDecoder()))
}
