// Package charset turns byte buffers of unknown encoding into UTF-8 text.
//
// Detection is statistical and only ever a best guess. Anything that goes
// wrong while guessing degrades to a plain UTF-8 decode; the only hard error
// this package reports is a file that cannot be read at all.
package charset

import (
	"fmt"
	"os"
	"strings"

	"github.com/saintfish/chardet"
	htmlcharset "golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode/utf32"

	"github.com/metcalfc/nrr/internal/logger"
)

// Detector guesses the encoding of a byte buffer.
// *chardet.Detector satisfies it.
type Detector interface {
	DetectBest(b []byte) (*chardet.Result, error)
}

// Normalizer decodes byte buffers using a Detector for the encoding guess.
type Normalizer struct {
	detector Detector
}

// NewNormalizer returns a Normalizer backed by d.
func NewNormalizer(d Detector) *Normalizer {
	return &Normalizer{detector: d}
}

var std = NewNormalizer(chardet.NewTextDetector())

// Normalize decodes data with the default text detector.
func Normalize(data []byte) string {
	return std.Normalize(data)
}

// Detect returns the default detector's best-guess label for data.
func Detect(data []byte) (string, error) {
	return std.Detect(data)
}

// ReadFile reads path and returns its contents decoded to UTF-8.
func ReadFile(path string) (string, error) {
	return std.ReadFile(path)
}

// ReadFile reads path and normalizes its bytes. Read failures are the only
// error returned.
func (n *Normalizer) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("unable to read file %s: %w", path, err)
	}
	return n.Normalize(data), nil
}

// Detect returns the detector's label for data. A panicking detector is
// reported as an error.
func (n *Normalizer) Detect(data []byte) (label string, err error) {
	defer func() {
		if r := recover(); r != nil {
			label, err = "", fmt.Errorf("charset detection panicked: %v", r)
		}
	}()

	res, err := n.detector.DetectBest(data)
	if err != nil {
		return "", err
	}
	if res == nil || res.Charset == "" {
		return "", fmt.Errorf("no charset detected")
	}
	return res.Charset, nil
}

// Normalize returns data decoded to UTF-8. UTF-8 and ASCII input is returned
// unchanged; input in a known legacy encoding goes through that encoding's
// decoder. Everything else, including detection failures, falls back to a
// UTF-8 decode of the original bytes, which may be lossy.
func (n *Normalizer) Normalize(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	label, err := n.Detect(data)
	if err != nil {
		logger.Warn("encoding detection failed, decoding as UTF-8", "err", err)
		return string(data)
	}
	if IsUTF8(label) {
		return string(data)
	}

	text, ok := Decode(data, label)
	if !ok {
		logger.Debug("unsupported encoding, decoding as UTF-8", "encoding", label)
		return string(data)
	}
	logger.Debug("decoded legacy encoding", "encoding", label, "bytes", len(data))
	return text
}

// IsUTF8 reports whether label names UTF-8 or its ASCII subset.
func IsUTF8(label string) bool {
	switch canonical(label) {
	case "utf-8", "utf8", "ascii", "us-ascii":
		return true
	}
	return false
}

// Decode decodes data from the encoding named by label. It returns false when
// no decoder exists for label or the decoder rejects the input.
func Decode(data []byte, label string) (string, bool) {
	if IsUTF8(label) {
		return string(data), true
	}
	enc := lookup(label)
	if enc == nil {
		return "", false
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}
	return strings.TrimPrefix(string(out), "\ufeff"), true
}

// Encode is the inverse of Decode.
func Encode(text string, label string) ([]byte, bool) {
	if IsUTF8(label) {
		return []byte(text), true
	}
	enc := lookup(label)
	if enc == nil {
		return nil, false
	}
	out, err := enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, false
	}
	return out, true
}

// Supported reports whether label has a decoder.
func Supported(label string) bool {
	return IsUTF8(label) || lookup(label) != nil
}

// Detector labels that the WHATWG table does not know under the same name.
var extraEncodings = map[string]encoding.Encoding{
	"utf-32be": utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM),
	"utf-32le": utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM),
}

var labelAliases = map[string]string{
	"gb-18030": "gb18030",
}

func canonical(label string) string {
	l := strings.ToLower(strings.TrimSpace(label))
	if alias, ok := labelAliases[l]; ok {
		return alias
	}
	return l
}

func lookup(label string) encoding.Encoding {
	l := canonical(label)
	if l == "" {
		return nil
	}
	if enc, ok := extraEncodings[l]; ok {
		return enc
	}
	enc, _ := htmlcharset.Lookup(l)
	if enc == encoding.Replacement {
		// ISO-2022-KR/CN and friends map to a decoder that emits a single U+FFFD.
		return nil
	}
	return enc
}
