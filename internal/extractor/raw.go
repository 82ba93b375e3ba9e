package extractor

import (
	"bytes"
	"compress/zlib"
	"context"
	"encoding/hex"
	"io"
	"regexp"
	"strings"
	"unicode"
)

// extractRawStreams scans the document bytes directly: it pulls every
// stream...endstream block, inflates the zlib-compressed ones, and decodes
// the Tj/TJ text-showing operators. It is the safety net for documents whose
// structure the library refuses to parse but whose content streams are
// intact.
func (e *Extractor) extractRawStreams(ctx context.Context, data []byte) (string, error) {
	streams := contentStreams(data)
	if len(streams) == 0 {
		return "", nil
	}

	var pages []string
	for _, stream := range streams {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text := textFromStream(inflate(stream))
		if text != "" {
			pages = append(pages, text)
		}
	}
	return strings.Join(pages, "\n"), nil
}

// contentStreams finds every stream...endstream block.
func contentStreams(data []byte) [][]byte {
	var streams [][]byte
	streamMarker := []byte("stream")
	endMarker := []byte("endstream")

	offset := 0
	for offset < len(data) {
		idx := bytes.Index(data[offset:], streamMarker)
		if idx < 0 {
			break
		}
		start := offset + idx + len(streamMarker)

		// The stream keyword is followed by \r\n or \n.
		if start < len(data) && data[start] == '\r' {
			start++
		}
		if start < len(data) && data[start] == '\n' {
			start++
		}

		endIdx := bytes.Index(data[start:], endMarker)
		if endIdx < 0 {
			break
		}

		if endIdx > 0 {
			streams = append(streams, data[start:start+endIdx])
		}
		offset = start + endIdx + len(endMarker)
	}
	return streams
}

// inflate attempts zlib decompression, returning the input untouched when the
// stream is not compressed.
func inflate(data []byte) []byte {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return data
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return data
	}
	return out
}

// Text-showing operator patterns.
var (
	hexTjPattern   = regexp.MustCompile(`<([0-9A-Fa-f]+)>\s*Tj`)
	litTjPattern   = regexp.MustCompile(`\(([^)]*)\)\s*Tj`)
	tjArrayPattern = regexp.MustCompile(`\[([^\]]*)\]\s*TJ`)
	litInArray     = regexp.MustCompile(`\(([^)]*)\)`)
	tdPattern      = regexp.MustCompile(`[\d.\-]+\s+[\d.\-]+\s+T[dD]`)
)

// textFromStream decodes the text operators of one content stream, turning
// Td/TD/T* positioning operators into line breaks.
func textFromStream(data []byte) string {
	content := string(data)
	if !strings.Contains(content, "Tj") && !strings.Contains(content, "TJ") {
		return ""
	}

	var lines []string
	var current strings.Builder

	flush := func() {
		if line := strings.TrimSpace(current.String()); line != "" {
			lines = append(lines, line)
		}
		current.Reset()
	}

	for _, op := range strings.Split(content, "\n") {
		op = strings.TrimSpace(op)

		if op == "T*" || tdPattern.MatchString(op) {
			flush()
		}

		for _, m := range litTjPattern.FindAllStringSubmatch(op, -1) {
			current.WriteString(decodeLiteral(m[1]))
		}
		for _, m := range hexTjPattern.FindAllStringSubmatch(op, -1) {
			current.WriteString(decodeHex(m[1]))
		}
		for _, m := range tjArrayPattern.FindAllStringSubmatch(op, -1) {
			for _, lit := range litInArray.FindAllStringSubmatch(m[1], -1) {
				current.WriteString(decodeLiteral(lit[1]))
			}
		}
	}
	flush()

	return strings.Join(lines, "\n")
}

// decodeLiteral resolves the PDF string escape sequences.
func decodeLiteral(s string) string {
	var buf strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			buf.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			buf.WriteByte('\n')
		case 'r':
			buf.WriteByte('\r')
		case 't':
			buf.WriteByte('\t')
		case '(', ')', '\\':
			buf.WriteByte(s[i])
		default:
			if s[i] >= '0' && s[i] <= '7' {
				val := int(s[i] - '0')
				for j := 1; j < 3 && i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '7'; j++ {
					i++
					val = val*8 + int(s[i]-'0')
				}
				if val < 256 {
					buf.WriteByte(byte(val))
				}
			} else {
				buf.WriteByte(s[i])
			}
		}
	}
	return printableOnly(buf.String())
}

// decodeHex decodes a hex string, trying UTF-16BE first (the common CIDFont
// layout) and falling back to ASCII.
func decodeHex(hexStr string) string {
	raw, err := hex.DecodeString(hexStr)
	if err != nil {
		return ""
	}

	if len(raw) >= 2 && len(raw)%2 == 0 {
		var out strings.Builder
		for i := 0; i+1 < len(raw); i += 2 {
			cp := rune(raw[i])<<8 | rune(raw[i+1])
			if unicode.IsPrint(cp) || cp == ' ' {
				out.WriteRune(cp)
			}
		}
		if out.Len() > 0 {
			return out.String()
		}
	}
	return printableOnly(string(raw))
}

func printableOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\n' || r == '\t' {
			return r
		}
		return -1
	}, s)
}
