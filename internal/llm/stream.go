package llm

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"unicode/utf8"
)

// StreamResult accumulates streamed chunks.
type StreamResult struct {
	b      strings.Builder
	chunks int
}

func (s *StreamResult) append(chunk string) {
	s.b.WriteString(chunk)
	s.chunks++
}

// Text returns the concatenation of all chunks received so far.
func (s *StreamResult) Text() string { return s.b.String() }

// Chunks returns the number of chunks received.
func (s *StreamResult) Chunks() int { return s.chunks }

// Decode parses the full accumulation as JSON. When the text is not valid
// JSON it returns the raw text and false.
func (s *StreamResult) Decode() (any, bool) {
	raw := strings.TrimSpace(s.Text())
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return s.Text(), false
	}
	return v, true
}

// ReadChunks drains r, invoking onChunk for every read that yields complete
// UTF-8 text. A multi-byte rune split across reads is held back until its
// remaining bytes arrive.
func ReadChunks(r io.Reader, onChunk func(string)) (*StreamResult, error) {
	acc := &StreamResult{}
	buf := make([]byte, 4096)
	var pending []byte

	for {
		n, err := r.Read(buf)
		if n > 0 {
			pending = append(pending, buf[:n]...)
			cut := completePrefix(pending)
			if cut > 0 {
				chunk := string(pending[:cut])
				pending = append(pending[:0], pending[cut:]...)
				acc.append(chunk)
				if onChunk != nil {
					onChunk(chunk)
				}
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return acc, err
		}
	}

	if len(pending) > 0 {
		chunk := string(pending)
		acc.append(chunk)
		if onChunk != nil {
			onChunk(chunk)
		}
	}
	return acc, nil
}

// completePrefix returns the length of the longest prefix of b that does
// not end in the middle of a UTF-8 sequence.
func completePrefix(b []byte) int {
	end := len(b)
	// A rune is at most 4 bytes; only the tail can be incomplete.
	for i := 1; i <= utf8.UTFMax && i <= len(b); i++ {
		c := b[len(b)-i]
		if !utf8.RuneStart(c) {
			continue
		}
		if !utf8.FullRune(b[len(b)-i:]) {
			end = len(b) - i
		}
		break
	}
	return end
}

// StripThinking removes a leading <think>...</think> block that reasoning
// models emit before their answer.
func StripThinking(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "<think>") {
		return t
	}
	end := strings.Index(t, "</think>")
	if end < 0 {
		// Unterminated block: the budget ran out mid-thought.
		return ""
	}
	return strings.TrimSpace(t[end+len("</think>"):])
}

// ExtractJSON finds a JSON document in model output. It strips reasoning
// blocks and Markdown code fences, then falls back to the outermost
// {...} or [...] span. ok is false when nothing parses.
func ExtractJSON(text string) (string, bool) {
	t := StripThinking(text)
	if strings.HasPrefix(t, "```") {
		t = strings.TrimPrefix(t, "```")
		if nl := strings.IndexByte(t, '\n'); nl >= 0 {
			t = t[nl+1:]
		}
		t = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(t), "```"))
	}
	if json.Valid([]byte(t)) {
		return t, true
	}

	for _, pair := range [][2]string{{"{", "}"}, {"[", "]"}} {
		start := strings.Index(t, pair[0])
		end := strings.LastIndex(t, pair[1])
		if start >= 0 && end > start {
			if cand := t[start : end+1]; json.Valid([]byte(cand)) {
				return cand, true
			}
		}
	}
	return t, false
}
