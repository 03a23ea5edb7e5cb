// ABOUTME: JSONL transcript records emitted by a sub-agent running in json mode
// ABOUTME: Decoded with easyjson (zero-reflection) since transcripts can be long

//go:generate easyjson -all transcript.go

package hooks

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/mailru/easyjson"
	"github.com/mailru/easyjson/jlexer"
	"github.com/mailru/easyjson/jwriter"
)

// transcriptRecord is one line of sub-agent output. Claude-style streams tag
// assistant lines with type "assistant"; pi streams use "message_end" and
// carry the role inside the message.
type transcriptRecord struct {
	Type    string            `json:"type"`
	Message transcriptMessage `json:"message"`
}

type transcriptMessage struct {
	Role    string         `json:"role"`
	Content messageContent `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// messageContent accepts both a plain string and an array of content blocks.
type messageContent []contentBlock

// UnmarshalEasyJSON decodes a string as a single text block.
func (c *messageContent) UnmarshalEasyJSON(in *jlexer.Lexer) {
	if in.IsNull() {
		in.Skip()
		*c = nil
		return
	}
	if !in.IsDelim('[') {
		*c = messageContent{{Type: "text", Text: in.String()}}
		return
	}

	in.Delim('[')
	*c = (*c)[:0]
	for !in.IsDelim(']') {
		var b contentBlock
		(&b).UnmarshalEasyJSON(in)
		*c = append(*c, b)
		in.WantComma()
	}
	in.Delim(']')
}

// MarshalEasyJSON always writes the array form.
func (c messageContent) MarshalEasyJSON(out *jwriter.Writer) {
	if c == nil {
		out.RawString("null")
		return
	}
	out.RawByte('[')
	for i, b := range c {
		if i > 0 {
			out.RawByte(',')
		}
		b.MarshalEasyJSON(out)
	}
	out.RawByte(']')
}

func (r transcriptRecord) fromAssistant() bool {
	return r.Type == "assistant" || r.Message.Role == "assistant"
}

func (m transcriptMessage) text() string {
	var parts []string
	for _, b := range m.Content {
		if (b.Type == "text" || b.Type == "") && b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// assistantTexts returns the text of every assistant message in output, in
// stream order. Lines that are not JSON records are ignored.
func assistantTexts(output []byte) []string {
	var texts []string

	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] != '{' {
			continue
		}
		var rec transcriptRecord
		if err := easyjson.Unmarshal(line, &rec); err != nil {
			continue
		}
		if rec.fromAssistant() {
			texts = append(texts, rec.Message.text())
		}
	}
	return texts
}
