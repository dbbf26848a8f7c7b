package azure

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/mandalnilabja/promptgate/internal/types"
)

// StreamProcessor parses SSE chunks while they are relayed, collecting the
// model name, accumulated content, finish reason and usage.
type StreamProcessor struct {
	contentBuffer strings.Builder
	usage         *types.Usage
	finishReason  string
	model         string
}

// NewStreamProcessor creates a new SSE stream processor.
func NewStreamProcessor() *StreamProcessor {
	return &StreamProcessor{}
}

// maxParseBuffer bounds the side-parsing copy of a single SSE line. Longer
// lines are still relayed in full, only metadata extraction skips them.
const maxParseBuffer = 1 << 20

// ProcessReader reads an SSE stream line by line, calling onChunk with the
// raw bytes exactly as read (line endings and partial lines included) and
// parsing complete data lines on the side.
func (p *StreamProcessor) ProcessReader(r io.Reader, onChunk func([]byte) error) error {
	reader := bufio.NewReaderSize(r, 64*1024)

	var pending []byte
	oversized := false

	for {
		slice, err := reader.ReadSlice('\n')
		if len(slice) > 0 {
			if cbErr := onChunk(slice); cbErr != nil {
				return cbErr
			}
			if !oversized {
				pending = append(pending, slice...)
			}
		}

		switch err {
		case nil:
			if !oversized {
				p.processLine(trimLineEnding(pending))
			}
			pending = pending[:0]
			oversized = false
		case bufio.ErrBufferFull:
			if len(pending) > maxParseBuffer {
				pending = pending[:0]
				oversized = true
			}
		case io.EOF:
			if len(pending) > 0 && !oversized {
				p.processLine(trimLineEnding(pending))
			}
			return nil
		default:
			return err
		}
	}
}

// trimLineEnding strips a trailing LF or CRLF before parsing.
func trimLineEnding(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r"))
}

// processLine parses a single SSE line.
func (p *StreamProcessor) processLine(line []byte) {
	if !bytes.HasPrefix(line, []byte(types.SSEPrefix)) {
		return
	}

	data := bytes.TrimPrefix(line, []byte(types.SSEPrefix))
	if bytes.Equal(data, []byte("[DONE]")) {
		return
	}

	var chunk types.ChatCompletionChunk
	if err := json.Unmarshal(data, &chunk); err != nil {
		return // skip malformed chunks
	}

	if p.model == "" && chunk.Model != "" {
		p.model = chunk.Model
	}

	// Usage arrives in the final chunk when stream_options.include_usage is set
	if chunk.Usage != nil {
		p.usage = chunk.Usage
	}

	for _, choice := range chunk.Choices {
		if choice.Delta.Content != "" {
			p.contentBuffer.WriteString(choice.Delta.Content)
		}
		if choice.IsFinal() {
			p.finishReason = *choice.FinishReason
		}
	}
}

// Content returns the accumulated assistant content.
func (p *StreamProcessor) Content() string {
	return p.contentBuffer.String()
}

// Usage returns the upstream usage, or nil if none was sent.
func (p *StreamProcessor) Usage() *types.Usage {
	return p.usage
}

// FinishReason returns the finish reason seen in the stream.
func (p *StreamProcessor) FinishReason() string {
	return p.finishReason
}

// Model returns the model name reported by the stream.
func (p *StreamProcessor) Model() string {
	return p.model
}
