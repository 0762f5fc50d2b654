package modelgw

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/HIMASAKTA-DEV/project-wizard/internal/entity"
)

const doneMarker = "[DONE]"

// chunkEnvelope is one server-sent completion chunk.
type chunkEnvelope struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Stream is a lazy, finite, non-restartable sequence of delta-content
// fragments parsed out of the provider's event stream.
type Stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	done    bool
}

func newStream(body io.ReadCloser) *Stream {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Stream{
		body:    body,
		scanner: scanner,
	}
}

// Recv returns the next non-empty content fragment. io.EOF signals a clean
// end of stream, which requires the [DONE] marker: a body that runs out
// before the marker means the provider or a proxy dropped the connection
// mid-delivery, and Recv reports ErrTransportInterrupted so the caller can
// retry instead of reconciling a truncated response. Undecodable lines
// (comments, keep-alives) are skipped rather than failing the stream.
func (s *Stream) Recv() (string, error) {
	if s.done {
		return "", io.EOF
	}

	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}

		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == doneMarker {
			s.done = true
			return "", io.EOF
		}

		var chunk chunkEnvelope
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		if content := chunk.Choices[0].Delta.Content; content != "" {
			return content, nil
		}
	}

	s.done = true
	if err := s.scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("%w: stream ended before terminal marker", entity.ErrTransportInterrupted)
}

// Close abandons the stream without reading it to completion. Safe to call
// after Recv returned io.EOF.
func (s *Stream) Close() error {
	s.done = true
	return s.body.Close()
}
