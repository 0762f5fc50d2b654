// Package reconcile turns the accumulated text of one model response into a
// typed outcome: either the next interview question or the completed
// blueprint. Models emit fenced, prefixed or otherwise malformed output often
// enough that reconciliation must never fail: a response that cannot be
// decoded degrades to a continuation question echoing the raw text.
package reconcile

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/HIMASAKTA-DEV/project-wizard/internal/entity"
)

// FragmentStream is a lazy, finite, non-restartable sequence of text
// fragments. Recv returns io.EOF when the provider signals end-of-stream and
// any other error on transport interruption.
type FragmentStream interface {
	Recv() (string, error)
}

// fallbackSuggestion is shown under a degraded continuation question.
const fallbackSuggestion = "Lanjutkan detailnya..."

// emptyFallbackText replaces an entirely empty model response so the
// degraded question still has something to display.
const emptyFallbackText = "Maaf, bisa ulangi atau jelaskan lebih lanjut?"

// Consume folds the stream into one accumulated string, invoking onFragment
// for each fragment as it arrives. onFragment exists for progress display
// only; reconciliation acts on nothing before end-of-stream. A nil callback
// is allowed. An error other than io.EOF aborts the fold and is returned
// with whatever accumulated so far discarded by the caller.
func Consume(stream FragmentStream, onFragment func(string)) (string, error) {
	var sb strings.Builder
	for {
		fragment, err := stream.Recv()
		if err == io.EOF {
			return sb.String(), nil
		}
		if err != nil {
			return "", fmt.Errorf("read model stream: %w", err)
		}
		if fragment == "" {
			continue
		}
		sb.WriteString(fragment)
		if onFragment != nil {
			onFragment(fragment)
		}
	}
}

// Reconcile parses the accumulated model output into an outcome. It is a
// pure function of its input and never fails: fence markers are stripped,
// the first brace-delimited object is extracted to tolerate surrounding
// commentary, and any decode failure synthesizes a continuation question
// wrapping the cleaned text verbatim.
func Reconcile(raw string) entity.ReconciledOutcome {
	cleaned := stripFences(raw)

	candidate := extractObject(cleaned)
	if candidate != "" {
		var outcome entity.ReconciledOutcome
		if err := json.Unmarshal([]byte(candidate), &outcome); err == nil && validOutcome(&outcome) {
			if outcome.Question != nil && outcome.Question.ID == "" {
				outcome.Question.ID = syntheticID()
			}
			return outcome
		}
	}

	return fallbackOutcome(cleaned)
}

// stripFences removes triple-backtick code fence markers, with or without a
// language tag, anywhere in the text.
func stripFences(raw string) string {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}

// extractObject returns the first top-level brace-delimited object in the
// text. The scan is string- and escape-aware so braces inside JSON string
// values do not unbalance it. When no balanced object closes before the text
// ends, it falls back to the slice from the first '{' to the last '}'.
func extractObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case inString:
			if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}

	end := strings.LastIndexByte(text, '}')
	if end > start {
		return text[start : end+1]
	}
	return ""
}

// validOutcome checks that the decoded value matches one of the two wire
// shapes: ongoing with a usable question, or complete with a summary.
func validOutcome(outcome *entity.ReconciledOutcome) bool {
	if outcome.Complete {
		return outcome.Summary != nil
	}
	return outcome.Question != nil && outcome.Question.Text != ""
}

func fallbackOutcome(cleaned string) entity.ReconciledOutcome {
	text := cleaned
	if text == "" {
		text = emptyFallbackText
	}
	return entity.ReconciledOutcome{
		Complete: false,
		Question: &entity.Question{
			ID:         syntheticID(),
			Type:       entity.QuestionTypeText,
			Text:       text,
			Suggestion: fallbackSuggestion,
		},
	}
}

func syntheticID() string {
	return fmt.Sprintf("ai_%d", time.Now().UnixMilli())
}
