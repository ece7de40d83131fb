package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/roach88/murmur/internal/action"
	"github.com/roach88/murmur/internal/entry"
)

const noReason = "No reason provided"

// Usage is the token accounting reported by the service.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// BatchResult is everything one transcript produced.
type BatchResult struct {
	Results []action.Result
	Summary string
	Usage   Usage
}

type createArgs struct {
	Entries []struct {
		Content    string  `json:"content"`
		Category   string  `json:"category"`
		SourceText *string `json:"source_text"`
		Summary    *string `json:"summary"`
		Priority   *int    `json:"priority"`
		DueDate    *string `json:"due_date"`
		Cadence    *string `json:"cadence"`
	} `json:"entries"`
}

type updateArgs struct {
	Updates []struct {
		ID     string `json:"id"`
		Fields struct {
			Content     *string `json:"content"`
			Summary     *string `json:"summary"`
			Category    *string `json:"category"`
			Priority    *int    `json:"priority"`
			DueDate     *string `json:"due_date"`
			Cadence     *string `json:"cadence"`
			Status      *string `json:"status"`
			SnoozeUntil *string `json:"snooze_until"`
		} `json:"fields"`
		Reason *string `json:"reason"`
	} `json:"updates"`
}

type mutationArgs struct {
	Entries []struct {
		ID     string  `json:"id"`
		Reason *string `json:"reason"`
	} `json:"entries"`
}

// parseResponse turns a chat completion into a BatchResult. Only the first
// choice is read. Tool calls are decoded in order; unknown tool names are
// skipped.
func parseResponse(resp openai.ChatCompletionResponse) (BatchResult, error) {
	if len(resp.Choices) == 0 {
		return BatchResult{}, parseError("no choices in response")
	}
	msg := resp.Choices[0].Message

	results := []action.Result{}
	for _, call := range msg.ToolCalls {
		parsed, err := parseToolCall(call.Function.Name, call.Function.Arguments)
		if err != nil {
			return BatchResult{}, err
		}
		results = append(results, parsed...)
	}

	summary, ok := messageText(msg)
	if !ok {
		summary = summarize(results)
	}

	return BatchResult{
		Results: results,
		Summary: summary,
		Usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}

func parseToolCall(name, arguments string) ([]action.Result, error) {
	switch name {
	case ToolCreateEntries:
		var args createArgs
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return nil, parseError("%s arguments: %w", name, err)
		}
		out := make([]action.Result, 0, len(args.Entries))
		for _, e := range args.Entries {
			category, err := entry.ParseCategory(e.Category)
			if err != nil {
				return nil, parseError("%s: %w", name, err)
			}
			cadence, err := parseCadence(e.Cadence)
			if err != nil {
				return nil, parseError("%s: %w", name, err)
			}
			sourceText := e.Content
			if e.SourceText != nil && strings.TrimSpace(*e.SourceText) != "" {
				sourceText = strings.TrimSpace(*e.SourceText)
			}
			var summary string
			if e.Summary != nil {
				summary = strings.TrimSpace(*e.Summary)
			}
			out = append(out, action.CreateResult{
				Content:            e.Content,
				Category:           category,
				SourceText:         sourceText,
				Summary:            summary,
				Priority:           e.Priority,
				DueDateDescription: e.DueDate,
				Cadence:            cadence,
			})
		}
		return out, nil

	case ToolUpdateEntries:
		var args updateArgs
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return nil, parseError("%s arguments: %w", name, err)
		}
		out := make([]action.Result, 0, len(args.Updates))
		for _, u := range args.Updates {
			fields := action.ResultFields{
				Content:            u.Fields.Content,
				Summary:            u.Fields.Summary,
				Priority:           u.Fields.Priority,
				DueDateDescription: u.Fields.DueDate,
				SnoozeUntil:        u.Fields.SnoozeUntil,
			}
			if u.Fields.Category != nil {
				c, err := entry.ParseCategory(*u.Fields.Category)
				if err != nil {
					return nil, parseError("%s: %w", name, err)
				}
				fields.Category = &c
			}
			cadence, err := parseCadence(u.Fields.Cadence)
			if err != nil {
				return nil, parseError("%s: %w", name, err)
			}
			fields.Cadence = cadence
			// An unrecognised status is dropped, the rest of the patch still applies.
			if u.Fields.Status != nil {
				if st, err := entry.ParseStatus(*u.Fields.Status); err == nil {
					fields.Status = &st
				}
			}
			out = append(out, action.UpdateResult{
				ID:     u.ID,
				Fields: fields,
				Reason: normalizeReason(u.Reason),
			})
		}
		return out, nil

	case ToolCompleteEntries, ToolArchiveEntries:
		var args mutationArgs
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return nil, parseError("%s arguments: %w", name, err)
		}
		out := make([]action.Result, 0, len(args.Entries))
		for _, m := range args.Entries {
			if name == ToolCompleteEntries {
				out = append(out, action.CompleteResult{ID: m.ID, Reason: normalizeReason(m.Reason)})
			} else {
				out = append(out, action.ArchiveResult{ID: m.ID, Reason: normalizeReason(m.Reason)})
			}
		}
		return out, nil

	default:
		return nil, nil
	}
}

func parseCadence(s *string) (*entry.Cadence, error) {
	if s == nil {
		return nil, nil
	}
	c, err := entry.ParseCadence(*s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// messageText returns the trimmed assistant text, joining multi-part
// content with spaces. It reports false when there is none.
func messageText(msg openai.ChatCompletionMessage) (string, bool) {
	text := msg.Content
	if text == "" && len(msg.MultiContent) > 0 {
		parts := make([]string, 0, len(msg.MultiContent))
		for _, p := range msg.MultiContent {
			if p.Text != "" {
				parts = append(parts, p.Text)
			}
		}
		text = strings.Join(parts, " ")
	}
	text = strings.TrimSpace(text)
	return text, text != ""
}

func normalizeReason(reason *string) string {
	if reason == nil {
		return noReason
	}
	r := strings.TrimSpace(*reason)
	if r == "" {
		return noReason
	}
	return r
}

// summarize describes results when the service sent no text, e.g.
// "created 2, completed 1".
func summarize(results []action.Result) string {
	if len(results) == 0 {
		return "No actions"
	}

	counts := map[string]int{}
	for _, r := range results {
		counts[action.ResultKind(r)]++
	}

	var parts []string
	for _, k := range []struct{ kind, verb string }{
		{"create", "created"},
		{"update", "updated"},
		{"complete", "completed"},
		{"archive", "archived"},
	} {
		if n := counts[k.kind]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", k.verb, n))
		}
	}
	return strings.Join(parts, ", ")
}
