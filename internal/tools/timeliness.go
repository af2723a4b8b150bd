package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mohammad-safakhou/confplanner/internal/timeline"
)

const TimelinessToolName = "assess_event_timeliness"

type assessArgs struct {
	Events []assessEvent `json:"events"`
}

type assessEvent struct {
	ID          string  `json:"id"`
	TextChunk   string  `json:"text_chunk"`
	SourceTable string  `json:"source_table"`
	Score       float32 `json:"score"`
}

// NewTimelinessTool classifies event urgency from date mentions in the
// event text, relative to the fixed reference date. One assessment per
// input event, in input order.
func NewTimelinessTool(ex timeline.Extractor, reference time.Time) Tool {
	return Tool{
		Descriptor: Descriptor{
			Name: TimelinessToolName,
			Description: fmt.Sprintf(
				"Analyzes a list of conference events to determine their urgency based on the current date (%s). Use this to prioritize actions.",
				reference.Format("January 2, 2006")),
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"events": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"id": map[string]any{
									"type":        "string",
									"description": "Unique identifier of the event",
								},
								"text_chunk": map[string]any{
									"type":        "string",
									"description": "Text content describing the event",
								},
								"source_table": map[string]any{
									"type":        "string",
									"description": "Type of source (e.g., sessions, partners)",
								},
								"score": map[string]any{
									"type":        "number",
									"description": "Relevance score",
								},
							},
							"required": []string{"id", "text_chunk"},
						},
						"description": "List of events to assess for timeliness",
					},
				},
				"required": []string{"events"},
			},
		},
		Run: func(ctx context.Context, args json.RawMessage) (any, error) {
			var a assessArgs
			if err := json.Unmarshal(args, &a); err != nil {
				return nil, fmt.Errorf("%s: bad arguments: %w", TimelinessToolName, err)
			}
			out := make([]timeline.Assessment, 0, len(a.Events))
			for _, ev := range a.Events {
				date, ok := ex.Extract(ev.TextChunk)
				urgency, desc := timeline.Classify(date, ok, reference)
				out = append(out, timeline.Assessment{
					SourceID:    ev.ID,
					Urgency:     urgency,
					Description: desc,
				})
			}
			return out, nil
		},
	}
}
