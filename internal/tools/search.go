package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mohammad-safakhou/confplanner/internal/search"
)

// Searcher is the slice of the search client the tool needs.
type Searcher interface {
	Search(ctx context.Context, query string) ([]search.Source, error)
}

const SearchToolName = "search_conference"

type searchArgs struct {
	Query string `json:"query"`
}

// NewSearchTool exposes the remote conference search API as a tool.
// Output is the ordered source list exactly as the backend returned it.
func NewSearchTool(client Searcher, conference string) Tool {
	return Tool{
		Descriptor: Descriptor{
			Name: SearchToolName,
			Description: fmt.Sprintf(
				"Searches the %s conference database for sessions and partners related to a query.", conference),
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "The search term to find relevant conference sessions or partners",
					},
				},
				"required": []string{"query"},
			},
		},
		Run: func(ctx context.Context, args json.RawMessage) (any, error) {
			var a searchArgs
			if err := json.Unmarshal(args, &a); err != nil {
				return nil, fmt.Errorf("%s: bad arguments: %w", SearchToolName, err)
			}
			return client.Search(ctx, a.Query)
		},
	}
}
