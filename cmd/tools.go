package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/mohammad-safakhou/confplanner/config"
	"github.com/mohammad-safakhou/confplanner/internal/search"
	"github.com/mohammad-safakhou/confplanner/internal/timeline"
	"github.com/mohammad-safakhou/confplanner/internal/tools"
)

// toolsCMD prints the tool descriptors exactly as they are advertised
// to the model, handy for checking schemas without a running server.
func toolsCMD() *cobra.Command {
	var cfgPath string
	var cmd = &cobra.Command{
		Use:   "tools",
		Short: "Print the tool descriptors advertised to the model",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				cfg = config.Defaults()
			}
			registry := tools.NewRegistry(
				tools.NewSearchTool(search.NewClient(cfg.Conference.SearchURL, cfg.Conference.SearchTimeout), cfg.Conference.Name),
				tools.NewTimelinessTool(timeline.Extractor{Year: cfg.Conference.Year}, cfg.Conference.ReferenceTime()),
			)
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(registry.List())
		},
	}
	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")

	return cmd
}
