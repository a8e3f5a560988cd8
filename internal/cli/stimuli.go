package cli

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/yildizm/RankGrid/internal/stimuli"
)

func newStimuliCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stimuli [dir]",
		Short: "List the stimuli a session would use",
		Long: `List the image stimuli found in each subdirectory of the stimuli directory
and report whether there are enough of them to fill the grid.`,
		Example: `  # Check the configured stimuli directory
  rankgrid stimuli

  # Check another directory
  rankgrid stimuli ./paintings`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := GetGlobalConfig()
			if err != nil {
				return err
			}
			dir := cfg.Stimuli.Directory
			if len(args) == 1 {
				dir = args[0]
			}

			paths, err := stimuli.NewScanner(cfg.Stimuli.Extensions).Scan(dir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Stimuli in %s:\n", GetEmoji("images"), dir)
			for _, c := range countByCategory(paths) {
				fmt.Fprintf(out, "   %-24s %d\n", c.name, c.count)
			}

			need := cfg.Grid.Rows * cfg.Grid.Cols
			fmt.Fprintf(out, "\n%s %d found, %d needed for a %dx%d grid\n", GetEmoji("number"), len(paths), need, cfg.Grid.Rows, cfg.Grid.Cols)
			if len(paths) < need {
				fmt.Fprintf(out, "%s Short by %d stimuli\n", GetEmoji("warning"), need-len(paths))
			} else {
				fmt.Fprintf(out, "%s Enough stimuli to fill the grid\n", GetEmoji("success"))
			}
			return nil
		},
	}
}

type categoryCount struct {
	name  string
	count int
}

// countByCategory groups stimulus paths by their parent directory
func countByCategory(paths []string) []categoryCount {
	counts := make(map[string]int)
	for _, p := range paths {
		counts[filepath.Base(filepath.Dir(p))]++
	}
	out := make([]categoryCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, categoryCount{name: name, count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}
