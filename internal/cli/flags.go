package cli

import (
	"fmt"

	"github.com/ppiankov/conceptmap/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// pruningFlags maps flag names to config keys
var pruningFlags = map[string]string{
	"min-frequency": "pruning.min_frequency",
	"max-nodes":     "pruning.max_nodes",
	"max-degree":    "pruning.max_degree",
	"size-scale":    "pruning.size_scale",
	"edge-width":    "pruning.edge_width",
	"output-dir":    "output.dir",
}

func addPruningFlags(cmd *cobra.Command) {
	d := model.DefaultConfig()
	cmd.Flags().Int("min-frequency", d.Pruning.MinFrequency, "drop concepts seen in fewer sentences")
	cmd.Flags().Int("max-nodes", d.Pruning.MaxNodes, "maximum concepts kept after frequency pruning")
	cmd.Flags().Int("max-degree", d.Pruning.MaxDegree, "maximum connections kept per concept")
	cmd.Flags().Float64("size-scale", d.Pruning.SizeScale, "node size per connection")
	cmd.Flags().Float64("edge-width", d.Pruning.EdgeWidth, "edge display width")
	cmd.Flags().StringP("output-dir", "o", d.Output.Dir, "working directory for graph artifacts and reports")
}

// bindFlags binds a command's flags to viper at run time. Binding in init
// would let the last registered command win, since several commands share keys.
func bindFlags(cmd *cobra.Command, flags map[string]string) error {
	for name, key := range flags {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind --%s: %w", name, err)
		}
	}
	return nil
}
