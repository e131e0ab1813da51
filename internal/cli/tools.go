package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/rickchristie/duet/scenario/bulb"
	"github.com/rickchristie/duet/toolset"
	"github.com/spf13/cobra"
)

func (a *app) newToolsCommand() *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tools of the bulb scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := toolset.New(bulb.Tools(bulb.NewMemoryBackend())...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(set.Definitions())
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tAGENT\tUSER\tDESCRIPTION")
			for _, tool := range set.Tools() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					tool.Name(),
					mark(bulb.AgentTools, tool.Name()),
					mark(bulb.UserTools, tool.Name()),
					tool.Description(),
				)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit provider tool definitions as JSON")
	return cmd
}

func mark(allowed []string, name string) string {
	for _, n := range allowed {
		if n == name {
			return "yes"
		}
	}
	return "-"
}
