package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the configured stream addresses",
	Long: `Print the stream addresses in menu order. The first one is the
initial selection of the viewer.`,
	Example: `  drishti list --streams cams.txt`,
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	streams, err := loadStreams(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, s := range streams {
		fmt.Fprintf(out, "%2d  %s\n", i+1, s)
	}
	return nil
}
