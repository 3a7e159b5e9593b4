package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsawler/layoutmd/config"
)

var initConfigOutput string

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write a default ocrmd.yaml to get started customizing",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.WriteDefault(initConfigOutput); err != nil {
			return fmt.Errorf("writing default config: %w", err)
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote default configuration to %s\n", initConfigOutput)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initConfigCmd)
	initConfigCmd.Flags().StringVarP(&initConfigOutput, "output", "o", "ocrmd.yaml", "path to write")
}
