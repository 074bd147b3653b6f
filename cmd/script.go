package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/viant/sourcepick/runtime"
)

var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Print the picker runtime script",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		script, err := runtime.Build(cmd.Context(), runtime.Options{
			RasterizerURL: cfg.Runtime.RasterizerURL,
			PixelRatio:    cfg.Runtime.PixelRatio,
		})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), script)
		return err
	},
}

func init() {
	rootCmd.AddCommand(scriptCmd)
}
