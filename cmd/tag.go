package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/viant/sourcepick/build"
)

var tagCmd = newTagCmd()
var tagOutputFlag string
var tagDryRunFlag bool

func newTagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag [root]",
		Short: "Tag project sources and inject the picker runtime",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			builder, err := build.New(cfg, build.WithLogger(newLogger(cmd)))
			if err != nil {
				return err
			}
			report, err := builder.Build(cmd.Context(), &build.Request{Root: root, Output: tagOutputFlag, DryRun: tagDryRunFlag})
			if err != nil {
				return err
			}
			renderReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().StringVarP(&tagOutputFlag, "output", "o", "", "write tagged units under this location instead of in place")
	cmd.Flags().BoolVarP(&tagDryRunFlag, "dry-run", "n", false, "tag without writing")
	return cmd
}

func renderReport(w io.Writer, report *build.Report) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Unit", "Components", "Static", "Elements", "Runtime", "Status"})
	table.SetBorder(false)
	components := 0
	for _, unit := range report.Units {
		status := "tagged"
		switch {
		case unit.Err != nil:
			status = unit.Err.Error()
		case unit.Cached:
			status = "cached"
		}
		runtime := ""
		if unit.Injected {
			runtime = "yes"
		}
		components += len(unit.Components)
		table.Append([]string{
			unit.Path,
			strconv.Itoa(len(unit.Components)),
			strconv.Itoa(unit.Static()),
			strconv.Itoa(unit.Elements),
			runtime,
			status,
		})
	}
	table.SetFooter([]string{fmt.Sprintf("%d units", len(report.Units)), strconv.Itoa(components), "", strconv.Itoa(report.Elements()), report.Entry, fmt.Sprintf("%d failed", len(report.Failed()))})
	table.Render()
}

func init() {
	rootCmd.AddCommand(tagCmd)
}
