package cli

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"github.com/tablekit/airtable.go/pkg/models"
)

var (
	inspectClass string
	inspectDump  bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect --class <class> <file|->",
	Short: "Parse a JSON response into a built-in model and print it",
	Example: `  airshape inspect --class Comment comment.json
  airshape inspect --class Record --dump record.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cls, err := models.Default.Class(inspectClass)
		if err != nil {
			return err
		}
		data, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}
		raw, err := models.DecodeResponse(data)
		if err != nil {
			return err
		}
		o, err := models.Parse(cls, raw, cfg.ParseOptions()...)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, o.String())
		if inspectDump {
			cs := spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true}
			cs.Fdump(out, o.Raw())
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectClass, "class", models.RecordClass, "built-in class to parse as")
	inspectCmd.Flags().BoolVar(&inspectDump, "dump", false, "also dump the wire form")
	rootCmd.AddCommand(inspectCmd)
}
