package cli

import (
	"github.com/spf13/cobra"
	"github.com/tablekit/airtable.go/pkg/shapes"
)

var schemaCompile bool

var schemaCmd = &cobra.Command{
	Use:   "schema <shape>",
	Short: "Print the JSON Schema of a wire shape",
	Example: `  airshape schema RecordEnvelope
  airshape schema --strict --compile CreateRecord`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := shapes.Lookup(args[0])
		if err != nil {
			return err
		}
		if schemaCompile {
			if _, err := shapes.CompileJSONSchema(s, cfg.ShapeOptions()...); err != nil {
				return err
			}
		}
		return writeJSON(cmd.OutOrStdout(), shapes.JSONSchema(s, cfg.ShapeOptions()...))
	},
}

func init() {
	schemaCmd.Flags().BoolVar(&schemaCompile, "compile", false, "check that the schema compiles before printing it")
	rootCmd.AddCommand(schemaCmd)
}
