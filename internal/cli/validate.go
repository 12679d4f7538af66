package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tablekit/airtable.go/pkg/errs"
	"github.com/tablekit/airtable.go/pkg/shapes"
)

var (
	validateShape string
	validateMany  bool
)

var validateCmd = &cobra.Command{
	Use:   "validate --shape <shape> <file|->",
	Short: "Validate a JSON payload against a wire shape",
	Example: `  airshape validate --shape RecordEnvelope record.json
  airshape validate --shape RecordDeleted --many deleted.json
  cat payload.json | airshape validate --shape CreateRecord --strict -`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := shapes.Lookup(validateShape)
		if err != nil {
			return err
		}
		data, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}
		var doc any
		if err := jsonCodec.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("decoding %s: %w", args[0], err)
		}

		if validateMany {
			_, err = shapes.ValidateMany(s, doc, cfg.ShapeOptions()...)
		} else {
			_, err = shapes.Validate(s, doc, cfg.ShapeOptions()...)
		}

		out := cmd.OutOrStdout()
		var sve *errs.ShapeValidationError
		if errors.As(err, &sve) {
			for _, it := range sve.Issues {
				fmt.Fprintln(out, it.String())
			}
			return fmt.Errorf("%s: %d issue(s)", args[0], len(sve.Issues))
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: ok\n", args[0])
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateShape, "shape", "", "name of the shape to validate against")
	validateCmd.Flags().BoolVar(&validateMany, "many", false, "the payload is an array of objects")
	_ = validateCmd.MarkFlagRequired("shape")
	rootCmd.AddCommand(validateCmd)
}
