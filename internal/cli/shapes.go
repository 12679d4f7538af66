package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tablekit/airtable.go/pkg/models"
	"github.com/tablekit/airtable.go/pkg/shapes"
)

var shapesFields bool

var shapesCmd = &cobra.Command{
	Use:   "shapes",
	Short: "List the built-in wire shapes and model classes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		for _, name := range shapes.Default.Names() {
			s, err := shapes.Lookup(name)
			if err != nil {
				return err
			}
			printShape(cmd, s)
		}
		for _, name := range models.Default.Classes() {
			cls, err := models.Default.Class(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "class ")
			printShape(cmd, cls.Shape())
		}
		return nil
	},
}

func printShape(cmd *cobra.Command, s *shapes.Shape) {
	out := cmd.OutOrStdout()
	if !shapesFields {
		fmt.Fprintln(out, s.Name())
		return
	}
	parts := make([]string, 0, len(s.Fields()))
	for _, f := range s.Fields() {
		marker := ""
		if !f.Required {
			marker = "?"
		}
		parts = append(parts, fmt.Sprintf("%s%s: %s", f.Name, marker, f.Type))
	}
	fmt.Fprintf(out, "%s {%s}\n", s.Name(), strings.Join(parts, ", "))
}

func init() {
	shapesCmd.Flags().BoolVar(&shapesFields, "fields", false, "print the fields of each shape")
	rootCmd.AddCommand(shapesCmd)
}
