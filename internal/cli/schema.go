package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/suitemap/internal/record"
	"github.com/aalvaropc/suitemap/internal/records"
)

func schemaCmd() *cobra.Command {
	var format string

	c := &cobra.Command{
		Use:   "schema [type]",
		Short: "List record types, or describe one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			reg := records.Registry()
			w := cmd.OutOrStdout()

			if len(args) == 0 {
				types := reg.Types()
				if format == formatJSON {
					out := make([]record.Description, 0, len(types))
					for _, t := range types {
						out = append(out, t.Describe())
					}
					return writeJSON(w, out)
				}
				for _, t := range types {
					d := t.Describe()
					fmt.Fprintf(w, "%s  %s  [%s]\n", styleTitle.Render(d.Name), styleLabel.Render(d.RecordType), joinActions(d.Actions))
				}
				return nil
			}

			t, err := reg.Lookup(args[0])
			if err != nil {
				return err
			}
			if format == formatJSON {
				return writeJSON(w, t.Describe())
			}
			printDescription(w, t.Describe())
			return nil
		},
	}

	c.Flags().StringVar(&format, "format", formatPretty, "Output format: pretty|json")
	return c
}

func printDescription(w io.Writer, d record.Description) {
	fmt.Fprintln(w, styleTitle.Render(d.Name))
	label(w, "Type", d.RecordType)
	label(w, "Actions", joinActions(d.Actions))
	if d.SearchClass != "" {
		label(w, "Search", d.SearchClass)
	}
	fmt.Fprintln(w)

	width := 0
	for _, f := range d.Fields {
		if len(f.Name) > width {
			width = len(f.Name)
		}
	}
	for _, f := range d.Fields {
		typ := string(f.Kind)
		if f.Type != "" {
			typ = f.Type
		}
		fmt.Fprintf(w, "  %-*s  %s  %s\n", width, f.Name, styleLabel.Render(f.Wire), typ)
	}

	if len(d.Aliases) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, styleLabel.Render("aliases:"))
		for _, k := range sortedKeys(d.Aliases) {
			fmt.Fprintf(w, "  %s -> %s\n", k, d.Aliases[k])
		}
	}
}
