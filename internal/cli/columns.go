package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/censusdots/pkg/source/attrs"
)

// columnsCommand creates the columns command for inspecting an attribute table.
func (c *CLI) columnsCommand() *cobra.Command {
	var numeric bool

	cmd := &cobra.Command{
		Use:   "columns [file.csv]",
		Short: "List the columns of an attribute table",
		Long: `List the columns of an attribute table.

Prints every header column with its index. With --numeric, the table is
loaded with the default marker columns and only the count columns that can
be used as categories are listed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if numeric {
				return c.printNumericColumns(args[0])
			}
			return c.printHeader(args[0])
		},
	}

	cmd.Flags().BoolVar(&numeric, "numeric", false, "list only category count columns")

	return cmd
}

func (c *CLI) printHeader(path string) error {
	header, err := attrs.Header(path)
	if err != nil {
		return err
	}
	printInfo("%s %s", styleTitle.Render(path), styleDim.Render(fmt.Sprintf("(%d columns)", len(header))))
	for i, name := range header {
		printKeyValue(fmt.Sprint(i), name)
	}
	return nil
}

func (c *CLI) printNumericColumns(path string) error {
	tbl, err := attrs.LoadFile(path, attrs.Options{})
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded attribute table", "rows", tbl.Stats.Rows, "columns", len(tbl.Columns))

	printInfo("%s %s", styleTitle.Render(path), styleDim.Render(fmt.Sprintf("(%d count columns)", len(tbl.Numeric))))
	for i, name := range tbl.Numeric {
		printKeyValue(fmt.Sprint(i), name)
	}
	printNewline()
	printNextStep("Preview labels", "censusdots labels --config FILE")
	return nil
}
