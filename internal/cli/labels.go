package cli

import (
	"github.com/spf13/cobra"
)

// labelsCommand creates the labels command that previews category labels.
func (c *CLI) labelsCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "labels",
		Short: "Show the label each category column will carry",
		Long: `Show the label each category column will carry.

Labels come from the config's labels table, or are derived from the column
header by keeping the text after the last cutoff separator.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			for _, cat := range cfg.CategoryList() {
				printInfo("%s %s %s", cat.Column, styleDim.Render(iconArrow), styleAccent.Render(cat.Label))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "run configuration file (.toml, .yaml)")

	return cmd
}
