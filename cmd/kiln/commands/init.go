package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func (c *CLI) newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [name]",
		Short: "Write a starter kiln.yaml for the sources in this directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) == 1 {
				name = args[0]
			} else {
				cwd, err := os.Getwd()
				if err != nil {
					return err
				}
				name = filepath.Base(cwd)
			}

			if file, _ := cmd.Flags().GetString("file"); file != "" {
				c.app.WithDescription(file)
			}
			force, _ := cmd.Flags().GetBool("force")

			sources, err := c.app.Init(name, force)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "executable %s with %d source(s)\n", name, len(sources))
			return nil
		},
	}

	cmd.Flags().Bool("force", false, "Overwrite an existing build description")

	return cmd
}
