package commands

import (
	"fmt"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
)

func (c *CLI) newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List targets, marking the ones that are out of date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.enterProject(cmd); err != nil {
				return err
			}

			all, _ := cmd.Flags().GetBool("all")
			entries, err := c.app.List(all)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, e := range entries {
				marker := " "
				if e.OutOfDate {
					marker = color.Yellow.Sprint("*")
				}
				_, _ = fmt.Fprintf(out, "%s %-20s %-10s %s\n", marker, e.Name, e.Kind, color.Gray.Sprint(e.Path))
			}
			return nil
		},
	}

	cmd.Flags().BoolP("all", "a", false, "Include targets created implicitly, such as objects and sources")

	return cmd
}

func (c *CLI) newFlattenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flatten <target>",
		Short: "Print the order in which a target's dependencies are considered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enterProject(cmd); err != nil {
				return err
			}

			seq, err := c.app.Flatten(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, t := range seq {
				_, _ = fmt.Fprintf(out, "%3d  %-10s %s\n", i+1, t.Kind(), t.Path())
			}
			return nil
		},
	}
}
