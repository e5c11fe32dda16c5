package commands

import (
	"fmt"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/core/domain"
)

func (c *CLI) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and change project settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every setting with its current value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.enterProject(cmd); err != nil {
				return err
			}

			entries, err := c.app.Settings()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, e := range entries {
				value := fmt.Sprintf("%q", e.Value)
				if !e.IsDefault {
					value = color.Cyan.Sprint(value) + color.Gray.Sprintf(" (default %q)", e.Default)
				}
				_, _ = fmt.Fprintf(out, "%-20s %s\n", e.Key, value)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Override a setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enterProject(cmd); err != nil {
				return err
			}
			return c.app.SetSetting(args[0], args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset [keys...]",
		Short: "Restore settings to their defaults, all of them when no key is given",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enterProject(cmd); err != nil {
				return err
			}
			return c.app.ResetSettings(args...)
		},
	})

	return cmd
}

func (c *CLI) newToolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tool",
		Short: "Manage the toolchain used to build targets",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the registered tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.enterProject(cmd); err != nil {
				return err
			}

			tools, err := c.app.Tools()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, t := range tools {
				_, _ = fmt.Fprintf(out, "%-10s %s %s\n",
					color.Bold.Sprint(t.Function), t.String(), color.Gray.Sprintf("(output %s)", t.Output()))
			}
			return nil
		},
	})

	cmd.AddCommand(c.newToolEditCmd("add", "Register a tool for a new function", c.app.AddTool))
	cmd.AddCommand(c.newToolEditCmd("modify", "Replace the tool registered for a function", c.app.ModifyTool))

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <function>",
		Short: "Unregister the tool for a function",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enterProject(cmd); err != nil {
				return err
			}
			return c.app.RemoveTool(args[0])
		},
	})

	return cmd
}

func (c *CLI) newToolEditCmd(use, short string, apply func(domain.Tool) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <function> <command>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enterProject(cmd); err != nil {
				return err
			}

			options, _ := cmd.Flags().GetStringArray("option")
			paths, _ := cmd.Flags().GetStringArray("path")
			pathSwitch, _ := cmd.Flags().GetString("path-switch")
			outputSwitch, _ := cmd.Flags().GetString("output-switch")

			return apply(domain.Tool{
				Function:     args[0],
				Command:      args[1],
				Options:      options,
				Paths:        paths,
				PathSwitch:   pathSwitch,
				OutputSwitch: outputSwitch,
			})
		},
	}

	cmd.Flags().StringArrayP("option", "o", nil, "Option passed before every other argument (repeatable)")
	cmd.Flags().StringArrayP("path", "I", nil, "Search path passed with the path switch (repeatable)")
	cmd.Flags().String("path-switch", "", "Switch prefixed to each search path (default \"-I\")")
	cmd.Flags().String("output-switch", "", "Switch naming the output file (default \"-o\")")

	return cmd
}
