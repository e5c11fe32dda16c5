package commands

import (
	"fmt"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/engine/driver"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [targets...]",
		Short: "Bring targets up to date",
		Long: "Build the named targets, or every target no other target depends on.\n" +
			"Only steps whose inputs are at least as new as their output are run.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enterProject(cmd); err != nil {
				return err
			}
			return c.app.Build(cmd.Context(), args, driverOptions(cmd))
		},
	}

	cmd.Flags().IntP("jobs", "j", 1, "Number of commands to run at once")
	addPlanFlags(cmd)

	return cmd
}

func (c *CLI) newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [targets...]",
		Short: "Remove the artifacts built for targets",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enterProject(cmd); err != nil {
				return err
			}
			return c.app.Clean(cmd.Context(), args)
		},
	}
}

func (c *CLI) newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan [targets...]",
		Short: "Print the commands a build would run",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enterProject(cmd); err != nil {
				return err
			}

			steps, err := c.app.Plan(args, driverOptions(cmd))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(steps) == 0 {
				_, _ = fmt.Fprintln(out, "everything is up to date")
				return nil
			}
			for _, s := range steps {
				if s.Argv == nil {
					_, _ = fmt.Fprintln(out, color.Gray.Sprint(s.String()))
					continue
				}
				_, _ = fmt.Fprintln(out, s.String())
			}
			return nil
		},
	}

	addPlanFlags(cmd)

	return cmd
}

func addPlanFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("dedupe", false, "Visit each output path once even when several targets reach it")
	cmd.Flags().BoolP("force", "B", false, "Rebuild every target regardless of timestamps")
}

func driverOptions(cmd *cobra.Command) driver.Options {
	jobs, _ := cmd.Flags().GetInt("jobs")
	dedupe, _ := cmd.Flags().GetBool("dedupe")
	force, _ := cmd.Flags().GetBool("force")
	return driver.Options{Jobs: jobs, Dedupe: dedupe, Force: force}
}
