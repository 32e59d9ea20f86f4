package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/collage/internal/config"
)

// configCommand creates the config command with init and show subcommands.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configShowCommand())
	return cmd
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.resolveConfigPath()
			if err != nil {
				return err
			}
			if err := config.CreateSample(path, force); err != nil {
				return err
			}
			printSuccess("Wrote default configuration")
			printFile(path)
			fmt.Println()
			printNextStep("Edit it, then check the result", appName+" config show")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.resolveConfigPath()
			if err != nil {
				return err
			}
			data, err := c.Config.Encode()
			if err != nil {
				return err
			}
			printKeyValue("Source", path)
			if _, err := os.Stat(path); err != nil {
				printDetail("no file at this path, showing defaults")
			}
			printKeyValue("Layout", c.Config.LayoutKind().Title())
			fmt.Println()
			fmt.Print(string(data))
			return nil
		},
	}
}

func (c *CLI) resolveConfigPath() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	return config.DefaultPath()
}
