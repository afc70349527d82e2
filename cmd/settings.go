package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change server configuration",
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration settings",
	RunE:  runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Show one configuration setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <name> <value>",
	Short: "Create or replace a configuration setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}

func runConfigList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	values, err := server().Config(ctx)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Printf("%s=%s\n", name, values[name])
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	info, err := server().ConfigSetting(args[0]).Get(ctx)
	if err != nil {
		return err
	}

	fmt.Println(info.Value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	name, value := args[0], args[1]

	if _, err := server().SetConfig(ctx, name, value); err != nil {
		return err
	}

	logger.Info().Str("name", name).Msg("Config setting updated")
	fmt.Printf("%s=%s\n", name, value)
	return nil
}
