package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// serversCmd represents the servers command
var serversCmd = &cobra.Command{
	Use:   "servers",
	Short: "List server instances known to the API",
	RunE:  runServers,
}

var serversShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one server instance",
	Long: `Show the details of a server instance. Without an argument the
configured server is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServersShow,
}

func init() {
	rootCmd.AddCommand(serversCmd)
	serversCmd.AddCommand(serversShowCmd)
}

func runServers(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	servers, err := client.Servers(ctx)
	if err != nil {
		return err
	}

	if len(servers) == 0 {
		fmt.Println("No servers found.")
		return nil
	}

	ids := make([]string, 0, len(servers))
	for id := range servers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		info := servers[id].Info
		fmt.Printf("• %s", id)
		if info.DaemonType != "" {
			fmt.Printf(" (%s", info.DaemonType)
			if info.Version != "" {
				fmt.Printf(" %s", info.Version)
			}
			fmt.Printf(")")
		}
		fmt.Println()
	}

	return nil
}

func runServersShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	target := server()
	if len(args) > 0 {
		target = client.Server(args[0])
	}

	info, err := target.Get(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", info.ID)
	if info.DaemonType != "" {
		fmt.Printf("  Daemon:  %s\n", info.DaemonType)
	}
	if info.Version != "" {
		fmt.Printf("  Version: %s\n", info.Version)
	}
	if info.URL != "" {
		fmt.Printf("  URL:     %s\n", info.URL)
	}
	if info.ConfigURL != "" {
		fmt.Printf("  Config:  %s\n", info.ConfigURL)
	}
	if info.ZonesURL != "" {
		fmt.Printf("  Zones:   %s\n", info.ZonesURL)
	}

	return nil
}

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats [name...]",
	Short: "Show server statistics",
	Long: `Show the internal statistics of the server. With arguments, only the
named counters are shown.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	stats, err := server().Statistics(ctx)
	if err != nil {
		return err
	}

	wanted := make(map[string]bool, len(args))
	for _, name := range args {
		wanted[name] = true
	}

	for _, stat := range stats {
		if len(wanted) > 0 && !wanted[stat.Name] {
			continue
		}
		value := stat.StringValue()
		if value == "" {
			// map/ring statistics keep their raw JSON form
			value = string(stat.Value)
		}
		fmt.Printf("%-40s %s\n", stat.Name, value)
	}

	return nil
}

// cacheFlushCmd represents the cache flush command
var cacheFlushCmd = &cobra.Command{
	Use:   "cache-flush [domain]",
	Short: "Flush the packet cache",
	Long: `Flush the packet cache for a domain. Without a domain the entire
cache is flushed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCacheFlush,
}

func init() {
	rootCmd.AddCommand(cacheFlushCmd)
}

func runCacheFlush(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	domain := ""
	if len(args) > 0 {
		domain = args[0]
	}

	result, err := server().FlushCache(ctx, domain)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%d entries)\n", result.Result, result.Count)
	return nil
}

var (
	traceRegex string
	traceOff   bool
)

// traceCmd represents the trace command
var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Show or change query tracing",
	Long: `Without flags, show the current tracing state and the collected log.
--set enables tracing for domains matching a regex, --off disables it.`,
	RunE: runTrace,
}

func init() {
	rootCmd.AddCommand(traceCmd)

	traceCmd.Flags().StringVar(&traceRegex, "set", "", "enable tracing for domains matching this regex")
	traceCmd.Flags().BoolVar(&traceOff, "off", false, "disable tracing")
}

func runTrace(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if traceRegex != "" && traceOff {
		return fmt.Errorf("--set and --off are mutually exclusive")
	}

	if traceOff {
		if err := server().SetTrace(ctx, ""); err != nil {
			return err
		}
		fmt.Println("Tracing disabled.")
		return nil
	}

	if traceRegex != "" {
		if err := server().SetTrace(ctx, traceRegex); err != nil {
			return err
		}
		fmt.Printf("Tracing enabled for %q.\n", traceRegex)
		return nil
	}

	status, err := server().Trace(ctx)
	if err != nil {
		return err
	}

	if status.Regex == "" {
		fmt.Println("Tracing is disabled.")
		return nil
	}

	fmt.Printf("Tracing domains matching %q\n", status.Regex)
	if len(status.Log) > 0 {
		fmt.Println(strings.Repeat("-", 80))
		for _, line := range status.Log {
			fmt.Println(line)
		}
	}
	return nil
}

var (
	searchMax  int
	searchLogs bool
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search zone data or the query log",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVar(&searchMax, "max", 0, "maximum number of results (0 = server default)")
	searchCmd.Flags().BoolVar(&searchLogs, "logs", false, "search the query log instead of zone data")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	term := args[0]

	if searchLogs {
		lines, err := server().SearchLog(ctx, term)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			fmt.Println("No log lines matched.")
			return nil
		}
		for _, line := range lines {
			fmt.Println(line)
		}
		return nil
	}

	results, err := server().SearchData(ctx, term, searchMax)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No results.")
		return nil
	}

	for _, result := range results {
		switch result.ObjectType {
		case "zone":
			fmt.Printf("zone   %s\n", result.Name)
		default:
			fmt.Printf("%-6s %s %d IN %s %s\n",
				result.ObjectType, result.Name, result.TTL, result.Type, result.Content)
		}
	}

	return nil
}
