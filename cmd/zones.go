package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdns-tools/pdnsctl/filter"
	"github.com/pdns-tools/pdnsctl/pdns"
)

var (
	filterExpr      string
	zoneKind        string
	zoneMasters     []string
	zoneNS          []string
	recordTTL       uint32
	deleteNoConfirm bool
)

// zonesCmd represents the zones command
var zonesCmd = &cobra.Command{
	Use:   "zones",
	Short: "Manage zones",
}

var zonesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List zones, optionally narrowed by a filter expression",
	Long: `List all zones on the server. A filter expression can narrow the
result, e.g.:

  pdnsctl zones list --filter 'Kind == "Master"'
  pdnsctl zones list --filter 'endsWith(Name, ".example.com.")'`,
	RunE: runZonesList,
}

var zonesShowCmd = &cobra.Command{
	Use:   "show <zone>",
	Short: "Show a zone including its records",
	Args:  cobra.ExactArgs(1),
	RunE:  runZonesShow,
}

var zonesCreateCmd = &cobra.Command{
	Use:   "create <zone>",
	Short: "Create a zone",
	Args:  cobra.ExactArgs(1),
	RunE:  runZonesCreate,
}

var zonesDeleteCmd = &cobra.Command{
	Use:   "delete <zone>",
	Short: "Delete a zone",
	Args:  cobra.ExactArgs(1),
	RunE:  runZonesDelete,
}

var zonesNotifyCmd = &cobra.Command{
	Use:   "notify <zone>",
	Short: "Queue a NOTIFY to all slaves of a zone",
	Args:  cobra.ExactArgs(1),
	RunE:  runZonesNotify,
}

var zonesExportCmd = &cobra.Command{
	Use:   "export <zone>",
	Short: "Export a zone in zonefile format",
	Args:  cobra.ExactArgs(1),
	RunE:  runZonesExport,
}

func init() {
	rootCmd.AddCommand(zonesCmd)
	zonesCmd.AddCommand(zonesListCmd)
	zonesCmd.AddCommand(zonesShowCmd)
	zonesCmd.AddCommand(zonesCreateCmd)
	zonesCmd.AddCommand(zonesDeleteCmd)
	zonesCmd.AddCommand(zonesNotifyCmd)
	zonesCmd.AddCommand(zonesExportCmd)

	zonesListCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")

	zonesCreateCmd.Flags().StringVar(&zoneKind, "kind", pdns.ZoneKindNative, "zone kind (Native, Master, Slave)")
	zonesCreateCmd.Flags().StringSliceVar(&zoneMasters, "master", nil, "master address (Slave zones, repeatable)")
	zonesCreateCmd.Flags().StringSliceVar(&zoneNS, "ns", nil, "nameserver (repeatable)")

	zonesDeleteCmd.Flags().BoolVar(&deleteNoConfirm, "no-confirm", false, "skip confirmation prompt")
}

func runZonesList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	zones, err := server().Zones(ctx)
	if err != nil {
		return err
	}

	infos := make([]pdns.ZoneInfo, 0, len(zones))
	for _, zone := range zones {
		infos = append(infos, zone.Info)
	}

	if filterExpr != "" {
		compiled, err := filter.Compile(filterExpr)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
		infos = compiled.Apply(infos)
	}

	if len(infos) == 0 {
		fmt.Println("No zones found.")
		return nil
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })

	fmt.Printf("Found %d zones:\n", len(infos))
	fmt.Println(strings.Repeat("-", 80))
	for _, info := range infos {
		fmt.Printf("%-40s %-8s serial %d", info.Name, info.Kind, info.Serial)
		if info.DNSSEC {
			fmt.Printf(" [DNSSEC]")
		}
		fmt.Println()
	}

	return nil
}

func runZonesShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	info, err := server().Zone(canonical(args[0])).Get(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s, serial %d)\n", info.Name, info.Kind, info.Serial)
	if len(info.Masters) > 0 {
		fmt.Printf("Masters: %s\n", strings.Join(info.Masters, ", "))
	}
	fmt.Println(strings.Repeat("-", 80))

	for _, rrset := range info.RRsets {
		for _, record := range rrset.Records {
			disabled := ""
			if record.Disabled {
				disabled = " ; disabled"
			}
			fmt.Printf("%s\t%d\tIN\t%s\t%s%s\n",
				rrset.Name, rrset.TTL, rrset.Type, record.Content, disabled)
		}
	}

	return nil
}

func runZonesCreate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	name := canonical(args[0])

	zone, err := server().CreateZone(ctx, pdns.ZoneInfo{
		Name:        name,
		Kind:        zoneKind,
		Masters:     zoneMasters,
		Nameservers: zoneNS,
	})
	if err != nil {
		return err
	}

	logger.Info().Str("zone", zone.ID).Str("kind", zoneKind).Msg("Zone created")
	fmt.Printf("Created zone %s\n", zone.ID)
	return nil
}

func runZonesDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	name := canonical(args[0])

	if !deleteNoConfirm {
		prompt := fmt.Sprintf("Delete zone %s and all its records? [y/N]: ", name)
		if !confirm(os.Stdin, prompt) {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := server().Zone(name).Delete(ctx); err != nil {
		return err
	}

	logger.Info().Str("zone", name).Msg("Zone deleted")
	fmt.Printf("Deleted zone %s\n", name)
	return nil
}

func runZonesNotify(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	name := canonical(args[0])

	if err := server().Zone(name).Notify(ctx); err != nil {
		return err
	}

	fmt.Printf("Notification queued for %s\n", name)
	return nil
}

func runZonesExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	text, err := server().Zone(canonical(args[0])).Export(ctx)
	if err != nil {
		return err
	}

	fmt.Print(text)
	return nil
}

// recordsCmd represents the records command
var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Edit records in a zone",
}

var recordsSetCmd = &cobra.Command{
	Use:   "set <zone> <name> <type> <content...>",
	Short: "Replace the records of a name and type",
	Long: `Replace all records of the given name and type, e.g.:

  pdnsctl records set example.com. www.example.com. A 192.0.2.1 192.0.2.2`,
	Args: cobra.MinimumNArgs(4),
	RunE: runRecordsSet,
}

var recordsDeleteCmd = &cobra.Command{
	Use:   "delete <zone> <name> <type>",
	Short: "Delete all records of a name and type",
	Args:  cobra.ExactArgs(3),
	RunE:  runRecordsDelete,
}

func init() {
	rootCmd.AddCommand(recordsCmd)
	recordsCmd.AddCommand(recordsSetCmd)
	recordsCmd.AddCommand(recordsDeleteCmd)

	recordsSetCmd.Flags().Uint32Var(&recordTTL, "ttl", 3600, "record TTL in seconds")
}

func runRecordsSet(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	zone, name, rtype := canonical(args[0]), canonical(args[1]), strings.ToUpper(args[2])
	contents := args[3:]

	err := server().Zone(zone).ReplaceRecords(ctx, name, rtype, recordTTL, contents...)
	if err != nil {
		return err
	}

	logger.Info().
		Str("zone", zone).
		Str("name", name).
		Str("type", rtype).
		Int("records", len(contents)).
		Msg("Records replaced")
	return nil
}

func runRecordsDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	zone, name, rtype := canonical(args[0]), canonical(args[1]), strings.ToUpper(args[2])

	if err := server().Zone(zone).DeleteRecords(ctx, name, rtype); err != nil {
		return err
	}

	logger.Info().
		Str("zone", zone).
		Str("name", name).
		Str("type", rtype).
		Msg("Records deleted")
	return nil
}

// confirm prompts for a yes/no answer and reads one full line, so stray
// words after the answer don't linger in the input.
func confirm(in io.Reader, prompt string) bool {
	fmt.Print(prompt)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	answer = strings.TrimSpace(answer)
	return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")
}

// canonical appends the trailing dot the API expects on zone and record
// names.
func canonical(name string) string {
	if name == "" || strings.HasSuffix(name, ".") {
		return name
	}
	return name + "."
}
