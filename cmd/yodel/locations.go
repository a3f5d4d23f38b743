package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/yodel/internal/api"
)

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "List download locations known to the server",
	RunE:  runLocationsCmd,
}

func init() {
	rootCmd.AddCommand(locationsCmd)
}

func runLocationsCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client := api.NewClient(cfg.Server.URL)
	locations, err := client.Locations(cmd.Context())
	if err != nil {
		return fmt.Errorf("locations fetch failed: %w", err)
	}

	if jsonOutput {
		printJSON(locations)
		return nil
	}

	if len(locations) == 0 {
		fmt.Println("No locations configured on the server")
		return nil
	}

	fmt.Printf("Locations (%d):\n\n", len(locations))
	fmt.Printf("  %-16s %s\n", "NAME", "PATH")
	fmt.Println("  " + strings.Repeat("-", 48))
	for _, loc := range locations {
		fmt.Printf("  %-16s %s\n", loc.Name, loc.Path)
	}
	return nil
}
