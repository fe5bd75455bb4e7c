package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"aup/pkg/models"
	"aup/pkg/presets"
)

// presetsCmd represents the presets command
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List and manage Auphonic presets",
	Long:  `Commands for listing the presets of your Auphonic account and managing the locally saved default preset.`,
}

var presetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all presets",
	Long:  `Fetch all presets from your Auphonic account and cache their names locally.`,
	RunE:  runPresetsList,
}

var presetsSaveCmd = &cobra.Command{
	Use:   "save <uuid>",
	Short: "Save a preset UUID as the default",
	Long:  `Validate a preset UUID against your account and save it as the default for future optimize runs.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetsSave,
}

var presetsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved default preset",
	RunE:  runPresetsShow,
}

func init() {
	rootCmd.AddCommand(presetsCmd)
	presetsCmd.AddCommand(presetsListCmd)
	presetsCmd.AddCommand(presetsSaveCmd)
	presetsCmd.AddCommand(presetsShowCmd)
}

func runPresetsList(cmd *cobra.Command, args []string) error {
	client, err := newAPIClient()
	if err != nil {
		return err
	}

	list, err := client.ListPresets()
	if err != nil {
		return err
	}

	// Refresh the local name cache as a side effect.
	configPath, err := configStorePath()
	if err != nil {
		return err
	}
	store, err := presets.Load(configPath)
	if err != nil {
		return err
	}
	for _, p := range list {
		store.CacheName(p.UUID, p.Name)
	}
	if err := store.Save(configPath); err != nil {
		return err
	}

	return outputPresets(list)
}

func outputPresets(list []models.Preset) error {
	switch outputFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(list)

	case "yaml":
		encoder := yaml.NewEncoder(os.Stdout)
		encoder.SetIndent(2)
		return encoder.Encode(list)

	default: // table
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("UUID", "Name", "Created", "Multitrack")
		for _, p := range list {
			table.Append(p.UUID, p.Name, p.Created, boolToYesNo(p.IsMultitrack))
		}
		table.Render()
		fmt.Printf("\nTotal presets: %d\n", len(list))
		return nil
	}
}

func runPresetsSave(cmd *cobra.Command, args []string) error {
	uuid := args[0]

	configPath, err := configStorePath()
	if err != nil {
		return err
	}
	store, err := presets.Load(configPath)
	if err != nil {
		return err
	}

	name, cached := store.Name(uuid)
	if !cached {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		list, err := client.ListPresets()
		if err != nil {
			return err
		}
		for _, p := range list {
			if p.UUID == uuid {
				name = p.Name
				break
			}
		}
		if name == "" {
			return fmt.Errorf("preset UUID %q not found in your Auphonic account", uuid)
		}
	}

	store.SetDefault(uuid, name)
	if err := store.Save(configPath); err != nil {
		return err
	}

	return printJSON(map[string]string{"status": "saved", "uuid": uuid, "name": name})
}

func runPresetsShow(cmd *cobra.Command, args []string) error {
	configPath, err := configStorePath()
	if err != nil {
		return err
	}
	store, err := presets.Load(configPath)
	if err != nil {
		return err
	}

	if store.DefaultPreset == "" {
		return printJSON(map[string]string{"status": "no_default", "message": "No default preset saved"})
	}

	name, ok := store.Name(store.DefaultPreset)
	if !ok {
		name = "Unknown"
	}
	return printJSON(map[string]string{"status": "ok", "uuid": store.DefaultPreset, "name": name})
}

func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func boolToYesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
