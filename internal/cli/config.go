package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mgpai22/captioner/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show, export and import editor settings",
	Long: `Manage the settings file used for editor defaults, export format,
watermark and translation.

Settings are exported and imported as JSON so they can be shared; an import
is merged over the defaults and a malformed file leaves the settings as they
were. Named presets are stored in the settings file.

Examples:
  captioner config show
  captioner config export -o settings.json
  captioner config import settings.json
  captioner config preset save lecture`,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configExportCmd, configImportCmd, configResetCmd, configPresetCmd)
	configPresetCmd.AddCommand(presetListCmd, presetSaveCmd, presetLoadCmd, presetDeleteCmd)
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(settings.Values)
		if err != nil {
			return fmt.Errorf("failed to encode settings: %w", err)
		}
		fmt.Printf("# %s\n%s", settings.Path(), out)
		return nil
	},
}

var configExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the current settings as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputPath, _ := cmd.Flags().GetString("output")

		settings, err := loadSettings()
		if err != nil {
			return err
		}
		raw, err := settings.ExportJSON()
		if err != nil {
			return err
		}
		if outputPath == "" {
			fmt.Println(raw)
			return nil
		}
		if err := os.WriteFile(outputPath, []byte(raw+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write settings: %w", err)
		}
		fmt.Printf("Settings exported: %s\n", outputPath)
		return nil
	},
}

var configImportCmd = &cobra.Command{
	Use:   "import [settings_json]",
	Short: "Import settings exported as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read settings file: %w", err)
		}
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		if !settings.ImportJSON(string(data)) {
			return fmt.Errorf("invalid settings file: %s", args[0])
		}
		if err := settings.Save(); err != nil {
			return err
		}
		fmt.Printf("Settings imported into %s\n", settings.Path())
		return nil
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings, keeping presets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		settings.ResetToDefaults()
		if err := settings.Save(); err != nil {
			return err
		}
		fmt.Println("Settings reset to defaults")
		return nil
	},
}

var configPresetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Manage named setting presets",
}

var presetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List preset names",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		names := settings.PresetNames()
		if len(names) == 0 {
			fmt.Println("No presets")
			return nil
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

var presetSaveCmd = &cobra.Command{
	Use:   "save [name]",
	Short: "Save the current settings as a preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updatePresets(func(s *config.Settings) error {
			s.SavePreset(args[0])
			fmt.Printf("Preset saved: %s\n", args[0])
			return nil
		})
	},
}

var presetLoadCmd = &cobra.Command{
	Use:   "load [name]",
	Short: "Replace the current settings with a preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updatePresets(func(s *config.Settings) error {
			if !s.LoadPreset(args[0]) {
				return fmt.Errorf("preset not found: %s", args[0])
			}
			fmt.Printf("Preset loaded: %s\n", args[0])
			return nil
		})
	},
}

var presetDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updatePresets(func(s *config.Settings) error {
			s.DeletePreset(args[0])
			fmt.Printf("Preset deleted: %s\n", args[0])
			return nil
		})
	},
}

// loads the settings, applies fn and writes them back
func updatePresets(fn func(*config.Settings) error) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	if err := fn(settings); err != nil {
		return err
	}
	return settings.Save()
}
