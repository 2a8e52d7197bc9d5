package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"codeberg.org/snonux/dowel/internal/config"
)

// Only flags given on the command line end up in a patch, so an upsert
// never resets fields the user did not mention.

func changedString(fs *pflag.FlagSet, name string) *string {
	if !fs.Changed(name) {
		return nil
	}
	v, _ := fs.GetString(name)
	return &v
}

func changedBool(fs *pflag.FlagSet, name string) *bool {
	if !fs.Changed(name) {
		return nil
	}
	v, _ := fs.GetBool(name)
	return &v
}

func changedInt(fs *pflag.FlagSet, name string) *int {
	if !fs.Changed(name) {
		return nil
	}
	v, _ := fs.GetInt(name)
	return &v
}

// ProviderPatch builds a patch from the config provider flags.
func ProviderPatch(cmd *cobra.Command, name string) config.ProviderPatch {
	fs := cmd.Flags()
	return config.ProviderPatch{
		Name: name,
		API:  changedString(fs, "api"),
		Key:  changedString(fs, "key"),
		On:   changedBool(fs, "on"),
	}
}

// TranslationPatch builds a patch from the config translation flags.
func TranslationPatch(cmd *cobra.Command, name string) config.TranslationPatch {
	fs := cmd.Flags()
	return config.TranslationPatch{
		Name:   name,
		API:    changedString(fs, "api"),
		Key:    changedString(fs, "key"),
		Secret: changedString(fs, "secret"),
		Limit:  changedInt(fs, "limit"),
		On:     changedBool(fs, "on"),
	}
}

// AIProfilePatch builds a patch from the config profile flags.
func AIProfilePatch(cmd *cobra.Command, name string) config.AIProfilePatch {
	fs := cmd.Flags()
	return config.AIProfilePatch{
		Name:        name,
		Provider:    changedString(fs, "provider"),
		Model:       changedString(fs, "model"),
		Prompt:      changedString(fs, "prompt"),
		WebPrompt:   changedString(fs, "web-prompt"),
		WebMode:     changedString(fs, "web-mode"),
		WebSelector: changedString(fs, "web-selector"),
		On:          changedBool(fs, "on"),
	}
}

// AppSettingsPatch builds a patch from the config app flags.
func AppSettingsPatch(cmd *cobra.Command) config.AppSettingsPatch {
	fs := cmd.Flags()
	return config.AppSettingsPatch{
		Locale:   changedString(fs, "locale"),
		ShowTray: changedBool(fs, "show-tray"),
	}
}

// TranslationConfigPatch builds a patch from the config hotkey arguments.
// An explicit empty accelerator ("") clears the hotkey.
func TranslationConfigPatch(cmd *cobra.Command, args []string) config.TranslationConfigPatch {
	fs := cmd.Flags()
	p := config.TranslationConfigPatch{Locale: changedString(fs, "locale")}
	if len(args) > 0 {
		hotKey := args[0]
		p.HotKey = &hotKey
	}
	return p
}
