package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/dowel/internal"
)

// RunFunc runs one subcommand.
type RunFunc func(cmd *cobra.Command, args []string) error

// Handlers implement the subcommands. A nil handler leaves its command
// without a RunE, so cobra prints its help.
type Handlers struct {
	Translate         RunFunc
	AI                RunFunc
	Stream            RunFunc
	Models            RunFunc
	Clip              RunFunc
	ConfigShow        RunFunc
	ConfigProvider    RunFunc
	ConfigTranslation RunFunc
	ConfigProfile     RunFunc
	ConfigApp         RunFunc
	ConfigHotkey      RunFunc
	UsageReset        RunFunc
}

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags, h Handlers) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dowel",
		Short: "Translation assistant for machine translation and AI providers",
		Long: `dowel translates text through Aliyun and Baidu machine translation
accounts or through any OpenAI compatible chat completion endpoint.

Accounts, AI profiles and usage counters live in ~/dowel.json.

Examples:
  dowel translate "good morning" --to de     # All enabled accounts
  dowel translate --batch texts.txt -p baidu # One account, one text per line
  dowel stream https://go.dev/blog           # Translate a web page with AI
  dowel clip                                 # Translate the clipboard in place`,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	setupFlags(rootCmd, flags)

	translateCmd := &cobra.Command{
		Use:   "translate [text]",
		Short: "Translate text with machine translation accounts",
		Args:  cobra.MaximumNArgs(1),
		RunE:  h.Translate,
	}
	translateCmd.Flags().StringVarP(&flags.Provider, "provider", "p", "", "Translation account (default: all enabled accounts)")
	translateCmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Translate texts from file (one per line, optional '= lang' suffix)")
	addLanguageFlags(translateCmd, flags, true)

	aiCmd := &cobra.Command{
		Use:   "ai <text>",
		Short: "Translate text with an AI profile",
		Args:  cobra.ExactArgs(1),
		RunE:  h.AI,
	}
	addProfileFlag(aiCmd, flags)
	addLanguageFlags(aiCmd, flags, false)

	streamCmd := &cobra.Command{
		Use:   "stream <text|url>",
		Short: "Stream an AI translation of text or a web page",
		Args:  cobra.ExactArgs(1),
		RunE:  h.Stream,
	}
	addProfileFlag(streamCmd, flags)
	addLanguageFlags(streamCmd, flags, false)

	modelsCmd := &cobra.Command{
		Use:   "models <provider>",
		Short: "List the models an AI provider account serves",
		Args:  cobra.ExactArgs(1),
		RunE:  h.Models,
	}

	clipCmd := &cobra.Command{
		Use:   "clip",
		Short: "Translate the clipboard contents in place",
		Args:  cobra.NoArgs,
		RunE:  h.Clip,
	}

	rootCmd.AddCommand(translateCmd, aiCmd, streamCmd, modelsCmd, clipCmd,
		createConfigCommand(h), createUsageCommand(h), createVersionCommand())

	bindFlagsToViper(rootCmd)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.dowel.yaml)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.StoreBackend, "store", flags.StoreBackend, "Document storage: file or sqlite")
	cmd.PersistentFlags().StringVar(&flags.StoreDir, "store-dir", "", "Directory holding the document (default: home directory)")
	cmd.PersistentFlags().DurationVar(&flags.Timeout, "timeout", flags.Timeout, "HTTP request timeout")
	cmd.PersistentFlags().IntVar(&flags.BreakerFailures, "breaker-failures", flags.BreakerFailures, "Consecutive transport failures before backing off")
}

func addLanguageFlags(cmd *cobra.Command, flags *Flags, withSource bool) {
	if withSource {
		cmd.Flags().StringVar(&flags.From, "from", flags.From, "Source language")
	}
	cmd.Flags().StringVar(&flags.To, "to", "", "Target language (default: translationConfig locale)")
}

func addProfileFlag(cmd *cobra.Command, flags *Flags) {
	cmd.Flags().StringVar(&flags.Profile, "profile", flags.Profile, "AI profile name")
}

func createConfigCommand(h Handlers) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change accounts, AI profiles and app settings",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the configuration document with secrets masked",
		Args:  cobra.NoArgs,
		RunE:  h.ConfigShow,
	}

	providerCmd := &cobra.Command{
		Use:   "provider <name>",
		Short: "Create or update an AI provider account",
		Args:  cobra.ExactArgs(1),
		RunE:  h.ConfigProvider,
	}
	providerCmd.Flags().String("api", "", "OpenAI compatible endpoint")
	providerCmd.Flags().String("key", "", "API key")
	providerCmd.Flags().Bool("on", false, "Enable or disable the account")

	translationCmd := &cobra.Command{
		Use:   "translation <aliyun|baidu>",
		Short: "Create or update a machine translation account",
		Args:  cobra.ExactArgs(1),
		RunE:  h.ConfigTranslation,
	}
	translationCmd.Flags().String("api", "", "Endpoint override")
	translationCmd.Flags().String("key", "", "Access key id (aliyun) or app id (baidu)")
	translationCmd.Flags().String("secret", "", "Access key secret (aliyun) or signing key (baidu)")
	translationCmd.Flags().Int("limit", 0, "Monthly character limit (0 means unlimited)")
	translationCmd.Flags().Bool("on", false, "Enable or disable the account")

	profileCmd := &cobra.Command{
		Use:   "profile <name>",
		Short: "Create or update an AI profile",
		Args:  cobra.ExactArgs(1),
		RunE:  h.ConfigProfile,
	}
	profileCmd.Flags().String("provider", "", "AI provider account")
	profileCmd.Flags().String("model", "", "Model id")
	profileCmd.Flags().String("prompt", "", "System prompt for text")
	profileCmd.Flags().String("web-prompt", "", "System prompt for web pages")
	profileCmd.Flags().String("web-mode", "", "Web page extraction: text or markdown")
	profileCmd.Flags().String("web-selector", "", "CSS selector of the page part to translate")
	profileCmd.Flags().Bool("on", false, "Enable or disable the profile")

	appCmd := &cobra.Command{
		Use:   "app",
		Short: "Change app settings",
		Args:  cobra.NoArgs,
		RunE:  h.ConfigApp,
	}
	appCmd.Flags().String("locale", "", "Interface locale")
	appCmd.Flags().Bool("show-tray", true, "Show the tray icon")

	hotkeyCmd := &cobra.Command{
		Use:   "hotkey [accelerator]",
		Short: "Set the clipboard hotkey and target locale (empty accelerator clears it)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  h.ConfigHotkey,
	}
	hotkeyCmd.Flags().String("locale", "", "Target language for clipboard translations")

	configCmd.AddCommand(showCmd, providerCmd, translationCmd, profileCmd, appCmd, hotkeyCmd)
	return configCmd
}

func createUsageCommand(h Handlers) *cobra.Command {
	usageCmd := &cobra.Command{
		Use:   "usage",
		Short: "Manage translation usage counters",
	}
	resetCmd := &cobra.Command{
		Use:   "reset [account]",
		Short: "Reset usage counters (all accounts when none is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  h.UsageReset,
	}
	usageCmd.AddCommand(resetCmd)
	return usageCmd
}

func createVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dowel %s\n", internal.Version)
		},
	}
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("store.backend", cmd.PersistentFlags().Lookup("store"))
	viper.BindPFlag("store.dir", cmd.PersistentFlags().Lookup("store-dir"))
	viper.BindPFlag("http.timeout", cmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("http.breaker_failures", cmd.PersistentFlags().Lookup("breaker-failures"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".dowel" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".dowel")
	}

	// Environment variables
	viper.SetEnvPrefix("DOWEL")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// ApplyConfig copies viper settings into flags that were not given on the
// command line.
func ApplyConfig(flags *Flags) {
	if s := viper.GetString("store.backend"); s != "" {
		flags.StoreBackend = s
	}
	if s := viper.GetString("store.dir"); s != "" {
		flags.StoreDir = s
	}
	if d := viper.GetDuration("http.timeout"); d > 0 {
		flags.Timeout = d
	}
	if n := viper.GetInt("http.breaker_failures"); n > 0 {
		flags.BreakerFailures = n
	}
}
