package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/zwischenruf/internal/logging"
	"github.com/ppiankov/zwischenruf/internal/model"
)

// envPrefix maps nested keys like cache.dir to ZWISCHENRUF_CACHE_DIR
const envPrefix = "ZWISCHENRUF"

// Version is the release version, set at build time
var Version = "v0.1.0"

var (
	cfgFile  string
	verbose  bool
	logLevel string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "zwischenruf",
	Short: "Zwischenruf - extract and attribute interjections in Bundestag speeches",
	Long: `Zwischenruf reads the bracketed asides of German parliamentary speech
transcripts (applause, shouts, laughter, interruptions) into contribution
records, and attributes the named speakers to politicians of a roster.

Asides are replaced by ({N}) placeholders so the cleaned speech and the
contribution tables can be joined again.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "zwischenruf %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.zwischenruf/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	configureViper(viper.GetViper(), cfgFile)

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// configureViper sets config file lookup, environment binding and defaults
func configureViper(v *viper.Viper, file string) {
	if file != "" {
		v.SetConfigFile(file)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".zwischenruf"))
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, model.DefaultConfig())
}

// setDefaults registers every key so environment variables reach Unmarshal
func setDefaults(v *viper.Viper, cfg *model.Config) {
	v.SetDefault("extraction.reversed_positions", cfg.Extraction.ReversedPositions)
	v.SetDefault("extraction.header_titles", cfg.Extraction.HeaderTitles)
	v.SetDefault("extraction.strip_name_brackets", cfg.Extraction.StripNameBrackets)
	v.SetDefault("extraction.flat_era_before", cfg.Extraction.FlatEraBefore)

	v.SetDefault("resolution.last_name_threshold", cfg.Resolution.LastNameThreshold)
	v.SetDefault("resolution.constituency_threshold", cfg.Resolution.ConstituencyThreshold)
	v.SetDefault("resolution.government_threshold", cfg.Resolution.GovernmentThreshold)
	v.SetDefault("resolution.profession_threshold", cfg.Resolution.ProfessionThreshold)

	v.SetDefault("concurrency.workers", cfg.Concurrency.Workers)

	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("cache.memory_ttl", cfg.Cache.MemoryTTL)
	v.SetDefault("cache.disk_ttl", cfg.Cache.DiskTTL)

	v.SetDefault("output.dir", cfg.Output.Dir)
	v.SetDefault("output.sqlite_path", cfg.Output.SQLitePath)
	v.SetDefault("output.metrics_file", cfg.Output.MetricsFile)
	v.SetDefault("output.summary", cfg.Output.Summary)
	v.SetDefault("output.verbose", cfg.Output.Verbose)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
}

// loadConfig merges defaults, config file and environment into a Config
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = model.DefaultConfig().Log.Level
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the process logger; --verbose raises the level to debug
func newLogger(cfg *model.Config) (logging.Logger, error) {
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}

	logger, err := logging.NewLogger(logging.Config{Level: level, Format: cfg.Log.Format})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	logging.SetDefault(logger)
	return logger, nil
}
