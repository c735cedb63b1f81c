package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/mlmd-go/internal/config"
	"github.com/mesh-intelligence/mlmd-go/internal/paths"
	"github.com/mesh-intelligence/mlmd-go/internal/telemetry"
	"github.com/mesh-intelligence/mlmd-go/pkg/mlmd"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

var (
	flagConfigDir string
	flagDialect   string
	flagDSN       string
	flagJSON      bool

	cfg   *viper.Viper
	store *mlmd.Store

	shutdownTelemetry telemetry.Shutdown
)

var rootCmd = &cobra.Command{
	Use:          "mlmdctl",
	Short:        "mlmdctl inspects and seeds an ML metadata store",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		configDir, err := paths.ResolveConfigDir(flagConfigDir)
		if err != nil {
			return err
		}
		cfg, err = config.Load(configDir)
		if err != nil {
			return err
		}

		shutdownTelemetry, err = telemetry.Init(cmd.Context(), cfg.GetString(config.KeyOTLPEndpoint), "mlmdctl", "", true)
		if err != nil {
			return err
		}

		dialect := flagDialect
		if dialect == "" {
			dialect = cfg.GetString(config.KeyDialect)
		}
		dsn := flagDSN
		if dsn == "" {
			dsn = cfg.GetString(config.KeyDSN)
		}

		// mlmd.Connect takes a single scheme-prefixed URI (spec §6.1); the
		// --dialect/--dsn flags and config.yaml keys stay split for
		// operator ergonomics and are composed into that URI here.
		s, err := mlmd.Connect(cmd.Context(), dialect+"://"+dsn,
			mlmd.WithMaxRetries(cfg.GetInt(config.KeyMaxRetries)))
		if err != nil {
			return err
		}
		store = s
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store != nil {
			if err := store.Close(); err != nil {
				return err
			}
		}
		if shutdownTelemetry != nil {
			return shutdownTelemetry(context.Background())
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform-specific)")
	rootCmd.PersistentFlags().StringVar(&flagDialect, "dialect", "", "sql dialect: sqlite or mysql (default: from config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagDSN, "dsn", "", "data source name (default: from config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "accepted but has no effect: get commands always print JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(putTypeCmd)
	rootCmd.AddCommand(getTypesCmd)
	rootCmd.AddCommand(postArtifactCmd)
	rootCmd.AddCommand(getArtifactsCmd)
	rootCmd.AddCommand(putEventCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("mlmdctl v0.1.0")
	},
}
