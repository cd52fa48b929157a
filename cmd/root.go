package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nmarceau/facegate/internal/camera"
	"github.com/nmarceau/facegate/internal/config"
	"github.com/nmarceau/facegate/internal/encoder"
	"github.com/nmarceau/facegate/internal/engine"
	"github.com/nmarceau/facegate/internal/gallery"
	"github.com/nmarceau/facegate/internal/recorder"
	"github.com/nmarceau/facegate/internal/store"
)

var (
	// Cfg is the resolved configuration shared by subcommands.
	Cfg *config.Config
	// DB is the optional access-event log. Nil when no database is configured.
	DB *store.Store
	// dbURL overrides the configured connection string
	dbURL string
)

// Version is the application version.
const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "facegate",
	Short:         "Secret-gated face verification with silent intruder capture",
	Version:       Version, // This enables the --version flag
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		Cfg = config.Load()
		if dbURL != "" {
			Cfg.Database.URL = dbURL
		}

		// The event log is optional: without a database the pipeline still
		// runs, outcomes just aren't persisted.
		if Cfg.Database.URL != "" {
			var err error
			DB, err = store.New(cmd.Context(), Cfg.Database.URL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if DB != nil {
			// Use Background here because the main context might be cancelled
			// already (due to Ctrl+C) and we still need to close the connection.
			DB.Close(context.Background())
		}
	},
}

func Execute() {
	// Create a context that listens for Ctrl+C (SIGINT) or Kill (SIGTERM)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// This tells Cobra not to print the version in the help text, which is cleaner.
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if err != errSecretMismatch {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// newEngine assembles the verification pipeline from the resolved
// configuration. The returned cleanup stops the encoder worker if one
// was started.
func newEngine() (*engine.Engine, func()) {
	enc := encoder.Detect(Cfg.Encoder.Python, Cfg.Encoder.Script, Cfg.Encoder.Tolerance)
	cam := camera.NewDevice(Cfg.Camera.Device, time.Duration(Cfg.Camera.Timeout)*time.Second)
	src := gallery.NewLoader(Cfg.GalleryDir, enc)
	rec := recorder.New(Cfg.PhotoDir)

	eng := engine.New(Cfg.Secret, cam, enc, src, rec, Cfg.Encoder.MaxWidth)
	if DB != nil {
		eng = eng.WithEvents(DB)
	}

	cleanup := func() {
		if pe, ok := enc.(*encoder.PythonEncoder); ok {
			pe.Close()
		}
	}
	return eng, cleanup
}

func initEnv() {
	// A missing .env file is fine, the environment still applies.
	_ = godotenv.Load()
}

func init() {
	cobra.OnInitialize(initEnv)
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "PostgreSQL connection string for the access-event log")
}
