package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nmarceau/facegate/internal/web"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web front end for verification",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen address (default: FACEGATE_HOST)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default: FACEGATE_PORT)")
}

func runServe(cmd *cobra.Command) error {
	host := Cfg.Web.Host
	if serveHost != "" {
		host = serveHost
	}
	port := Cfg.Web.Port
	if servePort != 0 {
		port = servePort
	}

	eng, cleanup := newEngine()
	defer cleanup()

	srv := web.NewServer(eng, Cfg.PhotoDir, host, port)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("web server: %w", err)
		}
		return nil
	case <-cmd.Context().Done():
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
