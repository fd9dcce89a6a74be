package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kmowens/promptdeck/internal/server"
)

var (
	serveAddress string
	servePort    int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serve the element library, composer and history over HTTP for
scripting and editor integrations. All requests operate on the same
library directory the TUI uses.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}

		srvCfg := cfg.Server
		if cmd.Flags().Changed("address") {
			srvCfg.Address = serveAddress
		}
		if cmd.Flags().Changed("port") {
			srvCfg.Port = servePort
		}

		srv := server.NewServer(svc, srvCfg)

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case <-sigCh:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				return err
			}
			return <-errCh
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddress, "address", "",
		"Bind address (default: all interfaces)")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Listen port")
}
