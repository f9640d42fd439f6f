package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/seabeam/echofetch/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := buildApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.close()

		srv := &server.Server{
			Resolver:     a.resolver,
			Orchestrator: a.orch,
			Explorer:     a.explorer,
			Log:          log,
			Addr:         cfg.Server.Addr,
		}
		log.Infof("listening on %s", cfg.Server.Addr)
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
