package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/viant/sourcepick/bridge"
	"github.com/viant/sourcepick/runtime"
)

var serveAddrFlag string

var serveCmd = newServeCmd()

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the websocket bridge relaying picker messages between pages and hosts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if serveAddrFlag != "" {
				cfg.Bridge.Addr = serveAddrFlag
			}
			logger := newLogger(cmd)
			script, err := runtime.Build(cmd.Context(), runtime.Options{
				RasterizerURL: cfg.Runtime.RasterizerURL,
				PixelRatio:    cfg.Runtime.PixelRatio,
			})
			if err != nil {
				return err
			}
			server := bridge.NewServer(cfg.Bridge.Addr, bridge.NewHub(logger), script)
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = server.Shutdown(shutdown)
			}()
			logger.Info("bridge listening", "addr", cfg.Bridge.Addr)
			if err = server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&serveAddrFlag, "addr", "a", "", "listen address, overrides configuration")
	return cmd
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
