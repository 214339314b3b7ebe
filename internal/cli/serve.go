package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/tenderlist/internal/admin"
	"github.com/mesh-intelligence/tenderlist/internal/metrics"
	"github.com/mesh-intelligence/tenderlist/internal/server"
	"github.com/mesh-intelligence/tenderlist/pkg/types"
)

func newServeCmd(rt *runtime) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the checklist and admin API over HTTP",
		Long: `Serve the JSON API under /api/v1 and prometheus metrics under /metrics.

Tables are cached until written (reload: on_write) unless config.yaml says
otherwise; edits made to the files by hand are picked up by a watcher. Edit
sessions left untouched for server.session_ttl (default 2h) are dropped.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = rt.v.GetString(cfgKeyServerAddr)
			}
			if os.Getenv(gin.EnvGinMode) == "" {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := rt.open(ctx, types.ReloadOnWrite)
			if err != nil {
				return err
			}
			w, err := a.Watch()
			if err != nil {
				return err
			}

			metrics.Init()
			srv := server.New(a, admin.WithSessionTTL(rt.v.GetDuration(cfgKeySessionTTL)))

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error { return w.Run(ctx) })
			g.Go(func() error { return srv.Run(ctx, addr) })

			err = g.Wait()
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			rt.log.Info("server stopped", zap.Int("open_sessions", srv.Sessions().Len()))
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from server.addr)")
	return cmd
}
