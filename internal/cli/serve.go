package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/obeidat/hrdesk/internal/config"
	"github.com/obeidat/hrdesk/internal/domain"
	"github.com/obeidat/hrdesk/internal/hooks"
	"github.com/obeidat/hrdesk/internal/transport"
	"github.com/obeidat/hrdesk/internal/transport/ws"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		bind string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the hrdesk service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			if port != 0 {
				cfg.Gateway.Port = port
			}
			if bind != "" {
				cfg.Gateway.Bind = bind
			}

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			st, err := buildStack(cfg, paths, log)
			if err != nil {
				return err
			}
			defer st.close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			transports := transport.NewRegistry(log)
			gw := ws.New(cfg.Gateway, log)
			transports.Register(gw)

			wire(ctx, gw, st)

			log.Info().
				Str("engine", st.engineName).
				Int("transports", transports.Count()).
				Msg("hrdesk starting")

			if err := transports.StartAll(ctx); err != nil {
				return err
			}
			st.hooks.Emit(ctx, hooks.EventGatewayStart, map[string]any{
				"bind": cfg.Gateway.Bind,
				"port": cfg.Gateway.Port,
			})
			defer func() {
				transports.StopAll(context.Background())
				st.hooks.Emit(context.Background(), hooks.EventGatewayStop, nil)
			}()

			<-ctx.Done()
			log.Info().Msg("shutting down")
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override gateway port")
	cmd.Flags().StringVar(&bind, "bind", "", "override bind mode (loopback, lan)")

	return cmd
}

// wire connects a transport to the dispatcher: every inbound message
// runs one dispatch cycle and the outcome is delivered back to the
// sender's connection.
func wire(ctx context.Context, tr domain.Transport, st *stack) {
	tr.OnMessage(func(msg domain.InboundMessage) {
		if err := tr.Typing(ctx, msg.ExternalID); err != nil {
			log.Debug().Err(err).Msg("typing signal failed")
		}
		act := st.dispatcher.Dispatch(ctx, msg)
		if err := tr.Deliver(ctx, msg.ExternalID, act); err != nil {
			log.Error().Err(err).
				Str("external_id", msg.ExternalID).
				Str("kind", string(act.Kind)).
				Msg("delivery failed")
		}
	})
}
