package cli

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/obeidat/hrdesk/internal/config"
	"github.com/obeidat/hrdesk/internal/domain"
)

func newMessageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "message",
		Short: "Send messages from the terminal",
	}

	cmd.AddCommand(newMessageSendCmd())
	cmd.AddCommand(newMessageDecideCmd())
	return cmd
}

func newMessageSendCmd() *cobra.Command {
	var externalID string

	cmd := &cobra.Command{
		Use:   "send [message]",
		Short: "Run one dispatch cycle and print the resulting action",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := strings.Join(args, " ")

			cfg, err := config.Load(paths.Config)
			if err != nil {
				cfg = config.Defaults()
			}

			st, err := buildStack(cfg, paths, log)
			if err != nil {
				return err
			}
			defer st.close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			act := st.dispatcher.Dispatch(ctx, domain.InboundMessage{
				ID:          "cli-msg",
				TransportID: "cli",
				ExternalID:  externalID,
				Body:        body,
				Timestamp:   time.Now().UTC(),
			})
			printAction(act)
			return nil
		},
	}

	cmd.Flags().StringVar(&externalID, "as", "", "external account id to send as")
	cmd.MarkFlagRequired("as")

	return cmd
}

func newMessageDecideCmd() *cobra.Command {
	var (
		externalID string
		approve    bool
	)

	cmd := &cobra.Command{
		Use:   "decide <token>",
		Short: "Confirm or cancel a pending operation",
		Long: `Confirm or cancel a pending operation by its token.

Pending proposals live only in the memory of the process that staged
them, so this command can resolve a token only against a live gateway
session. Run from a fresh process it always reports the token as
expired or already handled.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				cfg = config.Defaults()
			}

			st, err := buildStack(cfg, paths, log)
			if err != nil {
				return err
			}
			defer st.close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			act := st.dispatcher.Dispatch(ctx, domain.InboundMessage{
				ID:          "cli-decision",
				TransportID: "cli",
				ExternalID:  externalID,
				Timestamp:   time.Now().UTC(),
				Decision:    &domain.Decision{Token: args[0], Approved: approve},
			})
			printAction(act)
			return nil
		},
	}

	cmd.Flags().StringVar(&externalID, "as", "", "external account id to decide as")
	cmd.Flags().BoolVar(&approve, "approve", false, "approve the pending operation (default is cancel)")
	cmd.MarkFlagRequired("as")

	return cmd
}

// printAction renders a dispatch outcome for the terminal.
func printAction(act domain.Action) {
	switch act.Kind {
	case domain.ActionDocument:
		fmt.Printf("[document] %s\n", act.Path)
	case domain.ActionConfirmation:
		fmt.Printf("[confirm?] %s\n", act.Summary)
		fmt.Printf("token: %s\n", act.Token)
	case domain.ActionDenied:
		fmt.Println(act.Reason)
	default:
		fmt.Println(act.Text)
	}
}
