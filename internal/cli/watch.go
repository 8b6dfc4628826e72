package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"notealog/pkg/events"
	pktNats "notealog/pkg/nats"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload notes whenever the server reports a change",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if sess.cfg.App.NatsURL == "" {
			return errors.New("NATS_URL is not set")
		}

		sub, err := pktNats.NewSubscriber(sess.cfg.App.NatsURL)
		if err != nil {
			return err
		}
		defer sub.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		w := cmd.OutOrStdout()
		handler := func(ctx context.Context, event events.Event) error {
			if err := sess.store.Refresh(ctx); err != nil {
				warnColor.Fprintf(w, "%s: refresh failed: %v\n", event.EventType(), err)
				return err
			}
			printOK(w, "%s %v: %d notes, %d folders",
				event.EventType(), event.Payload(), len(sess.store.Notes()), len(sess.store.Folders()))
			return nil
		}

		for _, eventType := range []string{events.CategorizationCompleted, events.FolderDeleted} {
			// No durable name: each watcher gets its own ephemeral consumer.
			if err := sub.Subscribe(ctx, eventType, "", handler); err != nil {
				return err
			}
		}

		dimColor.Fprintln(w, "watching for changes, Ctrl-C to stop")
		<-ctx.Done()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
