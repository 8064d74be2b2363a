package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/crewgen/internal/conversation"
	"github.com/mrz1836/crewgen/internal/voice"
)

// AddChatCommand adds the chat command to the root command.
func AddChatCommand(root *cobra.Command, flags *GlobalFlags) {
	root.AddCommand(newChatCmd(flags))
}

func newChatCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Describe your goals and get a team",
		Long: `Start a conversation in the terminal. Describe your business and what
you want to achieve; once enough is known a team is generated, shown and
saved to the configured store.

Type "exit" or "quit" to leave.

Examples:
  crewgen chat
  crewgen chat --store memory`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChat(cmd, flags, os.Stdin)
		},
	}
}

func runChat(cmd *cobra.Command, flags *GlobalFlags, in *os.File) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, flags)
	if err != nil {
		return err
	}

	st, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer a.closeStore(st)

	engine, err := a.newEngine(st)
	if err != nil {
		return err
	}

	session := conversation.NewManager(nil).Create()
	bridge := voice.NewBridge(engine, session,
		voice.NewConsoleSource(in),
		voice.NewConsoleSink(cmd.OutOrStdout(), a.catalog),
		a.logger,
	)

	return runBridge(ctx, bridge, in)
}

// runBridge runs bridge until it finishes or ctx is canceled. Closing in
// unblocks a pending line read on cancellation.
func runBridge(ctx context.Context, bridge *voice.Bridge, in *os.File) error {
	g, gctx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	g.Go(func() error {
		defer close(done)
		return bridge.Run(gctx)
	})
	g.Go(func() error {
		select {
		case <-done:
		case <-gctx.Done():
			_ = in.Close()
		}
		return nil
	})

	return g.Wait()
}
