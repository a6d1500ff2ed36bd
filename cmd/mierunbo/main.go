package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dafibh/mierunbo/mierunbo-backend/internal/app"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/config"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/domain"
)

// env is what every command needs to reach the data
type env struct {
	open  func(ctx context.Context) (*app.Ledgers, error)
	clock domain.Clock
}

// defaultEnv opens the ledgers from the same environment the API server reads
func defaultEnv() *env {
	return &env{
		open: func(ctx context.Context) (*app.Ledgers, error) {
			cfg, err := config.Load()
			if err != nil {
				return nil, fmt.Errorf("failed to load configuration: %w", err)
			}
			return app.Open(ctx, cfg.Storage, log.Logger)
		},
		clock: domain.SystemClock,
	}
}

func newRootCmd(e *env) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "mierunbo",
		Short: "💴 Household spending at a glance",
		Long: `mierunbo reports on the expenses, subscriptions and monthly budgets
stored by the mierunbo API, using the same STORAGE_BACKEND configuration.`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			level := zerolog.WarnLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log storage activity to stderr")

	root.AddCommand(summaryCmd(e))
	root.AddCommand(subscriptionsCmd(e))
	root.AddCommand(renewalsCmd(e))
	root.AddCommand(advanceCmd(e))
	root.AddCommand(categoriesCmd())

	return root
}

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	err := newRootCmd(defaultEnv()).ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render(err.Error()))
		os.Exit(1)
	}
}

// withLedgers opens the ledgers for the duration of run
func (e *env) withLedgers(cmd *cobra.Command, run func(l *app.Ledgers) error) error {
	l, err := e.open(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := l.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("Failed to close storage")
		}
	}()
	return run(l)
}
