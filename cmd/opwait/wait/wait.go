package wait

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/integrii/flaggy"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/opwait/opwait/internal/cli"
	"github.com/opwait/opwait/internal/client"
	ierrors "github.com/opwait/opwait/internal/errors"
	"github.com/opwait/opwait/internal/operation"
	"github.com/opwait/opwait/internal/poller"
	"github.com/opwait/opwait/internal/progress"
)

func NewCommand() cli.Command {
	cmd := command{
		description:  "Waiting for operation",
		timeout:      poller.DefaultMaxWait,
		pollInterval: poller.DefaultPollInterval,
	}

	fc := flaggy.NewSubcommand("wait")
	fc.Description = "Wait for a long-running operation to complete"
	fc.AddPositionalValue(&cmd.operationName, "OPERATION_NAME", 1, true, "Full resource name of the operation to wait for")
	fc.String(&cmd.description, "", "description", "Description shown while the operation runs")
	fc.Duration(&cmd.timeout, "t", "timeout", "Maximum time to wait per polling phase")
	fc.Duration(&cmd.pollInterval, "i", "poll-interval", "Delay between polls")
	fc.StringSlice(&cmd.extraStages, "s", "extra-stage", "Stage key to track in addition to the discovered ones (repeatable)")

	cmd.flaggy = fc

	return &cmd
}

type command struct {
	flaggy        *flaggy.Subcommand
	operationName string
	description   string
	timeout       time.Duration
	pollInterval  time.Duration
	extraStages   []string
}

func (c *command) Flaggy() *flaggy.Subcommand {
	return c.flaggy
}

func (c *command) Run(log *zap.Logger, opts *cli.GlobalOptions) error {
	if opts.Endpoint == "" {
		return errors.New("an --endpoint is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := client.New(client.Config{
		Endpoint: opts.Endpoint,
		Token:    opts.Token,
	}, log)

	var extra []progress.Stage
	for _, key := range c.extraStages {
		extra = append(extra, progress.NewStage(key))
	}

	waiter := poller.NewWaiter[*operation.Operation](api, log, os.Stderr, poller.Config{
		MaxWait:      c.timeout,
		PollInterval: c.pollInterval,
	})

	err := waiter.Wait(ctx, c.operationName, c.description, extra)

	var failed *operation.FailedError
	if stderrors.As(err, &failed) {
		fmt.Fprintln(os.Stderr, failed.Error())
		return ierrors.NewSilent(err)
	}
	var timedOut *operation.TimeoutError
	if stderrors.As(err, &timedOut) {
		fmt.Fprintf(os.Stderr, "Operation %s is taking too long\n", timedOut.OperationName)
		return ierrors.NewSilent(err)
	}
	return err
}
