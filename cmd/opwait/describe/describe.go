package describe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/integrii/flaggy"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/opwait/opwait/internal/cli"
	"github.com/opwait/opwait/internal/client"
)

func NewCommand() cli.Command {
	cmd := command{}

	fc := flaggy.NewSubcommand("describe")
	fc.Description = "Fetch a long-running operation once and print it"
	fc.AddPositionalValue(&cmd.operationName, "OPERATION_NAME", 1, true, "Full resource name of the operation")

	cmd.flaggy = fc

	return &cmd
}

type command struct {
	flaggy        *flaggy.Subcommand
	operationName string
}

func (c *command) Flaggy() *flaggy.Subcommand {
	return c.flaggy
}

func (c *command) Run(log *zap.Logger, opts *cli.GlobalOptions) error {
	if opts.Endpoint == "" {
		return errors.New("an --endpoint is required")
	}

	api := client.New(client.Config{
		Endpoint: opts.Endpoint,
		Token:    opts.Token,
	}, log)

	op, err := api.GetOperation(context.Background(), c.operationName)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(op, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding operation")
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}
