package main

import (
	"os"

	"github.com/integrii/flaggy"
	"go.uber.org/zap"

	"github.com/opwait/opwait/cmd/opwait/describe"
	"github.com/opwait/opwait/cmd/opwait/version"
	waitcmd "github.com/opwait/opwait/cmd/opwait/wait"
	"github.com/opwait/opwait/internal/cli"
	"github.com/opwait/opwait/internal/errors"
)

func main() {
	flaggy.SetName("opwait")
	flaggy.SetDescription("Wait for long-running cloud operations with staged progress")
	flaggy.SetVersion(version.GitVersion)
	flaggy.DefaultParser.ShowHelpOnUnexpected = true

	opts := cli.NewGlobalOptions()

	cmds := []cli.Command{
		waitcmd.NewCommand(),
		describe.NewCommand(),
	}

	for _, cmd := range cmds {
		flaggy.AttachSubcommand(cmd.Flaggy(), 1)
	}
	flaggy.Parse()

	log := cli.NewLogger(opts)

	for _, cmd := range cmds {
		if cmd.Flaggy().Used {
			err := cmd.Run(log, opts)
			if errors.IsSilent(err) {
				os.Exit(1)
			}
			if err != nil {
				log.Fatal("Command failed", zap.Error(err))
			}
			return
		}
	}
	flaggy.ShowHelpAndExit("No command specified")
}
