package cli

import (
	"github.com/integrii/flaggy"
	"go.uber.org/zap"
)

// Command is a subcommand of the opwait CLI.
type Command interface {
	// Flaggy returns the flaggy subcommand used to parse the command's
	// flags and positionals.
	Flaggy() *flaggy.Subcommand
	// Run executes the command once flags have been parsed.
	Run(log *zap.Logger, opts *GlobalOptions) error
}
