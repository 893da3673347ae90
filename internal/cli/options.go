package cli

import "github.com/integrii/flaggy"

type GlobalOptions struct {
	DevelopmentMode bool
	Endpoint        string
	Token           string
}

func NewGlobalOptions() *GlobalOptions {
	opts := GlobalOptions{
		DevelopmentMode: false,
	}
	flaggy.Bool(&opts.DevelopmentMode, "d", "development", "Enable development mode for logging.")
	flaggy.String(&opts.Endpoint, "e", "endpoint", "Base URL of the service's operations API, including the API version.")
	flaggy.String(&opts.Token, "", "token", "Bearer token sent with every request.")
	return &opts
}
