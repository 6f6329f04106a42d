// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package commands implements the boa command line tool.
package commands

import (
	"fmt"
	"os"

	"github.com/juju/clock"

	"github.com/juju/boaclient/api"
	"github.com/juju/boaclient/clientconfig"
	"github.com/juju/boaclient/cmd"
	"github.com/juju/boaclient/osenv"
	"github.com/juju/boaclient/rpc"
	"github.com/juju/boaclient/version"
)

var boaDoc = `
boa submits queries to the Boa infrastructure for mining software
repositories, follows the jobs running them, and fetches their output.

Credentials are read from the ` + osenv.UserEnvKey + ` and ` + osenv.PasswordEnvKey + `
environment variables.
`

// Deps holds what the commands need from their environment.
type Deps struct {
	// Store holds the known endpoints.
	Store clientconfig.EndpointStore

	// OpenAPI opens a session with a Boa endpoint.
	OpenAPI func(rpc.Config) (*api.Client, error)

	// Clock paces the polling of jobs.
	Clock clock.Clock
}

// DefaultDeps returns the dependencies used outside of tests.
func DefaultDeps() Deps {
	return Deps{
		Store:   clientconfig.NewFileEndpointStore(),
		OpenAPI: api.Open,
		Clock:   clock.WallClock,
	}
}

// Main registers subcommands for the boa executable, and hands over
// control to the cmd package. It returns the exit code.
func Main(args []string) int {
	ctx, err := cmd.DefaultContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR %v\n", err)
		return 2
	}
	return cmd.Main(NewBoaCommand(DefaultDeps()), ctx, args[1:])
}

// NewBoaCommand returns the boa super command with every subcommand
// registered.
func NewBoaCommand(deps Deps) *cmd.SuperCommand {
	boa := cmd.NewSuperCommand(cmd.SuperCommandParams{
		Name:    "boa",
		Purpose: "Query the Boa infrastructure.",
		Doc:     boaDoc,
		Version: version.Current.String(),
		Log: &cmd.Log{
			DefaultConfig: os.Getenv(osenv.LoggingConfigEnvKey),
		},
	})
	base := boaCommandBase{
		store:   deps.Store,
		openAPI: deps.OpenAPI,
		clock:   deps.Clock,
	}
	boa.Register(&endpointsCommand{store: deps.Store})
	boa.Register(&addEndpointCommand{store: deps.Store})
	boa.Register(&switchEndpointCommand{store: deps.Store})
	boa.Register(&datasetsCommand{boaCommandBase: base})
	boa.Register(&submitCommand{boaCommandBase: base})
	boa.Register(&showJobCommand{boaCommandBase: base})
	boa.Register(&jobsCommand{boaCommandBase: base})
	boa.Register(&waitCommand{boaCommandBase: base})
	boa.Register(&outputCommand{boaCommandBase: base})
	boa.Register(&deleteJobCommand{boaCommandBase: base})
	return boa
}
