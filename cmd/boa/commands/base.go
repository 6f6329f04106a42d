// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands

import (
	"strconv"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/loggo"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/juju/boaclient/api"
	"github.com/juju/boaclient/clientconfig"
	"github.com/juju/boaclient/cmd"
	"github.com/juju/boaclient/osenv"
	"github.com/juju/boaclient/rpc"
)

var logger = loggo.GetLogger("boa.cmd.boa")

// boaCommandBase is embedded by the commands that talk to a Boa
// service. Each such command logs in, does its work and logs out.
type boaCommandBase struct {
	cmd.CommandBase

	store   clientconfig.EndpointStore
	openAPI func(rpc.Config) (*api.Client, error)
	clock   clock.Clock

	endpoint    string
	metricsFile string
}

// SetFlags implements cmd.Command.
func (c *boaCommandBase) SetFlags(f *gnuflag.FlagSet) {
	f.StringVar(&c.endpoint, "e", "", "Endpoint name or URL to use")
	f.StringVar(&c.endpoint, "endpoint", "", "")
	f.StringVar(&c.metricsFile, "metrics-textfile", "", "Write call metrics to this file in the Prometheus text format")
}

// resolveEndpoint returns the URL of the endpoint to use: the one given
// with --endpoint, else the one named by the environment, else the
// current one.
func (c *boaCommandBase) resolveEndpoint(ctx *cmd.Context) (string, error) {
	name := c.endpoint
	if name == "" {
		name = ctx.Getenv(osenv.EndpointEnvKey)
	}
	url, err := clientconfig.ResolveEndpoint(c.store, name)
	return url, errors.Annotate(err, "resolving endpoint")
}

// withClient logs in to the endpoint, calls f with the client and logs
// out again.
func (c *boaCommandBase) withClient(ctx *cmd.Context, f func(*api.Client) error) error {
	user, password := ctx.Getenv(osenv.UserEnvKey), ctx.Getenv(osenv.PasswordEnvKey)
	if user == "" || password == "" {
		return errors.Errorf("%s and %s must be set", osenv.UserEnvKey, osenv.PasswordEnvKey)
	}
	endpoint, err := c.resolveEndpoint(ctx)
	if err != nil {
		return errors.Trace(err)
	}

	metrics := rpc.NewMetricsCollector()
	if c.metricsFile != "" {
		defer func() {
			if merr := writeMetrics(ctx.AbsPath(c.metricsFile), metrics); merr != nil {
				logger.Warningf("%v", merr)
			}
		}()
	}
	client, err := c.openAPI(rpc.Config{
		Endpoint: endpoint,
		Clock:    c.clock,
		Metrics:  metrics,
	})
	if err != nil {
		return errors.Annotatef(err, "opening %s", endpoint)
	}
	logger.Debugf("logging in to %s as %q", endpoint, user)
	if err := client.Login(ctx, user, password); err != nil {
		return errors.Trace(err)
	}
	defer client.Close(ctx)
	return f(client)
}

func writeMetrics(path string, metrics *rpc.Collector) error {
	registry := prometheus.NewRegistry()
	if err := registry.Register(metrics); err != nil {
		return errors.Trace(err)
	}
	return errors.Annotate(prometheus.WriteToTextfile(path, registry), "writing metrics")
}

// jobIDArg parses the single job id argument of a command.
func jobIDArg(args []string) (int64, error) {
	switch len(args) {
	case 0:
		return 0, errors.New("no job id specified")
	case 1:
	default:
		return 0, cmd.CheckEmpty(args[1:])
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NotValidf("job id %q", args[0])
	}
	return id, nil
}
