// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"

	"github.com/juju/boaclient/api"
	"github.com/juju/boaclient/cmd"
)

const outputDoc = `
Print the output of a finished job. Unless --full is given, at most
--cap bytes are printed, followed by a notice when the output was cut.

Examples:

    boa output 42
    boa output 42 --offset 1000 --cap 500
    boa output 42 --full -o counts.txt
`

type outputCommand struct {
	boaCommandBase
	id      int64
	full    bool
	cap     int
	offset  int
	outPath string
}

func (c *outputCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "output",
		Args:    "<id>",
		Purpose: "Print the output of a job.",
		Doc:     outputDoc,
	}
}

func (c *outputCommand) SetFlags(f *gnuflag.FlagSet) {
	c.boaCommandBase.SetFlags(f)
	f.BoolVar(&c.full, "full", false, "Print all of the output")
	f.IntVar(&c.cap, "cap", api.DefaultOutputCap, "Print at most this many bytes")
	f.IntVar(&c.offset, "offset", 0, "Skip this many bytes of output")
	f.StringVar(&c.outPath, "o", "", "Write the output to this file")
	f.StringVar(&c.outPath, "output", "", "")
}

func (c *outputCommand) Init(args []string) (err error) {
	if c.cap < 0 {
		return errors.NotValidf("negative cap %d", c.cap)
	}
	if c.offset < 0 {
		return errors.NotValidf("negative offset %d", c.offset)
	}
	if c.full && c.offset != 0 {
		return errors.New("cannot specify both --full and --offset")
	}
	c.id, err = jobIDArg(args)
	return err
}

func (c *outputCommand) Run(ctx *cmd.Context) (err error) {
	var target io.Writer = ctx.Stdout
	if c.outPath != "" {
		f, ferr := os.Create(ctx.AbsPath(c.outPath))
		if ferr != nil {
			return errors.Trace(ferr)
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		target = f
	}
	return c.withClient(ctx, func(client *api.Client) error {
		job, err := client.Job(ctx, c.id)
		if err != nil {
			return errors.Trace(err)
		}
		if c.full {
			n, err := job.WriteOutput(ctx, target)
			if err != nil {
				return errors.Trace(err)
			}
			ctx.Infof("Wrote %s of output", humanize.Bytes(uint64(n)))
			return nil
		}
		var output string
		if c.offset == 0 {
			job.SetOutputCap(int64(c.cap))
			output, err = job.Output(ctx)
		} else {
			output, err = job.OutputRange(ctx, int64(c.offset), int64(c.cap))
		}
		if errors.Is(err, api.ErrRangeNotSatisfiable) {
			return errors.Errorf("job %d has no output beyond byte %d", c.id, c.offset)
		}
		if err != nil {
			return errors.Trace(err)
		}
		_, err = fmt.Fprint(target, output)
		return errors.Trace(err)
	})
}
