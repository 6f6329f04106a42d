// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/gnuflag"

	"github.com/juju/boaclient/api"
	"github.com/juju/boaclient/cmd"
)

// JobInfo is how a job is shown by the job commands.
type JobInfo struct {
	ID        int64      `yaml:"id" json:"id"`
	Input     string     `yaml:"input" json:"input"`
	Submitted string     `yaml:"submitted" json:"submitted"`
	Compiler  api.Status `yaml:"compiler-status" json:"compiler-status"`
	Execution api.Status `yaml:"execution-status" json:"execution-status"`
	Running   bool       `yaml:"running" json:"running"`
	URL       string     `yaml:"url,omitempty" json:"url,omitempty"`
	Source    string     `yaml:"source,omitempty" json:"source,omitempty"`
}

func jobInfo(job *api.Job) JobInfo {
	status := job.Status()
	return JobInfo{
		ID:        job.ID(),
		Input:     job.Input().Name,
		Submitted: status.Submitted,
		Compiler:  status.Compiler,
		Execution: status.Execution,
		Running:   status.Running(),
	}
}

func formatJobsTabular(writer io.Writer, value any) error {
	var jobs []JobInfo
	switch v := value.(type) {
	case JobInfo:
		jobs = []JobInfo{v}
	case []JobInfo:
		jobs = v
	default:
		return errors.Errorf("expected value of type %T, got %T", jobs, value)
	}
	tw := cmd.TabWriter(writer)
	fmt.Fprintln(tw, "Job\tInput\tSubmitted\tCompiler\tExecution")
	for _, job := range jobs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", job.ID, job.Input, job.Submitted, job.Compiler, job.Execution)
	}
	return tw.Flush()
}

func jobFormatters() map[string]cmd.Formatter {
	return map[string]cmd.Formatter{
		"yaml":    cmd.FormatYaml,
		"json":    cmd.FormatJson,
		"tabular": formatJobsTabular,
	}
}

const submitDoc = `
Submit a Boa query. The query is read from --file, or taken from the
argument. It runs against the named dataset, or against the first one
listed by the service when --dataset is not given.

With --wait the command returns once the job stops running, and fails
if the job failed.

Examples:

    boa submit --dataset "2019 October/GitHub" --file counts.boa
    boa submit --wait 'o: output sum of int; o << 1;'
`

type submitCommand struct {
	boaCommandBase
	out     cmd.Output
	dataset string
	file    cmd.FileVar
	query   string
	wait    bool
}

func (c *submitCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "submit",
		Args:    "[<query>]",
		Purpose: "Submit a query.",
		Doc:     submitDoc,
	}
}

func (c *submitCommand) SetFlags(f *gnuflag.FlagSet) {
	c.boaCommandBase.SetFlags(f)
	f.StringVar(&c.dataset, "dataset", "", "Name of the dataset to query")
	f.StringVar(&c.dataset, "d", "", "")
	f.Var(&c.file, "file", "Read the query from this file (\"-\" for stdin)")
	f.BoolVar(&c.wait, "wait", false, "Wait for the job to stop running")
	c.out.AddFlags(f, "tabular", jobFormatters())
}

func (c *submitCommand) Init(args []string) error {
	query, err := cmd.ZeroOrOneArgs(args)
	if err != nil {
		return errors.Trace(err)
	}
	switch {
	case query != "" && c.file.Path != "":
		return errors.New("cannot specify both a query and --file")
	case query == "" && c.file.Path == "":
		return errors.New("no query specified")
	}
	c.query = query
	return nil
}

func (c *submitCommand) Run(ctx *cmd.Context) error {
	if c.file.Path != "" {
		data, err := c.file.Read(ctx)
		if err != nil {
			return errors.Annotate(err, "reading query")
		}
		c.query = string(data)
	}
	if strings.TrimSpace(c.query) == "" {
		return errors.New("query is empty")
	}

	var info JobInfo
	succeeded := true
	err := c.withClient(ctx, func(client *api.Client) error {
		var input *api.Dataset
		if c.dataset != "" {
			d, err := client.Dataset(ctx, c.dataset)
			if err != nil {
				return errors.Trace(err)
			}
			input = &d
		}
		job, err := client.Submit(ctx, c.query, input)
		if err != nil {
			return errors.Trace(err)
		}
		ctx.Infof("Submitted job %d against %q", job.ID(), job.Input().Name)
		if c.wait {
			if succeeded, err = job.Wait(ctx); err != nil {
				return errors.Trace(err)
			}
		}
		info = jobInfo(job)
		return nil
	})
	if err != nil {
		return errors.Trace(err)
	}
	if err := c.out.Write(ctx, info); err != nil {
		return errors.Trace(err)
	}
	if !succeeded {
		return errors.Errorf("job %d failed", info.ID)
	}
	return nil
}

type showJobCommand struct {
	boaCommandBase
	out    cmd.Output
	id     int64
	source bool
}

func (c *showJobCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "show-job",
		Args:    "<id>",
		Purpose: "Show the status of a job.",
	}
}

func (c *showJobCommand) SetFlags(f *gnuflag.FlagSet) {
	c.boaCommandBase.SetFlags(f)
	f.BoolVar(&c.source, "source", false, "Include the query source")
	c.out.AddFlags(f, "yaml", jobFormatters())
}

func (c *showJobCommand) Init(args []string) (err error) {
	c.id, err = jobIDArg(args)
	return err
}

func (c *showJobCommand) Run(ctx *cmd.Context) error {
	var info JobInfo
	err := c.withClient(ctx, func(client *api.Client) error {
		job, err := client.Job(ctx, c.id)
		if err != nil {
			return errors.Trace(err)
		}
		info = jobInfo(job)
		if info.URL, err = job.URL(ctx); err != nil {
			return errors.Trace(err)
		}
		if c.source {
			if info.Source, err = job.Source(ctx); err != nil {
				return errors.Trace(err)
			}
		}
		return nil
	})
	if err != nil {
		return errors.Trace(err)
	}
	return c.out.Write(ctx, info)
}

const jobsDoc = `
List jobs submitted by the logged in user, most recent first.
`

type jobsCommand struct {
	boaCommandBase
	out        cmd.Output
	publicOnly bool
	offset     int
	limit      int
}

func (c *jobsCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "jobs",
		Purpose: "List jobs.",
		Doc:     jobsDoc,
	}
}

func (c *jobsCommand) SetFlags(f *gnuflag.FlagSet) {
	c.boaCommandBase.SetFlags(f)
	f.BoolVar(&c.publicOnly, "public", false, "Only list public jobs")
	f.IntVar(&c.offset, "offset", 0, "Skip this many jobs")
	f.IntVar(&c.limit, "limit", 10, "List at most this many jobs")
	c.out.AddFlags(f, "tabular", jobFormatters())
}

func (c *jobsCommand) Init(args []string) error {
	if c.offset < 0 {
		return errors.NotValidf("negative offset %d", c.offset)
	}
	if c.limit < 0 {
		return errors.NotValidf("negative limit %d", c.limit)
	}
	return cmd.CheckEmpty(args)
}

func (c *jobsCommand) Run(ctx *cmd.Context) error {
	var infos []JobInfo
	err := c.withClient(ctx, func(client *api.Client) error {
		jobs, err := client.Jobs(ctx, c.publicOnly, int64(c.offset), int64(c.limit))
		if err != nil {
			return errors.Trace(err)
		}
		total, err := client.JobCount(ctx, c.publicOnly)
		if err != nil {
			return errors.Trace(err)
		}
		infos = make([]JobInfo, len(jobs))
		for i, job := range jobs {
			infos[i] = jobInfo(job)
		}
		ctx.Infof("Showing %d of %d jobs", len(infos), total)
		return nil
	})
	if err != nil {
		return errors.Trace(err)
	}
	return c.out.Write(ctx, infos)
}

const waitDoc = `
Wait for a job to stop running, printing each change of its status.
The command fails if the job failed, after printing the compiler
errors if compilation failed.
`

type waitCommand struct {
	boaCommandBase
	id int64
}

func (c *waitCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "wait",
		Args:    "<id>",
		Purpose: "Wait for a job to finish.",
		Doc:     waitDoc,
	}
}

func (c *waitCommand) Init(args []string) (err error) {
	c.id, err = jobIDArg(args)
	return err
}

func (c *waitCommand) Run(ctx *cmd.Context) error {
	return c.withClient(ctx, func(client *api.Client) error {
		job, err := client.Job(ctx, c.id)
		if err != nil {
			return errors.Trace(err)
		}
		w := api.NewStatusWatcher(job, c.clock, api.PollInterval)
		defer w.Kill()

		var last api.JobStatus
		for status := range w.Changes() {
			fmt.Fprintf(ctx.Stdout, "compiler: %s, execution: %s\n", status.Compiler, status.Execution)
			last = status
		}
		if err := w.Wait(); err != nil {
			return errors.Annotatef(err, "waiting for job %d", c.id)
		}
		if last.Succeeded() {
			return nil
		}
		if last.Compiler == api.StatusError {
			compilerErrors, err := job.CompilerErrors(ctx)
			if err != nil {
				return errors.Trace(err)
			}
			fmt.Fprintln(ctx.Stderr, compilerErrors)
		}
		return errors.Errorf("job %d failed", c.id)
	})
}

type deleteJobCommand struct {
	boaCommandBase
	id int64
}

func (c *deleteJobCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "delete-job",
		Args:    "<id>",
		Purpose: "Delete a job.",
	}
}

func (c *deleteJobCommand) Init(args []string) (err error) {
	c.id, err = jobIDArg(args)
	return err
}

func (c *deleteJobCommand) Run(ctx *cmd.Context) error {
	return c.withClient(ctx, func(client *api.Client) error {
		job, err := client.Job(ctx, c.id)
		if err != nil {
			return errors.Trace(err)
		}
		if err := job.Delete(ctx); err != nil {
			return errors.Trace(err)
		}
		ctx.Infof("Deleted job %d", c.id)
		return nil
	})
}
