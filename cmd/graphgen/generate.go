package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syssam/graphgen/compiler"
	"github.com/syssam/graphgen/compiler/gen"
	"github.com/syssam/graphgen/compiler/load"
	"github.com/syssam/graphgen/dialect/cypher"
	"github.com/syssam/graphgen/internal/config"
)

type generateFlags struct {
	profile       string
	all           bool
	uri           string
	database      string
	username      string
	password      string
	output        string
	name          string
	snapshot      string
	probe         string
	sampleLimit   int
	embedPassword bool
}

func (a *app) generateCommand() *cobra.Command {
	var f generateFlags
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a client module from the schema of a database",
		Example: `  graphgen generate --uri bolt://localhost:7687 --database movies --name movies
  graphgen generate --profile hr --output ./internal/hr
  graphgen generate --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			jobs, err := a.jobs(&f)
			if err != nil {
				return err
			}
			return a.run(cmd, jobs)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&f.profile, "profile", "p", "", "connection profile from the config file")
	flags.BoolVar(&f.all, "all", false, "generate every profile of the config file")
	flags.StringVar(&f.uri, "uri", "", "server URI (default bolt://localhost:7687)")
	flags.StringVar(&f.database, "database", "", "database name (default neo4j)")
	flags.StringVar(&f.username, "username", "", "user name (default neo4j)")
	flags.StringVar(&f.password, "password", "", "password (default $"+gen.PasswordEnv+")")
	flags.StringVarP(&f.output, "output", "o", "", "output directory")
	flags.StringVarP(&f.name, "name", "n", "", "module name (default "+compiler.DefaultModuleName+")")
	flags.StringVar(&f.snapshot, "snapshot", "", "write a schema snapshot: yaml or msgpack")
	flags.StringVar(&f.probe, "probe", "", "property type probe: apoc or cypher")
	flags.IntVar(&f.sampleLimit, "sample-limit", 0, "entities sampled per kind")
	flags.BoolVar(&f.embedPassword, "embed-password", false, "write the password into the module")
	cmd.MarkFlagsMutuallyExclusive("profile", "all")
	return cmd
}

// jobs returns the generations requested by f. Flags override the config
// file, which overrides the connection defaults.
func (a *app) jobs(f *generateFlags) ([]compiler.Job, error) {
	opts, err := a.options(f)
	if err != nil {
		return nil, err
	}
	output := a.cfg.Output
	if f.output != "" {
		output = f.output
	}
	if f.all {
		names := a.cfg.ProfileNames()
		if len(names) == 0 {
			return nil, fmt.Errorf("no profiles in config file %q", a.cfg.File)
		}
		jobs := make([]compiler.Job, 0, len(names))
		for _, name := range names {
			p := a.cfg.Profiles[name]
			p.Module = p.ModuleName(name)
			jobs = append(jobs, a.job(p, output, opts))
		}
		return jobs, nil
	}

	var p config.Profile
	if f.profile != "" {
		if p, err = a.cfg.Profile(f.profile); err != nil {
			return nil, err
		}
	}
	override(&p.URI, f.uri)
	override(&p.Database, f.database)
	override(&p.Username, f.username)
	override(&p.Password, f.password)
	override(&p.Module, f.name)
	return []compiler.Job{a.job(p, output, opts)}, nil
}

func override(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func (a *app) job(p config.Profile, output string, opts []compiler.Option) compiler.Job {
	conn := p.Conn()
	if conn.Password == "" {
		conn.Password = passwordFromEnv()
	}
	return compiler.Job{
		Conn:   conn,
		OutDir: output,
		Module: p.Module,
		Runner: a.runner,
		Opts:   opts,
	}
}

func (a *app) options(f *generateFlags) ([]compiler.Option, error) {
	var (
		genOpts  = []gen.Option{gen.WithEmbedPassword(f.embedPassword)}
		snapshot = a.cfg.Snapshot
		probe    = a.cfg.Probe
		limit    = a.cfg.SampleLimit
	)
	if f.snapshot != "" {
		snapshot = f.snapshot
	}
	if snapshot != "" {
		genOpts = append(genOpts, gen.WithFeatures(gen.FeatureSnapshot), gen.WithSnapshotFormat(snapshot))
	}
	if f.probe != "" {
		probe = f.probe
	}
	p, err := cypher.ParseProbe(probe)
	if err != nil {
		return nil, err
	}
	if f.sampleLimit > 0 {
		limit = f.sampleLimit
	}
	return []compiler.Option{
		compiler.WithLogger(a.log),
		compiler.WithGenOptions(genOpts...),
		compiler.WithLoadOptions(load.WithProbe(p), load.WithSampleLimit(limit)),
	}, nil
}

// run generates jobs and reports every result.
func (a *app) run(cmd *cobra.Command, jobs []compiler.Job) error {
	results, err := compiler.GenerateAll(cmd.Context(), jobs, a.cfg.Workers)
	if err != nil {
		return err
	}
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			failure(cmd.ErrOrStderr(), fmt.Errorf("%s: %w", compiler.OutputPath(r.Job.OutDir, r.Job.Module), r.Err))
			continue
		}
		success(cmd.OutOrStdout(), "generated %s", r.Path)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d modules failed", failed, len(results))
	}
	return nil
}
