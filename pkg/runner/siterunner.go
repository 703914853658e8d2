package runner

import (
	"time"

	"github.com/pkg/errors"
	"github.com/projectdiscovery/gologger"

	"github.com/zansec/ftpzan/pkg/probe"
	"github.com/zansec/ftpzan/pkg/report"
	"github.com/zansec/ftpzan/pkg/sitemanager"
)

type SiteServiceCommand struct {
	XMLPath    string        `help:"path to a FileZilla sitemanager XML export" short:"f" required:""`
	Timeout    time.Duration `help:"connection timeout" short:"x" default:"10s"`
	MaxThreads int           `help:"max concurrent connections" short:"t" default:"5"`
	CheckPath  string        `help:"path to check on every server" default:""`
	Debug      bool
	OutputOptions
}

func (cmd *SiteServiceCommand) Run() error {
	configureLog(cmd.Debug)

	descriptors, err := sitemanager.Load(cmd.XMLPath)
	if err != nil {
		return err
	}
	if len(descriptors) == 0 {
		return errors.Errorf("no servers found in %s", cmd.XMLPath)
	}
	if cmd.CheckPath != "" {
		for i := range descriptors {
			descriptors[i].CheckPath = cmd.CheckPath
		}
	}
	gologger.Info().Msgf("checking %d server(s) from %s", len(descriptors), cmd.XMLPath)

	pool := &probe.Pool{
		Workers:  cmd.MaxThreads,
		Timeout:  cmd.Timeout,
		OnResult: reportEvent,
	}
	results := pool.Run(probe.StreamList(descriptors), len(descriptors))

	agg := report.NewAggregator()
	agg.AddAll(results)
	summary := agg.Summary()
	gologger.Info().Msgf("checked %d target(s): %d succeeded, %d failed",
		summary.Total, summary.Succeeded, summary.Failed)

	if err := cmd.PushFound(results); err != nil {
		return err
	}
	return cmd.WriteReports(agg)
}
