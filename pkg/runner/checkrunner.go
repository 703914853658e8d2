package runner

import (
	"time"

	"github.com/projectdiscovery/gologger"

	"github.com/zansec/ftpzan/pkg/probe"
	"github.com/zansec/ftpzan/pkg/report"
)

type CheckServiceCommand struct {
	Host       string        `help:"target host (ip or domain)" short:"i" required:""`
	Port       int           `help:"target port (default 21 FTP / 22 SFTP)" short:"p" default:"0"`
	Protocol   int           `help:"0 = FTP (default), 1 = SFTP" default:"0"`
	Username   string        `help:"username for authentication" short:"u" required:""`
	Password   string        `help:"password for authentication" required:""`
	Timeout    time.Duration `help:"connection timeout" short:"x" default:"10s"`
	MaxThreads int           `help:"max concurrent connections" short:"t" default:"5"`
	CheckPath  string        `help:"path to check on server" default:""`
	Debug      bool
	OutputOptions
}

func (cmd *CheckServiceCommand) Run() error {
	configureLog(cmd.Debug)

	protocol, err := parseProtocol(cmd.Protocol)
	if err != nil {
		return err
	}
	port := cmd.Port
	if port == 0 {
		port = protocol.DefaultPort()
	}
	descriptor := probe.Descriptor{
		Endpoint:   probe.Endpoint{Host: cmd.Host, Port: port, Protocol: protocol},
		Credential: probe.Credential{Username: cmd.Username, Password: cmd.Password},
		CheckPath:  cmd.CheckPath,
	}

	pool := &probe.Pool{
		Workers:  cmd.MaxThreads,
		Timeout:  cmd.Timeout,
		OnResult: reportEvent,
	}
	results := pool.Run(probe.StreamList([]probe.Descriptor{descriptor}), 1)

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
