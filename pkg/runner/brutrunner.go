package runner

import (
	"fmt"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/pkg/errors"
	"github.com/projectdiscovery/gologger"

	"github.com/zansec/ftpzan/pkg/probe"
	"github.com/zansec/ftpzan/pkg/report"
	"github.com/zansec/ftpzan/pkg/wordlist"
)

// progressEvery throttles negative-progress output in brute mode.
const progressEvery = 10

type BruteServiceCommand struct {
	Host       string        `help:"target host (ip or domain)" short:"i" required:""`
	Protocol   int           `help:"0 = FTP (default), 1 = SFTP" default:"0"`
	Port       int           `help:"single target port (default 21 FTP / 22 SFTP)" short:"p" default:"0"`
	Username   string        `help:"single username instead of a user list" short:"u" default:""`
	Password   string        `help:"single password instead of a pass list" default:""`
	UserList   string        `help:"file containing usernames" default:""`
	PassList   string        `help:"file containing passwords" default:""`
	ComboList  string        `help:"file containing username:password combos, overrides user/pass lists" default:""`
	PortList   string        `help:"file or comma-separated list of ports" default:""`
	Timeout    time.Duration `help:"connection timeout" short:"x" default:"10s"`
	MaxThreads int           `help:"max concurrent connections" short:"t" default:"5"`
	CheckPath  string        `help:"path to check after a successful login" default:""`
	Debug      bool
	OutputOptions
}

func (cmd *BruteServiceCommand) Run() error {
	configureLog(cmd.Debug)

	protocol, err := parseProtocol(cmd.Protocol)
	if err != nil {
		return err
	}
	spec, err := cmd.buildSpec(protocol)
	if err != nil {
		return err
	}
	total := spec.Count()
	if total == 0 {
		return errors.New("empty combination space, nothing to try")
	}
	gologger.Info().Msgf("Starting brute force with %d combinations...", total)

	// workers report concurrently, so discovered credentials go into a
	// concurrent map keyed by user:pass@host:port
	found := cmap.New[string]()
	pool := &probe.Pool{
		Workers: cmd.MaxThreads,
		Timeout: cmd.Timeout,
		OnResult: func(e probe.Event) {
			r := e.Result
			progress := float64(e.Index) / float64(e.Total) * 100
			if r.Succeeded() {
				pair := fmt.Sprintf("%s:%s@%s:%d", r.Username, r.Password, r.Host, r.Port)
				found.Set(pair, r.Protocol)
				gologger.Info().Msgf("FOUND: %s (%.1f%% complete)", pair, progress)
				return
			}
			if e.Index%progressEvery == 0 {
				gologger.Info().Msgf("Progress: %.1f%% (%d/%d)", progress, e.Index, e.Total)
				return
			}
			gologger.Debug().Msgf("[trying] %s:%s@%s:%d failed", r.Username, r.Password, r.Host, r.Port)
		},
	}
	results := pool.Run(spec.Stream(), total)

	gologger.Info().Msgf("brute force finished: %d valid credential(s)", found.Count())
	for pair := range found.Items() {
		gologger.Silent().Msgf("%s", pair)
	}

	agg := report.NewAggregator()
	agg.AddAll(results)
	if err := cmd.PushFound(results); err != nil {
		return err
	}
	return cmd.WriteReports(agg)
}

// buildSpec resolves wordlists, overrides and defaults into the
// combination space. A combo list replaces the independent lists.
func (cmd *BruteServiceCommand) buildSpec(protocol probe.Protocol) (*probe.BruteSpec, error) {
	spec := &probe.BruteSpec{
		Host:      cmd.Host,
		Protocol:  protocol,
		CheckPath: cmd.CheckPath,
	}

	switch {
	case cmd.ComboList != "":
		lines, err := wordlist.ReadLines(cmd.ComboList)
		if err != nil {
			return nil, err
		}
		spec.Combos = wordlist.ParseCombos(lines)
	default:
		switch {
		case cmd.UserList != "":
			users, err := wordlist.ReadLines(cmd.UserList)
			if err != nil {
				return nil, err
			}
			spec.Usernames = wordlist.Dedupe(users)
		case cmd.Username != "":
			spec.Usernames = []string{cmd.Username}
		default:
			spec.Usernames = wordlist.DefaultUsernames
		}
		switch {
		case cmd.PassList != "":
			passes, err := wordlist.ReadLines(cmd.PassList)
			if err != nil {
				return nil, err
			}
			spec.Passwords = wordlist.Dedupe(passes)
		case cmd.Password != "":
			spec.Passwords = []string{cmd.Password}
		default:
			spec.Passwords = wordlist.DefaultPasswords
		}
	}

	if cmd.PortList != "" {
		ports, err := wordlist.ParsePorts(cmd.PortList)
		if err != nil {
			return nil, err
		}
		spec.Ports = ports
	} else if cmd.Port != 0 {
		spec.Ports = []int{cmd.Port}
	} else {
		spec.Ports = []int{protocol.DefaultPort()}
	}
	return spec, nil
}
