package runner

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/levels"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/zansec/ftpzan/pkg/db"
	"github.com/zansec/ftpzan/pkg/probe"
	"github.com/zansec/ftpzan/pkg/report"
)

// OutputOptions are the report destinations shared by every command.
type OutputOptions struct {
	TxtOutput  string `help:"txt report to write eg.result.txt" default:""`
	XMLOutput  string `help:"xml report to write eg.result.xml" default:""`
	JSONOutput string `help:"json report to write eg.result.json" default:""`
	CSVOutput  string `help:"csv report to write eg.result.csv" default:""`
	DBOutput   string `short:"b" help:"db(mongo) to write found credentials eg.dburl+dbname+collection" default:""`
}

// WriteReports renders the aggregator into every requested destination.
func (opts *OutputOptions) WriteReports(agg *report.Aggregator) error {
	if opts.TxtOutput != "" {
		if err := os.WriteFile(opts.TxtOutput, agg.RenderText(), 0644); err != nil {
			return errors.Wrap(err, "could not write txt report")
		}
		gologger.Info().Msgf("TXT report saved to %s", opts.TxtOutput)
	}
	if opts.XMLOutput != "" {
		out, err := agg.RenderXML()
		if err != nil {
			return errors.Wrap(err, "could not render xml report")
		}
		if err := os.WriteFile(opts.XMLOutput, out, 0644); err != nil {
			return errors.Wrap(err, "could not write xml report")
		}
		gologger.Info().Msgf("XML report saved to %s", opts.XMLOutput)
	}
	if opts.JSONOutput != "" {
		out, err := agg.RenderJSON()
		if err != nil {
			return errors.Wrap(err, "could not render json report")
		}
		if err := os.WriteFile(opts.JSONOutput, out, 0644); err != nil {
			return errors.Wrap(err, "could not write json report")
		}
		gologger.Info().Msgf("JSON report saved to %s", opts.JSONOutput)
	}
	if opts.CSVOutput != "" {
		out, err := agg.RenderCSV()
		if err != nil {
			return errors.Wrap(err, "could not render csv report")
		}
		if err := os.WriteFile(opts.CSVOutput, out, 0644); err != nil {
			return errors.Wrap(err, "could not write csv report")
		}
		gologger.Info().Msgf("CSV report saved to %s", opts.CSVOutput)
	}
	return nil
}

// PushFound upserts every successful result into the configured store.
// Per-document push failures are logged and do not abort the run.
func (opts *OutputOptions) PushFound(results []*probe.Result) error {
	if opts.DBOutput == "" {
		return nil
	}
	store, err := db.NewStore(opts.DBOutput)
	if err != nil {
		return err
	}
	defer store.Close()
	for _, r := range results {
		if !r.Succeeded() {
			continue
		}
		doc, err := bson.Marshal(r)
		if err != nil {
			gologger.Error().Msgf("Could not marshal result: %s", err)
			continue
		}
		hash := md5.Sum([]byte(r.Host + strconv.Itoa(r.Port) + r.Username + r.Protocol))
		if err := store.Push(hex.EncodeToString(hash[:]), doc); err != nil {
			gologger.Error().Msgf("Could not push result: %s", err)
		}
	}
	return nil
}

func configureLog(debug bool) {
	if debug {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelDebug)
	}
}

func parseProtocol(v int) (probe.Protocol, error) {
	switch v {
	case 0:
		return probe.FTP, nil
	case 1:
		return probe.SFTP, nil
	default:
		return 0, errors.Errorf("invalid protocol %d, want 0 (FTP) or 1 (SFTP)", v)
	}
}

// reportEvent prints one completed probe with full detail; bulk and
// single mode use it for every completion.
func reportEvent(e probe.Event) {
	r := e.Result
	if r.Succeeded() {
		gologger.Info().Msgf("SUCCESS: %s:%s@%s:%d (%s) - Connection: %sms, Auth: %sms",
			r.Username, r.Password, r.Host, r.Port, r.Protocol,
			fmtMs(r.ConnectionTime), fmtMs(r.AuthTime))
		return
	}
	gologger.Warning().Msgf("FAILED: %s@%s:%d (%s)", r.Username, r.Host, r.Port, r.Protocol)
	for _, msg := range r.Errors {
		gologger.Warning().Msgf("  Error: %s", msg)
	}
}

func fmtMs(ms *float64) string {
	if ms == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *ms)
}
