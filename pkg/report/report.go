package report

import (
	"bytes"
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/zansec/ftpzan/pkg/probe"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Aggregator accumulates probe results and renders them into the
// supported report shapes. Add is safe under concurrent use; renders are
// pure functions of the accumulated results plus a generation timestamp
// and never mutate them.
type Aggregator struct {
	mu      sync.Mutex
	results []*probe.Result
}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

func (a *Aggregator) Add(r *probe.Result) {
	a.mu.Lock()
	a.results = append(a.results, r)
	a.mu.Unlock()
}

func (a *Aggregator) AddAll(rs []*probe.Result) {
	a.mu.Lock()
	a.results = append(a.results, rs...)
	a.mu.Unlock()
}

// Results returns a copy of the accumulated result list.
func (a *Aggregator) Results() []*probe.Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*probe.Result, len(a.results))
	copy(out, a.results)
	return out
}

// Summary holds the header statistics shared by every render kind.
type Summary struct {
	GeneratedAt time.Time
	Total       int
	Succeeded   int
	Failed      int
}

func (a *Aggregator) Summary() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := Summary{GeneratedAt: time.Now(), Total: len(a.results)}
	for _, r := range a.results {
		if r.Succeeded() {
			s.Succeeded++
		}
	}
	s.Failed = s.Total - s.Succeeded
	return s
}

// RenderText produces the human-readable report.
func (a *Aggregator) RenderText() []byte {
	summary := a.Summary()
	results := a.Results()

	var b strings.Builder
	b.WriteString("Advanced FTP/SFTP Check Results\n")
	b.WriteString("==============================\n")
	fmt.Fprintf(&b, "Generated: %s\n", summary.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Total servers: %d\n\n", summary.Total)
	fmt.Fprintf(&b, "Successful connections: %d\n", summary.Succeeded)
	fmt.Fprintf(&b, "Failed connections: %d\n\n", summary.Failed)

	for i, r := range results {
		fmt.Fprintf(&b, "Server %d: %s@%s:%d (%s)\n", i+1, r.Username, r.Host, r.Port, r.Protocol)
		fmt.Fprintf(&b, "  Connection: %s%s\n", successWord(r.Connection), msSuffix(r.ConnectionTime))
		fmt.Fprintf(&b, "  Authentication: %s%s\n", successWord(r.Authentication), msSuffix(r.AuthTime))
		if r.PathExists != nil {
			word := "Missing"
			if *r.PathExists {
				word = "Exists"
			}
			fmt.Fprintf(&b, "  Path check: %s%s", word, msSuffix(r.PathCheckTime))
			if r.PathType != "" {
				fmt.Fprintf(&b, " [Type: %s]", r.PathType)
			}
			b.WriteString("\n")
		}
		if r.WelcomeMessage != "" {
			welcome := r.WelcomeMessage
			if len(welcome) > 100 {
				welcome = welcome[:100] + "..."
			}
			fmt.Fprintf(&b, "  Welcome: %s\n", welcome)
		}
		if len(r.Features) > 0 {
			fmt.Fprintf(&b, "  Features: %d supported\n", len(r.Features))
		}
		fmt.Fprintf(&b, "  Total time: %.2fms\n", r.TotalTime)
		if len(r.Errors) > 0 {
			b.WriteString("  Errors:\n")
			for _, e := range r.Errors {
				fmt.Fprintf(&b, "    - %s\n", e)
			}
		}
		b.WriteString("\n")
	}
	return []byte(b.String())
}

type jsonReport struct {
	Timestamp             string          `json:"timestamp"`
	TotalServers          int             `json:"total_servers"`
	SuccessfulConnections int             `json:"successful_connections"`
	FailedConnections     int             `json:"failed_connections"`
	Servers               []*probe.Result `json:"servers"`
}

// RenderJSON produces the structured record-list report.
func (a *Aggregator) RenderJSON() ([]byte, error) {
	summary := a.Summary()
	doc := jsonReport{
		Timestamp:             summary.GeneratedAt.Format(time.RFC3339),
		TotalServers:          summary.Total,
		SuccessfulConnections: summary.Succeeded,
		FailedConnections:     summary.Failed,
		Servers:               a.Results(),
	}
	return json.MarshalIndent(doc, "", "  ")
}

type xmlReport struct {
	XMLName               xml.Name    `xml:"ftp_check_results"`
	Timestamp             string      `xml:"timestamp"`
	TotalServers          int         `xml:"total_servers"`
	SuccessfulConnections int         `xml:"successful_connections"`
	FailedConnections     int         `xml:"failed_connections"`
	Servers               []xmlServer `xml:"servers>server"`
}

type xmlServer struct {
	Host           string        `xml:"host"`
	Port           int           `xml:"port"`
	Username       string        `xml:"username"`
	Password       string        `xml:"password"`
	Protocol       string        `xml:"protocol"`
	Timestamp      string        `xml:"timestamp"`
	Status         xmlStatus     `xml:"status"`
	PathCheck      *xmlPathCheck `xml:"path_check,omitempty"`
	WelcomeMessage string        `xml:"welcome_message,omitempty"`
	Features       *xmlFeatures  `xml:"features,omitempty"`
	TotalTime      float64       `xml:"total_time_ms"`
	Errors         *xmlErrors    `xml:"errors,omitempty"`
}

type xmlStatus struct {
	Connection     bool     `xml:"connection"`
	ConnectionTime *float64 `xml:"connection_time_ms,omitempty"`
	Authentication bool     `xml:"authentication"`
	AuthTime       *float64 `xml:"authentication_time_ms,omitempty"`
}

type xmlPathCheck struct {
	Exists    bool     `xml:"exists"`
	Type      string   `xml:"type,omitempty"`
	CheckTime *float64 `xml:"check_time_ms,omitempty"`
}

type xmlFeatures struct {
	Feature []string `xml:"feature"`
}

type xmlErrors struct {
	Error []string `xml:"error"`
}

// RenderXML produces the tree-markup report.
func (a *Aggregator) RenderXML() ([]byte, error) {
	summary := a.Summary()
	doc := xmlReport{
		Timestamp:             summary.GeneratedAt.Format(time.RFC3339),
		TotalServers:          summary.Total,
		SuccessfulConnections: summary.Succeeded,
		FailedConnections:     summary.Failed,
	}
	for _, r := range a.Results() {
		server := xmlServer{
			Host:           r.Host,
			Port:           r.Port,
			Username:       r.Username,
			Password:       r.Password,
			Protocol:       r.Protocol,
			Timestamp:      r.Timestamp.Format(time.RFC3339),
			WelcomeMessage: r.WelcomeMessage,
			TotalTime:      r.TotalTime,
			Status: xmlStatus{
				Connection:     r.Connection,
				ConnectionTime: r.ConnectionTime,
				Authentication: r.Authentication,
				AuthTime:       r.AuthTime,
			},
		}
		if r.PathExists != nil {
			server.PathCheck = &xmlPathCheck{
				Exists:    *r.PathExists,
				Type:      r.PathType,
				CheckTime: r.PathCheckTime,
			}
		}
		if len(r.Features) > 0 {
			server.Features = &xmlFeatures{Feature: r.Features}
		}
		if len(r.Errors) > 0 {
			server.Errors = &xmlErrors{Error: r.Errors}
		}
		doc.Servers = append(doc.Servers, server)
	}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

var csvHeader = []string{
	"Host", "Port", "Username", "Password", "Protocol",
	"Connection", "Connection Time (ms)",
	"Authentication", "Auth Time (ms)",
	"Path Exists", "Path Type", "Path Check Time (ms)",
	"Total Time (ms)", "Errors",
}

// RenderCSV produces the tabular report.
func (a *Aggregator) RenderCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, r := range a.Results() {
		record := []string{
			r.Host,
			fmt.Sprintf("%d", r.Port),
			r.Username,
			r.Password,
			r.Protocol,
			successWord(r.Connection),
			msCell(r.ConnectionTime),
			successWord(r.Authentication),
			msCell(r.AuthTime),
			pathExistsCell(r.PathExists),
			r.PathType,
			msCell(r.PathCheckTime),
			fmt.Sprintf("%.2f", r.TotalTime),
			strings.Join(r.Errors, "; "),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func successWord(ok bool) string {
	if ok {
		return "Success"
	}
	return "Failed"
}

func msSuffix(ms *float64) string {
	if ms == nil {
		return ""
	}
	return fmt.Sprintf(" (%.2fms)", *ms)
}

func msCell(ms *float64) string {
	if ms == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *ms)
}

func pathExistsCell(exists *bool) string {
	switch {
	case exists == nil:
		return "N/A"
	case *exists:
		return "Yes"
	default:
		return "No"
	}
}
