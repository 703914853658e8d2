package probe

import (
	"fmt"
	"math"
	"time"
)

// Protocol selects the checker variant for an endpoint. The numbering
// follows the FileZilla export convention (0 = FTP, 1 = SFTP).
type Protocol int

const (
	FTP  Protocol = 0
	SFTP Protocol = 1
)

func (p Protocol) String() string {
	if p == SFTP {
		return "SFTP"
	}
	return "FTP"
}

// DefaultPort returns the standard port for the protocol.
func (p Protocol) DefaultPort() int {
	if p == SFTP {
		return 22
	}
	return 21
}

// Endpoint identifies a network target independent of credentials.
type Endpoint struct {
	Host     string
	Port     int
	Protocol Protocol
}

func (e Endpoint) Addr() string {
	return fmt.Sprintf("%v:%v", e.Host, e.Port)
}

// Credential is one username/password pair. An empty password is valid
// (anonymous FTP).
type Credential struct {
	Username string
	Password string
}

// Descriptor is the unit of work handed to the pool: one endpoint, one
// credential pair, optionally a remote path to verify after login. One
// descriptor always yields exactly one Result.
type Descriptor struct {
	Endpoint
	Credential
	CheckPath string
}

// Result is the normalized outcome record of one probe. It is append-only
// while the probe runs and frozen once the checker returns it. Nil timing
// pointers mean the stage was never reached; a nil PathExists means no
// path check was requested.
type Result struct {
	Host      string    `json:"host" bson:"host"`
	Port      int       `json:"port" bson:"port"`
	Username  string    `json:"username" bson:"username"`
	Password  string    `json:"password" bson:"password"`
	Protocol  string    `json:"protocol" bson:"protocol"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`

	Connection     bool     `json:"connection" bson:"connection"`
	ConnectionTime *float64 `json:"connection_time" bson:"connection_time"`
	Authentication bool     `json:"authentication" bson:"authentication"`
	AuthTime       *float64 `json:"auth_time" bson:"auth_time"`

	PathExists    *bool    `json:"path_exists" bson:"path_exists"`
	PathType      string   `json:"path_type,omitempty" bson:"path_type,omitempty"`
	PathCheckTime *float64 `json:"path_check_time" bson:"path_check_time"`

	WelcomeMessage string   `json:"welcome_message,omitempty" bson:"welcome_message,omitempty"`
	Features       []string `json:"features" bson:"features"`
	Errors         []string `json:"errors" bson:"errors"`
	TotalTime      float64  `json:"total_time" bson:"total_time"`
}

// NewResult seeds a result with the descriptor identity. The password is
// carried along: a successful brute-force hit must report what worked.
func NewResult(d Descriptor) *Result {
	return &Result{
		Host:      d.Host,
		Port:      d.Port,
		Username:  d.Username,
		Password:  d.Password,
		Protocol:  d.Endpoint.Protocol.String(),
		Timestamp: time.Now(),
		Features:  []string{},
		Errors:    []string{},
	}
}

// Succeeded reports whether the probe both connected and authenticated.
func (r *Result) Succeeded() bool {
	return r.Connection && r.Authentication
}

func (r *Result) addError(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// elapsedMs returns milliseconds since start, rounded to two decimals.
func elapsedMs(start time.Time) float64 {
	ms := float64(time.Since(start).Microseconds()) / 1000
	return math.Round(ms*100) / 100
}

// stageTimer records the elapsed stage time into dst when the returned
// function runs. Deferring it guarantees the measurement on every exit
// path of a stage, early returns included.
func stageTimer(dst **float64) func() {
	start := time.Now()
	return func() {
		ms := elapsedMs(start)
		*dst = &ms
	}
}
