package probe

import (
	"errors"
	"fmt"
	"net"
	"time"
)

// Checker runs one full probe against a single endpoint+credential
// combination. Implementations never panic past this boundary and never
// return an error: every failure is captured into the Result's error list
// and boolean flags, so the pool can treat checker calls as uniformly
// non-throwing.
type Checker func(d Descriptor, timeout time.Duration) *Result

// CheckerMap dispatches a descriptor to the checker for its protocol tag.
var CheckerMap = map[Protocol]Checker{
	FTP:  CheckFTP,
	SFTP: CheckSFTP,
}

// classifyDialError maps a connect-stage failure onto the probe error
// taxonomy. protocol names the transport for the generic category.
func classifyDialError(err error, protocol string) string {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "Hostname resolution failed"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "Connection timed out"
	}
	return fmt.Sprintf("%s error: %s", protocol, err)
}
