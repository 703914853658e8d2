package probe

import (
	"bytes"
	"net"
	"strings"
	"sync"
	"time"
)

// replyCaptureLimit bounds how much control-channel traffic is retained
// for banner and FEAT extraction.
const replyCaptureLimit = 8 << 10

// replySniffer wraps the FTP control connection handed to the client
// library and passively records early server replies. The library reads
// the 220 greeting and the FEAT response itself but exports neither, so
// the raw reply text is recovered from the wire instead.
type replySniffer struct {
	timeout time.Duration

	mu   sync.Mutex
	buf  bytes.Buffer
	used bool // capture the control connection only, not data connections
}

func newReplySniffer(timeout time.Duration) *replySniffer {
	return &replySniffer{timeout: timeout}
}

// dial is plugged into ftp.DialWithDialFunc. The first connection it opens
// is the control connection; one absolute deadline stamped here covers
// every later stage of the probe.
func (s *replySniffer) dial(network, address string) (net.Conn, error) {
	conn, err := net.DialTimeout(network, address, s.timeout)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	first := !s.used
	s.used = true
	s.mu.Unlock()
	if !first {
		return conn, nil
	}
	_ = conn.SetDeadline(time.Now().Add(s.timeout))
	return &sniffedConn{Conn: conn, sniffer: s}, nil
}

type sniffedConn struct {
	net.Conn
	sniffer *replySniffer
}

func (c *sniffedConn) Read(p []byte) (int, error) {
	n, err := c.Conn.Read(p)
	if n > 0 {
		c.sniffer.record(p[:n])
	}
	return n, err
}

func (s *replySniffer) record(b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if remain := replyCaptureLimit - s.buf.Len(); remain > 0 {
		if len(b) > remain {
			b = b[:remain]
		}
		s.buf.Write(b)
	}
}

func (s *replySniffer) lines() []string {
	s.mu.Lock()
	raw := s.buf.String()
	s.mu.Unlock()
	return strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
}

// Banner returns the server greeting text, continuation lines included.
func (s *replySniffer) Banner() string {
	var parts []string
	for _, line := range s.lines() {
		switch {
		case strings.HasPrefix(line, "220-"):
			parts = append(parts, strings.TrimSpace(line[4:]))
		case strings.HasPrefix(line, "220 "):
			parts = append(parts, strings.TrimSpace(line[4:]))
			return strings.Join(parts, "\n")
		case len(parts) > 0:
			// bare continuation line inside a multi-line greeting
			parts = append(parts, strings.TrimSpace(line))
		}
	}
	return strings.Join(parts, "\n")
}

// Features returns the capability lines of a complete FEAT exchange seen
// on the control connection, or nil when the server offered none.
func (s *replySniffer) Features() []string {
	var feats []string
	in := false
	for _, line := range s.lines() {
		switch {
		case strings.HasPrefix(line, "211-"):
			in = true
		case in && (strings.HasPrefix(line, "211 ") || line == "211"):
			return feats
		case in:
			if f := strings.TrimSpace(line); f != "" {
				feats = append(feats, f)
			}
		}
	}
	return nil
}
