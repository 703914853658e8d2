package probe

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// CheckSFTP probes one SFTP endpoint+credential pair. The SSH transport
// binds connection and authentication into a single handshake, so both
// flags flip together and auth_time mirrors connection_time; the two are
// not like-for-like comparable with FTP's separate stages.
func CheckSFTP(d Descriptor, timeout time.Duration) *Result {
	r := NewResult(d)
	start := time.Now()
	defer func() { r.TotalTime = elapsedMs(start) }()

	config := &ssh.ClientConfig{
		User: d.Username,
		Auth: []ssh.AuthMethod{ssh.Password(d.Password)},
		// unknown hosts are the normal case for a probe
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         timeout,
	}

	connStart := time.Now()
	client, err := ssh.Dial("tcp", d.Addr(), config)
	if err != nil {
		r.addError("%s", classifySSHError(err))
		return r
	}
	connMs := elapsedMs(connStart)
	authMs := connMs
	r.ConnectionTime = &connMs
	r.AuthTime = &authMs
	r.Connection = true
	r.Authentication = true
	defer client.Close()

	if d.CheckPath != "" {
		checkSFTPPath(client, d.CheckPath, r)
	}
	return r
}

// checkSFTPPath stats the remote path over an SFTP subsystem session and
// derives the type from the returned mode.
func checkSFTPPath(client *ssh.Client, checkPath string, r *Result) {
	defer stageTimer(&r.PathCheckTime)()

	exists := false
	sc, err := sftp.NewClient(client)
	if err != nil {
		r.PathExists = &exists
		r.addError("Path check error: %s", err)
		return
	}
	defer sc.Close()

	info, err := sc.Stat(checkPath)
	if err != nil {
		r.PathExists = &exists
		if os.IsNotExist(err) {
			r.addError("Path '%s' not found", checkPath)
		} else {
			r.addError("Path check error: %s", err)
		}
		return
	}
	exists = true
	r.PathExists = &exists
	if info.IsDir() {
		r.PathType = "directory"
	} else {
		r.PathType = "file"
	}
}

// classifySSHError maps handshake failures onto the probe error taxonomy.
// The ssh package reports auth rejection only through its error text.
func classifySSHError(err error) string {
	msg := err.Error()
	if strings.Contains(msg, "unable to authenticate") ||
		strings.Contains(msg, "no supported methods remain") {
		return "Authentication failed"
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "Hostname resolution failed"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "Connection timed out"
	}
	return fmt.Sprintf("SSH error: %s", msg)
}
