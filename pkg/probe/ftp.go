package probe

import (
	"path"
	"time"

	"github.com/jlaffaye/ftp"
)

// CheckFTP probes one FTP endpoint+credential pair end to end: connect,
// banner, login, best-effort FEAT discovery, optional path check. Each
// stage that fails stops the remaining stages of this probe only.
func CheckFTP(d Descriptor, timeout time.Duration) *Result {
	r := NewResult(d)
	start := time.Now()
	defer func() { r.TotalTime = elapsedMs(start) }()

	sniffer := newReplySniffer(timeout)
	connStart := time.Now()
	conn, err := ftp.Dial(d.Addr(),
		ftp.DialWithTimeout(timeout),
		ftp.DialWithDialFunc(sniffer.dial),
	)
	if err != nil {
		r.addError("%s", classifyDialError(err, "FTP"))
		return r
	}
	connMs := elapsedMs(connStart)
	r.ConnectionTime = &connMs
	r.Connection = true
	defer conn.Quit()

	r.WelcomeMessage = sniffer.Banner()

	authStart := time.Now()
	if err := conn.Login(d.Username, d.Password); err != nil {
		r.addError("FTP error: %s", err)
		return r
	}
	authMs := elapsedMs(authStart)
	r.AuthTime = &authMs
	r.Authentication = true

	// FEAT is best effort: servers without it leave the list empty.
	if feats := sniffer.Features(); len(feats) > 0 {
		r.Features = feats
	}

	if d.CheckPath != "" {
		checkFTPPath(conn, d.CheckPath, r)
	}
	return r
}

// checkFTPPath resolves existence and type of a remote path. A path that
// accepts CWD is a directory; otherwise the parent listing is searched
// for the base name. Failures while reaching the parent stay one coarse
// category regardless of cause.
func checkFTPPath(conn *ftp.ServerConn, checkPath string, r *Result) {
	defer stageTimer(&r.PathCheckTime)()

	exists := false
	if err := conn.ChangeDir(checkPath); err == nil {
		exists = true
		r.PathExists = &exists
		r.PathType = "directory"
		return
	}

	parent := path.Dir(checkPath)
	base := path.Base(checkPath)
	names, err := conn.NameList(parent)
	if err != nil {
		r.PathExists = &exists
		r.addError("Error accessing parent directory: %s", err)
		return
	}
	for _, name := range names {
		// some servers list full paths, others bare names
		if name == base || path.Base(name) == base {
			exists = true
			break
		}
	}
	r.PathExists = &exists
	if exists {
		r.PathType = "file"
	} else {
		r.addError("Path '%s' not found", checkPath)
	}
}
