package main

import (
	"github.com/alecthomas/kong"
	"github.com/zansec/ftpzan/pkg/runner"
)

var App struct {
	Check runner.CheckServiceCommand `cmd:"" name:"check" help:"Check a single FTP/SFTP target"`
	Site  runner.SiteServiceCommand  `cmd:"" name:"site" help:"Check every server in a FileZilla sitemanager export"`
	Brute runner.BruteServiceCommand `cmd:"" name:"brute" help:"Brute force one host over username/password/port combinations"`
}

func main() {
	ctx := kong.Parse(&App)
	// Call the Run() method of the selected parsed command.
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
