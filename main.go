package main

import (
	"github.com/xmazu/cl-agent/cmd"
)

var (
	Version   = "dev"
	BuildTime string
)

func main() {
	cmd.SetVersion(Version)
	cmd.Execute()
}
