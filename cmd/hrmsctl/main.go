package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/cmlabs-hris/hrms-backend-go/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	cli.SetVersion(version, commit)
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
