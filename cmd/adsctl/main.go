// Package main is the entry point for the adsctl binary.
package main

import (
	"os"

	"github.com/vfg2006/ad-review-dashboard/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
