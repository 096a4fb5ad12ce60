// Command errorcode-checker enforces the pkg/errors conventions: codes are
// well formed and unique, and non-test code builds errors through pkg/errors.
package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	dir := flag.String("dir", ".", "directory to check")
	configPath := flag.String("config", "", "path to a .errorcode.yml file")
	verbose := flag.Bool("v", false, "list every error code")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *verbose {
		cfg.Verbose = true
	}

	checker := NewChecker(cfg)
	if err := checker.CheckDirectory(*dir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if !checker.Report(os.Stdout) {
		os.Exit(1)
	}
}
