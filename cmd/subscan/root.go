package main

import (
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "subscan",
	Short: "subscan discovers subdomains by DNS brute force",
	Long: "subscan runs a best-effort nameserver/zone-transfer pass against a domain, " +
		"then brute forces its subdomains against a pool of resolvers, adapting its " +
		"pace to each resolver's health as it goes.",
	Version: version,
}

func init() {
	rootCmd.AddCommand(runCmd)
}
