package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reconsuite/subscan/output"
	"github.com/reconsuite/subscan/prelude"
	"github.com/reconsuite/subscan/subdomain"
)

// runOptions holds run's resolved configuration, after flag parsing and any
// config-file merge.
type runOptions struct {
	domain     string
	wordlist   string
	resolvers  string
	threads    int
	csvPath    string
	textPath   string
	noColor    bool
	configPath string
}

var runOpts runOptions

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Brute force a domain's subdomains",
	RunE:  runScan,
}

func init() {
	flags := runCmd.Flags()
	flags.StringVar(&runOpts.domain, "domain", "", "target domain, e.g. example.com (required)")
	flags.StringVar(&runOpts.wordlist, "wordlist", "", "path to a subdomain label wordlist (required)")
	flags.StringVar(&runOpts.resolvers, "resolvers", "", "comma-separated resolvers or a path to a resolver list")
	flags.IntVar(&runOpts.threads, "threads", 20, "number of concurrent scanner goroutines")
	flags.StringVar(&runOpts.csvPath, "csv", "", "write discovered records to this CSV file")
	flags.StringVar(&runOpts.textPath, "text", "", "write discovered records to this plain-text file")
	flags.BoolVar(&runOpts.noColor, "no-color", false, "disable terminal colors")
	flags.StringVar(&runOpts.configPath, "config", "", "optional YAML file seeding any flag left unset")
}

func runScan(cmd *cobra.Command, args []string) error {
	opts := runOpts

	if opts.configPath != "" {
		cfg, err := loadFileConfig(opts.configPath)
		if err != nil {
			return err
		}
		mergeConfig(&opts, cfg)
		// --threads has a non-zero default, so mergeConfig cannot see that
		// it was left unset; take the file's value unless the flag was given.
		if !cmd.Flags().Changed("threads") && cfg.Threads > 0 {
			opts.threads = cfg.Threads
		}
	}

	if opts.domain == "" {
		return fmt.Errorf("--domain is required")
	}
	if opts.wordlist == "" {
		return fmt.Errorf("--wordlist is required")
	}

	labels, err := loadLines(opts.wordlist)
	if err != nil {
		return err
	}
	if len(labels) == 0 {
		return fmt.Errorf("wordlist %s is empty", opts.wordlist)
	}

	var seedResolvers []string
	if opts.resolvers != "" {
		seedResolvers, err = loadResolvers(opts.resolvers)
		if err != nil {
			return err
		}
	}
	if len(seedResolvers) == 0 {
		seedResolvers = append(seedResolvers, defaultResolvers...)
	}

	outputs := []subdomain.Output{output.NewTerminal(os.Stdout, !opts.noColor)}
	var fileOutputs []subdomain.Output
	var csvFile, textFile *os.File
	if opts.csvPath != "" {
		csvFile, err = os.Create(opts.csvPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", opts.csvPath, err)
		}
		defer csvFile.Close()
		csvOut := output.NewCSVFile(csvFile)
		outputs = append(outputs, csvOut)
		fileOutputs = append(fileOutputs, csvOut)
	}
	if opts.textPath != "" {
		textFile, err = os.Create(opts.textPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", opts.textPath, err)
		}
		defer textFile.Close()
		textOut := output.NewPlainText(textFile)
		outputs = append(outputs, textOut)
		fileOutputs = append(fileOutputs, textOut)
	}

	listener := subdomain.NewFanoutListener(outputs...)
	listener.PrintHeader(fmt.Sprintf("subscan v%s", version))
	listener.PrintTarget(opts.domain)
	listener.PrintConfig(map[string]string{
		"wordlist": opts.wordlist,
		"threads":  fmt.Sprintf("%d", opts.threads),
		"labels":   fmt.Sprintf("%d", len(labels)),
	})

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	scanner := subdomain.NewDNSScanner()
	dispatcher := subdomain.NewDispatcher(opts.domain, opts.threads, labels, seedResolvers, listener, scanner)

	// The prelude's NS-discovery/zone-transfer pass runs concurrently with
	// the brute-force scan rather than blocking it: any nameserver it finds
	// is folded into the live resolver pool via DiscoverResolver as soon as
	// the prelude completes, even if the dispatcher has already started
	// dispatching against the seed resolvers.
	pre := prelude.New(opts.domain, seedResolvers[0], listener)
	go func() {
		for _, ns := range pre.Run(ctx) {
			dispatcher.DiscoverResolver(ns)
		}
	}()

	stopSignals := installSignalHandler(ctx, cancel, dispatcher, listener, fileOutputs)
	defer stopSignals()

	state := dispatcher.Run(ctx)
	<-listener.Flushed()

	switch state {
	case subdomain.StateCompleted:
		listener.PrintTaskCompleted("Scan complete.")
		return nil
	case subdomain.StateCancelled:
		os.Exit(130)
	case subdomain.StateFailed:
		os.Exit(1)
	}
	return nil
}
