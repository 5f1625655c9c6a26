package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/fred-dns/cdnskey-scanner/config"
	"github.com/fred-dns/cdnskey-scanner/evt"
	"github.com/fred-dns/cdnskey-scanner/log"
	"github.com/fred-dns/cdnskey-scanner/scanner"
	"github.com/fred-dns/cdnskey-scanner/workload"

	"github.com/hako/durafmt"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals
var (
	hostnameResolversOpt = newOnceValue("hostname_resolvers")
	cdnskeyResolversOpt  = newOnceValue("cdnskey_resolvers")
	trustAnchorsOpt      = newOnceValue("dnssec_trust_anchors")
	timeoutOpt           = newOnceValue("timeout")
)

//nolint:gochecknoglobals
var rootCmd = &cobra.Command{
	Use:   "cdnskey-scanner [--hostname_resolvers IP[,IP...]] [--cdnskey_resolvers IP[,IP...]] [--dnssec_trust_anchors ANCHOR[,ANCHOR...]] [--timeout SECONDS] RUNTIME_SECONDS",
	Short: "Scanner of CDNSKEY records",
	Long: `Scanner of CDNSKEY records.

The list of zones to scan is read from standard input:
    [secure]
    signed1.cz signed2.cz ... signedN.cz
    [insecure]
    nameserver1.cz domain1.cz domain2.cz ... domainN.cz
    nameserver2.sk other1.cz other2.cz ... otherM.cz

Results are written to standard output, one line per result:
    insecure nameserver ip domain flags protocol algorithm public_key_base64
    insecure-empty nameserver ip domain
    unresolved nameserver ip domain
    secure domain flags protocol algorithm public_key_base64
    secure-empty domain
    untrustworthy domain
    unknown domain

An anchor is given as: zone flags protocol algorithm public_key_base64
           for example: . 257 3 8 AwEAAdAjHYjq...xAU8=`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

//nolint:gochecknoinits
func init() {
	// results own stdout; everything else goes to stderr
	rootCmd.SetOut(os.Stderr)

	rootCmd.Flags().Var(hostnameResolversOpt, "hostname_resolvers",
		"IP addresses of resolvers used for resolving A and AAAA records of nameservers; "+
			"default is the resolver configured in the OS")
	rootCmd.Flags().Var(cdnskeyResolversOpt, "cdnskey_resolvers",
		"IP addresses of resolvers used for resolving signed CDNSKEY records of domains; "+
			"default is the resolver configured in the OS")
	rootCmd.Flags().Var(trustAnchorsOpt, "dnssec_trust_anchors",
		"chain of trust for verification of signed CDNSKEY records; "+
			"default are the root zone key signing keys")
	rootCmd.Flags().Var(timeoutOpt, "timeout",
		"maximum time (in seconds) spent by one DNS request")

	subscribeProgress()
}

func subscribeProgress() {
	progressLog := log.PrefixedLog("scan")

	_ = evt.Bus().Subscribe(evt.ScanPhaseStarted, func(phase string, queries int, assigned time.Duration) {
		progressLog.Infof("phase %s: %d queries in %s", phase, queries, durafmt.Parse(assigned))
	})

	_ = evt.Bus().Subscribe(evt.ScanPhaseFinished, func(phase string) {
		progressLog.Debugf("phase %s finished", phase)
	})
}

func run(_ *cobra.Command, args []string) error {
	cfg, err := buildConfig(args[0])
	if err != nil {
		return err
	}

	toScan, err := workload.Read(os.Stdin)
	if err != nil {
		return err
	}

	return scanner.New(cfg, os.Stdout).Run(toScan)
}

// buildConfig maps the command line values onto the scan configuration
func buildConfig(runtimeArg string) (*config.Config, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, err
	}

	runtimeSeconds, err := strconv.ParseInt(runtimeArg, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("can't parse runtime value '%s': %w", runtimeArg, err)
	}

	cfg.Runtime = config.Duration(time.Duration(runtimeSeconds) * time.Second)

	if cfg.HostnameResolvers, err = config.ParseIPList(hostnameResolversOpt.String()); err != nil {
		return nil, err
	}

	if cfg.CdnskeyResolvers, err = config.ParseIPList(cdnskeyResolversOpt.String()); err != nil {
		return nil, err
	}

	if cfg.TrustAnchors, err = config.ParseTrustAnchorList(trustAnchorsOpt.String()); err != nil {
		return nil, err
	}

	if timeoutOpt.IsSet() {
		timeoutSeconds, err := strconv.ParseUint(timeoutOpt.String(), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("can't parse timeout value '%s': %w", timeoutOpt.String(), err)
		}

		cfg.QueryTimeout = config.Duration(time.Duration(timeoutSeconds) * time.Second)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Execute runs the root command; every fatal error exits with status 1
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
