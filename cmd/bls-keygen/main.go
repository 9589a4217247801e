// Command bls-keygen generates, derives and uses BLS keys from the command
// line.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/zmlAEQ/bls-signatures/internal/config"
	"github.com/zmlAEQ/bls-signatures/pkg/logger"
	"github.com/zmlAEQ/bls-signatures/pkg/metrics"
)

var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Usage:   "YAML configuration file",
		EnvVars: []string{"BLS_CONFIG"},
	}
	schemeFlag = &cli.StringFlag{
		Name:  "scheme",
		Usage: "signing scheme: basic, augmented, pop or legacy",
	}
	encodingFlag = &cli.StringFlag{
		Name:  "encoding",
		Usage: "element encoding: current or legacy",
	}
	outputFlag = &cli.StringFlag{
		Name:  "output",
		Usage: "output format: hex or json",
	}
	logLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "debug, info, warn or error",
	}
)

// cfg is resolved once in Before and read by every command.
var cfg config.C

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "bls-keygen"
	app.Usage = "BLS12-381 key generation, HD derivation and signing"
	app.Flags = []cli.Flag{configFlag, schemeFlag, encodingFlag, outputFlag, logLevelFlag}
	app.Commands = []*cli.Command{
		keygenCommand,
		deriveCommand,
		signCommand,
		verifyCommand,
		aggregateCommand,
		dealCommand,
	}
	sort.Sort(cli.CommandsByName(app.Commands))
	app.Before = func(ctx *cli.Context) error {
		c, err := config.Load(ctx.String(configFlag.Name), nil)
		if err != nil {
			return err
		}
		if ctx.IsSet(schemeFlag.Name) {
			c.Scheme = ctx.String(schemeFlag.Name)
		}
		if ctx.IsSet(encodingFlag.Name) {
			c.Encoding = ctx.String(encodingFlag.Name)
		}
		if ctx.IsSet(outputFlag.Name) {
			c.Output = ctx.String(outputFlag.Name)
		}
		if ctx.IsSet(logLevelFlag.Name) {
			c.LogLevel = ctx.String(logLevelFlag.Name)
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if err := logger.SetLevel(c.LogLevel); err != nil {
			return err
		}
		cfg = c
		return nil
	}
	app.After = func(ctx *cli.Context) error {
		if cfg.MetricsDump {
			fmt.Fprint(ctx.App.ErrWriter, metrics.DumpProm())
		}
		logger.Sync()
		return nil
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
