package main

import (
	"fmt"

	"github.com/SAT-solver-ANalyzer/SATAn/cmn"
	"github.com/SAT-solver-ANalyzer/SATAn/executor"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

var cleanCommand = cli.Command{
	Name:  "clean",
	Usage: "restore [processing]_/[done]_ prefixed files left behind by a prior run",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "config", Usage: "path to the YAML config document", Required: true},
	},
	Action: runClean,
}

func runClean(c *cli.Context) error {
	cfg, err := cmn.LoadConfig(c.String("config"))
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	restored, err := executor.Clean(cfg)
	if err != nil {
		return errors.Wrap(err, "clean")
	}
	fmt.Printf("clean: restored %d file(s)\n", restored)
	return nil
}
