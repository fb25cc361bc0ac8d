package main

import (
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// mergeCommand is reserved: spec §6 names the subcommand and its
// --databases flag but leaves the merge semantics unspecified
// (spec §9, open question). It is wired into the CLI surface so
// `runner merge --help` documents the flag shape now, ahead of a
// future implementation.
var mergeCommand = cli.Command{
	Name:  "merge",
	Usage: "merge multiple per-host databases into one (reserved, not yet implemented)",
	Flags: []cli.Flag{
		cli.StringSliceFlag{Name: "databases", Usage: "database paths to merge (repeatable)"},
	},
	Action: runMerge,
}

func runMerge(c *cli.Context) error {
	return errors.New("merge: reserved subcommand, semantics not yet specified")
}
