// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	yaml "gopkg.in/yaml.v2"
)

// loadConfigFile applies values from the yaml file named by --config to flags
// not given on the command line.
func loadConfigFile(ctx *cli.Context) error {
	path := ctx.String(configFlag.Name)
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read config")
	}
	values := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &values); err != nil {
		return errors.Wrap(err, "parse config")
	}
	flags := appFlags
	if ctx.Command.Name != "" {
		flags = ctx.Command.Flags
	}
	return applyConfig(ctx, flags, values)
}

func hasFlag(flags []cli.Flag, name string) bool {
	for _, f := range flags {
		if f.GetName() == name {
			return true
		}
	}
	return false
}

// applyConfig sets the flags of the running command from values. Keys naming
// flags of other commands are skipped.
func applyConfig(ctx *cli.Context, flags []cli.Flag, values map[string]interface{}) error {
	for name, value := range values {
		if name == configFlag.Name {
			return errors.New("config may not name another config")
		}
		if !hasFlag(appFlags, name) {
			return errors.Errorf("config %v: unknown flag", name)
		}
		if !hasFlag(flags, name) || ctx.IsSet(name) {
			continue
		}
		if err := ctx.Set(name, fmt.Sprint(value)); err != nil {
			return errors.Wrapf(err, "config %v", name)
		}
	}
	return nil
}
