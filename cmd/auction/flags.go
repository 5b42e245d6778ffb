// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"github.com/meterio/meter-auction/meter"
	cli "gopkg.in/urfave/cli.v1"
)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "yaml file with flag values, flags given on the command line take precedence",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for state and log databases",
	}
	contractFlag = cli.StringFlag{
		Name:  "contract",
		Value: "auction.near",
		Usage: "account id of the auction contract",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8669",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiTimeoutFlag = cli.IntFlag{
		Name:  "api-timeout",
		Value: 10000,
		Usage: "API request timeout value in milliseconds",
	}
	callGasLimitFlag = cli.Uint64Flag{
		Name:  "call-gas-limit",
		Value: meter.DefaultCallGasLimit,
		Usage: "limit contract call gas",
	}
	cacheSizeFlag = cli.IntFlag{
		Name:  "cache-size",
		Value: 4096,
		Usage: "number of storage entries kept in the state cache",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-9)",
	}
	redisAddrFlag = cli.StringFlag{
		Name:  "redis-addr",
		Usage: "keep state in redis at this address instead of leveldb",
	}
	redisPasswordFlag = cli.StringFlag{
		Name:  "redis-password",
		Usage: "redis password",
	}
	redisDBFlag = cli.IntFlag{
		Name:  "redis-db",
		Usage: "redis database index",
	}
	redisPrefixFlag = cli.StringFlag{
		Name:  "redis-prefix",
		Value: "auction:",
		Usage: "prefix of state keys in redis",
	}
	natsURLFlag = cli.StringFlag{
		Name:  "nats-url",
		Usage: "publish audit events to this NATS server",
	}
	natsSubjectFlag = cli.StringFlag{
		Name:  "nats-subject",
		Value: "auction",
		Usage: "subject prefix of published audit events",
	}
	ntpServerFlag = cli.StringFlag{
		Name:  "ntp-server",
		Usage: "correct the local clock against this NTP server at startup",
	}
	devFlag = cli.BoolFlag{
		Name:  "dev",
		Usage: "enable the account mint API for development",
	}
)
