// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/meterio/meter-auction/api"
	apiauction "github.com/meterio/meter-auction/api/auction"
	"github.com/meterio/meter-auction/co"
	"github.com/meterio/meter-auction/natsbus"
	"github.com/meterio/meter-auction/runtime"
	"github.com/meterio/meter-auction/script/auction"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/transfer"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

var appFlags = []cli.Flag{
	configFlag,
	dataDirFlag,
	contractFlag,
	apiAddrFlag,
	apiCorsFlag,
	apiTimeoutFlag,
	callGasLimitFlag,
	cacheSizeFlag,
	verbosityFlag,
	redisAddrFlag,
	redisPasswordFlag,
	redisDBFlag,
	redisPrefixFlag,
	natsURLFlag,
	natsSubjectFlag,
	ntpServerFlag,
	devFlag,
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "auction",
		Usage:     "Single-item auction contract host",
		Copyright: "2020 Meter Foundation <https://meter.io/>",
		Flags:     appFlags,
		Action:    defaultAction,
		Commands: []cli.Command{
			{
				Name:  "status",
				Usage: "print the auction status from the data dir",
				Flags: []cli.Flag{
					configFlag,
					dataDirFlag,
					contractFlag,
					redisAddrFlag,
					redisPasswordFlag,
					redisDBFlag,
					redisPrefixFlag,
					verbosityFlag,
				},
				Action: statusAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()

	if err := loadConfigFile(ctx); err != nil {
		return err
	}
	initLogger(ctx)

	contract := contractID(ctx)
	dataDir := makeDataDir(ctx)
	mainDB, storeDesc := openMainDB(ctx, dataDir)
	defer func() { slog.Info("closing state database..."); mainDB.Close() }()

	logDB := openLogDB(ctx, dataDir)
	defer func() { slog.Info("closing log database..."); logDB.Close() }()

	rt := runtime.New(runtime.Options{
		Contract:     contract,
		Stater:       state.NewCreator(mainDB, ctx.Int(cacheSizeFlag.Name)),
		Clock:        newClock(ctx),
		LogDB:        logDB,
		CallGasLimit: ctx.Uint64(callGasLimitFlag.Name),
	})
	height, err := rt.Height()
	if err != nil {
		return err
	}
	pending, err := rt.Pending()
	if err != nil {
		return err
	}

	var (
		goes     co.Goes
		natsDesc = "disabled"
	)
	if url := ctx.String(natsURLFlag.Name); url != "" {
		conn, err := natsbus.Connect(url)
		if err != nil {
			return err
		}
		defer conn.Close()
		pub := natsbus.NewPublisher(conn, ctx.String(natsSubjectFlag.Name), rt)
		goes.Go(func() { pub.Run(exitSignal) })
		natsDesc = url + " " + ctx.String(natsSubjectFlag.Name) + ".*"
	}

	dispatcher := transfer.NewDispatcher(rt)
	rt.OnCommit(dispatcher.Notify)
	goes.Go(func() { dispatcher.Run(exitSignal) })

	dev := ctx.Bool(devFlag.Name)
	apiHandler, apiCloser := api.New(rt, logDB, ctx.String(apiCorsFlag.Name), dev)
	defer func() { slog.Info("closing API..."); apiCloser() }()

	apiURL, srvCloser := startAPIServer(ctx, apiHandler)
	defer func() { slog.Info("stopping API server..."); srvCloser() }()

	printStartupMessage(contract, height, pending, storeDesc, logDB, apiURL, natsDesc, dev)

	<-exitSignal.Done()
	goes.Wait()
	return nil
}

func statusAction(ctx *cli.Context) error {
	if err := loadConfigFile(ctx); err != nil {
		return err
	}
	initLogger(ctx)

	contract := contractID(ctx)
	mainDB, _ := openMainDB(ctx, makeDataDir(ctx))
	defer mainDB.Close()

	rt := runtime.New(runtime.Options{
		Contract: contract,
		Stater:   state.NewCreator(mainDB, 0),
	})
	status, err := rt.Status()
	if err != nil {
		if errors.Is(err, auction.ErrNotInitialized) {
			fmt.Printf("auction %v is not initialized\n", contract)
			return nil
		}
		return err
	}
	out, err := json.MarshalIndent(apiauction.ConvertStatus(status), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
