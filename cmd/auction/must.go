// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/meterio/meter-auction/clock"
	"github.com/meterio/meter-auction/co"
	"github.com/meterio/meter-auction/kv"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/redisdb"
	cli "gopkg.in/urfave/cli.v1"
)

func logLevel(verbosity int) slog.Level {
	switch {
	case verbosity <= 1:
		return slog.LevelError
	case verbosity == 2:
		return slog.LevelWarn
	case verbosity == 3:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

func initLogger(ctx *cli.Context) {
	level := logLevel(ctx.Int(verbosityFlag.Name))
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})))
}

func contractID(ctx *cli.Context) meter.AccountID {
	id, err := meter.ParseAccountID(ctx.String(contractFlag.Name))
	if err != nil {
		fatal(fmt.Sprintf("invalid -%s: %v", contractFlag.Name, err))
	}
	return id
}

func makeDataDir(ctx *cli.Context) string {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		fatal(fmt.Sprintf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name))
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		fatal(fmt.Sprintf("create data dir [%v]: %v", dataDir, err))
	}
	return dataDir
}

// openMainDB opens the state store, redis if configured and leveldb under dataDir otherwise.
func openMainDB(ctx *cli.Context, dataDir string) (kv.Store, string) {
	if addr := ctx.String(redisAddrFlag.Name); addr != "" {
		db, err := redisdb.New(redisdb.Options{
			Addr:     addr,
			Password: ctx.String(redisPasswordFlag.Name),
			DB:       ctx.Int(redisDBFlag.Name),
			Prefix:   ctx.String(redisPrefixFlag.Name),
		})
		if err != nil {
			fatal(fmt.Sprintf("open redis [%v]: %v", addr, err))
		}
		return db, "redis://" + addr + "/" + ctx.String(redisPrefixFlag.Name)
	}

	if _, err := fdlimit.Raise(5120 * 4); err != nil {
		slog.Warn("failed to increase fd limit", "err", err)
	}
	limit, err := fdlimit.Current()
	if err != nil {
		fatal("failed to get fd limit:", err)
	}
	if limit <= 1024 {
		slog.Warn("low fd limit, increase it if possible", "limit", limit)
	} else {
		slog.Debug("fd limit", "limit", limit)
	}

	fileCache := limit / 2
	if fileCache > 1024 {
		fileCache = 1024
	}

	dir := filepath.Join(dataDir, "main.db")
	db, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: fileCache,
	})
	if err != nil {
		fatal(fmt.Sprintf("open state database [%v]: %v", dir, err))
	}
	return db, dir
}

func openLogDB(ctx *cli.Context, dataDir string) *logdb.LogDB {
	dir := filepath.Join(dataDir, "logs.db")
	db, err := logdb.New(dir)
	if err != nil {
		fatal(fmt.Sprintf("open log database [%v]: %v", dir, err))
	}
	return db
}

func newClock(ctx *cli.Context) clock.Clock {
	server := ctx.String(ntpServerFlag.Name)
	if server == "" {
		return clock.NewSystem()
	}
	c, err := clock.NewNTP(server)
	if err != nil {
		slog.Warn("ntp unavailable, using local clock", "server", server, "err", err)
		return clock.NewSystem()
	}
	return c
}

func startAPIServer(ctx *cli.Context, handler http.Handler) (string, func()) {
	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fatal(fmt.Sprintf("listen API addr [%v]: %v", addr, err))
	}

	timeout := ctx.Int(apiTimeoutFlag.Name)
	if timeout > 0 {
		handler = handleAPITimeout(handler, time.Duration(timeout)*time.Millisecond)
	}
	handler = handleXAuctionVersion(handler)
	handler = requestBodyLimit(handler)
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	var goes co.Goes
	goes.Go(func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			slog.Error("API service stopped", "err", err)
		}
	})
	return "http://" + listener.Addr().String() + "/", func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("could not shut down API service", "err", err)
		}
		goes.Wait()
	}
}

func printStartupMessage(
	contract meter.AccountID,
	height uint64,
	pending uint64,
	storeDesc string,
	logDB *logdb.LogDB,
	apiURL string,
	natsDesc string,
	dev bool,
) {
	fmt.Printf(`Starting %v
    Contract        [ %v ]
    Height          [ #%v ]
    Pending         [ %v transfers ]
    State store     [ %v ]
    Log database    [ %v (sqlite %v) ]
    API portal      [ %v ]
    NATS            [ %v ]
    Dev mode        [ %v ]
`,
		"meter-auction "+fullVersion(),
		contract,
		height,
		pending,
		storeDesc,
		logDB.Path(), logDB.DriverVersion(),
		apiURL,
		natsDesc,
		dev)
}
