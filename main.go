package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"voyager.com/bridgebot/dds"
	"voyager.com/bridgebot/game"
	"voyager.com/bridgebot/logging"
	"voyager.com/bridgebot/nats"
	"voyager.com/bridgebot/rest"
	"voyager.com/bridgebot/util"
	"voyager.com/bridgebot/util/simulation"
	"voyager.com/bridgebot/ws"
)

var runServer *bool
var tableConfigFile *string
var testDeal *bool
var numDeals *uint
var mainLogger = logging.GetZeroLogger("main::main", nil)

func init() {
	runServer = flag.Bool("server", true, "runs bridge assistant server")
	tableConfigFile = flag.String("table-config", "", "YAML file containing table configuration")
	testDeal = flag.Bool("test-deal", false, "deals random hands and prints HCP statistics")
	numDeals = flag.Uint("num-deals", 100000, "number of test deals when -test-deal is set")
}

func main() {
	err := run()
	if err != nil {
		mainLogger.Error().Msg(err.Error())
		os.Exit(1)
	}
}

func run() error {
	logLevel := util.Env.GetZeroLogLogLevel()
	fmt.Printf("Setting log level to %s\n", logLevel)
	zerolog.SetGlobalLevel(logLevel)
	flag.Parse()
	if *testDeal {
		return simulation.Run(int(*numDeals))
	}
	if !*runServer {
		return nil
	}

	config := game.DefaultTableConfig()
	if *tableConfigFile == "" {
		*tableConfigFile = util.Env.GetTableConfigFile()
	}
	if *tableConfigFile != "" {
		var err error
		config, err = game.ParseTableConfig(*tableConfigFile)
		if err != nil {
			return errors.Wrap(err, "Error while parsing table config")
		}
	}

	return runAssistant(config)
}

func buildSolver(config game.TableConfig) dds.Solver {
	if config.Solver.Disable || config.Solver.URL == "" {
		mainLogger.Warn().Msg("Live solver disabled; recommendations fall back to heuristics")
		return nil
	}
	timeout := time.Duration(config.Solver.TimeoutMillis) * time.Millisecond
	var solver dds.Solver = dds.NewHTTPSolver(config.Solver.URL, timeout)
	if config.Solver.CacheSize > 0 {
		cached, err := dds.NewCachingSolver(solver, config.Solver.CacheSize)
		if err != nil {
			mainLogger.Warn().Msgf("Solver cache disabled: %v", err)
			return solver
		}
		solver = cached
	}
	return solver
}

func runAssistant(config game.TableConfig) error {
	natsURL := util.Env.GetNatsURL()
	mainLogger.Info().Msgf("NATS URL: %s", natsURL)

	nc, err := nats.Connect(natsURL)
	if err != nil {
		return errors.Wrap(err, "Error connecting to NATS server")
	}

	natsTable := nats.NewNatsTable(nc)
	manager := game.NewTableManager(natsTable, buildSolver(config))
	table := manager.InitializeTable(config)
	if err := natsTable.AttachTable(table, table.TableID()); err != nil {
		return errors.Wrap(err, "Error attaching table to NATS")
	}

	// run rest server
	go rest.RunRestServer(manager, util.Env.GetListenPort())

	// run websocket ingestion
	wsServer := ws.NewServer(manager, util.Env.GetWSListenPort())
	return wsServer.Serve()
}
