package util

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var environmentLogger = log.With().Str("logger_name", "util::environment").Logger()

type bridgeBotEnvironment struct {
	NatsURL       string
	ListenPort    string
	WSListenPort  string
	SolverURL     string
	SolverTimeout string
	LogLevel      string
	TableConfig   string
	DisableSolver string
	BottomSeat    string
}

// Env is a helper object for accessing environment variables.
var Env = &bridgeBotEnvironment{
	NatsURL:       "NATS_URL",
	ListenPort:    "LISTEN_PORT",
	WSListenPort:  "WS_LISTEN_PORT",
	SolverURL:     "SOLVER_URL",
	SolverTimeout: "SOLVER_TIMEOUT",
	LogLevel:      "LOG_LEVEL",
	TableConfig:   "TABLE_CONFIG",
	DisableSolver: "DISABLE_SOLVER",
	BottomSeat:    "BOTTOM_SEAT",
}

func (e *bridgeBotEnvironment) GetNatsURL() string {
	url := os.Getenv(e.NatsURL)
	if url == "" {
		return "nats://localhost:4222"
	}
	return url
}

func (e *bridgeBotEnvironment) GetListenPort() int {
	return e.getPort(e.ListenPort, 8080)
}

func (e *bridgeBotEnvironment) GetWSListenPort() int {
	return e.getPort(e.WSListenPort, 8675)
}

func (e *bridgeBotEnvironment) getPort(name string, defaultPort int) int {
	s := os.Getenv(name)
	if s == "" {
		return defaultPort
	}
	port, err := strconv.Atoi(s)
	if err != nil {
		msg := fmt.Sprintf("Invalid integer [%s] for %s", s, name)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return port
}

func (e *bridgeBotEnvironment) GetSolverURL() string {
	return os.Getenv(e.SolverURL)
}

// GetSolverTimeoutMillis bounds a single double-dummy solve call.
func (e *bridgeBotEnvironment) GetSolverTimeoutMillis() int {
	s := os.Getenv(e.SolverTimeout)
	if s == "" {
		return 3000
	}
	millis, err := strconv.Atoi(s)
	if err != nil {
		msg := fmt.Sprintf("Invalid integer [%s] for solver timeout value", s)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return millis
}

func (e *bridgeBotEnvironment) GetDisableSolver() string {
	v := os.Getenv(e.DisableSolver)
	if v == "" {
		return "false"
	}
	return v
}

func (e *bridgeBotEnvironment) ShouldDisableSolver() bool {
	return e.GetDisableSolver() == "1" || strings.ToLower(e.GetDisableSolver()) == "true"
}

func (e *bridgeBotEnvironment) GetBottomSeat() string {
	v := os.Getenv(e.BottomSeat)
	if v == "" {
		return "S"
	}
	return v
}

func (e *bridgeBotEnvironment) GetTableConfigFile() string {
	return os.Getenv(e.TableConfig)
}

func (e *bridgeBotEnvironment) GetZeroLogLogLevel() zerolog.Level {
	l := os.Getenv(e.LogLevel)
	switch strings.ToLower(l) {
	case "":
		return zerolog.InfoLevel
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	default:
		msg := fmt.Sprintf("Unsupported log level [%s]", l)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
}
