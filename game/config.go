package game

import (
	"fmt"
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"voyager.com/bridgebot/util"
)

// SolverConfig drives the live double-dummy oracle client.
type SolverConfig struct {
	URL           string `yaml:"url"`
	TimeoutMillis uint32 `yaml:"timeoutMillis"`
	CacheSize     int    `yaml:"cacheSize"`
	Disable       bool   `yaml:"disable"`
}

// TableConfig is the per-session table setup loaded at start.
type TableConfig struct {
	// Seat drawn at the bottom of the dashboard; the assisted player.
	BottomSeat string       `yaml:"bottomSeat"`
	Solver     SolverConfig `yaml:"solver"`
}

// DefaultTableConfig builds a config from the environment, used when no
// config file is given.
func DefaultTableConfig() TableConfig {
	return TableConfig{
		BottomSeat: util.Env.GetBottomSeat(),
		Solver: SolverConfig{
			URL:           util.Env.GetSolverURL(),
			TimeoutMillis: uint32(util.Env.GetSolverTimeoutMillis()),
			CacheSize:     256,
			Disable:       util.Env.ShouldDisableSolver(),
		},
	}
}

func ParseTableConfig(configFile string) (TableConfig, error) {
	bytes, err := ioutil.ReadFile(configFile)
	if err != nil {
		return TableConfig{}, errors.Wrap(err, fmt.Sprintf("Error reading table config file [%s]", configFile))
	}

	data := DefaultTableConfig()
	err = yaml.Unmarshal(bytes, &data)
	if err != nil {
		return TableConfig{}, errors.Wrap(err, fmt.Sprintf("Error parsing table config YAML file [%s]", configFile))
	}

	return data, nil
}
