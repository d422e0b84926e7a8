package game

import (
	"sync"

	"github.com/google/uuid"

	"voyager.com/bridgebot/bridge"
	"voyager.com/bridgebot/dds"
	"voyager.com/bridgebot/logging"
	"voyager.com/bridgebot/scoring"
)

var managerLogger = logging.GetZeroLogger("game::manager", nil)

// Manager owns the live table. The assistant follows one table per
// process; InitializeTable replaces any previous one. The table pointer
// is read from HTTP and websocket goroutines and cleared by the table
// loop, so it sits behind a mutex.
type Manager struct {
	lock            sync.Mutex
	activeTable     *Table
	solver          dds.Solver
	messageReceiver *TableMessageReceiver
}

func NewTableManager(messageReceiver TableMessageReceiver, solver dds.Solver) *Manager {
	return &Manager{
		solver:          solver,
		messageReceiver: &messageReceiver,
	}
}

// InitializeTable creates the table actor and starts its loop.
func (tm *Manager) InitializeTable(config TableConfig) *Table {
	bottomSeat, err := bridge.ParseSeat(config.BottomSeat)
	if err != nil {
		managerLogger.Warn().Msgf("Invalid bottom seat [%s], defaulting to South", config.BottomSeat)
		bottomSeat = bridge.South
	}

	table := &Table{
		tableID:         uuid.New().String(),
		config:          config,
		bottomSeat:      bottomSeat,
		manager:         tm,
		messageReceiver: tm.messageReceiver,
		recommender:     NewRecommender(tm.solver),
		rubber:          scoring.NewRubberState(),
		seenDeals:       make(map[string]bool),
		end:             make(chan bool),
		done:            make(chan struct{}),
		chEvent:         make(chan TableEvent, 16),
		chSolve:         make(chan solveResult, 4),
		chSnapshot:      make(chan chan TableSnapshot),
	}
	tm.lock.Lock()
	tm.activeTable = table
	tm.lock.Unlock()

	managerLogger.Info().
		Str(logging.SessionIDKey, table.tableID).
		Str(logging.SeatKey, bottomSeat.Name()).
		Msg("Table initialized")
	go table.runTable()
	return table
}

// Table returns the live table, or nil before InitializeTable.
func (tm *Manager) Table() *Table {
	tm.lock.Lock()
	defer tm.lock.Unlock()
	return tm.activeTable
}

func (tm *Manager) tableEnded(table *Table) {
	tm.lock.Lock()
	if tm.activeTable == table {
		tm.activeTable = nil
	}
	tm.lock.Unlock()
	managerLogger.Info().
		Str(logging.SessionIDKey, table.tableID).
		Msg("Table ended")
}
