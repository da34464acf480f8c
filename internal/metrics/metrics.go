package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mutex       sync.RWMutex
	selections  map[int]int64
	failures    map[int]int64
	statusCodes map[int]map[int]int64
	saturated   int64
	storeErrors int64
	startTime   time.Time
}

type Snapshot struct {
	TotalSelections     int64                  `json:"total_selections"`
	SaturatedSelections int64                  `json:"saturated_selections"`
	StoreErrors         int64                  `json:"store_errors"`
	Uptime              time.Duration          `json:"uptime"`
	Accounts            map[int]AccountMetrics `json:"accounts"`
}

type AccountMetrics struct {
	Selections  int64         `json:"selections"`
	Failures    int64         `json:"failures"`
	StatusCodes map[int]int64 `json:"status_codes"`
}

func (m *Metrics) RecordSelection(accountID int, saturated bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.selections[accountID]++
	if saturated {
		m.saturated++
	}
}

func (m *Metrics) RecordFailure(accountID int, statusCode int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.failures[accountID]++

	if m.statusCodes[accountID] == nil {
		m.statusCodes[accountID] = make(map[int]int64)
	}
	m.statusCodes[accountID][statusCode]++
}

func (m *Metrics) RecordStoreError() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.storeErrors++
}

func (m *Metrics) Snapshot() Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		SaturatedSelections: m.saturated,
		StoreErrors:         m.storeErrors,
		Uptime:              time.Since(m.startTime),
		Accounts:            make(map[int]AccountMetrics),
	}

	allAccounts := make(map[int]bool)
	for id := range m.selections {
		allAccounts[id] = true
	}
	for id := range m.failures {
		allAccounts[id] = true
	}

	for id := range allAccounts {
		snap.TotalSelections += m.selections[id]

		// Copy the inner map: the collector goroutine keeps writing it after
		// the snapshot leaves the lock.
		var codes map[int]int64
		if len(m.statusCodes[id]) > 0 {
			codes = make(map[int]int64, len(m.statusCodes[id]))
			for code, count := range m.statusCodes[id] {
				codes[code] = count
			}
		}

		snap.Accounts[id] = AccountMetrics{
			Selections:  m.selections[id],
			Failures:    m.failures[id],
			StatusCodes: codes,
		}
	}

	return snap
}

func NewMetrics() *Metrics {
	return &Metrics{
		selections:  make(map[int]int64),
		failures:    make(map[int]int64),
		statusCodes: make(map[int]map[int]int64),
		startTime:   time.Now(),
	}
}
