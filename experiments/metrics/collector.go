package metrics

import (
	"sync/atomic"
	"time"

	"boardgame/game"
)

type SearchMetric struct {
	Algorithm    string
	Goroutines   int
	Duration     time.Duration
	Episodes     int
	Cutoff       int
	FullPlayouts int
	Nodes        int
	TableHits    int
	Depth        int
	IsTreeReset  bool
}

type MoveMetric struct {
	Step   int
	Player game.Color
	SearchMetric
}

type GameMetric struct {
	ID             string // uuid
	StartingPlayer game.Color
	Result         string // game.GameResult, or "Undecided" when the move limit hit first
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

// Collector gathers statistics while a searcher runs. Methods other than
// Start and Complete may be called from several goroutines.
type Collector interface {
	Start(algorithm string, goroutines, cutoff int)
	SetTreeReset(value bool)
	SetDepth(depth int)
	AddFullPlayout()
	AddEpisode()
	AddNodes(n int)
	AddTableHit()
	Complete() SearchMetric
}

type collector struct {
	algorithm    string
	goroutines   int
	cutoff       int
	startTime    time.Time
	episodes     atomic.Int64
	fullPlayouts atomic.Int64
	nodes        atomic.Int64
	tableHits    atomic.Int64
	depth        atomic.Int64
	isTreeReset  atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(algorithm string, goroutines, cutoff int) {
	m.startTime = time.Now()
	m.algorithm = algorithm
	m.goroutines = goroutines
	m.cutoff = cutoff
	m.episodes.Store(0)
	m.fullPlayouts.Store(0)
	m.nodes.Store(0)
	m.tableHits.Store(0)
	m.depth.Store(0)
}

func (m *collector) SetTreeReset(value bool) {
	m.isTreeReset.Store(value)
}

func (m *collector) SetDepth(depth int) {
	m.depth.Store(int64(depth))
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) AddNodes(n int) {
	m.nodes.Add(int64(n))
}

func (m *collector) AddTableHit() {
	m.tableHits.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Algorithm:    m.algorithm,
		Goroutines:   m.goroutines,
		Duration:     time.Since(m.startTime),
		Episodes:     int(m.episodes.Load()),
		Cutoff:       m.cutoff,
		FullPlayouts: int(m.fullPlayouts.Load()),
		Nodes:        int(m.nodes.Load()),
		TableHits:    int(m.tableHits.Load()),
		Depth:        int(m.depth.Load()),
		IsTreeReset:  m.isTreeReset.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(algorithm string, goroutines, cutoff int) {}
func (m *dummyCollector) SetTreeReset(value bool)                        {}
func (m *dummyCollector) SetDepth(depth int)                             {}
func (m *dummyCollector) AddFullPlayout()                                {}
func (m *dummyCollector) AddEpisode()                                    {}
func (m *dummyCollector) AddNodes(n int)                                 {}
func (m *dummyCollector) AddTableHit()                                   {}
func (m *dummyCollector) Complete() SearchMetric                         { return SearchMetric{} }
