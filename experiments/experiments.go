package experiments

import (
	"context"
	"fmt"
	"time"

	"boardgame/engine"
	"boardgame/experiments/metrics"
	"boardgame/game"
	"boardgame/searcher"
	"boardgame/searcher/agent"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	NumGames   = 30 // Per match up
	TimeBudget = 10 * time.Millisecond
)

// Experiment is a set of match-ups between agent configurations.
type Experiment struct {
	Name     string
	Games    int // Per match up; the first agent moves first in even games
	MaxMoves int
	Parallel int // Games of one match up played at once
	Configs  []metrics.AgentConfig
	MatchUps [][2]metrics.AgentConfig
}

type Results struct {
	Games []metrics.GameRecord
	Moves []metrics.MoveRecord
}

func (e Experiment) Validate() error {
	if e.Games <= 0 {
		return fmt.Errorf("experiment %s: games must be positive", e.Name)
	}
	for _, config := range e.Configs {
		if err := config.Validate(); err != nil {
			return fmt.Errorf("experiment %s: %w", e.Name, err)
		}
	}
	return nil
}

var parallelConfigs = []metrics.AgentConfig{
	{ID: 1, Algorithm: metrics.MCTS, Goroutines: 1, Duration: TimeBudget},
	{ID: 2, Algorithm: metrics.MCTS, Goroutines: 2, Duration: TimeBudget},
	{ID: 3, Algorithm: metrics.MCTS, Goroutines: 4, Duration: TimeBudget},
	{ID: 4, Algorithm: metrics.MCTS, Goroutines: 8, Duration: TimeBudget},
	{ID: 5, Algorithm: metrics.MCTS, Goroutines: 16, Duration: TimeBudget},
}

// Parallelization pairs each parallel agent against the sequential baseline.
func Parallelization(games int) Experiment {
	baseline := metrics.AgentConfig{ID: 0, Algorithm: metrics.MCTS, Goroutines: 1, Duration: TimeBudget}
	matchUps := [][2]metrics.AgentConfig{}
	for _, config := range parallelConfigs {
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, config})
	}
	return Experiment{
		Name:     "parallelization",
		Games:    games,
		Configs:  append([]metrics.AgentConfig{baseline}, parallelConfigs...),
		MatchUps: matchUps,
	}
}

// Cutoff pairs full-playout MCTS against agents that stop rollouts early.
func Cutoff(games, goroutines int) Experiment {
	baseline := metrics.AgentConfig{ID: 0, Algorithm: metrics.MCTS, Goroutines: goroutines, Duration: TimeBudget}
	cutoffConfigs := []metrics.AgentConfig{
		{ID: 1, Algorithm: metrics.MCTS, Goroutines: goroutines, Duration: TimeBudget, Cutoff: 2},
		{ID: 2, Algorithm: metrics.MCTS, Goroutines: goroutines, Duration: TimeBudget, Cutoff: 5},
		{ID: 3, Algorithm: metrics.MCTS, Goroutines: goroutines, Duration: TimeBudget, Cutoff: 10},
	}
	matchUps := [][2]metrics.AgentConfig{}
	for _, config := range cutoffConfigs {
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, config})
	}
	return Experiment{
		Name:     "cutoff",
		Games:    games,
		Configs:  append([]metrics.AgentConfig{baseline}, cutoffConfigs...),
		MatchUps: matchUps,
	}
}

// Algorithms plays MCTS, alpha-beta and random agents against each other.
func Algorithms(games, goroutines, depth int) Experiment {
	configs := []metrics.AgentConfig{
		{ID: 0, Algorithm: metrics.Random},
		{ID: 1, Algorithm: metrics.MCTS, Goroutines: goroutines, Duration: TimeBudget},
		{ID: 2, Algorithm: metrics.AlphaBeta, Depth: depth},
	}
	return Experiment{
		Name:    "algorithms",
		Games:   games,
		Configs: configs,
		MatchUps: [][2]metrics.AgentConfig{
			{configs[1], configs[0]},
			{configs[2], configs[0]},
			{configs[1], configs[2]},
		},
	}
}

// Run plays every match up of e from positions returned by start.
func Run[P game.ExtendedPosition[P, M, R, H, N], M comparable, R any, H comparable, N any](ctx context.Context, start func() P, e Experiment) (Results, error) {
	if err := e.Validate(); err != nil {
		return Results{}, err
	}

	log.Info().Msgf("starting %s experiment...", e.Name)

	var results Results
	for mi, matchUp := range e.MatchUps {
		log.Info().Msgf("starting matchup %d of %d between agent%d=%+v and agent%d=%+v...",
			mi+1, len(e.MatchUps), matchUp[0].ID, matchUp[0], matchUp[1].ID, matchUp[1])

		records := make([]engine.Record[M], e.Games)
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(max(e.Parallel, 1))
		for i := 0; i < e.Games; i++ {
			white, black := orient(matchUp, i)
			g.Go(func() error {
				record, err := runGame[P, M, R, H, N](gctx, start(), white, black, e.MaxMoves, uint64(mi*e.Games+i))
				if err != nil {
					return fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
				}
				records[i] = record
				log.Info().Msgf("completed matchup %d of %d game %d with result: %s", mi+1, len(e.MatchUps), i+1, record.GameMetric.Result)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return results, err
		}

		for i, record := range records {
			white, black := orient(matchUp, i)
			index := len(results.Games) + 1
			results.Games = append(results.Games, metrics.GameRecord{
				Index:      index,
				White:      white.ID,
				Black:      black.ID,
				GameMetric: record.GameMetric,
			})
			for _, mm := range record.MoveMetrics {
				results.Moves = append(results.Moves, metrics.MoveRecord{Game: index, MoveMetric: mm})
			}
		}
		log.Info().Msgf("completed matchup %d of %d", mi+1, len(e.MatchUps))
	}

	log.Info().Msgf("completed %s experiment", e.Name)
	return results, nil
}

// Save stores the agent configs and results of e under root.
func Save(root string, e Experiment, results Results) (string, error) {
	writer, err := metrics.NewWriter(root, e.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err = writer.WriteAgentConfigs(e.Configs); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	if err = writer.WriteGameRecords(results.Games); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err = writer.WriteMoveRecords(results.Moves); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")
	return writer.Dir(), nil
}

// orient alternates the starting agent between games.
func orient(matchUp [2]metrics.AgentConfig, i int) (white, black metrics.AgentConfig) {
	if i%2 == 0 {
		return matchUp[0], matchUp[1]
	}
	return matchUp[1], matchUp[0]
}

// runGame executes a single game between two fresh agents.
func runGame[P game.ExtendedPosition[P, M, R, H, N], M comparable, R any, H comparable, N any](ctx context.Context, start P, white, black metrics.AgentConfig, maxMoves int, seed uint64) (engine.Record[M], error) {
	e := engine.LocalEngine[P, M, R](start,
		NewAgent[P, M, R, H, N](white, seed*2),
		NewAgent[P, M, R, H, N](black, seed*2+1),
		maxMoves)
	return e.Run(ctx)
}

// NewAgent builds the agent described by config. config must be valid.
func NewAgent[P game.ExtendedPosition[P, M, R, H, N], M comparable, R any, H comparable, N any](config metrics.AgentConfig, seed uint64) agent.Agent[P, M] {
	switch config.Algorithm {
	case metrics.MCTS:
		return agent.NewEvaluationAgent(createMCTS[P, M, R](config, seed))
	case metrics.AlphaBeta:
		return agent.NewAlphaBetaAgent(createAlphaBeta[P, M, R, H, N](config))
	default:
		return agent.NewRandomAgent[P, M, R](seed)
	}
}

func createMCTS[P game.EvalPosition[P, M, R], M comparable, R any](config metrics.AgentConfig, seed uint64) *searcher.MCTS[P, M, R] {
	options := []searcher.Option{searcher.WithSeed(seed)}

	if config.Episodes > 0 {
		options = append(options, searcher.WithEpisodes(config.Episodes))
	}
	if config.Duration > 0 {
		options = append(options, searcher.WithDuration(config.Duration))
	}
	if config.Cutoff > 0 {
		options = append(options, searcher.WithCutoff(config.Cutoff))
	}

	options = append(options, searcher.WithMetrics())
	return searcher.NewMCTS[P, M, R](config.Goroutines, options...)
}

func createAlphaBeta[P game.ExtendedPosition[P, M, R, H, N], M comparable, R any, H comparable, N any](config metrics.AgentConfig) *searcher.AlphaBeta[P, M, R, H, N] {
	options := []searcher.AlphaBetaOption{searcher.WithSearchMetrics()}

	if config.Depth > 0 {
		options = append(options, searcher.WithDepth(config.Depth))
	}
	if config.Nodes > 0 {
		options = append(options, searcher.WithNodes(config.Nodes))
	}
	return searcher.NewAlphaBeta[P, M, R, H, N](options...)
}
