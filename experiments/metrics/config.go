package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	MCTS      = "mcts"
	AlphaBeta = "alphabeta"
	Random    = "random"
)

var validate = validator.New()

// AgentConfig describes one agent taking part in an experiment.
type AgentConfig struct {
	ID         int           `validate:"gte=0"`
	Algorithm  string        `validate:"oneof=mcts alphabeta random"`
	Goroutines int           `validate:"gte=0,lte=1024"`
	Duration   time.Duration `validate:"gte=0"`
	Episodes   int           `validate:"gte=0"`
	Cutoff     int           `validate:"gte=0"`
	Depth      int           `validate:"gte=0"`
	Nodes      int           `validate:"gte=0"`
}

func (c AgentConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid agent config %d: %w", c.ID, err)
	}
	if c.Algorithm == MCTS && c.Episodes == 0 && c.Duration == 0 {
		return fmt.Errorf("invalid agent config %d: %w", c.ID, errors.New("mcts needs episodes or a duration"))
	}
	return nil
}
