package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	switch c.Quiz.Direction {
	case DirectionSourceToTarget, DirectionTargetToSource:
	default:
		return fmt.Errorf("quiz.direction must be %q or %q (got %q)",
			DirectionSourceToTarget, DirectionTargetToSource, c.Quiz.Direction)
	}

	if c.Quiz.Distractors < 0 {
		return fmt.Errorf("quiz.distractors must be >= 0 (got %d)", c.Quiz.Distractors)
	}
	if c.Quiz.Distractors > 9 {
		return fmt.Errorf("quiz.distractors must fit a reply keyboard (got %d, max 9)", c.Quiz.Distractors)
	}

	if c.Telegram.PollTimeout <= 0 {
		return fmt.Errorf("telegram.poll_timeout must be > 0 (got %d)", c.Telegram.PollTimeout)
	}

	if c.Database.MaxConns < c.Database.MinConns {
		return fmt.Errorf("database.max_conns (%d) must be >= database.min_conns (%d)",
			c.Database.MaxConns, c.Database.MinConns)
	}

	return nil
}
