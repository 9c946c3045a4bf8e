package sim

import (
	"log"
	"math/rand"

	"github.com/luisgurmendez/the-fall-of-the-last-tower/logging"
)

// Deps carries shared infrastructure dependencies required by the simulation engine.
type Deps struct {
	Logger  *log.Logger
	Metrics *logging.Metrics
	Clock   logging.Clock
	RNG     *rand.Rand
	// Events receives structured domain telemetry (combat, rewards, status
	// effects, lifecycle, tick budget). Nil drops every event; every
	// publish call site is nil-safe.
	Events logging.Publisher
}
