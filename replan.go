package maze

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/google/uuid"
	"github.com/yalue/replan_maze/internal/logging"
)

// Returned (wrapped) by Planner.Run when the attempt limit is reached without
// a successful attempt.
var ErrTooManyAttempts = errors.New("too many attempts")

// Parameters for generating and replanning a single maze.
type Config struct {
	Rows int
	Cols int
	// The number of random obstacles placed when the grid is generated.
	InitialObstacles int
	// The number of obstacles placed along the first path before replanning.
	ReplanObstacles int
	// The number of attempts Planner.Run makes before giving up. Zero means
	// no limit.
	MaxAttempts int
}

func DefaultConfig() Config {
	return Config{
		Rows:             20,
		Cols:             20,
		InitialObstacles: 0,
		ReplanObstacles:  2,
		MaxAttempts:      0,
	}
}

// Returns an error if a maze can't be attempted with the config.
func (c *Config) Validate() error {
	if e := checkBorderSize(c.Rows, c.Cols); e != nil {
		return e
	}
	if c.InitialObstacles < 0 {
		return fmt.Errorf("Invalid initial obstacle count: %d",
			c.InitialObstacles)
	}
	if c.InitialObstacles > (c.Rows * c.Cols) {
		return fmt.Errorf("%d initial obstacles don't fit in a %dx%d grid",
			c.InitialObstacles, c.Rows, c.Cols)
	}
	if c.ReplanObstacles < 0 {
		return fmt.Errorf("Invalid replan obstacle count: %d",
			c.ReplanObstacles)
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("Invalid max attempt count: %d", c.MaxAttempts)
	}
	return nil
}

// Describes how a single attempt ended.
type Outcome uint8

const (
	OutcomeSuccess Outcome = iota
	// One of the two searches found no path.
	OutcomeUnreachable
	// Fewer obstacles than requested could be placed along the first path.
	OutcomeObstaclePlacementFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeUnreachable:
		return "unreachable"
	case OutcomeObstaclePlacementFailed:
		return "obstacle_placement_failed"
	}
	return fmt.Sprintf("Unknown outcome: %d", uint8(o))
}

// The point an attempt reached before it ended.
type Stage uint8

const (
	StageFirstSearch Stage = iota
	StagePlaceObstacles
	StageReplan
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageFirstSearch:
		return "first_search"
	case StagePlaceObstacles:
		return "place_obstacles"
	case StageReplan:
		return "replan"
	case StageDone:
		return "done"
	}
	return fmt.Sprintf("Unknown stage: %d", uint8(s))
}

// The result of a single AttemptOnce call. Only an attempt with
// OutcomeSuccess has both paths set; failed attempts keep whatever was
// produced before the failure.
type Attempt struct {
	Outcome   Outcome
	Stage     Stage
	Grid      *Grid
	Endpoints Endpoints
	// The path found before any obstacles were placed along it.
	FirstPath Path
	// The path found after placing obstacles.
	SecondPath Path
	// The obstacles placed along FirstPath.
	Placed []Coord
	// Every obstacle on the grid, including the initial random ones.
	Obstacles []Coord
}

// Returns the drawing inputs for the attempt.
func (a *Attempt) Scene() Scene {
	return Scene{
		FirstPath:  a.FirstPath,
		SecondPath: a.SecondPath,
		Endpoints:  a.Endpoints,
		Obstacles:  a.Obstacles,
	}
}

// Marks up to k random interior cells of the path as obstacles, returning the
// cells that were marked. k cells are drawn, with replacement, and cells that
// are already obstacles are skipped, so fewer than k may be placed. The first
// and last cells of the path are never marked.
func PlaceObstaclesAlongPath(g *Grid, path Path, k int,
	rng *rand.Rand) ([]Coord, error) {
	interior := path.Interior()
	if (len(interior) == 0) || (k <= 0) {
		return nil, nil
	}
	toReturn := make([]Coord, 0, k)
	for i := 0; i < k; i++ {
		c := interior[rng.Intn(len(interior))]
		if g.IsObstacle(c) {
			continue
		}
		if e := g.SetObstacle(c, true); e != nil {
			return nil, fmt.Errorf("Error placing obstacle: %w", e)
		}
		toReturn = append(toReturn, c)
	}
	return toReturn, nil
}

// Generates a new maze and endpoints, searches for a path, places
// cfg.ReplanObstacles obstacles along it, and searches again. Failing to find
// either path or to place every obstacle is reported using the Outcome, not as
// an error. Errors are only returned for an invalid config or an internal
// error.
func AttemptOnce(cfg Config, rng *rand.Rand) (Attempt, error) {
	if e := cfg.Validate(); e != nil {
		return Attempt{}, fmt.Errorf("Invalid config: %w", e)
	}
	g, e := Generate(cfg.Rows, cfg.Cols, cfg.InitialObstacles, rng)
	if e != nil {
		return Attempt{}, fmt.Errorf("Error generating maze: %w", e)
	}
	endpoints, e := NewEndpoints(cfg.Rows, cfg.Cols, rng)
	if e != nil {
		return Attempt{}, fmt.Errorf("Error picking endpoints: %w", e)
	}
	toReturn := Attempt{
		Outcome:   OutcomeUnreachable,
		Stage:     StageFirstSearch,
		Grid:      g,
		Endpoints: endpoints,
	}
	finder := NewPathFinder(g)
	first, e := finder.Search(endpoints.Source, endpoints.Destination)
	if e != nil {
		return Attempt{}, fmt.Errorf("Error finding first path: %w", e)
	}
	if !first.Found {
		toReturn.Obstacles = g.Obstacles()
		return toReturn, nil
	}
	toReturn.FirstPath = first.Path

	toReturn.Stage = StagePlaceObstacles
	placed, e := PlaceObstaclesAlongPath(g, first.Path, cfg.ReplanObstacles,
		rng)
	if e != nil {
		return Attempt{}, e
	}
	toReturn.Placed = placed
	toReturn.Obstacles = g.Obstacles()
	if len(placed) != cfg.ReplanObstacles {
		toReturn.Outcome = OutcomeObstaclePlacementFailed
		return toReturn, nil
	}

	toReturn.Stage = StageReplan
	second, e := finder.Search(endpoints.Source, endpoints.Destination)
	if e != nil {
		return Attempt{}, fmt.Errorf("Error finding second path: %w", e)
	}
	if !second.Found {
		return toReturn, nil
	}
	toReturn.SecondPath = second.Path
	toReturn.Stage = StageDone
	toReturn.Outcome = OutcomeSuccess
	return toReturn, nil
}

// Receives every attempt made by a Planner, successful or not.
type Observer interface {
	ObserveAttempt(a *Attempt)
}

// Repeatedly attempts mazes until one succeeds. Create using NewPlanner.
type Planner struct {
	cfg      Config
	rng      *rand.Rand
	logger   *slog.Logger
	observer Observer
	runID    string
}

// Changes optional Planner settings.
type PlannerOption func(*Planner)

// Sets the logger for reporting attempts. By default nothing is logged.
func WithLogger(logger *slog.Logger) PlannerOption {
	return func(p *Planner) { p.logger = logger }
}

// Sets an observer to be notified of each attempt.
func WithObserver(o Observer) PlannerOption {
	return func(p *Planner) { p.observer = o }
}

func NewPlanner(cfg Config, rng *rand.Rand, opts ...PlannerOption) (*Planner,
	error) {
	if e := cfg.Validate(); e != nil {
		return nil, fmt.Errorf("Invalid config: %w", e)
	}
	if rng == nil {
		return nil, fmt.Errorf("A random source is required")
	}
	toReturn := &Planner{
		cfg:    cfg,
		rng:    rng,
		logger: logging.NewNop(),
		runID:  uuid.NewString(),
	}
	for _, o := range opts {
		o(toReturn)
	}
	if toReturn.logger == nil {
		toReturn.logger = logging.NewNop()
	}
	toReturn.logger = toReturn.logger.With("run_id", toReturn.runID)
	return toReturn, nil
}

// Returns the identifier attached to this planner's log messages.
func (p *Planner) RunID() string {
	return p.runID
}

// Calls AttemptOnce, generating a brand new maze every time, until an attempt
// succeeds. Returns the successful attempt and the number of attempts made.
// If cfg.MaxAttempts is positive and that many attempts fail, the last failed
// attempt is returned along with an error wrapping ErrTooManyAttempts.
func (p *Planner) Run() (Attempt, int, error) {
	attempts := 0
	for {
		attempts++
		p.logger.Info("Generating a new maze", "attempt", attempts,
			"rows", p.cfg.Rows, "cols", p.cfg.Cols)
		a, e := AttemptOnce(p.cfg, p.rng)
		if e != nil {
			return Attempt{}, attempts, e
		}
		if p.observer != nil {
			p.observer.ObserveAttempt(&a)
		}
		if a.Outcome == OutcomeSuccess {
			p.logger.Info("Found both paths", "attempt", attempts,
				"first_length", a.FirstPath.Len(),
				"second_length", a.SecondPath.Len())
			return a, attempts, nil
		}
		p.logFailure(attempts, &a)
		if (p.cfg.MaxAttempts > 0) && (attempts >= p.cfg.MaxAttempts) {
			return a, attempts, fmt.Errorf("Gave up after %d attempts: %w",
				attempts, ErrTooManyAttempts)
		}
	}
}

func (p *Planner) logFailure(attempt int, a *Attempt) {
	switch {
	case a.Outcome == OutcomeObstaclePlacementFailed:
		p.logger.Warn("Failed to add obstacles along the path",
			"attempt", attempt, "placed", len(a.Placed),
			"requested", p.cfg.ReplanObstacles)
	case a.Stage == StageReplan:
		p.logger.Warn("No path found after adding obstacles",
			"attempt", attempt, "source", a.Endpoints.Source.String(),
			"destination", a.Endpoints.Destination.String())
	default:
		p.logger.Warn("No path found from start to end", "attempt", attempt,
			"source", a.Endpoints.Source.String(),
			"destination", a.Endpoints.Destination.String())
	}
}
