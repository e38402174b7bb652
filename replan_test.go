package maze

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Records every attempt it observes.
type attemptLog struct {
	outcomes []Outcome
}

func (l *attemptLog) ObserveAttempt(a *Attempt) {
	l.outcomes = append(l.outcomes, a.Outcome)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		ok     bool
	}{
		{"default", func(c *Config) {}, true},
		{"smallest", func(c *Config) { c.Rows, c.Cols = 3, 3 }, true},
		{"too few rows", func(c *Config) { c.Rows = 2 }, false},
		{"too few cols", func(c *Config) { c.Cols = 1 }, false},
		{"negative obstacles", func(c *Config) { c.InitialObstacles = -1 }, false},
		{"too many obstacles", func(c *Config) { c.InitialObstacles = 401 }, false},
		{"negative replan", func(c *Config) { c.ReplanObstacles = -2 }, false},
		{"negative attempts", func(c *Config) { c.MaxAttempts = -1 }, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := DefaultConfig()
			test.modify(&c)
			if test.ok {
				assert.NoError(t, c.Validate())
			} else {
				assert.Error(t, c.Validate())
			}
		})
	}
}

func TestPlaceObstaclesAlongPath(t *testing.T) {
	path := Path{{1, 0}, {0, 0}, {0, 1}, {0, 2}, {1, 2}}

	t.Run("interior only", func(t *testing.T) {
		for seed := int64(1); seed <= 50; seed++ {
			g := fullGrid(t, 3, 3)
			placed, e := PlaceObstaclesAlongPath(g, path, 2,
				rand.New(rand.NewSource(seed)))
			require.NoError(t, e)
			assert.LessOrEqual(t, len(placed), 2)
			assert.NotEmpty(t, placed)
			for _, c := range placed {
				assert.Contains(t, path.Interior(), c)
				assert.True(t, g.IsObstacle(c))
			}
			assert.False(t, g.IsObstacle(path[0]))
			assert.False(t, g.IsObstacle(path[len(path)-1]))
			assert.ElementsMatch(t, placed, g.Obstacles())
		}
	})

	t.Run("already blocked", func(t *testing.T) {
		g := fullGrid(t, 3, 3)
		for _, c := range path.Interior() {
			require.NoError(t, g.SetObstacle(c, true))
		}
		placed, e := PlaceObstaclesAlongPath(g, path, 2,
			rand.New(rand.NewSource(1)))
		require.NoError(t, e)
		assert.Empty(t, placed)
	})

	t.Run("no interior", func(t *testing.T) {
		g := fullGrid(t, 3, 3)
		placed, e := PlaceObstaclesAlongPath(g, Path{{1, 0}, {1, 1}}, 2,
			rand.New(rand.NewSource(1)))
		require.NoError(t, e)
		assert.Empty(t, placed)
		assert.Empty(t, g.Obstacles())
	})
}

func TestAttemptOnce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rows, cfg.Cols = 10, 10
	counts := make(map[Outcome]int)
	for seed := int64(1); seed <= 300; seed++ {
		a, e := AttemptOnce(cfg, rand.New(rand.NewSource(seed)))
		require.NoError(t, e)
		counts[a.Outcome]++
		require.NotNil(t, a.Grid)
		src, dst := a.Endpoints.Source, a.Endpoints.Destination
		assert.NotEqual(t, src, dst)
		switch a.Outcome {
		case OutcomeSuccess:
			assert.Equal(t, StageDone, a.Stage)
			assert.Len(t, a.Placed, cfg.ReplanObstacles)
			for _, c := range a.Placed {
				assert.NotEqual(t, src, c)
				assert.NotEqual(t, dst, c)
				assert.Contains(t, a.FirstPath, c)
				assert.False(t, a.SecondPath.Contains(c))
			}
			assert.ElementsMatch(t, a.Grid.Obstacles(), a.Obstacles)
			requireValidPath(t, a.Grid, a.SecondPath, src, dst)
			assert.Equal(t, a.FirstPath[0], src)
			assert.Equal(t, a.FirstPath[len(a.FirstPath)-1], dst)
		case OutcomeUnreachable:
			assert.Nil(t, a.SecondPath)
			if a.Stage == StageFirstSearch {
				assert.Nil(t, a.FirstPath)
			} else {
				assert.Equal(t, StageReplan, a.Stage)
				assert.NotNil(t, a.FirstPath)
				assert.Len(t, a.Placed, cfg.ReplanObstacles)
			}
		case OutcomeObstaclePlacementFailed:
			assert.Equal(t, StagePlaceObstacles, a.Stage)
			assert.Less(t, len(a.Placed), cfg.ReplanObstacles)
			assert.Nil(t, a.SecondPath)
		}
	}
	assert.Greater(t, counts[OutcomeSuccess], 0)
	assert.Greater(t, counts[OutcomeUnreachable], 0)
}

func TestAttemptOnceDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	a, e := AttemptOnce(cfg, rand.New(rand.NewSource(77)))
	require.NoError(t, e)
	b, e := AttemptOnce(cfg, rand.New(rand.NewSource(77)))
	require.NoError(t, e)
	assert.Equal(t, a.Outcome, b.Outcome)
	assert.Equal(t, a.Endpoints, b.Endpoints)
	assert.Equal(t, a.FirstPath, b.FirstPath)
	assert.Equal(t, a.SecondPath, b.SecondPath)
	assert.Equal(t, a.Grid.String(), b.Grid.String())
}

func TestAttemptOnceInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rows = 1
	_, e := AttemptOnce(cfg, rand.New(rand.NewSource(1)))
	assert.Error(t, e)
}

func TestPlannerRun(t *testing.T) {
	t.Run("eventually succeeds", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Rows, cfg.Cols = 8, 8
		observed := &attemptLog{}
		p, e := NewPlanner(cfg, rand.New(rand.NewSource(3)),
			WithObserver(observed))
		require.NoError(t, e)
		assert.NotEmpty(t, p.RunID())
		a, attempts, e := p.Run()
		require.NoError(t, e)
		assert.Equal(t, OutcomeSuccess, a.Outcome)
		require.Len(t, observed.outcomes, attempts)
		for _, o := range observed.outcomes[:attempts-1] {
			assert.NotEqual(t, OutcomeSuccess, o)
		}
		assert.Equal(t, OutcomeSuccess, observed.outcomes[attempts-1])
		requireValidPath(t, a.Grid, a.SecondPath, a.Endpoints.Source,
			a.Endpoints.Destination)
	})

	t.Run("gives up", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Rows, cfg.Cols = 4, 4
		// A path in a 4x4 grid can't have 100 interior cells.
		cfg.ReplanObstacles = 100
		cfg.MaxAttempts = 3
		observed := &attemptLog{}
		p, e := NewPlanner(cfg, rand.New(rand.NewSource(3)),
			WithObserver(observed), WithLogger(nil))
		require.NoError(t, e)
		a, attempts, e := p.Run()
		assert.ErrorIs(t, e, ErrTooManyAttempts)
		assert.Equal(t, 3, attempts)
		assert.Len(t, observed.outcomes, 3)
		assert.NotEqual(t, OutcomeSuccess, a.Outcome)
	})

	t.Run("invalid", func(t *testing.T) {
		_, e := NewPlanner(Config{}, rand.New(rand.NewSource(1)))
		assert.Error(t, e)
		_, e = NewPlanner(DefaultConfig(), nil)
		assert.Error(t, e)
	})
}
