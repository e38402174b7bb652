package maze

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Always produces 0, so rng.Intn always returns 0.
type zeroSource struct{}

func (zeroSource) Int63() int64 { return 0 }

func (zeroSource) Seed(int64) {}

func TestGenerateDeterministic(t *testing.T) {
	a, e := Generate(12, 9, 5, rand.New(rand.NewSource(1234)))
	require.NoError(t, e)
	b, e := Generate(12, 9, 5, rand.New(rand.NewSource(1234)))
	require.NoError(t, e)
	assert.Equal(t, a.String(), b.String())
	assert.Equal(t, a.Obstacles(), b.Obstacles())
}

func TestGenerateAdjacency(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		g, e := Generate(7, 5, 0, rand.New(rand.NewSource(seed)))
		require.NoError(t, e)
		for row := 0; row < g.Rows(); row++ {
			for col := 0; col < g.Cols(); col++ {
				c := Coord{Row: row, Col: col}
				for _, d := range neighborOrder {
					if g.HasWall(c, d) {
						continue
					}
					other := c.Step(d)
					require.True(t, g.InBounds(other),
						"seed %d: %s opens %s off the grid", seed, c, d)
					assert.False(t, g.HasWall(other, d.Opposite()),
						"seed %d: %s -> %s isn't mutual", seed, c, other)
				}
			}
			assert.True(t, g.HasWall(Coord{row, g.Cols() - 1}, Right))
		}
		for col := 0; col < g.Cols(); col++ {
			assert.True(t, g.HasWall(Coord{g.Rows() - 1, col}, Down))
		}
	}
}

func TestGenerateObstacles(t *testing.T) {
	t.Run("distinct count", func(t *testing.T) {
		for seed := int64(1); seed <= 20; seed++ {
			g, e := Generate(4, 4, 10, rand.New(rand.NewSource(seed)))
			require.NoError(t, e)
			assert.Len(t, g.Obstacles(), 10)
		}
		g, e := Generate(3, 3, 9, rand.New(rand.NewSource(3)))
		require.NoError(t, e)
		assert.Len(t, g.Obstacles(), 9)
	})

	t.Run("invalid count", func(t *testing.T) {
		_, e := Generate(3, 3, 10, rand.New(rand.NewSource(1)))
		assert.Error(t, e)
		_, e = Generate(3, 3, -1, rand.New(rand.NewSource(1)))
		assert.Error(t, e)
	})
}

func TestBorderSides(t *testing.T) {
	assert.Equal(t, []Side{Top, LeftSide}, BorderSides(5, 5, Coord{0, 0}))
	assert.Equal(t, []Side{Bottom, RightSide}, BorderSides(5, 5, Coord{4, 4}))
	assert.Equal(t, []Side{RightSide}, BorderSides(5, 5, Coord{2, 4}))
	assert.Empty(t, BorderSides(5, 5, Coord{2, 2}))
}

func isOnBorder(rows, cols int, c Coord) bool {
	return (c.Row == 0) || (c.Col == 0) || (c.Row == rows-1) ||
		(c.Col == cols-1)
}

func TestPickBorderSource(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 200; i++ {
		c, e := PickBorderSource(6, 8, rng)
		require.NoError(t, e)
		assert.Equal(t, 0, c.Col)
		assert.GreaterOrEqual(t, c.Row, 1)
		assert.LessOrEqual(t, c.Row, 4)
	}
	_, e := PickBorderSource(2, 8, rng)
	assert.Error(t, e)
}

func TestPickBorderDestination(t *testing.T) {
	t.Run("left source", func(t *testing.T) {
		rng := rand.New(rand.NewSource(5))
		for i := 0; i < 500; i++ {
			src, e := PickBorderSource(10, 7, rng)
			require.NoError(t, e)
			dst, e := PickBorderDestination(10, 7, src, rng)
			require.NoError(t, e)
			assert.NotEqual(t, src, dst)
			assert.True(t, isOnBorder(10, 7, dst), "%s not on border", dst)
			assert.NotEqual(t, 0, dst.Col, "%s on the source's side", dst)
		}
	})

	t.Run("corner source", func(t *testing.T) {
		rng := rand.New(rand.NewSource(6))
		src := Coord{0, 0}
		for i := 0; i < 200; i++ {
			dst, e := PickBorderDestination(5, 5, src, rng)
			require.NoError(t, e)
			assert.NotEqual(t, 0, dst.Row)
			assert.NotEqual(t, 0, dst.Col)
			assert.True(t, isOnBorder(5, 5, dst))
		}
	})

	t.Run("gives up", func(t *testing.T) {
		// Side 0 is the top, which the source is always on.
		rng := rand.New(zeroSource{})
		_, e := PickBorderDestination(5, 5, Coord{0, 2}, rng)
		assert.ErrorIs(t, e, ErrNoDestination)
	})

	t.Run("too small", func(t *testing.T) {
		_, e := PickBorderDestination(3, 2, Coord{1, 0},
			rand.New(rand.NewSource(1)))
		assert.Error(t, e)
	})
}

func TestNewEndpoints(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	for i := 0; i < 100; i++ {
		ep, e := NewEndpoints(20, 20, rng)
		require.NoError(t, e)
		assert.NotEqual(t, ep.Source, ep.Destination)
		assert.True(t, isOnBorder(20, 20, ep.Source))
		assert.True(t, isOnBorder(20, 20, ep.Destination))
	}
}

func TestNewRNG(t *testing.T) {
	_, seed := NewRNG(42)
	assert.Equal(t, int64(42), seed)
	_, seed = NewRNG(0)
	assert.Greater(t, seed, int64(0))
}
