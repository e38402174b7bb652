package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	maze "github.com/yalue/replan_maze"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.ObserveAttempt(&maze.Attempt{Outcome: maze.OutcomeUnreachable})
	r.ObserveAttempt(&maze.Attempt{
		Outcome:   maze.OutcomeObstaclePlacementFailed,
		FirstPath: maze.Path{{Row: 1, Col: 0}, {Row: 1, Col: 1}},
	})
	r.ObserveAttempt(&maze.Attempt{
		Outcome:    maze.OutcomeSuccess,
		FirstPath:  maze.Path{{Row: 1, Col: 0}, {Row: 1, Col: 1}, {Row: 1, Col: 2}},
		SecondPath: maze.Path{{Row: 1, Col: 0}, {Row: 0, Col: 0}, {Row: 0, Col: 1}},
		Placed:     []maze.Coord{{Row: 1, Col: 1}},
	})

	families, err := r.Registry().Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"maze_attempts_total",
		"maze_path_length",
		"maze_obstacles_placed_total",
	}, names)

	path := filepath.Join(t.TempDir(), "maze.prom")
	require.NoError(t, r.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `maze_attempts_total{outcome="success"} 1`)
	assert.Contains(t, text, `maze_attempts_total{outcome="unreachable"} 1`)
	assert.Contains(t, text, `maze_attempts_total{outcome="obstacle_placement_failed"} 1`)
	assert.Contains(t, text, `maze_path_length_count{search="first"} 2`)
	assert.Contains(t, text, `maze_path_length_count{search="replan"} 1`)
	assert.Contains(t, text, "maze_obstacles_placed_total 1")
}

func TestWriteTextfileError(t *testing.T) {
	r := NewRecorder()
	err := r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "maze.prom"))
	assert.Error(t, err)
}
