// This defines a basic executable for generating a maze, finding a path
// through it, replanning around obstacles placed along that path, and saving
// an image of the result.
package main

import (
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	maze "github.com/yalue/replan_maze"
	"github.com/yalue/replan_maze/internal/config"
	"github.com/yalue/replan_maze/internal/logging"
	"github.com/yalue/replan_maze/internal/metrics"
)

// Holds the values of the command-line flags.
type options struct {
	configFile       string
	rows             int
	cols             int
	initialObstacles int
	replanObstacles  int
	maxAttempts      int
	randomSeed       int64
	outFilename      string
	metricsFilename  string
	verbose          bool
}

func newRootCommand() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "create_maze_image",
		Short: "Generates a maze and replans a path around new obstacles",
		Long: `Generates random mazes until one has a path between two border
cells, places obstacles along that path, and finds a second path around them.
Both paths are printed and optionally drawn to a PNG image.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, &opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.configFile, "config", "",
		"An optional path to a YAML config file.")
	f.IntVar(&opts.rows, "rows", 20, "The height of the maze, in grid cells.")
	f.IntVar(&opts.cols, "cols", 20, "The width of the maze, in grid cells.")
	f.IntVar(&opts.initialObstacles, "initial_obstacles", 0,
		"The number of random obstacles placed in each new maze.")
	f.IntVar(&opts.replanObstacles, "replan_obstacles", 2,
		"The number of obstacles placed along the first path.")
	f.IntVar(&opts.maxAttempts, "max_attempts", 0,
		"The number of mazes to try before giving up. 0 = no limit.")
	f.Int64Var(&opts.randomSeed, "random_seed", -1,
		"If positive, specifies the random seed to use.")
	f.StringVar(&opts.outFilename, "output_file", "",
		"The name of the .png file to which the maze will be saved.")
	f.StringVar(&opts.metricsFilename, "metrics_file", "",
		"If set, Prometheus metrics for the run are written to this file.")
	f.BoolVarP(&opts.verbose, "verbose", "v", false,
		"If set, logs every attempt.")
	return cmd
}

// Returns the config from the file and environment, overridden by any flags
// that were set explicitly.
func loadConfig(cmd *cobra.Command, opts *options,
	logger *slog.Logger) (config.Config, error) {
	cfg, e := config.Load(opts.configFile, logger)
	if e != nil {
		return cfg, e
	}
	f := cmd.Flags()
	if f.Changed("rows") {
		cfg.Rows = opts.rows
	}
	if f.Changed("cols") {
		cfg.Cols = opts.cols
	}
	if f.Changed("initial_obstacles") {
		cfg.InitialObstacles = opts.initialObstacles
	}
	if f.Changed("replan_obstacles") {
		cfg.ReplanObstacles = opts.replanObstacles
	}
	if f.Changed("max_attempts") {
		cfg.MaxAttempts = opts.maxAttempts
	}
	if f.Changed("random_seed") {
		cfg.RandomSeed = opts.randomSeed
	}
	return cfg, cfg.Validate()
}

func printReport(w io.Writer, cfg config.Config, a *maze.Attempt,
	attempts int) {
	fmt.Fprintf(w, "\nStart Point: %s\n", a.Endpoints.Source)
	fmt.Fprintf(w, "End Point: %s\n", a.Endpoints.Destination)
	fmt.Fprintf(w, "\nNumber of rows: %d\n", cfg.Rows)
	fmt.Fprintf(w, "Number of Columns: %d\n", cfg.Cols)
	fmt.Fprintf(w, "Number of Obstacles: %d\n", len(a.Obstacles))
	fmt.Fprintf(w, "Number of Attempts: %d\n", attempts)
	fmt.Fprintf(w, "Shortest Path (Original): %s\n", a.FirstPath)
	fmt.Fprintf(w, "Shortest Path (Avoiding Obstacles): %s\n", a.SecondPath)
	fmt.Fprintf(w, "\n%s", a.Grid)
}

func writeImage(filename string, a *maze.Attempt) error {
	pic, e := maze.RenderScene(a.Grid, a.Scene())
	if e != nil {
		return fmt.Errorf("Error drawing maze: %w", e)
	}
	f, e := os.Create(filename)
	if e != nil {
		return fmt.Errorf("Error creating output file %s: %w", filename, e)
	}
	defer f.Close()
	e = png.Encode(f, pic)
	if e != nil {
		return fmt.Errorf("Error writing image to %s: %w", filename, e)
	}
	return nil
}

func run(cmd *cobra.Command, opts *options) error {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelInfo
	}
	logger := logging.New(level)
	cfg, e := loadConfig(cmd, opts, logger)
	if e != nil {
		return fmt.Errorf("Invalid configuration: %w", e)
	}
	rng, seed := maze.NewRNG(cfg.RandomSeed)
	recorder := metrics.NewRecorder()
	planner, e := maze.NewPlanner(cfg.Maze(), rng, maze.WithLogger(logger),
		maze.WithObserver(recorder))
	if e != nil {
		return e
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Generating %dx%d mazes with random seed %d.\n",
		cfg.Rows, cfg.Cols, seed)
	a, attempts, runErr := planner.Run()
	if opts.metricsFilename != "" {
		if e = recorder.WriteTextfile(opts.metricsFilename); e != nil {
			logger.Error("Failed writing metrics", "error", e)
		}
	}
	if runErr != nil {
		return runErr
	}
	printReport(out, cfg, &a, attempts)
	if opts.outFilename == "" {
		return nil
	}
	if e = writeImage(opts.outFilename, &a); e != nil {
		return e
	}
	fmt.Fprintf(out, "Image %s written OK.\n", opts.outFilename)
	return nil
}

func main() {
	if e := newRootCommand().Execute(); e != nil {
		os.Exit(1)
	}
}
