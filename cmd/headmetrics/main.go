package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pkg/profile"

	"headmetrics/pkg/config"
	"headmetrics/pkg/measurement"
	"headmetrics/pkg/planes"
)

const defaultConfigFile = "headmetrics.yaml"

// options are the flags shared by every command.
type options struct {
	configFile string
	outputDir  string
	meshFile   string
	slicesDir  string
	profile    bool
	quiet      bool
}

func addCommonFlags(fs *flag.FlagSet) *options {
	o := &options{}
	fs.StringVar(&o.configFile, "config", defaultConfigFile, "Configuration file (YAML)")
	fs.StringVar(&o.outputDir, "output", "", "Output directory (overrides config)")
	fs.StringVar(&o.meshFile, "mesh", "", "Closed surface of the head (STL)")
	fs.StringVar(&o.slicesDir, "slices", "", "Directory containing segmentation mask slices")
	fs.BoolVar(&o.profile, "profile", false, "Write a CPU profile to the output directory")
	fs.BoolVar(&o.quiet, "quiet", false, "Suppress progress output")
	return o
}

// load reads the configuration and applies the command line overrides.
func (o *options) load() (*config.Config, error) {
	cfg, err := config.LoadConfig(o.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if o.outputDir != "" {
		cfg.Output.Dir = o.outputDir
	}
	if o.quiet {
		cfg.Output.Verbose = false
	}
	if o.meshFile == "" && o.slicesDir == "" {
		return nil, fmt.Errorf("either -mesh or -slices is required")
	}
	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return cfg, nil
}

// setFlags returns the names of the flags given on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

// startProfile starts CPU profiling into dir when enabled and returns the
// function that stops it.
func startProfile(enabled bool, dir string) func() {
	if !enabled {
		return func() {}
	}
	return profile.Start(profile.CPUProfile, profile.ProfilePath(dir)).Stop
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: headmetrics <command> [flags]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  circumference  find the horizontal slice with the largest head circumference\n")
	fmt.Fprintf(os.Stderr, "  bbox           compute the bounding box of the segment\n")
	fmt.Fprintf(os.Stderr, "  planes         measure the distance from a landmark plane to the top of the head\n")
	fmt.Fprintf(os.Stderr, "  init-config    write the default configuration file\n\n")
	fmt.Fprintf(os.Stderr, "Run 'headmetrics <command> -h' for command flags.\n")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "circumference":
		err = runCircumference(os.Args[2:])
	case "bbox":
		err = runBoundingBox(os.Args[2:])
	case "planes":
		err = runPlanes(os.Args[2:])
	case "init-config":
		err = runInitConfig(os.Args[2:])
	case "-h", "-help", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("%s failed: %v", os.Args[1], err)
	}
}

func banner(title string) {
	fmt.Println("================================")
	fmt.Println(title)
	fmt.Println("================================")
}

func newMeasurer(o *options, cfg *config.Config) *measurement.Measurer {
	return measurement.NewMeasurer(&measurement.Params{
		MeshFile:  o.meshFile,
		SlicesDir: o.slicesDir,
		Config:    cfg,
	})
}

func save(m *measurement.Measurer, cfg *config.Config) {
	if !cfg.Output.SaveScene {
		return
	}
	if err := m.SaveResults(cfg.Output.Dir); err != nil {
		log.Printf("Warning: Failed to save results: %v", err)
		return
	}
	fmt.Printf("\nResults saved to: %s\n", cfg.Output.Dir)
}

func runCircumference(args []string) error {
	fs := flag.NewFlagSet("circumference", flag.ExitOnError)
	o := addCommonFlags(fs)
	start := fs.Float64("start", 40, "First height percentage (overrides config)")
	end := fs.Float64("end", 100, "Last height percentage (overrides config)")
	step := fs.Float64("step", 1, "Percentage step (overrides config)")
	workers := fs.Int("workers", 0, "Number of worker goroutines (overrides config)")
	fs.Parse(args)

	cfg, err := o.load()
	if err != nil {
		return err
	}
	set := setFlags(fs)
	if set["start"] {
		cfg.Circumference.StartPercent = *start
	}
	if set["end"] {
		cfg.Circumference.EndPercent = *end
	}
	if set["step"] {
		cfg.Circumference.StepPercent = *step
	}
	if set["workers"] {
		cfg.Circumference.NumWorkers = *workers
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid sweep settings: %w", err)
	}
	defer startProfile(o.profile, cfg.Output.Dir)()

	banner("MAXIMUM HEAD CIRCUMFERENCE")
	c := cfg.Circumference
	fmt.Printf("Sweeping %.1f%% to %.1f%% of the head height in steps of %.1f%% (%d workers)\n",
		c.StartPercent, c.EndPercent, c.StepPercent, c.NumWorkers)

	m := newMeasurer(o, cfg)
	startTime := time.Now()
	report, err := m.Circumference()
	if err != nil {
		return fmt.Errorf("circumference search failed: %w", err)
	}
	elapsed := time.Since(startTime)

	fmt.Printf("\nSearch completed in %.2f seconds\n", elapsed.Seconds())
	fmt.Printf("Height range: %.2f mm to %.2f mm\n", report.HeightMin, report.HeightMax)
	if !report.Found {
		fmt.Println("No slice with a valid contour was found in the range.")
		return nil
	}

	fmt.Printf("Largest perimeter found: %.2f mm\n", report.Perimeter)
	fmt.Printf("At %.1f%% of the height (z = %.2f mm)\n", report.Percentage, report.Height)
	fmt.Printf("Contour width (X): %.2f mm\n", report.Width)
	fmt.Printf("Contour length (Y): %.2f mm\n", report.Length)
	fmt.Printf("Hull vertices: %d of %d slice points\n", len(report.Hull), len(report.Points))

	save(m, cfg)
	return nil
}

func runBoundingBox(args []string) error {
	fs := flag.NewFlagSet("bbox", flag.ExitOnError)
	o := addCommonFlags(fs)
	fs.Parse(args)

	cfg, err := o.load()
	if err != nil {
		return err
	}
	defer startProfile(o.profile, cfg.Output.Dir)()

	banner("SEGMENT BOUNDING BOX")
	m := newMeasurer(o, cfg)
	report, err := m.BoundingBox()
	if err != nil {
		return fmt.Errorf("bounding box failed: %w", err)
	}

	source := "mesh bounds"
	if report.FromVoxels {
		source = "voxel centres"
	}
	fmt.Printf("Computed from %s\n", source)
	fmt.Printf("Min: (%.2f, %.2f, %.2f)\n", report.Box.Min.X, report.Box.Min.Y, report.Box.Min.Z)
	fmt.Printf("Max: (%.2f, %.2f, %.2f)\n", report.Box.Max.X, report.Box.Max.Y, report.Box.Max.Z)
	fmt.Printf("Center: (%.2f, %.2f, %.2f)\n", report.Center.X, report.Center.Y, report.Center.Z)
	fmt.Printf("Size: %.2f x %.2f x %.2f mm\n", report.Size.X, report.Size.Y, report.Size.Z)

	save(m, cfg)
	return nil
}

func runPlanes(args []string) error {
	fs := flag.NewFlagSet("planes", flag.ExitOnError)
	o := addCommonFlags(fs)
	landmark := fs.String("landmark", "", "Landmark point as x,y,z (e.g. the tragion)")
	name := fs.String("name", "Tragion", "Landmark name")
	offset := fs.Float64("offset", 1.0, "Distance of the top plane above the head (overrides config)")
	fs.Parse(args)

	if *landmark == "" {
		fs.Usage()
		os.Exit(1)
	}
	point, err := planes.ParsePoint(*landmark)
	if err != nil {
		return fmt.Errorf("invalid landmark: %w", err)
	}

	cfg, err := o.load()
	if err != nil {
		return err
	}
	if setFlags(fs)["offset"] {
		cfg.Planes.Offset = *offset
	}
	defer startProfile(o.profile, cfg.Output.Dir)()

	banner("LANDMARK TO TOP OF HEAD DISTANCE")
	m := newMeasurer(o, cfg)
	report, err := m.PlaneDistance(*name, point)
	if err != nil {
		return fmt.Errorf("plane distance failed: %w", err)
	}

	fmt.Printf("%s plane: z = %.2f mm\n", report.Landmark.Name, report.Landmark.Z)
	fmt.Printf("Top of head plane: z = %.2f mm (offset %.2f mm)\n", report.Top.Z, cfg.Planes.Offset)
	fmt.Printf("Distance between planes: %.2f mm\n", report.Distance)

	save(m, cfg)
	return nil
}

func runInitConfig(args []string) error {
	fs := flag.NewFlagSet("init-config", flag.ExitOnError)
	path := fs.String("config", defaultConfigFile, "Configuration file to create")
	fs.Parse(args)

	if err := config.CreateDefaultConfigFile(*path); err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}
	fmt.Printf("Default configuration written to %s\n", *path)
	return nil
}
