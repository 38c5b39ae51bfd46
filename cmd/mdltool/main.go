// mdltool is a CLI utility for loading, inspecting, playing and exporting
// skeletal .mdl models.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/Faultbox/skelanim/internal/config"
	"github.com/Faultbox/skelanim/internal/engine/model"
	"github.com/Faultbox/skelanim/internal/engine/texture"
	"github.com/Faultbox/skelanim/internal/logger"
	"github.com/Faultbox/skelanim/pkg/formats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "dump":
		cmdDump(args)
	case "play":
		cmdPlay(args)
	case "export":
		cmdExport(args)
	case "check":
		cmdCheck(args)
	case "flight", "fly":
		cmdFlight(args)
	case "edit":
		cmdEdit(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`mdltool - skeletal model utility

Usage:
  mdltool <command> [options] [file.mdl]

Commands:
  info [file.mdl]             Show bones, meshes and animations
  dump [file.mdl]             Dump the parsed model description
  play [file.mdl]             Play an animation and print joint positions
  export [file.mdl]           Export the current pose as glTF
  check <file.mdl>...         Load many models and report failures
  flight [file.mdl]           Simulate a flock of animated clones
  edit [file.mdl]             Record frames of a playing animation to a file

Common options:
  -config <path>   Config file
  -data <dir>      Data directory for mesh and texture paths
  -debug           Enable debug logging

Examples:
  mdltool info data/model/bird.mdl
  mdltool play -slot 0 -ticks 120 bird.mdl
  mdltool export -o bird.glb bird.mdl
  mdltool edit -frames 8 -interval 100 -o flap.txt bird.mdl`)
}

// setup parses args for one subcommand, loads the config and starts logging.
// The returned flush must be deferred by the caller.
func setup(fs *flag.FlagSet, args []string) (*config.Config, func()) {
	flags := config.BindFlags(fs)
	fs.Parse(args)

	cfg, err := config.Load(flags)
	if err != nil {
		fatal(err)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fatal(err)
	}
	return cfg, logger.Sync
}

// modelPath returns the positional model argument or the configured default.
func modelPath(fs *flag.FlagSet, cfg *config.Config) string {
	if fs.NArg() > 0 {
		return fs.Arg(0)
	}
	return cfg.Data.Model
}

func newLoader(cfg *config.Config) (*model.Loader, *texture.Registry) {
	textures := texture.NewRegistry()
	return &model.Loader{DataDir: cfg.Data.Dir, Textures: textures}, textures
}

func loadModel(cfg *config.Config, path string) (*model.Model, *texture.Registry) {
	loader, textures := newLoader(cfg)
	m, err := loader.Load(path)
	if err != nil {
		fatal(err)
	}
	return m, textures
}

func fatal(err error) {
	logger.Sync()
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	cfg, flush := setup(fs, args)
	defer flush()

	path := modelPath(fs, cfg)
	m, textures := loadModel(cfg, path)
	defer m.Release()

	info := m.Info()
	fmt.Printf("Model:     %s (%s)\n", info.Name, path)
	fmt.Printf("Bones:     %d\n", info.Bones)
	fmt.Printf("Meshes:    %d (%d triangles)\n", info.Meshes, info.Triangles)
	if ti, ok := textures.Info(info.Texture); ok {
		fmt.Printf("Texture:   %s (%dx%d %s)\n", ti.Path, ti.Width, ti.Height, ti.Format)
	} else {
		fmt.Println("Texture:   none")
	}
	fmt.Printf("Slots:     %d\n", info.Slots)
	fmt.Println()

	fmt.Println("Bones:")
	parents := m.Parents()
	for i, b := range m.Bones() {
		depth := 0
		for p := parents[i]; p >= 0; p = parents[p] {
			depth++
		}
		geometry := "-"
		if b.Geometry != nil {
			geometry = fmt.Sprintf("%d tris", b.Geometry.Triangles())
		}
		fmt.Printf("  %-3d %s%-*s len=%-6.2f rot=%v %s\n",
			i, strings.Repeat("  ", depth), 16-2*depth, b.Name, b.Length, b.Rotation, geometry)
	}

	if len(info.Animations) > 0 {
		fmt.Println()
		fmt.Println("Animations:")
		for _, a := range info.Animations {
			fmt.Printf("  slot %-3d %3d frames  %6d ms\n", a.Slot, a.Frames, a.Duration)
		}
	}
}

func cmdDump(args []string) {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	cfg, flush := setup(fs, args)
	defer flush()

	decl, err := formats.LoadMDL(modelPath(fs, cfg))
	if err != nil {
		fatal(err)
	}

	dumper := spew.NewDefaultConfig()
	dumper.DisableCapacities = true
	dumper.DisablePointerAddresses = true
	dumper.Fdump(os.Stdout, decl)
}

func cmdCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	quiet := fs.Bool("q", false, "Only print failures")
	cfg, flush := setup(fs, args)
	defer flush()

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: mdltool check <file.mdl>...")
		os.Exit(1)
	}

	loader, _ := newLoader(cfg)
	bar := progressbar.Default(int64(fs.NArg()), "checking")

	type failure struct {
		path string
		err  error
	}
	var failures []failure
	bones := 0
	for _, path := range fs.Args() {
		m, err := loader.Load(path)
		if err != nil {
			failures = append(failures, failure{path, err})
		} else {
			bones += m.BoneCount()
			m.Release()
		}
		bar.Add(1)
	}
	bar.Finish()
	fmt.Println()

	for _, f := range failures {
		fmt.Printf("FAIL %s: %v\n", f.path, f.err)
	}
	if !*quiet {
		fmt.Printf("%d models, %d failed, %d bones loaded\n", fs.NArg(), len(failures), bones)
	}
	logger.Info("check finished",
		zap.Int("models", fs.NArg()),
		zap.Int("failed", len(failures)))
	if len(failures) > 0 {
		logger.Sync()
		os.Exit(1)
	}
}
