package main

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Faultbox/skelanim/internal/config"
	"github.com/Faultbox/skelanim/internal/editor"
	"github.com/Faultbox/skelanim/internal/engine/export"
	"github.com/Faultbox/skelanim/internal/engine/model"
	"github.com/Faultbox/skelanim/internal/flight"
)

// tickMs returns the simulated frame time.
func tickMs(cfg *config.Config) int64 {
	if cfg.Animation.TickMs <= 0 {
		return 16
	}
	return int64(cfg.Animation.TickMs)
}

func cmdPlay(args []string) {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	slot := fs.Int("slot", 0, "Animation slot to play")
	ticks := fs.Int("ticks", 60, "Number of simulated frames")
	every := fs.Int("every", 10, "Print joints every N frames")
	cfg, flush := setup(fs, args)
	defer flush()

	m, _ := loadModel(cfg, modelPath(fs, cfg))
	defer m.Release()

	if err := m.StartAnimation(*slot, int64(cfg.Animation.StartDelayMs)); err != nil {
		fatal(err)
	}

	tick := tickMs(cfg)
	if *every <= 0 {
		*every = 1
	}

	for i := 0; i <= *ticks; i++ {
		now := int64(i) * tick
		m.Animate(now)
		if i%*every != 0 {
			continue
		}
		pb := m.Playback()
		fmt.Printf("t=%-6d frames %d->%d a=%.3f\n", now, pb.PrevIndex, pb.NextIndex, m.Factor(now))
		for _, j := range m.Joints() {
			fmt.Printf("  %-16s (%7.2f %7.2f %7.2f) -> (%7.2f %7.2f %7.2f)\n",
				j.Name, j.Start.X, j.Start.Y, j.Start.Z, j.End.X, j.End.Y, j.End.Z)
		}
	}
}

func cmdExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	output := fs.String("o", "", "Output file (default: model name + .glb or .gltf)")
	slot := fs.Int("slot", model.NoAnimation, "Pose the model at this animation slot first")
	at := fs.Int64("at", 0, "Animation time in ms for -slot")
	jsonOut := fs.Bool("json", false, "Write .gltf JSON instead of binary")
	cfg, flush := setup(fs, args)
	defer flush()

	path := modelPath(fs, cfg)
	m, _ := loadModel(cfg, path)
	defer m.Release()

	if *slot != model.NoAnimation {
		if err := m.StartAnimation(*slot, 0); err != nil {
			fatal(err)
		}
		m.Animate(*at)
	}

	doc, err := export.Document(m)
	if err != nil {
		fatal(err)
	}

	binary := cfg.Export.Binary && !*jsonOut
	out := *output
	if out == "" {
		ext := ".glb"
		if !binary {
			ext = ".gltf"
		}
		out = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ext
	}
	if err := export.Save(out, doc, binary); err != nil {
		fatal(err)
	}
	fmt.Printf("Exported %d nodes, %d meshes to %s\n", len(doc.Nodes), len(doc.Meshes), out)
}

func cmdFlight(args []string) {
	fs := flag.NewFlagSet("flight", flag.ExitOnError)
	birds := fs.Int("birds", 8, "Number of birds")
	ticks := fs.Int("ticks", 300, "Number of simulated frames")
	cfg, flush := setup(fs, args)
	defer flush()

	base, _ := loadModel(cfg, modelPath(fs, cfg))
	defer base.Release()

	flock := flight.NewFlock(base, flight.Options{
		WorldSize: cfg.Flight.WorldSize,
		MaxBirds:  cfg.Flight.MaxBirds,
		Seed:      cfg.Flight.Seed,
	})
	defer flock.Release()

	for i := 0; i < *birds; i++ {
		if _, err := flock.Add(0); err != nil {
			fatal(err)
		}
	}

	tick := tickMs(cfg)
	for i := 0; i <= *ticks; i++ {
		flock.Update(int64(i) * tick)
	}

	fmt.Printf("%d birds after %d ms\n", flock.Len(), int64(*ticks)*tick)
	for i, p := range flock.Patterns() {
		pose := p.Model.Pose
		fmt.Printf("  %-3d pos=(%7.2f %7.2f %7.2f) heading=%7.2f angle=%6.2f radius=%6.2f speed=%6.2f\n",
			i, pose[model.PoseX], pose[model.PoseY], pose[model.PoseZ], pose[model.PoseRY],
			p.Angle, p.Radius, p.Speed)
	}
}

func cmdEdit(args []string) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	slot := fs.Int("slot", 0, "Animation slot to sample")
	frames := fs.Int("frames", 8, "Number of frames to record")
	interval := fs.Int("interval", 0, "Milliseconds between recorded frames (default: config)")
	output := fs.String("o", "", "Output file (default: config)")
	cfg, flush := setup(fs, args)
	defer flush()

	m, _ := loadModel(cfg, modelPath(fs, cfg))
	defer m.Release()

	session, err := editor.NewSession(m)
	if err != nil {
		fatal(err)
	}
	step := *interval
	if step == 0 {
		step = cfg.Editor.FrameIntervalMs
	}
	if err := session.SetInterval(step); err != nil {
		fatal(err)
	}
	session.SetStep(cfg.Editor.RotateStep)

	if err := m.StartAnimation(*slot, 0); err != nil {
		fatal(err)
	}
	for i := 0; i < *frames; i++ {
		session.Update(int64(i * step))
		session.AddFrame()
		fmt.Println(session.Status())
	}

	out := *output
	if out == "" {
		out = cfg.Editor.Output
	}
	if err := session.SaveFile(out); err != nil {
		fatal(err)
	}
	fmt.Printf("Saved %d frames to %s\n", session.Len(), out)
}
