package config

import "flag"

// Flags holds the command-line overrides shared by every subcommand.
type Flags struct {
	config *string
	debug  *bool
	data   *string
	model  *string
	seed   *int64
}

// BindFlags registers the shared flags on fs.
func BindFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		config: fs.String("config", "", "Path to config file"),
		debug:  fs.Bool("debug", false, "Enable debug logging"),
		data:   fs.String("data", "", "Data directory for mesh and texture paths"),
		model:  fs.String("model", "", "Model file"),
		seed:   fs.Int64("seed", 0, "Random seed for flight mode"),
	}
}

// ConfigPath returns the explicit config path if provided via -config.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return *f.config
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if *f.debug {
		cfg.Logging.Level = "debug"
	}
	if *f.data != "" {
		cfg.Data.Dir = *f.data
	}
	if *f.model != "" {
		cfg.Data.Model = *f.model
	}
	if *f.seed != 0 {
		cfg.Flight.Seed = *f.seed
	}
}
