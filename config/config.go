// Package config loads the controller's timing constants from TOML,
// with built-in defaults embedded in the binary, mirroring how the
// surrounding example ecosystem configures disk-drive timing and
// geometry tables rather than hardcoding them.
package config

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/go-retro/fd1797/fdc"
)

//go:embed default.toml
var defaultConfig string

type timingFile struct {
	Timing struct {
		CommandAcceptUs  int `toml:"command_accept_us"`
		StepMs           int `toml:"step_ms"`
		IndexOverrideMs  int `toml:"index_override_ms"`
		DiskRevolutionMs int `toml:"disk_revolution_ms"`
	} `toml:"timing"`
}

// Default returns the built-in timing configuration.
func Default() (fdc.Timing, error) {
	var tf timingFile
	if _, err := toml.Decode(defaultConfig, &tf); err != nil {
		return fdc.Timing{}, fmt.Errorf("config: decode embedded default: %w", err)
	}
	return timingFromFile(tf), nil
}

// Load reads timing configuration from a TOML file on disk. Any value
// left unset in the file falls back to the built-in default for that
// field rather than zero.
func Load(path string) (fdc.Timing, error) {
	t, err := Default()
	if err != nil {
		return t, err
	}
	var tf timingFile
	if _, err := toml.DecodeFile(path, &tf); err != nil {
		return fdc.Timing{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if tf.Timing.CommandAcceptUs > 0 {
		t.CommandAccept = time.Duration(tf.Timing.CommandAcceptUs) * time.Microsecond
	}
	if tf.Timing.StepMs > 0 {
		t.StepTime = time.Duration(tf.Timing.StepMs) * time.Millisecond
	}
	if tf.Timing.IndexOverrideMs > 0 {
		t.IndexOverride = time.Duration(tf.Timing.IndexOverrideMs) * time.Millisecond
	}
	if tf.Timing.DiskRevolutionMs > 0 {
		t.DiskRevolution = time.Duration(tf.Timing.DiskRevolutionMs) * time.Millisecond
	}
	return t, nil
}

func timingFromFile(tf timingFile) fdc.Timing {
	return fdc.Timing{
		CommandAccept:  time.Duration(tf.Timing.CommandAcceptUs) * time.Microsecond,
		StepTime:       time.Duration(tf.Timing.StepMs) * time.Millisecond,
		IndexOverride:  time.Duration(tf.Timing.IndexOverrideMs) * time.Millisecond,
		DiskRevolution: time.Duration(tf.Timing.DiskRevolutionMs) * time.Millisecond,
	}
}
