// Package cmd holds the toupnode subcommands.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smazurov/touptek/internal/logging"
	"github.com/smazurov/touptek/pkg/toupcam"
)

// cameraFlags are shared by subcommands that talk to the SDK.
type cameraFlags struct {
	library string
	id      string
}

func (f *cameraFlags) register(cmd *cobra.Command, withID bool) {
	cmd.Flags().StringVar(&f.library, "library", "", "Path to libtoupcam (default: system search path)")
	if withID {
		cmd.Flags().StringVar(&f.id, "id", "", "Camera id from `toupnode list` (default: first camera)")
	}
}

func (f *cameraFlags) load() error {
	if f.library == "" {
		return nil
	}
	if err := toupcam.Load(f.library); err != nil {
		return fmt.Errorf("load %s: %w", f.library, err)
	}
	return nil
}

func (f *cameraFlags) open() (*toupcam.Camera, error) {
	if err := f.load(); err != nil {
		return nil, err
	}
	cam, err := toupcam.Open(f.id)
	if err != nil {
		return nil, fmt.Errorf("open camera %q: %w", f.id, err)
	}
	return cam, nil
}

// initLogging sets up quiet logging for one-shot commands.
func initLogging(verbose bool) {
	cfg := logging.Config{Level: "warn", Format: "text"}
	if verbose {
		cfg.Level = "debug"
	}
	logging.Initialize(cfg)
}
