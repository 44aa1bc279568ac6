package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smazurov/touptek/internal/capture"
	"github.com/smazurov/touptek/internal/config"
	"github.com/smazurov/touptek/pkg/toupcam"
)

var errNoFrame = errors.New("no frame received")

// CreateCaptureCmd creates the capture command.
func CreateCaptureCmd() *cobra.Command {
	var flags cameraFlags
	var output, profile string
	var bits int
	var timeout time.Duration
	var verbose bool

	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Capture one frame to a file",
		Long: `Opens a camera, applies an optional settings profile, waits for the first frame and ` +
			`writes it as PNG or JPEG depending on the output file extension.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			initLogging(verbose)

			var settings config.CameraSettings
			if profile != "" {
				s, err := config.LoadCameraSettings(profile)
				if err != nil {
					return err
				}
				settings = s
			}

			cam, err := flags.open()
			if err != nil {
				return err
			}
			defer cam.Close()

			if err := settings.Apply(cam, false); err != nil {
				return err
			}

			img, err := grabFrame(cam, bits, timeout)
			if err != nil {
				return err
			}
			out, err := capture.ToImage(img)
			if err != nil {
				return err
			}
			if err := capture.Save(out, output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s, %d bits)\n", output, img.Resolution, img.Bits)
			return nil
		},
	}

	flags.register(cmd, true)
	cmd.Flags().StringVarP(&output, "output", "o", "frame.png", "Output file (.png or .jpg)")
	cmd.Flags().IntVar(&bits, "bits", 24, "Pull depth: 8, 24, 32 or 48")
	cmd.Flags().StringVar(&profile, "profile", "", "Camera settings TOML file with a [camera] table")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "How long to wait for a frame")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	return cmd
}

// grabFrame starts a session and pulls the first image.
func grabFrame(cam *toupcam.Camera, bits int, timeout time.Duration) (*toupcam.Image, error) {
	var img *toupcam.Image
	deadline := time.After(timeout)
	err := cam.Start(func(evs <-chan toupcam.Event) error {
		for {
			select {
			case <-deadline:
				return fmt.Errorf("%w within %s", errNoFrame, timeout)
			case ev := <-evs:
				switch ev {
				case toupcam.EventImage:
					var err error
					img, err = cam.PullImage(bits)
					return err
				case toupcam.EventError, toupcam.EventDisconnected:
					return fmt.Errorf("camera reported %s", ev)
				}
			}
		}
	})
	return img, err
}
