// Package toupcam provides pure Go bindings to the ToupTek camera SDK
// (libtoupcam) for camera enumeration, property control and pull-mode capture.
//
// This package does not use cgo. The vendor library is opened at runtime with
// purego, so the module cross-compiles for every supported architecture and
// builds on machines without the SDK installed.
//
// # Enumeration
//
// Use Enumerate to discover connected cameras:
//
//	cams, err := toupcam.Enumerate()
//	for _, c := range cams {
//	    fmt.Printf("%s (%s): %s\n", c.DisplayName, c.ID, c.Model.Name)
//	}
//
// # Capture
//
// Open a camera and run a pull-mode capture loop. Start blocks until the body
// returns, then stops the camera:
//
//	cam, err := toupcam.Open("") // "" opens the first camera
//	if err != nil {
//	    return err
//	}
//	defer cam.Close()
//
//	err = cam.Start(func(events <-chan toupcam.Event) error {
//	    for ev := range events {
//	        if ev != toupcam.EventImage {
//	            continue
//	        }
//	        img, err := cam.PullImage(32)
//	        if err != nil {
//	            return err
//	        }
//	        fmt.Printf("frame %dx%d\n", img.Resolution.Width, img.Resolution.Height)
//	        return nil
//	    }
//	    return nil
//	})
//
// # Errors
//
// Every native result code other than S_OK and S_FALSE is returned as an
// *OpError carrying the symbol name and the HRESULT. Nothing is retried.
//
//	if errors.Is(err, toupcam.EInvalidArg) {
//	    // value outside the range reported by ExposureTimeRange
//	}
package toupcam

import "log/slog"

func logger() *slog.Logger {
	return slog.Default().With("component", "toupcam")
}
