package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
)

// CreateEEPROMCmd creates the eeprom command.
func CreateEEPROMCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eeprom",
		Short: "Access the camera EEPROM",
	}
	cmd.AddCommand(createEEPROMReadCmd())
	return cmd
}

func createEEPROMReadCmd() *cobra.Command {
	var flags cameraFlags
	var addr uint32
	var length int
	var raw bool

	cmd := &cobra.Command{
		Use:   "read",
		Short: "Read bytes from the camera EEPROM",
		Long:  `Reads --length bytes starting at --addr and prints a hex dump.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			initLogging(false)
			if length <= 0 {
				return fmt.Errorf("length must be positive, got %d", length)
			}

			cam, err := flags.open()
			if err != nil {
				return err
			}
			defer cam.Close()

			buf := make([]byte, length)
			n, err := cam.ReadEEPROM(addr, buf)
			if err != nil {
				return fmt.Errorf("read eeprom at 0x%x: %w", addr, err)
			}
			if raw {
				_, err = cmd.OutOrStdout().Write(buf[:n])
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), hex.Dump(buf[:n]))
			return err
		},
	}

	flags.register(cmd, true)
	cmd.Flags().Uint32Var(&addr, "addr", 0, "Start address")
	cmd.Flags().IntVar(&length, "length", 256, "Number of bytes")
	cmd.Flags().BoolVar(&raw, "raw", false, "Write raw bytes instead of a hex dump")
	return cmd
}
