package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the controller's register file and status/external-status bytes",
	Run: func(cmd *cobra.Command, args []string) {
		status, _ := sess.fdc.ReadPort(0x84)
		track, _ := sess.fdc.ReadPort(0x85)
		sector, _ := sess.fdc.ReadPort(0x86)
		data, _ := sess.fdc.ReadPort(0x87)
		ext, _ := sess.fdc.ReadPort(0xE8)
		fmt.Printf("status=%#02x track=%#02x sector=%#02x data=%#02x external=%#02x lastReadAddress=%d\n",
			status, track, sector, data, ext, sess.fdc.LastReadAddress())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
