package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var writeSectorNum int
var writePatternHex string

var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Issue WRITE SECTOR for the given sector, filling it with a repeated byte pattern",
	Run: func(cmd *cobra.Command, args []string) {
		var pattern byte
		if _, err := fmt.Sscanf(writePatternHex, "%x", &pattern); err != nil {
			cobra.CheckErr(fmt.Errorf("invalid --pattern %q: %w", writePatternHex, err))
		}

		sector, err := sess.disk.GetSector(sess.drv.Track(), 0, writeSectorNum-1)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("sector not formatted: %w", err))
		}
		data := make([]byte, len(sector.Data()))
		for i := range data {
			data[i] = pattern
		}

		if err := sess.fdc.WritePort(0x86, byte(writeSectorNum)); err != nil {
			cobra.CheckErr(err)
		}
		if err := sess.fdc.WritePort(0x84, 0xA0); err != nil {
			cobra.CheckErr(err)
		}
		sess.clock.Advance(sess.fdcStepTime())

		if err := sess.dma.PollWrite(data); err != nil {
			cobra.CheckErr(err)
		}
		if err := sess.dma.Finish(); err != nil {
			cobra.CheckErr(err)
		}
		fmt.Printf("wrote %d bytes of %#02x\n", len(data), pattern)
	},
}

func init() {
	writeCmd.Flags().IntVar(&writeSectorNum, "sector", 1, "sector number to write (one-based)")
	writeCmd.Flags().StringVar(&writePatternHex, "pattern", "e5", "single-byte fill pattern, as hex")
	rootCmd.AddCommand(writeCmd)
}
