package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var formatSectors int
var formatSectorSize int

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Issue WRITE TRACK to format the current cylinder with sectors 1..N",
	Run: func(cmd *cobra.Command, args []string) {
		if err := sess.fdc.WritePort(0x84, 0xF0); err != nil {
			cobra.CheckErr(err)
		}
		sess.clock.Advance(sess.fdcStepTime())

		feed := func(b byte) {
			if err := sess.fdc.WritePort(0x87, b); err != nil {
				cobra.CheckErr(err)
			}
		}
		for i := 0; i < 40; i++ {
			feed(0xFF)
		}
		feed(0xFC)
		for s := 1; s <= formatSectors; s++ {
			for i := 0; i < 6; i++ {
				feed(0xFF)
			}
			feed(0xFE)
			feed(byte(mustTrack()))
			feed(0x00)
			feed(byte(s))
			feed(sizeCode(formatSectorSize))
			for i := 0; i < 11; i++ {
				feed(0xFF)
			}
			feed(0xFB)
			for i := 0; i < formatSectorSize; i++ {
				feed(0x00)
			}
			feed(0xF7)
		}

		sess.clock.Advance(sess.timing.DiskRevolution)
		status, _ := sess.fdc.ReadPort(0x84)
		fmt.Printf("format complete, status=%#02x\n", status)
	},
}

func mustTrack() byte {
	b, _ := sess.fdc.ReadPort(0x85)
	return b
}

func sizeCode(size int) byte {
	switch size {
	case 128:
		return 0
	case 256:
		return 1
	case 512:
		return 2
	case 1024:
		return 3
	default:
		cobra.CheckErr(fmt.Errorf("unsupported sector size %d", size))
		return 0
	}
}

func init() {
	formatCmd.Flags().IntVar(&formatSectors, "sectors", 18, "number of sectors to format")
	formatCmd.Flags().IntVar(&formatSectorSize, "sector-size", 256, "sector size in bytes (128, 256, 512, or 1024)")
	rootCmd.AddCommand(formatCmd)
}
