package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var readSectorNum int

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Issue READ SECTOR for the given sector on the current cylinder and print the data",
	Run: func(cmd *cobra.Command, args []string) {
		if err := sess.fdc.WritePort(0x86, byte(readSectorNum)); err != nil {
			cobra.CheckErr(err)
		}
		if err := sess.fdc.WritePort(0x84, 0x80); err != nil {
			cobra.CheckErr(err)
		}
		sess.clock.Advance(sess.fdcStepTime())

		sector, err := sess.disk.GetSector(sess.drv.Track(), 0, readSectorNum-1)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("sector not formatted: %w", err))
		}

		data, err := sess.dma.PollRead(len(sector.Data()))
		if err != nil {
			cobra.CheckErr(err)
		}
		if err := sess.dma.Finish(); err != nil {
			cobra.CheckErr(err)
		}
		fmt.Printf("read %d bytes: %x\n", len(data), data)
	},
}

func init() {
	readCmd.Flags().IntVar(&readSectorNum, "sector", 1, "sector number to read (one-based)")
	rootCmd.AddCommand(readCmd)
}
