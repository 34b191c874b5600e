package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var seekCylinder int

var seekCmd = &cobra.Command{
	Use:   "seek",
	Short: "Issue SEEK to the given cylinder",
	Run: func(cmd *cobra.Command, args []string) {
		if err := sess.fdc.WritePort(0x87, byte(seekCylinder)); err != nil {
			cobra.CheckErr(err)
		}
		if err := sess.fdc.WritePort(0x84, 0x1C); err != nil {
			cobra.CheckErr(err)
		}
		for i := 0; i < 256; i++ {
			sess.clock.Advance(sess.fdcStepTime())
		}
		status, _ := sess.fdc.ReadPort(0x84)
		fmt.Printf("status=%#02x track=%v\n", status, sess.drv.Track())
	},
}

func init() {
	seekCmd.Flags().IntVar(&seekCylinder, "cylinder", 0, "destination cylinder")
	rootCmd.AddCommand(seekCmd)
}
