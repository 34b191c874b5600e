package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var enableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Select the drive and raise chip-enable, issuing the synthetic RESTORE",
	Run: func(cmd *cobra.Command, args []string) {
		if err := sess.fdc.WritePort(0xE8, 0x0F); err != nil {
			cobra.CheckErr(err)
		}
		// The synthetic RESTORE walks one cylinder per step-time tick;
		// settle by advancing far past any plausible starting cylinder.
		for i := 0; i < 256; i++ {
			sess.clock.Advance(sess.fdcStepTime())
		}
		status, _ := sess.fdc.ReadPort(0x84)
		fmt.Printf("status=%#02x track=%v\n", status, sess.drv.Track())
	},
}

func init() {
	rootCmd.AddCommand(enableCmd)
}
