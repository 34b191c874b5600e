// Command fdcctl wires a concrete drive, disk, scheduler, and DMA engine
// to the fdc core for interactive smoke testing, the way a real emulator
// would, without needing a full host CPU attached.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-retro/fd1797/config"
	"github.com/go-retro/fd1797/dmaengine"
	"github.com/go-retro/fd1797/drive"
	"github.com/go-retro/fd1797/fdc"
	"github.com/go-retro/fd1797/sched"
)

// session bundles one wired-up controller and its collaborators, built
// fresh for every subcommand invocation.
type session struct {
	clock  *sched.Clock
	drv    *drive.Drive
	disk   *drive.Disk
	dma    *dmaengine.Engine
	fdc    *fdc.FDC
	config string
	timing fdc.Timing
}

// fdcStepTime returns the longer of the Type I step time and the
// command-accept latency, for subcommands that need to settle a multi-cylinder seek by advancing
// the clock a fixed number of times.
func (s *session) fdcStepTime() time.Duration {
	d := s.timing.StepTime
	if s.timing.CommandAccept > d {
		d = s.timing.CommandAccept
	}
	return d
}

var sess session

var rootCmd = &cobra.Command{
	Use:   "fdcctl",
	Short: "Drive an emulated FD1797 floppy disk controller core from the command line",
	Long:  "fdcctl wires a concrete drive, disk, scheduler, and DMA engine to the fdc core and exercises it through its port interface, for manual testing of the controller independent of any particular host emulator.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		timing, err := loadTiming(sess.config)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("failed to load timing configuration: %w", err))
		}

		sess.timing = timing
		sess.disk = drive.NewDisk()
		sess.drv = drive.New(sess.disk)
		sess.clock = sched.New()
		sess.fdc = fdc.New(sess.drv, sess.clock, noInterrupts{}, timing)
		sess.dma = dmaengine.New(sess.fdc)
		sess.fdc.SetDMA(sess.dma)
		sess.fdc.SetLogger(stdLogger{})
	},
}

func loadTiming(path string) (fdc.Timing, error) {
	if path == "" {
		return config.Default()
	}
	return config.Load(path)
}

// noInterrupts stands in for a host CPU that does not model interrupt
// delivery at all; fdcctl only inspects status bits directly.
type noInterrupts struct{}

func (noInterrupts) RaiseInterrupt() {}

// stdLogger adapts the standard logger to the fdc.Logger collaborator.
type stdLogger struct{}

func (stdLogger) Printf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&sess.config, "config", "", "path to a TOML timing configuration file (defaults to the built-in timing)")
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func main() {
	Execute()
}
