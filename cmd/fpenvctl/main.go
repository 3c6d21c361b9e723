// fpenvctl inspects and manipulates the floating point environment of its
// own process thread: rounding mode, exception masks and flags, and
// snapshot save/restore in the platform's public binary layout.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"runtime"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/tinyrange/fpenv"
	"github.com/tinyrange/fpenv/internal/envfile"
	"github.com/tinyrange/fpenv/internal/hostfenv"
	"github.com/tinyrange/fpenv/internal/snapio"
)

const usageText = `fpenvctl - floating point environment control

USAGE:
  fpenvctl <command> [flags]

COMMANDS:
  show      print rounding mode, exception masks, flags, FTZ/DAZ
  set       change rounding mode, masks, FTZ/DAZ
  clear     lower exception flags
  raise     raise exceptions synchronously (delivers traps)
  save      capture the environment to a snapshot file
  restore   restore the environment from a snapshot file
  reset     reset to the default environment
  apply     apply a YAML environment description
  soak      randomized round-trip property checks on the software core
  verify    cross-check against the host C library's fenv view
`

var useColor = term.IsTerminal(int(os.Stdout.Fd()))

// style wraps s in an SGR sequence when stdout is a terminal, otherwise the
// escapes are stripped back out.
func style(sgr, s string) string {
	styled := "\x1b[" + sgr + "m" + s + "\x1b[0m"
	if !useColor {
		return ansi.Strip(styled)
	}
	return styled
}

func openUnit() (*fpenv.Unit, error) {
	// Hardware floating point state is per OS thread; stay on this one.
	runtime.LockOSThread()
	return fpenv.Open()
}

func splitNames(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func runShow(args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	u, err := openUnit()
	if err != nil {
		return err
	}

	mode, err := u.Round()
	if err != nil {
		return fmt.Errorf("read rounding mode: %w", err)
	}

	fmt.Printf("%s %s\n", style("1", "rounding:"), mode)
	fmt.Printf("%s %s\n", style("1", "enabled: "), u.Except())
	flags := u.TestExcept(fpenv.All)
	if flags != 0 {
		fmt.Printf("%s %s\n", style("1", "flags:   "), style("33", flags.String()))
	} else {
		fmt.Printf("%s none\n", style("1", "flags:   "))
	}
	fmt.Printf("%s ftz=%v daz=%v\n", style("1", "mxcsr:   "), u.FlushToZero(), u.DenormalsAreZero())
	fmt.Printf("%s %s (%d bytes)\n", style("1", "layout:  "), fpenv.Layout, fpenv.SnapshotSize)
	return nil
}

func runSet(args []string) error {
	fs := flag.NewFlagSet("set", flag.ExitOnError)
	round := fs.String("round", "", "rounding mode: nearest, down, up, zero")
	enable := fs.String("enable", "", "comma separated exception kinds to unmask")
	disable := fs.String("disable", "", "comma separated exception kinds to mask")
	ftz := fs.String("ftz", "", "flush-to-zero: on or off")
	daz := fs.String("daz", "", "denormals-are-zero: on or off")
	if err := fs.Parse(args); err != nil {
		return err
	}

	u, err := openUnit()
	if err != nil {
		return err
	}

	if *round != "" {
		mode, err := envfile.ParseRounding(*round)
		if err != nil {
			return err
		}
		if err := u.SetRound(mode); err != nil {
			return err
		}
		slog.Debug("rounding mode set", "mode", mode.String())
	}
	if *enable != "" {
		set, err := envfile.ParseExceptions(splitNames(*enable))
		if err != nil {
			return err
		}
		prev := u.EnableExcept(set)
		slog.Debug("exceptions enabled", "set", set.String(), "previous", prev.String())
	}
	if *disable != "" {
		set, err := envfile.ParseExceptions(splitNames(*disable))
		if err != nil {
			return err
		}
		prev := u.DisableExcept(set)
		slog.Debug("exceptions disabled", "set", set.String(), "previous", prev.String())
	}
	if *ftz != "" {
		u.SetFlushToZero(*ftz == "on")
	}
	if *daz != "" {
		u.SetDenormalsAreZero(*daz == "on")
	}
	return nil
}

func runClear(args []string) error {
	fs := flag.NewFlagSet("clear", flag.ExitOnError)
	what := fs.String("except", "all", "comma separated exception kinds")
	if err := fs.Parse(args); err != nil {
		return err
	}

	set, err := envfile.ParseExceptions(splitNames(*what))
	if err != nil {
		return err
	}
	u, err := openUnit()
	if err != nil {
		return err
	}
	return u.ClearExcept(set)
}

func runRaise(args []string) error {
	fs := flag.NewFlagSet("raise", flag.ExitOnError)
	what := fs.String("except", "", "comma separated exception kinds to raise")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *what == "" {
		return errors.New("raise: -except is required")
	}

	set, err := envfile.ParseExceptions(splitNames(*what))
	if err != nil {
		return err
	}
	u, err := openUnit()
	if err != nil {
		return err
	}
	slog.Warn("raising exceptions; unmasked kinds will trap this process", "set", set.String())
	return u.RaiseExcept(set)
}

func runSave(args []string) error {
	fs := flag.NewFlagSet("save", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("save: expected exactly one output file")
	}

	u, err := openUnit()
	if err != nil {
		return err
	}
	var snap fpenv.Snapshot
	if err := u.GetEnv(&snap); err != nil {
		return err
	}

	f, err := os.Create(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("create %s: %w", fs.Arg(0), err)
	}
	defer f.Close()
	if err := snapio.WriteSnapshot(f, &snap); err != nil {
		return err
	}
	slog.Info("environment saved", "path", fs.Arg(0), "layout", fpenv.Layout.String())
	return nil
}

func runRestore(args []string) error {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("restore: expected exactly one input file")
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("open %s: %w", fs.Arg(0), err)
	}
	defer f.Close()
	snap, err := snapio.ReadSnapshot(f)
	if err != nil {
		return err
	}

	u, err := openUnit()
	if err != nil {
		return err
	}
	return u.SetEnv(snap)
}

func runReset(args []string) error {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	u, err := openUnit()
	if err != nil {
		return err
	}
	return u.SetEnv(fpenv.DefaultEnv)
}

func runApply(args []string) error {
	fs := flag.NewFlagSet("apply", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("apply: expected exactly one environment file")
	}

	spec, err := envfile.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	u, err := openUnit()
	if err != nil {
		return err
	}
	return spec.Apply(u.Registers())
}

// runSoak drives randomized operations against the software core and
// checks the round-trip properties the layer guarantees. It never touches
// hardware state.
func runSoak(args []string) error {
	fs := flag.NewFlagSet("soak", flag.ExitOnError)
	n := fs.Int("n", 10000, "iterations")
	seed := fs.Int64("seed", 1, "RNG seed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(*seed))
	modes := []fpenv.RoundingMode{fpenv.ToNearest, fpenv.Downward, fpenv.Upward, fpenv.TowardZero}

	u := fpenv.Soft()
	pb := progressbar.Default(int64(*n))
	for i := 0; i < *n; i++ {
		mode := modes[rng.Intn(len(modes))]
		if err := u.SetRound(mode); err != nil {
			return fmt.Errorf("iteration %d: set round: %w", i, err)
		}
		if got, err := u.Round(); err != nil || got != mode {
			return fmt.Errorf("iteration %d: rounding round trip: got %v, %v", i, got, err)
		}

		set := fpenv.Exception(rng.Intn(0x40)) & fpenv.All
		if err := u.ClearExcept(fpenv.All); err != nil {
			return fmt.Errorf("iteration %d: clear: %w", i, err)
		}
		if err := u.SetExcept(set); err != nil {
			return fmt.Errorf("iteration %d: set flags: %w", i, err)
		}
		if got := u.TestExcept(fpenv.All); got != set {
			return fmt.Errorf("iteration %d: flag round trip: set %s, got %s", i, set, got)
		}

		var snap fpenv.Snapshot
		if err := u.GetEnv(&snap); err != nil {
			return fmt.Errorf("iteration %d: get env: %w", i, err)
		}
		u.SetRound(modes[rng.Intn(len(modes))])
		u.EnableExcept(fpenv.Exception(rng.Intn(0x40)))
		if err := u.SetEnv(&snap); err != nil {
			return fmt.Errorf("iteration %d: set env: %w", i, err)
		}
		if got, _ := u.Round(); got != mode {
			return fmt.Errorf("iteration %d: snapshot did not restore rounding: want %s, got %s", i, mode, got)
		}
		pb.Add(1)
	}
	fmt.Printf("%s %d iterations\n", style("32", "ok:"), *n)
	return nil
}

// runVerify compares this layer's view of the registers against the host C
// library's fenv functions, which read the same hardware state.
func runVerify(args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := hostfenv.Load(); err != nil {
		return fmt.Errorf("host fenv bindings: %w", err)
	}
	u, err := openUnit()
	if err != nil {
		return err
	}

	modes := []fpenv.RoundingMode{fpenv.ToNearest, fpenv.Downward, fpenv.Upward, fpenv.TowardZero}
	for _, mode := range modes {
		if err := u.SetRound(mode); err != nil {
			return err
		}
		hostMode, err := hostfenv.Round()
		if err != nil {
			return err
		}
		if hostMode != mode {
			return fmt.Errorf("rounding disagrees: ours %s, host %s", mode, hostMode)
		}
	}
	if err := u.SetRound(fpenv.ToNearest); err != nil {
		return err
	}

	if err := u.ClearExcept(fpenv.All); err != nil {
		return err
	}
	if err := u.SetExcept(fpenv.Inexact | fpenv.Underflow); err != nil {
		return err
	}
	hostFlags, err := hostfenv.TestExcept(fpenv.All)
	if err != nil {
		return err
	}
	if hostFlags&(fpenv.Inexact|fpenv.Underflow) != fpenv.Inexact|fpenv.Underflow {
		return fmt.Errorf("flags disagree: host sees %s", hostFlags)
	}
	if err := hostfenv.ClearExcept(fpenv.All); err != nil {
		return err
	}
	if got := u.TestExcept(fpenv.All); got != 0 {
		return fmt.Errorf("host clear not visible to us: %s still set", got)
	}

	fmt.Printf("%s host libc and fpenv agree\n", style("32", "ok:"))
	return nil
}

func main() {
	verbose := false
	args := os.Args[1:]
	if len(args) > 0 && (args[0] == "-v" || args[0] == "-verbose") {
		verbose = true
		args = args[1:]
	}
	if verbose {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if len(args) < 1 {
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(1)
	}

	var err error
	switch args[0] {
	case "show":
		err = runShow(args[1:])
	case "set":
		err = runSet(args[1:])
	case "clear":
		err = runClear(args[1:])
	case "raise":
		err = runRaise(args[1:])
	case "save":
		err = runSave(args[1:])
	case "restore":
		err = runRestore(args[1:])
	case "reset":
		err = runReset(args[1:])
	case "apply":
		err = runApply(args[1:])
	case "soak":
		err = runSoak(args[1:])
	case "verify":
		err = runVerify(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", args[0], usageText)
		os.Exit(1)
	}
	if err != nil {
		slog.Error("command failed", "command", args[0], "err", err)
		os.Exit(1)
	}
}
