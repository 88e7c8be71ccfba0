package main

import (
	"fmt"
	"os"

	"github.com/bradleyjkemp/memviz"
	"github.com/grimdork/climate/arg"
	"golang.org/x/term"

	"github.com/Urethramancer/musa68k/internal/logger"
	"github.com/Urethramancer/musa68k/script"
)

// settings collects the command line.
type settings struct {
	master string
	slave  string
	cycles int
	frames int
	level  int
	trace  int
	lua    string
	dot    string
}

// run68 loads a master program, and optionally a slave program, and runs
// both CPUs frame by frame or under the control of a Lua script.
func main() {
	opt := arg.New("run68")
	opt.SetDefaultHelp(true)
	opt.SetOption(arg.GroupDefault, "m", "master", "Master program image, mapped from address 0.", "", true, arg.VarString, nil)
	opt.SetOption(arg.GroupDefault, "s", "slave", "Slave program image, loaded into program RAM.", "", false, arg.VarString, nil)
	opt.SetOption(arg.GroupDefault, "c", "cycles", "Cycles per frame for each CPU.", 128000, false, arg.VarInt, nil)
	opt.SetOption(arg.GroupDefault, "f", "frames", "Frames to run.", 60, false, arg.VarInt, nil)
	opt.SetOption(arg.GroupDefault, "i", "irq", "Interrupt level raised on the master after each frame.", 0, false, arg.VarInt, nil)
	opt.SetOption(arg.GroupDefault, "t", "trace", "Print the first N master instructions as they execute.", 0, false, arg.VarInt, nil)
	opt.SetOption(arg.GroupDefault, "l", "lua", "Lua script to run instead of the frame loop.", "", false, arg.VarString, nil)
	opt.SetOption(arg.GroupDefault, "d", "dot", "Write a graphviz dump of the final CPU state.", "", false, arg.VarString, nil)
	opt.SetOption(arg.GroupDefault, "v", "verbose", "Echo log entries as they happen.", false, false, arg.VarBool, nil)
	err := opt.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	verbose := opt.GetBool("verbose")
	if verbose {
		logger.SetEcho(os.Stderr)
	}

	err = run(settings{
		master: opt.GetString("master"),
		slave:  opt.GetString("slave"),
		cycles: opt.GetInt("cycles"),
		frames: opt.GetInt("frames"),
		level:  opt.GetInt("irq"),
		trace:  opt.GetInt("trace"),
		lua:    opt.GetString("lua"),
		dot:    opt.GetString("dot"),
	})
	if !verbose {
		logger.Tail(os.Stderr, 10)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run(cfg settings) error {
	if cfg.level < 0 || cfg.level > 7 {
		return fmt.Errorf("interrupt level %d is not in 0-7", cfg.level)
	}

	master, err := os.ReadFile(cfg.master)
	if err != nil {
		return err
	}
	var slave []byte
	if cfg.slave != "" {
		slave, err = os.ReadFile(cfg.slave)
		if err != nil {
			return err
		}
	}

	sys, err := newSystem(master, slave)
	if err != nil {
		return err
	}
	sys.trace(os.Stdout, cfg.trace)

	if cfg.lua != "" {
		e := script.New(sys.dual, os.Stdout)
		e.SetNumber("CYCLES", cfg.cycles)
		e.SetNumber("FRAMES", cfg.frames)
		err = e.DoFile(cfg.lua)
		e.Close()
		if err != nil {
			return err
		}
	} else {
		for i := 0; i < cfg.frames; i++ {
			sys.frame(cfg.cycles, uint32(cfg.level))
		}
	}

	bold := term.IsTerminal(int(os.Stdout.Fd()))
	states := struct {
		Master *cpuState
		Slave  *cpuState
	}{snapshot(sys.dual.Master), snapshot(sys.dual.Slave)}
	dump(os.Stdout, states.Master, bold)
	dump(os.Stdout, states.Slave, bold)

	if cfg.dot != "" {
		f, err := os.Create(cfg.dot)
		if err != nil {
			return err
		}
		memviz.Map(f, &states)
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
