// Command rv32isim loads a raw RV32I program image and runs it on the
// simulator core, adapted from the teacher's main.go but built around
// cobra subcommands instead of a single flat flag set, following the
// pattern in cmd/z80opt of the companion superoptimizer repo.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/idozipo/rv32i-sim/config"
	"github.com/idozipo/rv32i-sim/decoder"
	"github.com/idozipo/rv32i-sim/fault"
	"github.com/idozipo/rv32i-sim/hart"
	"github.com/idozipo/rv32i-sim/loader"
	"github.com/idozipo/rv32i-sim/memory"
	"github.com/idozipo/rv32i-sim/trace"
	"github.com/idozipo/rv32i-sim/tui"
)

// Version is set at build time with -ldflags "-X main.Version=v1.2.3".
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "rv32isim: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "rv32isim",
		Short:   "RV32I instruction-set simulator",
		Version: Version,
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newDumpCmd())
	root.AddCommand(newMonitorCmd())

	return root
}

// newRunCmd loads an image and executes it to completion or fault.
func newRunCmd() *cobra.Command {
	var (
		maxCycles   uint64
		memorySize  int
		entryPoint  string
		verbose     bool
		traceFile   string
		enableTrace bool
	)

	cmd := &cobra.Command{
		Use:   "run <image>",
		Short: "Load and execute a raw program image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mem := memory.New(memorySize)
			h := hart.New()

			if err := loader.LoadFile(mem, args[0]); err != nil {
				return err
			}

			entry, err := parseEntryPoint(entryPoint)
			if err != nil {
				return err
			}
			h.SetPC(entry)

			var tw *trace.Writer
			if enableTrace {
				path := traceFile
				if path == "" {
					path = filepath.Join(config.GetLogPath(), "trace.log")
				}
				f, err := os.Create(path) // #nosec G304 -- path from CLI flag or platform log dir
				if err != nil {
					return fmt.Errorf("failed to create trace file: %w", err)
				}
				defer f.Close()
				tw = trace.New(f)
			}

			cycles := uint64(0)
			for cycles < maxCycles {
				pc := h.PC()
				word, rerr := mem.ReadWord(pc)
				if rerr != nil {
					return rerr
				}

				if verbose {
					fmt.Printf("addr 0x%08X: 0b%032b\n", pc, word)
				}

				if err := h.Step(mem); err != nil {
					var f *fault.Fault
					if errors.As(err, &f) {
						return fmt.Errorf("execution halted after %d cycles: %w", cycles, f)
					}
					return err
				}

				if tw != nil {
					inst, derr := decoder.Decode(word)
					entry := trace.Entry{Cycle: cycles, PC: pc, Word: word}
					if derr == nil {
						entry.Mnemonic = inst.Mnemonic.String()
					}
					tw.Record(entry)
				}

				cycles++
			}

			if tw != nil {
				if err := tw.Flush(); err != nil {
					return err
				}
			}

			fmt.Printf("completed %d cycles, pc=0x%08X\n", cycles, h.PC())
			return nil
		},
	}

	cmd.Flags().Uint64Var(&maxCycles, "max-cycles", 1000000, "maximum steps before giving up")
	cmd.Flags().IntVar(&memorySize, "memory-size", memory.ReferenceSize, "memory size in bytes")
	cmd.Flags().StringVar(&entryPoint, "entry", "0x0", "entry point address (hex or decimal)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print each fetched instruction before executing it")
	cmd.Flags().BoolVar(&enableTrace, "trace", false, "enable execution trace")
	cmd.Flags().StringVar(&traceFile, "trace-file", "", "trace output file (default: trace.log in platform log dir, used with --trace)")

	return cmd
}

// newDumpCmd loads an image and prints its decoded contents without
// executing anything, mirroring the original's per-word dump loop.
func newDumpCmd() *cobra.Command {
	var memorySize int

	cmd := &cobra.Command{
		Use:   "dump <image>",
		Short: "Load a program image and print its decoded instructions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mem := memory.New(memorySize)
			if err := loader.LoadFile(mem, args[0]); err != nil {
				return err
			}

			for addr := uint32(0); ; addr += 4 {
				word, err := mem.ReadWord(addr)
				if err != nil {
					break
				}
				if word == 0 && addr > 0 {
					continue
				}
				inst, err := decoder.Decode(word)
				if err != nil {
					var f *fault.Fault
					if errors.As(err, &f) {
						f.Addr = addr
					}
					fmt.Printf("addr 0x%08X: 0b%032b  <%v>\n", addr, word, err)
					continue
				}
				fmt.Printf("addr 0x%08X: 0b%032b  %s\n", addr, word, inst.Mnemonic.String())
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&memorySize, "memory-size", memory.ReferenceSize, "memory size in bytes")
	return cmd
}

// newMonitorCmd loads an image and opens the interactive TUI monitor.
func newMonitorCmd() *cobra.Command {
	var (
		memorySize int
		entryPoint string
	)

	cmd := &cobra.Command{
		Use:   "monitor <image>",
		Short: "Load a program image and step through it interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mem := memory.New(memorySize)
			h := hart.New()

			if err := loader.LoadFile(mem, args[0]); err != nil {
				return err
			}

			entry, err := parseEntryPoint(entryPoint)
			if err != nil {
				return err
			}
			h.SetPC(entry)

			m := tui.NewMonitor(h, mem)
			return m.Run()
		},
	}

	cmd.Flags().IntVar(&memorySize, "memory-size", memory.ReferenceSize, "memory size in bytes")
	cmd.Flags().StringVar(&entryPoint, "entry", "0x0", "entry point address (hex or decimal)")
	return cmd
}

// parseEntryPoint accepts a hex ("0x...") or decimal entry point
// string, the same two formats the teacher's emulator accepts.
func parseEntryPoint(s string) (uint32, error) {
	var addr uint32
	if _, err := fmt.Sscanf(s, "0x%x", &addr); err == nil {
		return addr, nil
	}
	if _, err := fmt.Sscanf(s, "%d", &addr); err == nil {
		return addr, nil
	}
	return 0, fmt.Errorf("invalid entry point: %s", s)
}
