// Package tui provides a text-mode monitor for watching a hart step
// through a program, adapted from the teacher's debugger.TUI. There is
// no source map, no breakpoints and no disassembler in this domain, so
// the panel set is trimmed to registers, a memory hex dump and an
// output log.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/idozipo/rv32i-sim/fault"
	"github.com/idozipo/rv32i-sim/hart"
	"github.com/idozipo/rv32i-sim/memory"
	"github.com/idozipo/rv32i-sim/safeconv"
)

// Monitor is a read/step view over a Hart and its Memory.
type Monitor struct {
	Hart   *hart.Hart
	Memory *memory.Memory

	App  *tview.Application
	Flex *tview.Flex

	RegisterView *tview.TextView
	MemoryView   *tview.TextView
	OutputView   *tview.TextView

	MemoryAddress uint32
	Running       bool
	Halted        bool
}

// NewMonitor builds a Monitor over h and mem.
func NewMonitor(h *hart.Hart, mem *memory.Memory) *Monitor {
	m := &Monitor{
		Hart:   h,
		Memory: mem,
		App:    tview.NewApplication(),
	}
	m.initializeViews()
	m.buildLayout()
	m.setupKeyBindings()
	m.RefreshAll()
	return m
}

func (m *Monitor) initializeViews() {
	m.RegisterView = tview.NewTextView().SetDynamicColors(true)
	m.RegisterView.SetBorder(true).SetTitle(" Registers ")

	m.MemoryView = tview.NewTextView().SetDynamicColors(true)
	m.MemoryView.SetBorder(true).SetTitle(" Memory ")

	m.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	m.OutputView.SetBorder(true).SetTitle(" Output (F11=step F5=run Ctrl+C=quit) ")
}

func (m *Monitor) buildLayout() {
	top := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(m.RegisterView, 0, 1, false).
		AddItem(m.MemoryView, 0, 1, false)

	m.Flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(top, 14, 0, false).
		AddItem(m.OutputView, 0, 1, false)

	m.App.SetRoot(m.Flex, true)
}

func (m *Monitor) setupKeyBindings() {
	m.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF11:
			m.step()
			return nil
		case tcell.KeyF5:
			m.runToCompletion()
			return nil
		case tcell.KeyCtrlC:
			m.App.Stop()
			return nil
		}
		return event
	})
}

func (m *Monitor) step() {
	if m.Halted {
		return
	}
	if err := m.Hart.Step(m.Memory); err != nil {
		m.Halted = true
		m.writeOutput(fmt.Sprintf("[red]halted: %v[white]\n", err))
	}
	m.RefreshAll()
}

func (m *Monitor) runToCompletion() {
	const maxCycles = 1_000_000
	for !m.Halted && m.Hart.Cycles < maxCycles {
		if err := m.Hart.Step(m.Memory); err != nil {
			m.Halted = true
			var f *fault.Fault
			if errors.As(err, &f) {
				m.writeOutput(fmt.Sprintf("[red]halted: %s[white]\n", f.Error()))
			} else {
				m.writeOutput(fmt.Sprintf("[red]halted: %v[white]\n", err))
			}
		}
	}
	m.RefreshAll()
}

func (m *Monitor) writeOutput(text string) {
	_, _ = m.OutputView.Write([]byte(text)) // ignore write errors in a TUI
	m.OutputView.ScrollToEnd()
}

// RefreshAll redraws every panel from current hart/memory state.
func (m *Monitor) RefreshAll() {
	m.updateRegisterView()
	m.updateMemoryView()
	m.App.Draw()
}

func (m *Monitor) updateRegisterView() {
	var lines []string
	for row := 0; row < 8; row++ {
		var cols []string
		for col := 0; col < 4; col++ {
			reg := row*4 + col
			cols = append(cols, fmt.Sprintf("x%-2d: 0x%08X", reg, m.Hart.Reg(reg)))
		}
		lines = append(lines, strings.Join(cols, "  "))
	}
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("pc: 0x%08X  cycles: %d", m.Hart.PC(), m.Hart.Cycles))
	m.RegisterView.SetText(strings.Join(lines, "\n"))
}

func (m *Monitor) updateMemoryView() {
	addr := m.MemoryAddress
	if addr == 0 {
		addr = m.Hart.PC()
	}

	var lines []string
	for row := 0; row < 8; row++ {
		rowOffset, err := safeconv.IntToUint32(row * 16)
		if err != nil {
			break // never happens for row < 8
		}
		rowAddr := addr + rowOffset
		line := fmt.Sprintf("0x%08X: ", rowAddr)
		var hexBytes []string
		for col := 0; col < 16; col++ {
			colOffset, err := safeconv.IntToUint32(col)
			if err != nil {
				break // never happens for col < 16
			}
			b, err := m.Memory.ReadByte(rowAddr + colOffset)
			if err != nil {
				hexBytes = append(hexBytes, "??")
				continue
			}
			hexBytes = append(hexBytes, fmt.Sprintf("%02X", b))
		}
		line += strings.Join(hexBytes, " ")
		lines = append(lines, line)
	}
	m.MemoryView.SetText(strings.Join(lines, "\n"))
}

// Run starts the TUI event loop.
func (m *Monitor) Run() error {
	return m.App.Run()
}
