package ui

import (
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noborus/ov/oviewer"
)

// Pager shows files and command output with ov while the program
// has released the terminal.
type Pager struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewPager creates a new pager
func NewPager() *Pager {
	return &Pager{}
}

// SetProgram sets the program reference for terminal management
func (p *Pager) SetProgram(program *tea.Program) {
	p.program = program
}

// ShowFile opens a file in the pager
func (p *Pager) ShowFile(path string) error {
	return p.run(func() (*oviewer.Root, error) {
		return oviewer.Open(path)
	})
}

// ShowReader pages the content of r
func (p *Pager) ShowReader(r io.Reader) error {
	return p.run(func() (*oviewer.Root, error) {
		return oviewer.NewRoot(r)
	})
}

func (p *Pager) run(open func() (*oviewer.Root, error)) error {
	if p.program == nil {
		return fmt.Errorf("program not set")
	}

	root, err := open()
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOriginal = false
	root.SetConfig(config)

	// Release terminal control to run ov
	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}

	// Ensure terminal is restored even if ov fails
	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	return root.Run()
}
