package pipeline

import (
	"bufio"
	"fmt"
	"io"
)

// WavelengthPrompter collects the known wavelength for each recorded
// pixel during a recalibration. The terminal implementation pauses
// frame processing for the duration of the interactive input, which is
// the intended behavior: calibration storage access never runs
// concurrently with the frame loop.
type WavelengthPrompter interface {
	Prompt(pixels []int) ([]string, error)
}

// TerminalPrompter reads wavelength entries line by line.
type TerminalPrompter struct {
	In  io.Reader
	Out io.Writer

	reader *bufio.Reader
}

func (p *TerminalPrompter) Prompt(pixels []int) ([]string, error) {
	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}
	fmt.Fprintln(p.Out, "Enter known wavelengths for the observed pixel positions:")

	inputs := make([]string, 0, len(pixels))
	for _, px := range pixels {
		fmt.Fprintf(p.Out, "  Enter wavelength (nm) for pixel %d: ", px)
		line, err := p.reader.ReadString('\n')
		if err != nil && line == "" {
			return nil, fmt.Errorf("reading wavelength entry: %w", err)
		}
		inputs = append(inputs, line)
	}
	return inputs, nil
}

// StaticPrompter answers with canned entries; used by the offline
// process command and tests.
type StaticPrompter struct {
	Entries []string
}

func (p *StaticPrompter) Prompt(pixels []int) ([]string, error) {
	if len(p.Entries) != len(pixels) {
		return nil, fmt.Errorf("%d entries provided for %d pixels", len(p.Entries), len(pixels))
	}
	return p.Entries, nil
}
