package main

import (
	"fmt"

	"github.com/mrnavastar/modlaunch/launcher"
	"github.com/pterm/pterm"
)

// progressPrinter shows one progress bar per update phase.
type progressPrinter struct {
	phase launcher.Phase
	bar   *pterm.ProgressbarPrinter
}

func (p *progressPrinter) Progress(e launcher.ProgressEvent) {
	if e.Phase != p.phase || (p.bar == nil && e.Total > 0) {
		p.stop()
		changed := e.Phase != p.phase
		p.phase = e.Phase
		if e.Total <= 0 {
			if changed {
				pterm.Info.Printfln("%s %s", e.Phase, e.Item)
			}
			return
		}
		bar, err := pterm.DefaultProgressbar.WithTotal(int(e.Total)).WithTitle(string(e.Phase)).Start()
		if err != nil {
			return
		}
		p.bar = bar
	}
	if p.bar == nil {
		return
	}

	if e.Item != "" {
		p.bar.UpdateTitle(fmt.Sprintf("%s %s", e.Phase, e.Item))
	}
	if delta := int(e.Current) - p.bar.Current; delta > 0 {
		p.bar.Add(delta)
	}
}

func (p *progressPrinter) stop() {
	if p.bar != nil {
		_, _ = p.bar.Stop()
		p.bar = nil
	}
}
