package cli

import (
	"fmt"
	"io"

	"github.com/roach88/margin/internal/model"
	"github.com/roach88/margin/internal/report"
	"github.com/roach88/margin/internal/sim"
)

func renderSummary(w io.Writer, res *sim.Result, sweeps []*sim.Sweep) error {
	if err := report.Summary(w, res); err != nil {
		return err
	}
	return renderSweeps(w, sweeps)
}

func renderDetailed(w io.Writer, res *sim.Result, m model.Model, sweeps []*sim.Sweep) error {
	if err := report.Detailed(w, res, m); err != nil {
		return err
	}
	return renderSweeps(w, sweeps)
}

func renderSweeps(w io.Writer, sweeps []*sim.Sweep) error {
	for _, sweep := range sweeps {
		fmt.Fprintln(w)
		if err := report.SweepTable(w, sweep); err != nil {
			return err
		}
	}
	return nil
}
