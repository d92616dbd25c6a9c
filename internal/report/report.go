//Package report prints the trajectory tables and draws the correction charts
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/gehtsoft-usa/go_ballisticsolver"
	"github.com/gehtsoft-usa/go_ballisticsolver/bmath/unit"
	"github.com/gehtsoft-usa/go_ballisticsolver/internal/config"
)

//Options describe the units the results are printed in
type Options struct {
	DistanceUnit byte
	EnergyUnit   byte
	VelocityUnit byte

	//CorrectionUnit and ClickValue of the weapon, used to print the corrections as angles
	CorrectionUnit go_ballisticsolver.CorrectionUnit
	ClickValue     float64
}

//DefaultOptions prints the results in metric units
func DefaultOptions() Options {
	return Options{
		DistanceUnit:   unit.DistanceMeter,
		EnergyUnit:     unit.EnergyJoule,
		VelocityUnit:   unit.VelocityMPS,
		CorrectionUnit: go_ballisticsolver.CorrectionMilliradian,
		ClickValue:     0.1,
	}
}

//OptionsFromConfig parses the unit names of the configuration
func OptionsFromConfig(cfg config.ReportConfig, weapon go_ballisticsolver.WeaponProfile) (Options, error) {
	distance, err := unit.ParseDistanceUnit(cfg.DistanceUnit)
	if err != nil {
		return Options{}, err
	}
	energy, err := unit.ParseEnergyUnit(cfg.EnergyUnit)
	if err != nil {
		return Options{}, err
	}
	velocity, err := unit.ParseVelocityUnit(cfg.VelocityUnit)
	if err != nil {
		return Options{}, err
	}
	return Options{
		DistanceUnit:   distance,
		EnergyUnit:     energy,
		VelocityUnit:   velocity,
		CorrectionUnit: weapon.CorrectionUnit,
		ClickValue:     weapon.ClickValue,
	}, nil
}

type row struct {
	distance   unit.Distance
	vertical   string
	horizontal string
	velocity   unit.Velocity
	energy     unit.Energy
	time       string
}

func (o Options) row(r go_ballisticsolver.TrajectoryResult) row {
	return row{
		distance:   unit.MustCreateDistance(float64(r.Distance), unit.DistanceMeter).Convert(o.DistanceUnit),
		vertical:   o.correction(r.VerticalClicks),
		horizontal: o.correction(r.HorizontalClicks),
		velocity:   unit.MustCreateVelocity(float64(r.Velocity), unit.VelocityMPS).Convert(o.VelocityUnit),
		energy:     unit.MustCreateEnergy(float64(r.Energy), unit.EnergyJoule).Convert(o.EnergyUnit),
		time:       strconv.FormatFloat(r.Time, 'f', 3, 64),
	}
}

func (o Options) correction(clicks int) string {
	return fmt.Sprintf("%d (%.2f%s)", clicks, float64(clicks)*o.ClickValue, o.CorrectionUnit)
}

//WriteTable writes the results as an aligned text table
func WriteTable(w io.Writer, results []go_ballisticsolver.TrajectoryResult, opts Options) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Distance\tElevation\tWindage\tVelocity\tEnergy\tTime, s\t")
	for _, r := range results {
		x := opts.row(r)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n", x.distance, x.vertical, x.horizontal, x.velocity, x.energy, x.time)
	}
	return tw.Flush()
}

//WriteCSV writes the results as CSV with the header row
func WriteCSV(w io.Writer, results []go_ballisticsolver.TrajectoryResult, opts Options) error {
	cw := csv.NewWriter(w)
	header := []string{"distance", "vertical_clicks", "horizontal_clicks", "velocity", "energy", "time"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("could not write csv header: %w", err)
	}
	for _, r := range results {
		err := cw.Write([]string{
			strconv.FormatFloat(unit.MustCreateDistance(float64(r.Distance), unit.DistanceMeter).In(opts.DistanceUnit), 'f', 1, 64),
			strconv.Itoa(r.VerticalClicks),
			strconv.Itoa(r.HorizontalClicks),
			strconv.FormatFloat(unit.MustCreateVelocity(float64(r.Velocity), unit.VelocityMPS).In(opts.VelocityUnit), 'f', 1, 64),
			strconv.FormatFloat(unit.MustCreateEnergy(float64(r.Energy), unit.EnergyJoule).In(opts.EnergyUnit), 'f', 1, 64),
			strconv.FormatFloat(r.Time, 'f', 3, 64),
		})
		if err != nil {
			return fmt.Errorf("could not write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("could not flush csv: %w", err)
	}
	return nil
}
