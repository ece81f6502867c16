package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/fleetquote/app"
	"github.com/kilianp07/fleetquote/config"
	"github.com/kilianp07/fleetquote/core/catalog"
	"github.com/kilianp07/fleetquote/core/model"
)

var vehiclesOpts struct {
	category string
	company  string
	weightKg float64
	volumeM3 float64
}

var vehiclesCmd = &cobra.Command{
	Use:   "vehicles",
	Short: "Vehicle catalog commands",
}

var vehiclesLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List catalog vehicles",
	RunE:  runVehiclesLs,
}

var vehiclesSelectCmd = &cobra.Command{
	Use:   "select",
	Short: "Show the vehicle a package would be priced with",
	RunE:  runVehiclesSelect,
}

func init() {
	vehiclesLsCmd.Flags().StringVar(&vehiclesOpts.category, "category", "", "filter by category")
	vehiclesLsCmd.Flags().StringVar(&vehiclesOpts.company, "company", "", "filter by company")
	vehiclesSelectCmd.Flags().Float64Var(&vehiclesOpts.weightKg, "weight-kg", 0, "package weight in kg")
	vehiclesSelectCmd.Flags().Float64Var(&vehiclesOpts.volumeM3, "volume-m3", 0, "package volume in cubic meters")
	vehiclesCmd.AddCommand(vehiclesLsCmd, vehiclesSelectCmd)
	rootCmd.AddCommand(vehiclesCmd)
}

func loadCatalog() (*catalog.Catalog, model.Settings, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, model.Settings{}, err
	}
	cat, err := app.NewCatalog(cfg)
	if err != nil {
		return nil, model.Settings{}, err
	}
	settings, err := config.LoadSettings(cfg.SettingsFile)
	if err != nil {
		return nil, model.Settings{}, err
	}
	return cat, settings, nil
}

func runVehiclesLs(cmd *cobra.Command, args []string) error {
	cat, settings, err := loadCatalog()
	if err != nil {
		return err
	}
	vs := cat.List(catalog.Query{Category: vehiclesOpts.category, Company: vehiclesOpts.company})
	return printVehicles(cmd, vs, settings)
}

func runVehiclesSelect(cmd *cobra.Command, args []string) error {
	cat, settings, err := loadCatalog()
	if err != nil {
		return err
	}
	pkg := catalog.Package{WeightKg: vehiclesOpts.weightKg, VolumeM3: vehiclesOpts.volumeM3}
	v, ok := catalog.SelectVehicle(cat.List(catalog.Query{}), pkg, settings.VehiclePricePerKm)
	if !ok {
		v = catalog.Generic()
		fmt.Fprintf(cmd.ErrOrStderr(), "no vehicle can carry %.0f kg / %.2f m3, using %s\n", pkg.WeightKg, pkg.Volume(), v.ID)
	}
	return printVehicles(cmd, []model.Vehicle{v}, settings)
}

func printVehicles(cmd *cobra.Command, vs []model.Vehicle, settings model.Settings) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tCAPACITY_KG\tVOLUME_M3\tPRICE_PER_KM")
	for _, v := range vs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", v.ID, v.Name, v.Category,
			strconv.FormatFloat(v.Capacity, 'f', -1, 64),
			strconv.FormatFloat(v.VolumetricCapacity, 'f', -1, 64),
			strconv.FormatFloat(settings.VehiclePricePerKm(v), 'f', 2, 64))
	}
	return tw.Flush()
}
