package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	weatherLat float64
	weatherLon float64
)

var weatherCmd = &cobra.Command{
	Use:   "weather",
	Short: "Show the weather report and farming advice for a location",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}

		report, err := apiClient.Weather(cmd.Context(), weatherLat, weatherLon)
		if err != nil {
			return err
		}

		fmt.Printf("%s: %.1f°C (%s), humidity %.0f%%, wind %.1f m/s\n",
			report.Current.Location,
			report.Current.Temp,
			report.Current.Description,
			report.Current.Humidity,
			report.Current.WindSpeed,
		)
		fmt.Printf("GDD %.1f, ET %.1f mm, irrigation need: %s\n",
			report.Metrics.GrowingDegreeDays,
			report.Metrics.Evapotranspiration,
			report.Metrics.IrrigationNeed,
		)
		for _, a := range report.Advice {
			fmt.Printf("  [%s] %s\n", a.Risk, a.Message)
		}
		if len(report.Forecast) > 0 {
			fmt.Println("Next 24 hours:")
			for _, f := range report.Forecast {
				fmt.Printf("  %s  %.1f°C, %s, rain %.0f%%\n",
					f.Date, f.Temp, f.Description, f.RainChance)
			}
		}
		return nil
	},
}

func init() {
	weatherCmd.Flags().Float64Var(&weatherLat, "lat", 0, "latitude")
	weatherCmd.Flags().Float64Var(&weatherLon, "lon", 0, "longitude")
	_ = weatherCmd.MarkFlagRequired("lat")
	_ = weatherCmd.MarkFlagRequired("lon")
	rootCmd.AddCommand(weatherCmd)
}
