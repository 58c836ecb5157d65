package main

import (
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(minimumsCmd)
}

var minimumsCmd = &cobra.Command{
	Use:   "minimums",
	Short: "Show the per-platform minimum order quantities",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := getOutputPrinter()
		ctx, cancel := commandContext()
		defer cancel()

		a := getApp(ctx)
		defer a.Close()

		if a.Minimums.Len() == 0 {
			if out.IsJSON() {
				return out.Success(map[string]int{})
			}
			out.Println("No minimums configured; every quantity defaults to 1.")
			return nil
		}

		if out.IsJSON() {
			result := make(map[string]map[string]int)
			for _, platform := range a.Minimums.Platforms() {
				result[platform] = make(map[string]int)
				for _, engagement := range a.Minimums.EngagementTypesFor(platform) {
					result[platform][engagement] = a.Minimums.MinimumFor(platform, engagement)
				}
			}
			return out.Success(result)
		}

		var rows [][]string
		for _, platform := range a.Minimums.Platforms() {
			for _, engagement := range a.Minimums.EngagementTypesFor(platform) {
				rows = append(rows, []string{
					platform,
					engagement,
					strconv.Itoa(a.Minimums.MinimumFor(platform, engagement)),
				})
			}
		}
		out.Table([]string{"Platform", "Engagement", "Minimum"}, rows)
		return nil
	},
}
