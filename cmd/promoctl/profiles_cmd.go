package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"promoctl/pkg/models"
	"promoctl/pkg/profiles"
)

var (
	profileRules       []string
	profilePlatform    string
	profileLoops       int
	profileDelay       float64
	profileRandomDelay bool
	profileMinDelay    float64
	profileMaxDelay    float64
	profileRenameFrom  string
	profileExportFile  string
)

func init() {
	rootCmd.AddCommand(profilesCmd)
	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesShowCmd)
	profilesCmd.AddCommand(profilesSaveCmd)
	profilesCmd.AddCommand(profilesDeleteCmd)
	profilesCmd.AddCommand(profilesExportCmd)
	profilesCmd.AddCommand(profilesImportCmd)

	profilesExportCmd.Flags().StringVarP(&profileExportFile, "output", "o", "", "Write to a file instead of stdout")

	profilesSaveCmd.Flags().StringArrayVar(&profileRules, "rule", nil,
		`Engagement rule, repeatable: "Likes=100" (fixed), "Likes=10-50" (random), optional "x2" loop suffix`)
	profilesSaveCmd.Flags().StringVar(&profilePlatform, "platform", "", "Platform the rules apply to")
	profilesSaveCmd.Flags().IntVar(&profileLoops, "loops", 1, "How many times to run the profile")
	profilesSaveCmd.Flags().Float64Var(&profileDelay, "delay", 0, "Fixed delay between loops, in minutes")
	profilesSaveCmd.Flags().BoolVar(&profileRandomDelay, "random-delay", false, "Randomize the delay between loops")
	profilesSaveCmd.Flags().Float64Var(&profileMinDelay, "min-delay", 0, "Minimum random delay, in minutes")
	profilesSaveCmd.Flags().Float64Var(&profileMaxDelay, "max-delay", 0, "Maximum random delay, in minutes")
	profilesSaveCmd.Flags().StringVar(&profileRenameFrom, "rename-from", "", "Existing profile to rename")
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage promotion profiles",
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := getOutputPrinter()
		ctx, cancel := commandContext()
		defer cancel()

		a := getApp(ctx)
		defer a.Close()

		all := a.Profiles.All()
		if out.IsJSON() {
			return out.Success(all)
		}
		if len(all) == 0 {
			out.Println("No profiles saved.")
			return nil
		}

		rows := make([][]string, 0, len(all))
		for _, name := range a.Profiles.Names() {
			settings := all[name]
			rows = append(rows, []string{
				name,
				strconv.Itoa(len(settings.Engagements)),
				strconv.Itoa(settings.LoopSettings.Loops),
				formatDelay(settings.LoopSettings),
			})
		}
		out.Table([]string{"Name", "Rules", "Loops", "Delay"}, rows)
		return nil
	},
}

var profilesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a profile's engagement rules",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := getOutputPrinter()
		ctx, cancel := commandContext()
		defer cancel()

		a := getApp(ctx)
		defer a.Close()

		settings, ok := a.Profiles.Get(args[0])
		if !ok {
			return out.Error(fmt.Errorf("no profile named %q", args[0]))
		}
		if out.IsJSON() {
			return out.Success(models.Profile{Name: args[0], Settings: settings})
		}

		rows := make([][]string, 0, len(settings.Engagements))
		for _, rule := range settings.Engagements {
			rows = append(rows, []string{
				rule.Type,
				rule.Platform,
				formatQuantity(rule),
				strconv.Itoa(rule.Loops),
			})
		}
		out.Table([]string{"Engagement", "Platform", "Quantity", "Loops"}, rows)
		out.Printf("Loops: %d, delay: %s\n", settings.LoopSettings.Loops, formatDelay(settings.LoopSettings))
		return nil
	},
}

var profilesSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Create or update a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := getOutputPrinter()
		ctx, cancel := commandContext()
		defer cancel()

		a := getApp(ctx)
		defer a.Close()

		originalName := profileRenameFrom
		if originalName == "" {
			originalName = args[0]
		}

		editor := profiles.NewEditor(a.Minimums)
		if existing, ok := a.Profiles.Get(originalName); ok && len(profileRules) == 0 {
			// No --rule flags: keep the stored rules, only loop settings change.
			editor.Load(existing.Engagements)
		}
		for _, spec := range profileRules {
			if err := applyRuleSpec(editor, spec); err != nil {
				return out.Error(err)
			}
		}

		rules, err := editor.Rules()
		if err != nil {
			return out.Error(err)
		}

		settings := models.ProfileSettings{
			Engagements: rules,
			LoopSettings: models.LoopSettings{
				Loops:       profileLoops,
				Delay:       profileDelay,
				RandomDelay: profileRandomDelay,
				MinDelay:    profileMinDelay,
				MaxDelay:    profileMaxDelay,
			},
		}

		if _, err := a.Profiles.Save(ctx, args[0], settings, originalName); err != nil {
			return out.Error(err)
		}
		if out.IsJSON() {
			return out.Success(map[string]any{"name": args[0], "rules": len(rules)})
		}
		out.Printf("✓ Saved profile %q (%d rules)\n", args[0], len(rules))
		return nil
	},
}

var profilesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := getOutputPrinter()
		ctx, cancel := commandContext()
		defer cancel()

		a := getApp(ctx)
		defer a.Close()

		remaining, err := a.Profiles.Delete(ctx, args[0])
		if err != nil {
			return out.Error(err)
		}
		if out.IsJSON() {
			return out.Success(map[string]any{"deleted": args[0], "remaining": len(remaining)})
		}
		out.Printf("✓ Deleted profile %q\n", args[0])
		return nil
	},
}

var profilesExportCmd = &cobra.Command{
	Use:   "export [name]",
	Short: "Export profiles as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := getOutputPrinter()
		ctx, cancel := commandContext()
		defer cancel()

		a := getApp(ctx)
		defer a.Close()

		set := a.Profiles.All()
		if len(args) == 1 {
			settings, ok := a.Profiles.Get(args[0])
			if !ok {
				return out.Error(fmt.Errorf("no profile named %q", args[0]))
			}
			set = map[string]models.ProfileSettings{args[0]: settings}
		}

		data, err := json.MarshalIndent(set, "", "  ")
		if err != nil {
			return out.Error(err)
		}

		if profileExportFile == "" {
			out.Println(string(data))
			return nil
		}
		if err := os.WriteFile(profileExportFile, data, 0o644); err != nil {
			return out.Error(err)
		}
		if out.IsJSON() {
			return out.Success(map[string]any{"file": profileExportFile, "profiles": len(set)})
		}
		out.Printf("✓ Exported %d profiles to %s\n", len(set), profileExportFile)
		return nil
	},
}

var profilesImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import profiles from a JSON export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := getOutputPrinter()
		ctx, cancel := commandContext()
		defer cancel()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return out.Error(err)
		}
		var set map[string]models.ProfileSettings
		if err := json.Unmarshal(data, &set); err != nil {
			return out.Error(fmt.Errorf("parse %s: %w", args[0], err))
		}

		a := getApp(ctx)
		defer a.Close()

		// Each profile goes through the same validation and server round-trip
		// as a manual save.
		names := make([]string, 0, len(set))
		for name := range set {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if _, err := a.Profiles.Save(ctx, name, set[name], name); err != nil {
				return out.Error(fmt.Errorf("import %q: %w", name, err))
			}
		}

		if out.IsJSON() {
			return out.Success(map[string]any{"imported": len(set)})
		}
		out.Printf("✓ Imported %d profiles from %s\n", len(set), args[0])
		return nil
	},
}

// applyRuleSpec parses one --rule value into an editor row. Accepted shapes:
// "Likes=100", "Likes=10-50", both with an optional "x2" loop suffix.
func applyRuleSpec(editor *profiles.Editor, spec string) error {
	name, quantity, ok := strings.Cut(spec, "=")
	if !ok {
		return fmt.Errorf("invalid rule %q: expected TYPE=QUANTITY", spec)
	}
	name = strings.TrimSpace(name)

	loops := ""
	if base, after, found := strings.Cut(quantity, "x"); found {
		quantity, loops = base, after
	}
	quantity = strings.TrimSpace(quantity)

	row, err := editor.AddRule(name, profilePlatform)
	if err != nil {
		return err
	}
	if loops != "" {
		row.Loops = strings.TrimSpace(loops)
	}

	if minPart, maxPart, isRange := strings.Cut(quantity, "-"); isRange {
		editor.SetRandom(name, true)
		row.Min = strings.TrimSpace(minPart)
		row.Max = strings.TrimSpace(maxPart)
		return nil
	}
	row.Fixed = quantity
	return nil
}

func formatQuantity(rule models.EngagementRule) string {
	if rule.UseRandomQuantity {
		if rule.MinQuantity != nil && rule.MaxQuantity != nil {
			return fmt.Sprintf("%d-%d (random)", *rule.MinQuantity, *rule.MaxQuantity)
		}
		return "random"
	}
	if rule.FixedQuantity != nil {
		return strconv.Itoa(*rule.FixedQuantity)
	}
	return "-"
}

func formatDelay(ls models.LoopSettings) string {
	if ls.RandomDelay {
		return fmt.Sprintf("%g-%g min (random)", ls.MinDelay, ls.MaxDelay)
	}
	return fmt.Sprintf("%g min", ls.Delay)
}
