package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-dose-tracker/internal/render"
	"github.com/Tiliavir/trivial-dose-tracker/internal/tracker"
)

var familyRelation string

var familyCmd = &cobra.Command{
	Use:   "family",
	Short: "Manage family member profiles",
}

var familyAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a family member",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(t *tracker.Tracker, p *render.Printer) error {
			m, err := t.AddFamilyMember(args[0], familyRelation)
			if err != nil {
				return err
			}
			p.Printf("Added %s %s\n", m.Name, p.Muted("["+m.ID[:8]+"]"))
			return nil
		})
	},
}

var familyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List family members",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(t *tracker.Tracker, p *render.Printer) error {
			for _, m := range t.Family() {
				marker := " "
				if m.Active {
					marker = "*"
				}
				p.Printf("%s %-20s %-12s %s\n", marker, m.Name, m.Relation, p.Muted(m.Color))
			}
			totals := t.Profile()
			p.Println(p.Muted(fmt.Sprintf("%d medicines, %d day streak, %d measurements",
				totals.Medicines, totals.Streak, totals.Measurements)))
			return nil
		})
	},
}

var familySwitchCmd = &cobra.Command{
	Use:   "switch <name|id>",
	Short: "Make a family member the active profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(t *tracker.Tracker, p *render.Printer) error {
			m, err := t.SwitchFamilyMember(args[0])
			if err != nil {
				return err
			}
			p.Printf("Active profile: %s\n", m.Name)
			return nil
		})
	},
}

func init() {
	familyAddCmd.Flags().StringVar(&familyRelation, "relation", "", "Relation, e.g. mother")
	familyCmd.AddCommand(familyAddCmd)
	familyCmd.AddCommand(familyListCmd)
	familyCmd.AddCommand(familySwitchCmd)
}
