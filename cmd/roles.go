package cmd

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/Accelnorm/realms-arbitration-layer/ledger"
)

var (
	rolesAdmin       string
	rolesCaseManager string
	rolesArbitrators []string
	rolesExecutors   []string
	rolesObservers   []string
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Initialize an arbitration role set and print the assignments.",
	Run: func(cmd *cobra.Command, args []string) {
		admin, err := solana.PublicKeyFromBase58(rolesAdmin)
		if err != nil {
			fmt.Println(warningStyle.Render("Invalid admin public key."))
			return
		}
		caseManager, err := solana.PublicKeyFromBase58(rolesCaseManager)
		if err != nil {
			fmt.Println(warningStyle.Render("Invalid case manager public key."))
			return
		}

		parseKeys := func(raw []string, label string) ([]solana.PublicKey, bool) {
			keys := make([]solana.PublicKey, 0, len(raw))
			for _, keyStr := range raw {
				key, err := solana.PublicKeyFromBase58(keyStr)
				if err != nil {
					fmt.Println(warningStyle.Render(fmt.Sprintf("Invalid %s public key: %s", label, keyStr)))
					return nil, false
				}
				keys = append(keys, key)
			}
			return keys, true
		}

		arbitrators, ok := parseKeys(rolesArbitrators, "arbitrator")
		if !ok {
			return
		}
		executors, ok := parseKeys(rolesExecutors, "executor")
		if !ok {
			return
		}
		observers, ok := parseKeys(rolesObservers, "observer")
		if !ok {
			return
		}

		roles := ledger.NewRoleModel()
		roles.Initialize(ledger.RoleModelConfig{
			Admin:       admin,
			CaseManager: caseManager,
			Arbitrators: arbitrators,
			Executors:   executors,
			Observers:   observers,
		})

		fmt.Println(titleStyle.Render("\n👥 Role Assignments"))
		for _, assignment := range roles.Assignments() {
			fmt.Println(infoStyle.Render(fmt.Sprintf("   %-14s %s", assignment.Role, assignment.Pubkey)))
		}
	},
}

func init() {
	rolesCmd.Flags().StringVar(&rolesAdmin, "admin", "", "admin public key")
	rolesCmd.Flags().StringVar(&rolesCaseManager, "case-manager", "", "case manager public key")
	rolesCmd.Flags().StringSliceVar(&rolesArbitrators, "arbitrator", nil, "arbitrator public key (repeatable)")
	rolesCmd.Flags().StringSliceVar(&rolesExecutors, "executor", nil, "executor public key (repeatable)")
	rolesCmd.Flags().StringSliceVar(&rolesObservers, "observer", nil, "observer public key (repeatable)")
	rolesCmd.MarkFlagRequired("admin")
	rolesCmd.MarkFlagRequired("case-manager")
	rootCmd.AddCommand(rolesCmd)
}
