package cmd

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/Accelnorm/realms-arbitration-layer/ledger"
)

var (
	bootstrapRealmName string
	bootstrapAdmin     string
	bootstrapResolver  string
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Derive the realm deployment manifest for an arbitration DAO.",
	Run: func(cmd *cobra.Command, args []string) {
		admin, err := solana.PublicKeyFromBase58(bootstrapAdmin)
		if err != nil {
			fmt.Println(warningStyle.Render("Invalid admin public key."))
			return
		}
		resolver, err := solana.PublicKeyFromBase58(bootstrapResolver)
		if err != nil {
			fmt.Println(warningStyle.Render("Invalid resolver public key."))
			return
		}

		manifest, err := ledger.Deploy(ledger.BootstrapConfig{
			RealmName:        bootstrapRealmName,
			ResolverIdentity: resolver,
			Admin:            admin,
		})
		if err != nil {
			fmt.Println(warningStyle.Render(fmt.Sprintf("❌ Bootstrap derivation failed: %v", err)))
			return
		}

		binding := ledger.BindResolver(manifest.GovernanceAuthority, resolver)

		fmt.Println(titleStyle.Render("\n🏛️  Arbitration Realm Manifest"))
		fmt.Println(infoStyle.Render(fmt.Sprintf("   Realm:                %s", manifest.Realm)))
		fmt.Println(infoStyle.Render(fmt.Sprintf("   Governance Authority: %s", manifest.GovernanceAuthority)))
		fmt.Println(infoStyle.Render(fmt.Sprintf("   Governance Program:   %s", manifest.ProgramID)))
		fmt.Println(infoStyle.Render(fmt.Sprintf("   Resolver Identity:    %s", binding.ResolverIdentity)))
		fmt.Println(infoStyle.Render(fmt.Sprintf("   Chain:                %s", manifest.ChainID)))
	},
}

func init() {
	bootstrapCmd.Flags().StringVar(&bootstrapRealmName, "realm", "", "realm name to derive")
	bootstrapCmd.Flags().StringVar(&bootstrapAdmin, "admin", "", "admin public key")
	bootstrapCmd.Flags().StringVar(&bootstrapResolver, "resolver", "", "resolver identity public key")
	bootstrapCmd.MarkFlagRequired("realm")
	bootstrapCmd.MarkFlagRequired("admin")
	bootstrapCmd.MarkFlagRequired("resolver")
	rootCmd.AddCommand(bootstrapCmd)
}
