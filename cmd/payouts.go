package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	safe_treasury "github.com/Accelnorm/realms-arbitration-layer/solana"
	"github.com/Accelnorm/realms-arbitration-layer/storage"
)

var (
	payoutsSafe    string
	payoutsProfile string
)

var payoutsCmd = &cobra.Command{
	Use:   "payouts",
	Short: "List a safe's payout queue and act on individual payouts.",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := storage.NewWalletStorage()
		if err != nil {
			fmt.Println(warningStyle.Render(fmt.Sprintf("Failed to open wallet storage: %v", err)))
			return
		}
		signer, err := db.GetWallet(payoutsProfile)
		if err != nil {
			fmt.Println(warningStyle.Render(fmt.Sprintf("Profile '%s' not found: %v", payoutsProfile, err)))
			return
		}
		handlePayoutQueueForSafe(signer, payoutsSafe)
	},
}

func init() {
	payoutsCmd.Flags().StringVar(&payoutsSafe, "safe", "", "safe address to list payouts for")
	payoutsCmd.Flags().StringVar(&payoutsProfile, "profile", "authority", "wallet profile to sign with")
	payoutsCmd.MarkFlagRequired("safe")
	rootCmd.AddCommand(payoutsCmd)
}

func handlePayoutQueue(signer solana.PrivateKey) {
	safeStr := ""
	safePrompt := &survey.Input{Message: "Enter the safe address:"}
	survey.AskOne(safePrompt, &safeStr, survey.WithValidator(survey.Required))
	handlePayoutQueueForSafe(signer, safeStr)
}

func handlePayoutQueueForSafe(signer solana.PrivateKey, safeStr string) {
	safe, err := solana.PublicKeyFromBase58(safeStr)
	if err != nil {
		fmt.Println(warningStyle.Render("Invalid safe address."))
		return
	}

	client, err := safe_treasury.NewClient(GetRpcEndpoint(), signer)
	if err != nil {
		fmt.Println(warningStyle.Render(fmt.Sprintf("Failed to create Solana client: %v", err)))
		return
	}

	fmt.Println(promptStyle.Render("\nFetching payout queue... Please wait."))
	results, err := client.FetchPayoutQueue(context.Background(), safe)
	if err != nil {
		fmt.Println(warningStyle.Render(fmt.Sprintf("\n❌ Failed to fetch payout queue: %v", err)))
		return
	}
	if len(results) == 0 {
		fmt.Println(promptStyle.Render("\nNo payouts found for this safe."))
		return
	}

	now := time.Now()
	fmt.Println(titleStyle.Render(fmt.Sprintf("\n📋 Payout Queue (%d payouts)", len(results))))
	fmt.Println(infoStyle.Render(fmt.Sprintf("   %-6s %-12s %-10s %-16s %s", "ID", "Status", "Asset", "Time Remaining", "Recipient")))
	for _, result := range results {
		payout := result.Account
		fmt.Println(promptStyle.Render(fmt.Sprintf("   %-6d %-12s %-10s %-16s %s",
			payout.PayoutID,
			payout.DisplayStatusLabel(now),
			payout.AssetType.Label(),
			payout.TimeRemainingLabel(now),
			payout.Recipient.String(),
		)))
	}

	handlePayoutAction(client, safe, results)
}

func handlePayoutAction(client *safe_treasury.Client, safe solana.PublicKey, results []*safe_treasury.PayoutResult) {
	var action string
	menu := &survey.Select{
		Message: promptStyle.Render("Choose an action:"),
		Options: []string{"Challenge a Payout", "Release a Payout", "Back"},
	}
	survey.AskOne(menu, &action)

	if action == "Back" || action == "" {
		return
	}

	indexStr := ""
	indexPrompt := &survey.Input{Message: "Enter the payout index:"}
	survey.AskOne(indexPrompt, &indexStr, survey.WithValidator(survey.Required))
	index, err := strconv.ParseUint(indexStr, 10, 64)
	if err != nil {
		fmt.Println(warningStyle.Render("Invalid payout index."))
		return
	}

	var selected *safe_treasury.Payout
	for _, result := range results {
		if result.Account.PayoutIndex == index {
			payout := result.Account
			selected = &payout
			break
		}
	}
	if selected == nil {
		fmt.Println(warningStyle.Render("No payout with that index in the queue."))
		return
	}

	switch action {
	case "Challenge a Payout":
		challengePayout(client, safe, selected)
	case "Release a Payout":
		releasePayout(client, safe, selected)
	}
}

func challengePayout(client *safe_treasury.Client, safe solana.PublicKey, payout *safe_treasury.Payout) {
	// The bond must be held in an eligibility token account; find one before
	// building the transaction.
	fmt.Println(promptStyle.Render("\nLooking up your eligibility token account..."))
	tokenAccount, err := client.FindEligibilityTokenAccount(
		context.Background(),
		client.Signer.PublicKey(),
		payout.EligibilityMint,
		payout.MinTokenBalance,
	)
	if err != nil {
		fmt.Println(warningStyle.Render(fmt.Sprintf("\n❌ Token account lookup failed: %v", err)))
		return
	}
	if tokenAccount == nil {
		fmt.Println(warningStyle.Render("\n❌ No token account with the required eligibility balance."))
		return
	}

	confirm := false
	confirmPrompt := &survey.Confirm{
		Message: fmt.Sprintf("Post a bond of %d lamports to challenge payout %d?", payout.ChallengeBond, payout.PayoutID),
		Default: false,
	}
	survey.AskOne(confirmPrompt, &confirm)
	if !confirm {
		fmt.Println(promptStyle.Render("\nChallenge cancelled."))
		return
	}

	sig, err := client.ChallengePayout(context.Background(), safe_treasury.ChallengePayoutArgs{
		Safe:                   safe,
		PayoutIndex:            payout.PayoutIndex,
		SafePolicyAuthority:    payout.PolicyAuthority,
		ChallengerTokenAccount: *tokenAccount,
		BondAmount:             payout.ChallengeBond,
	})
	if err != nil {
		if safe_treasury.IsLikelyStalePayoutStateError(err.Error()) {
			fmt.Println(warningStyle.Render("\n❌ The payout state changed since it was listed. Refresh the queue and try again."))
			return
		}
		fmt.Println(warningStyle.Render(fmt.Sprintf("\n❌ Challenge failed: %v", err)))
		return
	}

	fmt.Println(titleStyle.Render("\n✅ Challenge Submitted!"))
	fmt.Printf("   Transaction Signature: %s\n", sig.String())
}

func releasePayout(client *safe_treasury.Client, safe solana.PublicKey, payout *safe_treasury.Payout) {
	if !payout.IsReleaseReady(time.Now()) {
		fmt.Println(warningStyle.Render("\n❌ Payout is not release-ready."))
		return
	}

	args := safe_treasury.ReleasePayoutArgs{
		Safe:        safe,
		PayoutIndex: payout.PayoutIndex,
		Recipient:   payout.Recipient,
		AssetType:   payout.AssetType,
	}
	if payout.AssetType != safe_treasury.AssetType_Native {
		if payout.Mint == nil {
			fmt.Println(warningStyle.Render("\n❌ Payout has no mint recorded; cannot release."))
			return
		}
		recipientTokenAccount, _, err := solana.FindAssociatedTokenAddress(payout.Recipient, *payout.Mint)
		if err != nil {
			fmt.Println(warningStyle.Render(fmt.Sprintf("\n❌ Failed to derive recipient token account: %v", err)))
			return
		}
		tokenProgram := solana.TokenProgramID
		if payout.AssetType == safe_treasury.AssetType_Spl2022 {
			tokenProgram = safe_treasury.Token2022ProgramID
		}
		args.Mint = payout.Mint
		args.SafePolicyAuthority = &payout.PolicyAuthority
		args.RecipientTokenAccount = &recipientTokenAccount
		args.TokenProgram = &tokenProgram
	}

	sig, err := client.ReleasePayout(context.Background(), args)
	if err != nil {
		if safe_treasury.IsLikelyStalePayoutStateError(err.Error()) {
			fmt.Println(warningStyle.Render("\n❌ The payout state changed since it was listed. Refresh the queue and try again."))
			return
		}
		fmt.Println(warningStyle.Render(fmt.Sprintf("\n❌ Release failed: %v", err)))
		return
	}

	fmt.Println(titleStyle.Render("\n✅ Payout Released!"))
	fmt.Printf("   Transaction Signature: %s\n", sig.String())
}
