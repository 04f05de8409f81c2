package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	figure "github.com/common-nighthawk/go-figure"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	safe_treasury "github.com/Accelnorm/realms-arbitration-layer/solana"
	"github.com/Accelnorm/realms-arbitration-layer/storage"
)

var rootCmd = &cobra.Command{
	Use:   "dispute-safe-cli",
	Short: "Dispute Safe CLI manages escrowed payouts and their arbitration.",
	Long:  `An interactive command-line interface for the dispute safe program: safe policies, payout queues, challenges and releases, plus the off-chain arbitration ledger.`,
	Run:   run,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rpcFlag, "rpc", "", "RPC endpoint URL (overrides SOLANA_RPC_URL)")
}

// run is the main entry point for the interactive CLI.
func run(cmd *cobra.Command, args []string) {
	GetRpcEndpoint()

	myFigure := figure.NewFigure("DISPUTE SAFE", "larry3d", true)
	fmt.Println(titleStyle.Render(myFigure.String()))

	for {
		signer, profileName, err := runProfileSelection()
		if err != nil {
			// Returned when the user chooses to exit.
			fmt.Println("Exiting Dispute Safe CLI.")
			os.Exit(0)
		}
		runInteractive(signer, profileName)
	}
}

// runProfileSelection handles the UI for choosing or creating a wallet profile.
func runProfileSelection() (solana.PrivateKey, string, error) {
	db, err := storage.NewWalletStorage()
	if err != nil {
		panic(fmt.Sprintf("failed to connect to wallet storage: %v", err))
	}

	for {
		profiles, err := db.GetAllWalletNames()
		if err != nil {
			panic(fmt.Sprintf("failed to get wallet profiles: %v", err))
		}

		options := append(profiles, "Create New Profile", "Exit")

		selection := ""
		prompt := &survey.Select{
			Message: promptStyle.Render("Choose a profile to continue:"),
			Options: options,
		}
		survey.AskOne(prompt, &selection)

		switch selection {
		case "Create New Profile":
			handleCreateProfile(db)
			continue
		case "Exit":
			return nil, "", fmt.Errorf("user exited")
		default: // A profile was selected
			signer, err := db.GetWallet(selection)
			if err != nil {
				panic(fmt.Sprintf("failed to get wallet for profile '%s': %v", selection, err))
			}
			return signer, selection, nil
		}
	}
}

func handleCreateProfile(db *storage.WalletStorage) {
	name := ""
	namePrompt := &survey.Input{Message: "Profile name (e.g. authority, resolver, challenger):"}
	survey.AskOne(namePrompt, &name, survey.WithValidator(survey.Required))

	fmt.Println(promptStyle.Render("\nCreating new wallet..."))
	newWallet := solana.NewWallet()
	if err := db.SaveWallet(name, newWallet.PrivateKey); err != nil {
		fmt.Println(warningStyle.Render(fmt.Sprintf("❌ Failed to save new wallet: %v", err)))
		return
	}
	fmt.Println(titleStyle.Render("\n✅ Profile Created!"))
	fmt.Println(promptStyle.Render("   Wallet address:"), newWallet.PublicKey().String())
}

func runInteractive(signer solana.PrivateKey, profileName string) {
	fmt.Printf("\n---\n")
	fmt.Println(titleStyle.Render(fmt.Sprintf("Operating with profile: %s", profileName)))
	fmt.Println(promptStyle.Render(fmt.Sprintf("Address: %s", signer.PublicKey())))
	fmt.Printf("---\n\n")

	menu := &survey.Select{
		Message: promptStyle.Render("Choose an action:"),
		Options: []string{
			"View Payout Queue",
			"Initialize Safe Policy",
			"Queue Payout",
			"Wallet Management",
			"Switch Profile",
		},
		Help: "Use the arrow keys to navigate, and press Enter to select.",
	}

	var choice string
	if err := survey.AskOne(menu, &choice); err != nil {
		fmt.Println(warningStyle.Render(err.Error()))
		return
	}

	switch choice {
	case "View Payout Queue":
		handlePayoutQueue(signer)
	case "Initialize Safe Policy":
		handleInitializeSafePolicy(signer)
	case "Queue Payout":
		handleQueuePayout(signer)
	case "Wallet Management":
		handleWalletManagement(signer)
	case "Switch Profile":
		return
	}
	fmt.Println()
}

func handleInitializeSafePolicy(signer solana.PrivateKey) {
	client, err := safe_treasury.NewClient(GetRpcEndpoint(), signer)
	if err != nil {
		fmt.Println(warningStyle.Render(fmt.Sprintf("Failed to create Solana client: %v", err)))
		return
	}

	resolverStr := ""
	resolverPrompt := &survey.Input{Message: "Enter the resolver's public key:"}
	survey.AskOne(resolverPrompt, &resolverStr, survey.WithValidator(survey.Required))
	resolver, err := solana.PublicKeyFromBase58(resolverStr)
	if err != nil {
		fmt.Println(warningStyle.Render("Invalid resolver public key."))
		return
	}

	windowStr := "86400"
	windowPrompt := &survey.Input{Message: "Dispute window in seconds:", Default: "86400"}
	survey.AskOne(windowPrompt, &windowStr)
	window, err := strconv.ParseUint(windowStr, 10, 64)
	if err != nil {
		fmt.Println(warningStyle.Render("Invalid dispute window."))
		return
	}

	bondStr := ""
	bondPrompt := &survey.Input{Message: "Challenge bond in lamports:"}
	survey.AskOne(bondPrompt, &bondStr, survey.WithValidator(survey.Required))
	bond, err := strconv.ParseUint(bondStr, 10, 64)
	if err != nil {
		fmt.Println(warningStyle.Render("Invalid bond amount."))
		return
	}

	mintStr := ""
	mintPrompt := &survey.Input{Message: "Eligibility token mint:"}
	survey.AskOne(mintPrompt, &mintStr, survey.WithValidator(survey.Required))
	mint, err := solana.PublicKeyFromBase58(mintStr)
	if err != nil {
		fmt.Println(warningStyle.Render("Invalid mint address."))
		return
	}

	fmt.Println(promptStyle.Render("\nInitializing safe policy..."))
	sig, err := client.InitializeSafePolicy(context.Background(), safe_treasury.InitializeSafePolicyArgs{
		Resolver:        resolver,
		DisputeWindow:   window,
		ChallengeBond:   bond,
		EligibilityMint: mint,
		MinTokenBalance: 1,
	})
	if err != nil {
		fmt.Println(warningStyle.Render(fmt.Sprintf("\n❌ Safe policy initialization failed: %v", err)))
		return
	}

	fmt.Println(titleStyle.Render("\n✅ Safe Policy Initialized!"))
	fmt.Printf("   Transaction Signature: %s\n", sig.String())
}

func handleQueuePayout(signer solana.PrivateKey) {
	client, err := safe_treasury.NewClient(GetRpcEndpoint(), signer)
	if err != nil {
		fmt.Println(warningStyle.Render(fmt.Sprintf("Failed to create Solana client: %v", err)))
		return
	}

	safeStr := ""
	safePrompt := &survey.Input{Message: "Enter the safe address:"}
	survey.AskOne(safePrompt, &safeStr, survey.WithValidator(survey.Required))
	safe, err := solana.PublicKeyFromBase58(safeStr)
	if err != nil {
		fmt.Println(warningStyle.Render("Invalid safe address."))
		return
	}

	recipientStr := ""
	recipientPrompt := &survey.Input{Message: "Enter the recipient address:"}
	survey.AskOne(recipientPrompt, &recipientStr, survey.WithValidator(survey.Required))
	recipient, err := solana.PublicKeyFromBase58(recipientStr)
	if err != nil {
		fmt.Println(warningStyle.Render("Invalid recipient address."))
		return
	}

	amountStr := ""
	amountPrompt := &survey.Input{Message: "Enter amount of SOL to queue:"}
	survey.AskOne(amountPrompt, &amountStr, survey.WithValidator(survey.Required))
	amountFloat, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		fmt.Println(warningStyle.Render("Invalid amount entered."))
		return
	}
	amountLamports := uint64(amountFloat * float64(solana.LAMPORTS_PER_SOL))

	fmt.Println(promptStyle.Render(fmt.Sprintf("\nQueueing payout of %f SOL...", amountFloat)))
	sig, err := client.QueuePayout(context.Background(), safe_treasury.QueuePayoutArgs{
		Safe:                safe,
		SafePolicyAuthority: signer.PublicKey(),
		Authority:           signer.PublicKey(),
		AssetType:           safe_treasury.AssetType_Native,
		Recipient:           recipient,
		Amount:              amountLamports,
	})
	if err != nil {
		fmt.Println(warningStyle.Render(fmt.Sprintf("\n❌ Queue payout failed: %v", err)))
		return
	}

	fmt.Println(titleStyle.Render("\n✅ Payout Queued!"))
	fmt.Printf("   Transaction Signature: %s\n", sig.String())
}

func handleWalletManagement(signer solana.PrivateKey) {
	fmt.Println()
	menu := &survey.Select{
		Message: promptStyle.Render("Wallet Management:"),
		Options: []string{"View Address", "View Balance", "Export Wallet (UNSAFE)", "Back to Main Menu"},
	}
	var choice string
	survey.AskOne(menu, &choice)

	switch choice {
	case "View Address":
		fmt.Println(titleStyle.Render("\n🔑 Your Current Wallet Address:"))
		fmt.Println(signer.PublicKey().String())
	case "View Balance":
		viewBalance(signer)
	case "Export Wallet (UNSAFE)":
		exportWallet(signer)
	case "Back to Main Menu":
		return
	}
}

func viewBalance(signer solana.PrivateKey) {
	client, err := safe_treasury.NewClient(GetRpcEndpoint(), signer)
	if err != nil {
		fmt.Println(warningStyle.Render(fmt.Sprintf("Failed to create Solana client: %v", err)))
		return
	}
	fmt.Println(promptStyle.Render("\nChecking balance... Please wait."))
	balanceLamports, err := client.GetBalance(signer.PublicKey())
	if err != nil {
		fmt.Println(warningStyle.Render(fmt.Sprintf("\n❌ Failed to get balance: %v", err)))
		return
	}
	balanceSOL := float64(balanceLamports) / float64(solana.LAMPORTS_PER_SOL)
	fmt.Println(titleStyle.Render("\n💰 Your Wallet Balance:"))
	fmt.Printf("   %.9f SOL\n", balanceSOL)
}

func exportWallet(signer solana.PrivateKey) {
	fmt.Println(warningStyle.Render("\n⚠️ WARNING: EXPORTING YOUR PRIVATE KEY ⚠️"))
	fmt.Println(promptStyle.Render("Sharing your private key can result in the permanent loss of your funds."))
	confirm := false
	prompt := &survey.Confirm{Message: "Are you absolutely sure?", Default: false}
	survey.AskOne(prompt, &confirm)
	if !confirm {
		fmt.Println(promptStyle.Render("\nExport cancelled."))
		return
	}
	fmt.Println(titleStyle.Render("\n🔐 Your Private Key (Base58):"))
	fmt.Println(signer.String())
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
