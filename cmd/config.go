package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

const defaultRpcEndpoint = "https://api.devnet.solana.com"

var (
	rpcFlag             string
	rpcEndpoint         string
	endpointInitialized = false
)

// GetRpcEndpoint resolves the RPC endpoint once and caches it for the rest
// of the process. The --rpc flag wins over SOLANA_RPC_URL, which wins over
// HELIUS_API_KEY; the public devnet endpoint is the fallback.
func GetRpcEndpoint() string {
	if !endpointInitialized {
		rpcEndpoint = resolveRpcEndpoint(rpcFlag)
		endpointInitialized = true
	}
	return rpcEndpoint
}

func resolveRpcEndpoint(flagValue string) string {
	if flagValue != "" {
		log.Println("Info: Using RPC endpoint from --rpc flag.")
		return flagValue
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Info: .env file not found, using default public RPC endpoint.")
	}

	if customEndpoint := os.Getenv("SOLANA_RPC_URL"); customEndpoint != "" {
		log.Println("Info: Using custom RPC endpoint from SOLANA_RPC_URL.")
		return customEndpoint
	}
	if heliusApiKey := os.Getenv("HELIUS_API_KEY"); heliusApiKey != "" {
		log.Println("Info: Using Helius RPC endpoint.")
		return fmt.Sprintf("https://devnet.helius-rpc.com/?api-key=%s", heliusApiKey)
	}
	return defaultRpcEndpoint
}
