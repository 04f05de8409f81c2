package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRpcEndpointPrecedence(t *testing.T) {
	t.Setenv("SOLANA_RPC_URL", "")
	t.Setenv("HELIUS_API_KEY", "")

	assert.Equal(t, defaultRpcEndpoint, resolveRpcEndpoint(""))

	t.Setenv("HELIUS_API_KEY", "test-key")
	assert.Equal(t, "https://devnet.helius-rpc.com/?api-key=test-key", resolveRpcEndpoint(""))

	t.Setenv("SOLANA_RPC_URL", "https://rpc.example.com")
	assert.Equal(t, "https://rpc.example.com", resolveRpcEndpoint(""))

	// The flag beats every environment source.
	assert.Equal(t, "https://flag.example.com", resolveRpcEndpoint("https://flag.example.com"))
}

func TestRootCommandRegistersRpcFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("rpc")
	require.NotNil(t, flag)
	assert.Equal(t, "", flag.DefValue)
}
