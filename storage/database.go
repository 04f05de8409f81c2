package storage

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gagliardetto/solana-go"
)

const (
	walletFileName = "wallets.json"
	configDirName  = "config"
)

// walletFile is the on-disk layout: profile name to base64-encoded private
// key.
type walletFile struct {
	Wallets map[string]string `json:"wallets"`
}

// WalletStorage provides JSON-file backed storage for named wallet profiles.
type WalletStorage struct {
	path string
}

// NewWalletStorage opens the wallet file under ./config, creating the
// directory and an empty file on first use.
func NewWalletStorage() (*WalletStorage, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("could not get current working directory: %w", err)
	}
	path := filepath.Join(cwd, configDirName, walletFileName)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("could not create config directory: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeWalletFile(path, walletFile{Wallets: map[string]string{}}); err != nil {
			return nil, err
		}
	}

	return &WalletStorage{path: path}, nil
}

// GetWallet retrieves the private key for a profile.
func (s *WalletStorage) GetWallet(name string) (solana.PrivateKey, error) {
	file, err := s.read()
	if err != nil {
		return nil, err
	}

	encoded, ok := file.Wallets[name]
	if !ok {
		return nil, fmt.Errorf("no wallet found for profile %q", name)
	}

	keyBytes, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("could not decode private key: %w", err)
	}
	if len(keyBytes) != solana.PrivateKeyLength {
		return nil, fmt.Errorf("invalid private key length in wallet file: expected %d, got %d",
			solana.PrivateKeyLength, len(keyBytes))
	}

	return solana.PrivateKey(keyBytes), nil
}

// SaveWallet stores a private key under a profile name, overwriting any
// existing key for that profile.
func (s *WalletStorage) SaveWallet(name string, privateKey solana.PrivateKey) error {
	file, err := s.read()
	if err != nil {
		return err
	}

	file.Wallets[name] = base64.StdEncoding.EncodeToString(privateKey[:])
	return writeWalletFile(s.path, *file)
}

// GetAllWalletNames returns the stored profile names sorted alphabetically.
func (s *WalletStorage) GetAllWalletNames() ([]string, error) {
	file, err := s.read()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(file.Wallets))
	for name := range file.Wallets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *WalletStorage) read() (*walletFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("could not read wallet file: %w", err)
	}

	file := walletFile{Wallets: map[string]string{}}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("could not parse wallet file: %w", err)
		}
	}
	if file.Wallets == nil {
		file.Wallets = map[string]string{}
	}
	return &file, nil
}

func writeWalletFile(path string, file walletFile) error {
	data, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("could not marshal wallet data: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("could not write wallet file: %w", err)
	}
	return nil
}
