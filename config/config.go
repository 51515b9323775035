package config

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"stablesave/core/types"
)

const bpsDenominator = 10_000

// TokenConfig identifies the asset the protocol moves.
type TokenConfig struct {
	Name     string `toml:"Name"`
	Symbol   string `toml:"Symbol"`
	Decimals uint8  `toml:"Decimals"`
}

// VaultConfig carries the savings vault parameters. Amounts are decimal
// strings in the token's smallest unit so they survive TOML integer limits.
type VaultConfig struct {
	RewardRatePerSecond uint64 `toml:"RewardRatePerSecond"`
	PenaltyBps          uint32 `toml:"PenaltyBps"`
	CashbackBps         uint32 `toml:"CashbackBps"`
	PerTxRedeemCap      string `toml:"PerTxRedeemCap"`
	FeeCollector        string `toml:"FeeCollector"`
}

// TreasuryConfig carries the reward treasury parameters.
type TreasuryConfig struct {
	GlobalCap string `toml:"GlobalCap"`
}

type Config struct {
	Admin    string         `toml:"Admin"`
	Token    TokenConfig    `toml:"Token"`
	Vault    VaultConfig    `toml:"Vault"`
	Treasury TreasuryConfig `toml:"Treasury"`
}

// Load reads the configuration from the given path, creating a commented
// default file when none exists.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Token.Symbol) == "" {
		c.Token.Symbol = "USDC"
	}
	if strings.TrimSpace(c.Token.Name) == "" {
		c.Token.Name = "USD Coin"
	}
	if c.Token.Decimals == 0 {
		c.Token.Decimals = 6
	}
	if strings.TrimSpace(c.Vault.PerTxRedeemCap) == "" {
		c.Vault.PerTxRedeemCap = "0"
	}
	if strings.TrimSpace(c.Treasury.GlobalCap) == "" {
		c.Treasury.GlobalCap = "0"
	}
}

// Validate checks bps ranges, amount strings and address formats.
func (c *Config) Validate() error {
	if c.Vault.PenaltyBps > bpsDenominator {
		return fmt.Errorf("config: Vault.PenaltyBps %d exceeds %d", c.Vault.PenaltyBps, bpsDenominator)
	}
	if c.Vault.CashbackBps > bpsDenominator {
		return fmt.Errorf("config: Vault.CashbackBps %d exceeds %d", c.Vault.CashbackBps, bpsDenominator)
	}
	if _, err := ParseAmount(c.Vault.PerTxRedeemCap); err != nil {
		return fmt.Errorf("config: Vault.PerTxRedeemCap: %w", err)
	}
	if _, err := ParseAmount(c.Treasury.GlobalCap); err != nil {
		return fmt.Errorf("config: Treasury.GlobalCap: %w", err)
	}
	if strings.TrimSpace(c.Admin) != "" {
		if _, err := types.ParseAddress(c.Admin); err != nil {
			return fmt.Errorf("config: Admin: %w", err)
		}
	}
	if strings.TrimSpace(c.Vault.FeeCollector) != "" {
		if _, err := types.ParseAddress(c.Vault.FeeCollector); err != nil {
			return fmt.Errorf("config: Vault.FeeCollector: %w", err)
		}
	}
	return nil
}

// AdminAddress returns the parsed admin identity.
func (c *Config) AdminAddress() (types.Address, error) {
	return types.ParseAddress(c.Admin)
}

// FeeCollectorAddress returns the parsed fee collector identity.
func (c *Config) FeeCollectorAddress() (types.Address, error) {
	return types.ParseAddress(c.Vault.FeeCollector)
}

// PerTxRedeemCap returns the parsed per-call redemption ceiling.
func (c *Config) PerTxRedeemCap() (*big.Int, error) {
	return ParseAmount(c.Vault.PerTxRedeemCap)
}

// GlobalCap returns the parsed treasury lifetime budget.
func (c *Config) GlobalCap() (*big.Int, error) {
	return ParseAmount(c.Treasury.GlobalCap)
}

// ParseAmount decodes a non-negative base-10 amount string.
func ParseAmount(s string) (*big.Int, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return big.NewInt(0), nil
	}
	v, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("amount %q must not be negative", s)
	}
	return v, nil
}

func createDefault(path string) (*Config, error) {
	cfg := &Config{
		Token: TokenConfig{Name: "USD Coin", Symbol: "USDC", Decimals: 6},
		Vault: VaultConfig{
			RewardRatePerSecond: 1,
			PenaltyBps:          100,
			CashbackBps:         50,
			PerTxRedeemCap:      "0",
		},
		Treasury: TreasuryConfig{GlobalCap: "10000000000"},
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
