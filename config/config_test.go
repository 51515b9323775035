package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadParsesProtocolSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stablesave.toml")
	contents := `Admin = "0x0000000000000000000000000000000000000001"

[Token]
Name = "Mock USD Coin"
Symbol = "mUSDC"
Decimals = 6

[Vault]
RewardRatePerSecond = 2
PenaltyBps = 250
CashbackBps = 75
PerTxRedeemCap = "400000"
FeeCollector = "0x0000000000000000000000000000000000000002"

[Treasury]
GlobalCap = "10000000000"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "mUSDC", cfg.Token.Symbol)
	require.Equal(t, uint64(2), cfg.Vault.RewardRatePerSecond)
	require.Equal(t, uint32(250), cfg.Vault.PenaltyBps)
	require.Equal(t, uint32(75), cfg.Vault.CashbackBps)

	cap, err := cfg.PerTxRedeemCap()
	require.NoError(t, err)
	require.Equal(t, "400000", cap.String())

	globalCap, err := cfg.GlobalCap()
	require.NoError(t, err)
	require.Equal(t, "10000000000", globalCap.String())

	admin, err := cfg.AdminAddress()
	require.NoError(t, err)
	require.Equal(t, byte(0x01), admin[19])

	fee, err := cfg.FeeCollectorAddress()
	require.NoError(t, err)
	require.Equal(t, byte(0x02), fee[19])
}

func TestLoadCreatesDefaultFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stablesave.toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "USDC", cfg.Token.Symbol)
	require.Equal(t, uint32(100), cfg.Vault.PenaltyBps)
	require.Equal(t, uint32(50), cfg.Vault.CashbackBps)
	require.FileExists(t, path)

	// A second load round-trips the generated file.
	reloaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.Treasury.GlobalCap, reloaded.Treasury.GlobalCap)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"penalty bps over 10000", Config{Vault: VaultConfig{PenaltyBps: 10_001}}},
		{"cashback bps over 10000", Config{Vault: VaultConfig{CashbackBps: 10_001}}},
		{"negative redeem cap", Config{Vault: VaultConfig{PerTxRedeemCap: "-1"}}},
		{"malformed global cap", Config{Treasury: TreasuryConfig{GlobalCap: "ten"}}},
		{"malformed admin", Config{Admin: "not-an-address"}},
		{"malformed fee collector", Config{Vault: VaultConfig{FeeCollector: "0x123"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Error(t, tc.cfg.Validate())
		})
	}
}

func TestParseAmount(t *testing.T) {
	v, err := ParseAmount("  123456 ")
	require.NoError(t, err)
	require.Equal(t, "123456", v.String())

	v, err = ParseAmount("")
	require.NoError(t, err)
	require.Zero(t, v.Sign())

	_, err = ParseAmount("-5")
	require.Error(t, err)

	_, err = ParseAmount("1.5")
	require.Error(t, err)
}
