// Package protocol assembles the savings and funding modules into one wired
// deployment: a token ledger, a budgeted reward treasury, a savings vault
// authorized to draw on it, and a pool registry.
package protocol

import (
	"fmt"

	"stablesave/config"
	"stablesave/core/events"
	"stablesave/core/types"
	"stablesave/native/funding"
	"stablesave/native/savings"
	"stablesave/native/token"
	"stablesave/native/treasury"
)

// Well-known custodial identities. Funds held by the vault and treasury
// live under these addresses on the token ledger.
var (
	VaultCustody    = types.MustParseAddress("0x5641000000000000000000000000000000000001")
	TreasuryCustody = types.MustParseAddress("0x5641000000000000000000000000000000000002")
)

// Protocol bundles the wired module engines.
type Protocol struct {
	Token    *token.Token
	Treasury *treasury.Engine
	Vault    *savings.Engine
	Registry *funding.Registry
}

// New wires the modules from the supplied configuration. The admin identity
// receives the admin role on the vault and the treasury, and the vault is
// registered as a treasury reward caller.
func New(cfg *config.Config, emitter events.Emitter) (*Protocol, error) {
	if cfg == nil {
		return nil, fmt.Errorf("protocol: nil config")
	}
	admin, err := cfg.AdminAddress()
	if err != nil {
		return nil, fmt.Errorf("protocol: admin: %w", err)
	}
	feeCollector, err := cfg.FeeCollectorAddress()
	if err != nil {
		return nil, fmt.Errorf("protocol: fee collector: %w", err)
	}
	redeemCap, err := cfg.PerTxRedeemCap()
	if err != nil {
		return nil, err
	}
	globalCap, err := cfg.GlobalCap()
	if err != nil {
		return nil, err
	}
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}

	tok := token.New(cfg.Token.Name, cfg.Token.Symbol, cfg.Token.Decimals)
	treasuryEngine := treasury.NewEngine(
		token.Custody(tok, TreasuryCustody),
		tok.Symbol(),
		TreasuryCustody,
		admin,
		globalCap,
	)
	treasuryEngine.SetEmitter(emitter)
	vault := savings.NewEngine(
		token.Custody(tok, VaultCustody),
		treasuryEngine,
		VaultCustody,
		admin,
		savings.Config{
			Asset:               tok.Symbol(),
			FeeCollector:        feeCollector,
			RewardRatePerSecond: cfg.Vault.RewardRatePerSecond,
			PenaltyBps:          cfg.Vault.PenaltyBps,
			CashbackBps:         cfg.Vault.CashbackBps,
			PerTxRedeemCap:      redeemCap,
		},
	)
	vault.SetEmitter(emitter)
	if err := treasuryEngine.SetRewardCaller(admin, VaultCustody, true); err != nil {
		return nil, err
	}
	registry := funding.NewRegistry(tok)
	registry.SetEmitter(emitter)

	return &Protocol{
		Token:    tok,
		Treasury: treasuryEngine,
		Vault:    vault,
		Registry: registry,
	}, nil
}
