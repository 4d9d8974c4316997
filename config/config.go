// Package config loads token process configuration from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/xraph/tally/types"
	"github.com/xraph/tally/validate"
)

// Config holds everything needed to assemble and initialize a token
// process. Fields can be set programmatically or loaded from YAML
// configuration files via Load.
type Config struct {
	// Token is the immutable metadata set at initialization.
	Token TokenConfig `json:"token" yaml:"token"`

	// Balances seeds the initial balance map. Quantities are decimal
	// strings so arbitrary precision survives the config file.
	Balances map[string]string `json:"balances,omitempty" yaml:"balances,omitempty"`

	// Governance configures the burn/mint approval workflow.
	Governance GovernanceConfig `json:"governance" yaml:"governance"`

	// ExternalTargets seeds the processes authorized as external
	// transfer destinations.
	ExternalTargets []string `json:"external_targets,omitempty" yaml:"external_targets,omitempty"`
}

// TokenConfig mirrors token.Metadata.
type TokenConfig struct {
	Name         string `json:"name" yaml:"name"`
	Ticker       string `json:"ticker" yaml:"ticker"`
	Denomination int    `json:"denomination" yaml:"denomination"`
	Logo         string `json:"logo,omitempty" yaml:"logo,omitempty"`
}

// GovernanceConfig configures the proposal registry.
type GovernanceConfig struct {
	// Burners are the addresses authorized to approve burns.
	Burners []string `json:"burners,omitempty" yaml:"burners,omitempty"`

	// Minters are the addresses authorized to mint.
	Minters []string `json:"minters,omitempty" yaml:"minters,omitempty"`

	// RequiredBurnApprovals is the burn quorum (default: 1).
	RequiredBurnApprovals int `json:"required_burn_approvals" yaml:"required_burn_approvals"`

	// RequiredMintApprovals is the mint quorum (default: 1).
	RequiredMintApprovals int `json:"required_mint_approvals" yaml:"required_mint_approvals"`

	// DistinctApprovers makes a repeat approval from the same address
	// fail instead of counting twice toward quorum.
	DistinctApprovers bool `json:"distinct_approvers" yaml:"distinct_approvers"`
}

// Default returns a Config with sensible defaults. The token section
// must still be filled in before use.
func Default() Config {
	return Config{
		Governance: GovernanceConfig{
			RequiredBurnApprovals: 1,
			RequiredMintApprovals: 1,
		},
	}
}

// Load reads a YAML configuration file. Fields absent from the file
// keep their Default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration without touching any process
// state. The same address and quantity rules apply as on the message
// surface.
func (c Config) Validate() error {
	if err := tokenName.Validate("token.name", c.Token.Name); err != nil {
		return err
	}
	if err := tokenTicker.Validate("token.ticker", c.Token.Ticker); err != nil {
		return err
	}
	if err := denomination.Validate("token.denomination", c.Token.Denomination); err != nil {
		return err
	}

	for addr, q := range c.Balances {
		if err := validate.Address.Validate("balances."+addr, addr); err != nil {
			return err
		}
		if _, err := types.Parse(q); err != nil {
			return types.ValidationError{Field: "balances." + addr, Message: fmt.Sprintf("%q is not a decimal integer", q)}
		}
	}

	for _, addr := range c.Governance.Burners {
		if err := validate.Address.Validate("governance.burners", addr); err != nil {
			return err
		}
	}
	for _, addr := range c.Governance.Minters {
		if err := validate.Address.Validate("governance.minters", addr); err != nil {
			return err
		}
	}
	if c.Governance.RequiredBurnApprovals < 0 {
		return types.ValidationError{Field: "governance.required_burn_approvals", Message: "must not be negative"}
	}
	if c.Governance.RequiredMintApprovals < 0 {
		return types.ValidationError{Field: "governance.required_mint_approvals", Message: "must not be negative"}
	}

	for _, target := range c.ExternalTargets {
		if err := validate.Address.Validate("external_targets", target); err != nil {
			return err
		}
	}
	return nil
}

// InitialBalances parses the balance section into quantities.
func (c Config) InitialBalances() (map[string]types.Quantity, error) {
	if len(c.Balances) == 0 {
		return nil, nil
	}

	out := make(map[string]types.Quantity, len(c.Balances))
	for addr, raw := range c.Balances {
		q, err := types.Parse(raw)
		if err != nil {
			return nil, types.ValidationError{Field: "balances." + addr, Message: fmt.Sprintf("%q is not a decimal integer", raw)}
		}
		out[addr] = q
	}
	return out, nil
}

var (
	tokenName    = validate.String().LengthGreaterThan(0, "must not be empty")
	tokenTicker  = validate.String().LengthGreaterThan(0, "must not be empty")
	denomination = validate.Number().Integer().GreaterThan(0, "must be a positive integer")
)
