package testutil

import (
	"testing"

	"github.com/specialistvlad/palletforge/internal/catalogue"
	"github.com/stretchr/testify/require"
)

// ScenarioCatalogueHCL defines three minimal pallets: X with no requirements,
// Y requiring X, and Z which is essential for every target. Y declares one
// configurable parameter p1 with default multiplier 1 and unit "U".
const ScenarioCatalogueHCL = `
pallet "X" {
  dependency {
    package = "pallet-x"
    version = "1.0.0"
  }
}

pallet "Y" {
  dependency {
    package  = "pallet-y"
    version  = "^2.1"
    required = ["X"]
  }
  runtime {
    bindings = {
      RuntimeEvent = "RuntimeEvent"
    }
    parameter "p1" {
      type                    = "u32"
      default_unit            = "U"
      default_multiplier      = 1
      possible_units          = ["U", "V"]
      multiplier_configurable = true
    }
    parameter "p2" {
      type               = "u32"
      default_unit       = "U"
      default_multiplier = 7
    }
  }
}

pallet "Z" {
  is_essential = true
  dependency {
    package = "pallet-z"
    version = "0.3.0"
  }
}
`

// SampleCatalogueHCL is a small but realistic catalogue of runtime pallets.
const SampleCatalogueHCL = `
pallet "Timestamp" {
  description  = "On-chain time."
  category     = "core"
  license      = "Apache-2.0"
  is_essential = ["solochain", "parachain"]

  dependency {
    package = "pallet-timestamp"
    git     = "https://github.com/paritytech/polkadot-sdk"
    tag     = "polkadot-v1.9.0"
  }

  runtime {
    bindings = {
      Moment          = "u64"
      OnTimestampSet  = "()"
      MinimumPeriod   = "ConstU64<{ SLOT_DURATION / 2 }>"
      WeightInfo      = "()"
    }
    imports = ["use frame_support::traits::ConstU64;"]

    registration {
      index  = 2
      symbol = "Timestamp"
      type   = "pallet_timestamp"
    }
  }
}

pallet "Balances" {
  description = "Native token balances."
  category    = "accounts"
  license     = "Apache-2.0"

  dependency {
    package = "pallet-balances"
    git     = "https://github.com/paritytech/polkadot-sdk"
    tag     = "polkadot-v1.9.0"
  }

  runtime {
    bindings = {
      RuntimeEvent       = "RuntimeEvent"
      Balance            = "Balance"
      ExistentialDeposit = "ExistentialDeposit"
      AccountStore       = "System"
      MaxLocks           = "ConstU32<50>"
    }
    imports = ["use frame_support::traits::ConstU32;"]

    parameter "ExistentialDeposit" {
      description             = "Minimum balance an account must keep."
      type                    = "Balance"
      default_unit            = "MILLIUNIT"
      default_multiplier      = 1
      possible_units          = ["UNIT", "MILLIUNIT", "MICROUNIT"]
      multiplier_configurable = true
    }

    registration {
      index  = 10
      symbol = "Balances"
      type   = "pallet_balances"
    }

    genesis {
      field  = "balances"
      values = {
        balances = "endowed_accounts.iter().cloned().map(|k| (k, 1u64 << 60)).collect::<Vec<_>>()"
      }
    }
  }
}

pallet "Multisig" {
  description = "Multi-signature dispatch."
  category    = "governance"

  dependency {
    package          = "pallet-multisig"
    git              = "https://github.com/paritytech/polkadot-sdk"
    branch           = "release-polkadot-v1.9.0"
    default_features = false
    required         = ["Balances"]
  }

  runtime {
    bindings = {
      RuntimeEvent = "RuntimeEvent"
      RuntimeCall  = "RuntimeCall"
      Currency     = "Balances"
      DepositBase  = "DepositBase"
      MaxSignatories = "ConstU32<100>"
    }
    imports = ["use frame_support::traits::ConstU32;"]

    parameter "DepositBase" {
      type                    = "Balance"
      format                  = "deposit({multiplier}, 88) * {unit}"
      default_unit            = "UNIT"
      default_multiplier      = 1
      possible_units          = ["UNIT", "MILLIUNIT"]
      multiplier_configurable = true
    }

    registration {
      index  = 30
      symbol = "Multisig"
      type   = "pallet_multisig"
    }
  }
}

pallet "Aura" {
  description = "Authority round block production."
  category    = "consensus"

  dependency {
    package = "pallet-aura"
    git     = "https://github.com/paritytech/polkadot-sdk"
    tag     = "polkadot-v1.9.0"
  }

  additional_dependency {
    package = "sp-consensus-aura"
    git     = "https://github.com/paritytech/polkadot-sdk"
    tag     = "polkadot-v1.9.0"
  }

  runtime {
    bindings = {
      AuthorityId = "AuraId"
      MaxAuthorities = "ConstU32<32>"
    }
    additional_impl = "impl pallet_aura::migrations::Dummy for Runtime {}"
    imports = ["use sp_consensus_aura::sr25519::AuthorityId as AuraId;"]
    chain_spec_imports = ["use sp_consensus_aura::sr25519::AuthorityId as AuraId;"]
    runtime_api = "impl sp_consensus_aura::AuraApi<Block, AuraId> for Runtime {\n\tfn authorities() -> Vec<AuraId> { Aura::authorities().into_inner() }\n}"

    registration {
      index  = 20
      symbol = "Aura"
      type   = "pallet_aura"
    }

    genesis {
      field  = "aura"
      mode   = "replace"
      values = {
        authorities = "initial_authorities.iter().map(|x| x.0.clone()).collect::<Vec<_>>()"
      }
    }
  }
}
`

// LoadCatalogue writes the given HCL into a temporary directory and loads it.
func LoadCatalogue(t *testing.T, hcl string) *catalogue.Catalogue {
	t.Helper()

	ctx, _ := Context(t)
	dir := WriteFiles(t, map[string]string{"pallets/main.hcl": hcl})
	cat, err := catalogue.Load(ctx, dir)
	require.NoError(t, err)
	return cat
}
