package testutil

// ProjectManifest is the runtime manifest of a freshly scaffolded project.
const ProjectManifest = `[package]
name = "solochain-template-runtime"
version = "0.1.0"
edition = "2021"

[dependencies]
codec = { package = "parity-scale-codec", version = "3.6.1", default-features = false }
frame-system = { git = "https://github.com/paritytech/polkadot-sdk", tag = "polkadot-v1.9.0", default-features = false }

[features]
default = ["std"]
std = [
	"codec/std",
	"frame-system/std",
]
`

// ProjectRuntime is the runtime source of a freshly scaffolded project.
const ProjectRuntime = `#![cfg_attr(not(feature = "std"), no_std)]
#![recursion_limit = "256"]

#[cfg(feature = "std")]
include!(concat!(env!("OUT_DIR"), "/wasm_binary.rs"));

use frame_support::{derive_impl, parameter_types};
use sp_runtime::traits::BlakeTwo256;

#[derive_impl(frame_system::config_preludes::SolochainDefaultConfig)]
impl frame_system::Config for Runtime {
	type Block = Block;
}

#[frame_support::runtime]
mod runtime {
	#[runtime::runtime]
	#[runtime::derive(RuntimeCall, RuntimeEvent, RuntimeError, RuntimeOrigin)]
	pub struct Runtime;

	#[runtime::pallet_index(0)]
	pub type System = frame_system;
}

impl_runtime_apis! {
	impl sp_api::Core<Block> for Runtime {
		fn version() -> RuntimeVersion {
			VERSION
		}
	}
}
`

// ProjectChainSpec is the chain specification source of a freshly scaffolded
// project.
const ProjectChainSpec = `use solochain_template_runtime::{AccountId, WASM_BINARY};
use sc_service::ChainType;

pub fn testnet_genesis(
	initial_authorities: Vec<(AuraId, GrandpaId)>,
	root_key: AccountId,
	endowed_accounts: Vec<AccountId>,
) -> serde_json::Value {
	serde_json::json!({
		"system": {},
		"aura": {
			"authorities": [],
		},
		"sudo": {
			"key": Some(root_key),
		},
	})
}
`

// ProjectFiles returns a scaffolded project tree in the layout the source
// splicer expects by default.
func ProjectFiles() map[string]string {
	return map[string]string{
		"runtime/Cargo.toml":     ProjectManifest,
		"runtime/src/lib.rs":     ProjectRuntime,
		"node/src/chain_spec.rs": ProjectChainSpec,
	}
}
