package synth_test

import (
	"strings"
	"testing"

	"github.com/specialistvlad/palletforge/internal/model"
	"github.com/specialistvlad/palletforge/internal/resolve"
	"github.com/specialistvlad/palletforge/internal/synth"
	"github.com/specialistvlad/palletforge/internal/testutil"
	"github.com/stretchr/testify/require"
)

func sampleSet(t *testing.T, requested ...string) *resolve.Set {
	t.Helper()
	cat := testutil.LoadCatalogue(t, testutil.SampleCatalogueHCL)
	ctx, _ := testutil.Context(t)
	set, err := resolve.Resolve(ctx, cat, requested, "solochain")
	require.NoError(t, err)
	return set
}

func newAggregate(t *testing.T, policy synth.Policy) *synth.Aggregate {
	t.Helper()
	engine, err := synth.NewTextEngine("")
	require.NoError(t, err)
	return synth.NewAggregate(engine, synth.AggregateOptions{Policy: policy})
}

func TestAggregate_Runtime(t *testing.T) {
	t.Parallel()
	set := sampleSet(t, "Multisig", "Aura")
	ctx, _ := testutil.Context(t)

	out, err := newAggregate(t, synth.PolicyAllOrNothing).Synthesize(ctx, set.Pallets())
	require.NoError(t, err)
	runtime := string(out.Runtime)

	require.Equal(t, 1, strings.Count(runtime, "use frame_support::traits::ConstU32;\n"),
		"an import declared by two pallets must appear once")

	for _, marker := range []string{
		"impl pallet_timestamp::Config for Runtime {",
		"impl pallet_balances::Config for Runtime {",
		"impl pallet_multisig::Config for Runtime {",
		"impl pallet_aura::Config for Runtime {",
	} {
		require.Equal(t, 1, strings.Count(runtime, marker), marker)
	}

	require.Contains(t, runtime, "#[runtime::pallet_index(2)] pub type Timestamp = pallet_timestamp;")
	require.Contains(t, runtime, "#[runtime::pallet_index(3)] pub type Balances = pallet_balances;")
	require.Contains(t, runtime, "#[runtime::pallet_index(4)] pub type Multisig = pallet_multisig;")
	require.Contains(t, runtime, "#[runtime::pallet_index(5)] pub type Aura = pallet_aura;")

	require.Contains(t, runtime, "\tpub const ExistentialDeposit: Balance = 1 * MILLIUNIT;\n")
	require.Contains(t, runtime, "\tpub const DepositBase: Balance = deposit(1, 88) * UNIT;\n")
	require.Contains(t, runtime, "\ttype MinimumPeriod = ConstU64<{ SLOT_DURATION / 2 }>;\n")
	require.Contains(t, runtime, "impl pallet_aura::migrations::Dummy for Runtime {}")
	require.Contains(t, runtime, "\timpl sp_consensus_aura::AuraApi<Block, AuraId> for Runtime {\n")
}

func TestAggregate_Manifest(t *testing.T) {
	t.Parallel()
	set := sampleSet(t, "Multisig", "Aura")
	ctx, _ := testutil.Context(t)

	out, err := newAggregate(t, synth.PolicyAllOrNothing).Synthesize(ctx, set.Pallets())
	require.NoError(t, err)
	manifest := string(out.Manifest)

	require.Contains(t, manifest, `name = "palletforge-runtime"`)
	require.Contains(t, manifest, `pallet-multisig = { git = "https://github.com/paritytech/polkadot-sdk", branch = "release-polkadot-v1.9.0", default-features = false }`)
	require.Contains(t, manifest, `sp-consensus-aura = { git = "https://github.com/paritytech/polkadot-sdk", tag = "polkadot-v1.9.0", default-features = false }`)
	for _, feature := range []string{"pallet-timestamp", "pallet-balances", "pallet-multisig", "pallet-aura", "sp-consensus-aura"} {
		require.Contains(t, manifest, "\t\""+feature+"/std\",\n")
	}
	require.Less(t, strings.Index(manifest, "pallet-aura = {"), strings.Index(manifest, "[features]"))
}

func TestAggregate_SharedCrateIsDeclaredOnce(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.Context(t)

	aura := model.Coordinates{Name: "sp-consensus-aura", Version: "0.32.0"}
	pallets := []*model.Pallet{
		{
			Name: "A",
			Dependencies: model.Dependencies{
				Package:    model.Coordinates{Name: "pallet-a", Version: "1.0.0"},
				Additional: []model.Coordinates{aura},
			},
		},
		{
			Name: "B",
			Dependencies: model.Dependencies{
				Package:    model.Coordinates{Name: "pallet-b", Version: "1.0.0"},
				Additional: []model.Coordinates{{Name: "sp-consensus-aura", Version: "0.40.0"}},
			},
		},
	}

	out, err := newAggregate(t, synth.PolicyAllOrNothing).Synthesize(ctx, pallets)
	require.NoError(t, err)
	manifest := string(out.Manifest)

	require.Equal(t, 1, strings.Count(manifest, "sp-consensus-aura = {"))
	require.Equal(t, 1, strings.Count(manifest, `"sp-consensus-aura/std",`))
	require.Contains(t, manifest, synth.DependencyLine(aura))
	require.Less(t, strings.Index(manifest, "pallet-a = {"), strings.Index(manifest, "sp-consensus-aura = {"))
	require.Less(t, strings.Index(manifest, "sp-consensus-aura = {"), strings.Index(manifest, "pallet-b = {"))
}

func TestAggregate_OverridesAreRendered(t *testing.T) {
	t.Parallel()
	set := sampleSet(t, "Balances")
	ctx, _ := testutil.Context(t)

	m := int64(5)
	u := "UNIT"
	err := resolve.ApplyOverrides(ctx, set, resolve.Overrides{
		"Balances": {"ExistentialDeposit": {Multiplier: &m, Unit: &u}},
	}, resolve.OverrideOptions{Strict: true})
	require.NoError(t, err)

	out, err := newAggregate(t, synth.PolicyAllOrNothing).Synthesize(ctx, set.Pallets())
	require.NoError(t, err)
	require.Contains(t, string(out.Runtime), "pub const ExistentialDeposit: Balance = 5 * UNIT;")
}

func TestAggregate_Policy(t *testing.T) {
	t.Parallel()

	broken := &model.Pallet{
		Name:         "Broken",
		Dependencies: model.Dependencies{Package: model.Coordinates{Name: "pallet-broken", Version: "1.0.0"}},
		Runtime:      model.RuntimeConfig{Registration: &model.Registration{Index: 7, Symbol: "Broken"}},
	}
	good := &model.Pallet{
		Name:         "Good",
		Dependencies: model.Dependencies{Package: model.Coordinates{Name: "pallet-good", Version: "1.0.0"}},
		Runtime:      model.RuntimeConfig{Registration: &model.Registration{Index: 9, Symbol: "Good", TypeExpr: "pallet_good"}},
	}

	t.Run("all-or-nothing fails the batch", func(t *testing.T) {
		t.Parallel()
		ctx, _ := testutil.Context(t)

		out, err := newAggregate(t, synth.PolicyAllOrNothing).Synthesize(ctx, []*model.Pallet{broken, good})
		require.Nil(t, out)
		var synthErr *synth.Error
		require.ErrorAs(t, err, &synthErr)
		require.Equal(t, "Broken", synthErr.Pallet)
	})

	t.Run("best-effort skips the pallet", func(t *testing.T) {
		t.Parallel()
		ctx, buf := testutil.Context(t)

		out, err := newAggregate(t, synth.PolicyBestEffort).Synthesize(ctx, []*model.Pallet{broken, good})
		require.NoError(t, err)
		require.NotContains(t, string(out.Manifest), "pallet-broken")
		require.Contains(t, string(out.Runtime), "#[runtime::pallet_index(2)] pub type Good = pallet_good;")
		require.Contains(t, buf.String(), "Skipping pallet that cannot be synthesized.")
		require.Equal(t, []string{"Good"}, out.Applied)
	})
}

func TestAggregate_TemplateErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing field", func(t *testing.T) {
		t.Parallel()
		ctx, _ := testutil.Context(t)
		dir := testutil.WriteFiles(t, map[string]string{
			synth.ManifestTemplate: "{{ .PackageName }}",
			synth.RuntimeTemplate:  "{{ .NoSuchField }}",
		})
		engine, err := synth.NewTextEngine(dir)
		require.NoError(t, err)

		out, err := synth.NewAggregate(engine, synth.AggregateOptions{}).Synthesize(ctx, nil)
		require.Nil(t, out)
		var synthErr *synth.Error
		require.ErrorAs(t, err, &synthErr)
		require.Empty(t, synthErr.Pallet)
	})

	t.Run("malformed template", func(t *testing.T) {
		t.Parallel()
		dir := testutil.WriteFiles(t, map[string]string{
			synth.ManifestTemplate: "{{ range .Dependencies }}",
		})
		_, err := synth.NewTextEngine(dir)
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to parse templates")
	})
}
