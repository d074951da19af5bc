package metadata

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/baron-chain/bc-cargo-contract/errors"
	"github.com/baron-chain/bc-cargo-contract/registry"
	"github.com/baron-chain/bc-cargo-contract/selector"
	"github.com/baron-chain/bc-cargo-contract/value"
)

const (
	erc20File = "testdata/erc20.contract"
	alice     = "d43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func loadERC20(t *testing.T) *Metadata {
	t.Helper()
	m, err := LoadFile(erc20File)
	require.NoError(t, err)
	return m
}

func TestLoadFile_Bundle(t *testing.T) {
	m := loadERC20(t)

	assert.Equal(t, "erc20", m.Name)
	assert.Equal(t, "5.0.0", m.Version)
	assert.Equal(t, "5", m.Format)
	assert.Equal(t, 19, m.Registry.Len())

	assert.Equal(t, []string{"new"}, m.Catalog.ConstructorLabels())
	assert.Equal(t, []string{"total_supply", "balance_of", "transfer", "configure"}, m.Catalog.MessageLabels())
	assert.Equal(t, []string{"Transfer", "Approval"}, m.Catalog.EventLabels())

	transfer, ok := m.Catalog.Message("transfer")
	require.True(t, ok)
	assert.Equal(t, "0x84a15da1", selector.String(transfer.Selector))
	assert.True(t, transfer.Mutates)
	require.NotNil(t, transfer.ReturnType)
	assert.Equal(t, registry.TypeID(8), *transfer.ReturnType)
	require.Len(t, transfer.Args, 2)
	assert.Equal(t, "to", transfer.Args[0].Label)
	assert.Equal(t, registry.TypeID(3), transfer.Args[0].Type)

	ctor, ok := m.Catalog.Constructor("new")
	require.True(t, ok)
	assert.Equal(t, "0x9bae9d5e", selector.String(ctor.Selector))
	assert.Equal(t, []string{"Creates a new ERC-20 contract with the specified initial supply."}, ctor.Docs)

	ev, ok := m.Catalog.Event("Transfer")
	require.True(t, ok)
	assert.Equal(t, "0xb5b61a3e6a21a16be4f044b517c28ac692492f73c5bfd3f60178ad98c767f4cb", ev.SignatureTopic)
	require.Len(t, ev.Fields, 3)
	assert.True(t, ev.Fields[0].Indexed)
	assert.False(t, ev.Fields[2].Indexed)

	approval, ok := m.Catalog.Event("Approval")
	require.True(t, ok)
	assert.Empty(t, approval.SignatureTopic)
}

func TestLoadFile_Types(t *testing.T) {
	m := loadERC20(t)
	reg := m.Registry

	account, ok := reg.FindByPath("ink_primitives", "types", "AccountId")
	require.True(t, ok)
	assert.Equal(t, registry.TypeID(3), account.ID)
	assert.Equal(t, "AccountId", reg.TypeName(3))

	assert.Equal(t, "Option<AccountId>", reg.TypeName(11))
	assert.Equal(t, "Result<(), Error>", reg.TypeName(6))
	assert.Equal(t, "Compact<u128>", reg.TypeName(15))
	assert.Equal(t, "Vec<AccountId>", reg.TypeName(16))

	bits, err := reg.Resolve(13)
	require.NoError(t, err)
	assert.Equal(t, registry.DefBitSequence, bits.Kind)
	assert.Equal(t, registry.Lsb0, bits.BitOrder)
	assert.Equal(t, registry.TypeID(2), bits.BitStore)

	settings, err := reg.Resolve(18)
	require.NoError(t, err)
	require.Len(t, settings.Params, 1)
	assert.False(t, settings.Params[0].Bound)
	assert.Equal(t, "Compact<Balance>", settings.Fields[2].TypeName)

	errType, err := reg.Resolve(5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Not enough balance."}, errType.Variants[0].Docs)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.Equal(t, errors.KindInvalidInput, errors.KindOf(err))
	assert.Contains(t, err.Error(), "absent.json")
}

func TestLoad_Reader(t *testing.T) {
	f, err := os.Open(erc20File)
	require.NoError(t, err)
	defer f.Close()

	m, err := Load(f)
	require.NoError(t, err)
	assert.Equal(t, "erc20", m.Name)
}

func TestTranscoder_EncodeCall(t *testing.T) {
	tc := loadERC20(t).Transcoder()

	data, err := tc.EncodeCall("transfer", []string{"0x" + alice, "100"})
	require.NoError(t, err)
	want := mustHex(t, "84a15da1"+alice+"64"+strings.Repeat("00", 15))
	assert.Equal(t, want, data)

	call, err := tc.DecodeCall(data)
	require.NoError(t, err)
	assert.Equal(t, "transfer", call.Message.Label)
	assert.Equal(t, len(data), call.Result.Consumed)
	amount, ok := call.Value().Get("value")
	require.True(t, ok)
	assert.True(t, value.Equal(value.NewUInt(100), amount))
}

func TestTranscoder_DerivedSelectorAndComposite(t *testing.T) {
	m := loadERC20(t)
	tc := m.Transcoder()

	configure, ok := m.Catalog.Message("configure")
	require.True(t, ok)
	assert.Equal(t, selector.FromLabel("configure"), configure.Selector)
	assert.True(t, configure.Payable)
	assert.Nil(t, configure.ReturnType)

	settings := value.NewMap(
		value.Named("flags", value.Seq{value.Bool(true), value.Bool(false), value.Bool(true)}),
		value.Named("memo", value.Str("hi")),
		value.Named("count", value.NewUInt(5)),
		value.Named("recipients", value.Seq{}),
	)
	data, err := tc.EncodeCallValues("configure", []value.Value{settings})
	require.NoError(t, err)

	sel := selector.FromLabel("configure")
	want := append(sel[:], mustHex(t, "0c05"+"086869"+"14"+"00")...)
	assert.Equal(t, want, data)

	ret, res, err := tc.DecodeReturn(nil, "configure")
	require.NoError(t, err)
	assert.True(t, value.Equal(value.Unit{}, ret))
	assert.Zero(t, res.Trailing)
}

func TestTranscoder_DecodeReturn(t *testing.T) {
	tc := loadERC20(t).Transcoder()

	tests := []struct {
		name    string
		message string
		data    string
		want    value.Value
	}{
		{"ok ok", "transfer", "0000", value.NewVariant("Ok", value.NewVariant("Ok", value.Unit{}))},
		{"ok err", "transfer", "000100", value.NewVariant("Ok", value.NewVariant("Err", value.NewVariant("InsufficientBalance")))},
		{"lang error", "transfer", "0101", value.NewVariant("Err", value.NewVariant("CouldNotReadInput"))},
		{"balance", "total_supply", "00" + "e803" + strings.Repeat("00", 14), value.NewVariant("Ok", value.NewUInt(1000))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, res, err := tc.DecodeReturn(mustHex(t, tt.data), tt.message)
			require.NoError(t, err)
			assert.Zero(t, res.Trailing)
			assert.True(t, value.Equal(tt.want, got), "got %s", value.Format(got))
		})
	}
}

func TestTranscoder_DecodeEvent(t *testing.T) {
	tc := loadERC20(t).Transcoder()

	data := mustHex(t, "00"+"01"+alice+"2a"+strings.Repeat("00", 15))
	decoded, err := tc.DecodeEvent(data, "Transfer")
	require.NoError(t, err)
	assert.Equal(t, len(data), decoded.Result.Consumed)
	ev := decoded.Value()
	assert.Equal(t, "Transfer", ev.Name)

	from, ok := ev.Get("from")
	require.True(t, ok)
	assert.True(t, value.Equal(value.None(), from))
	to, ok := ev.Get("to")
	require.True(t, ok)
	assert.True(t, value.Equal(value.Some(value.Tuple{value.Bytes(mustHex(t, alice))}), to), "to = %s", value.Format(to))
	amount, ok := ev.Get("value")
	require.True(t, ok)
	assert.True(t, value.Equal(value.NewUInt(42), amount))

	byTopic, err := tc.DecodeEvent(data, "0xb5b61a3e6a21a16be4f044b517c28ac692492f73c5bfd3f60178ad98c767f4cb")
	require.NoError(t, err)
	assert.True(t, value.Equal(ev, byTopic.Value()))
}

func TestParse_V3(t *testing.T) {
	doc := `{
		"metadataVersion": "0.1.0",
		"source": {"hash": "0x00", "language": "ink! 3.4.0", "compiler": "rustc"},
		"contract": {"name": "flipper", "version": "3.4.0"},
		"V3": {
			"spec": {
				"constructors": [
					{"label": "new", "selector": "0x9bae9d5e", "args": [{"label": "init_value", "type": {"displayName": ["bool"], "type": 0}}]},
					{"label": "default", "args": []}
				],
				"messages": [
					{"label": "flip", "args": [], "mutates": true},
					{"label": "get", "args": [], "returnType": {"displayName": ["bool"], "type": 0}}
				],
				"events": []
			},
			"types": [{"type": {"def": {"primitive": "bool"}}}]
		}
	}`
	m, err := Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "V3", m.Format)
	assert.Equal(t, "flipper", m.Name)
	assert.Equal(t, 1, m.Registry.Len())

	flip, ok := m.Catalog.Message("flip")
	require.True(t, ok)
	assert.Equal(t, "0x633aa551", selector.String(flip.Selector))
	get, ok := m.Catalog.Message("get")
	require.True(t, ok)
	assert.Equal(t, "0x2f865bd9", selector.String(get.Selector))
	def, ok := m.Catalog.Constructor("default")
	require.True(t, ok)
	assert.Equal(t, "0xed4b9d1b", selector.String(def.Selector))

	data, err := m.Transcoder().EncodeConstructor("new", []string{"true"})
	require.NoError(t, err)
	assert.Equal(t, mustHex(t, "9bae9d5e01"), data)
}

func TestParse_VersionForms(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    string
	}{
		{"number", `4`, "4"},
		{"string", `"4"`, "4"},
		{"absent", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `{"types": [], "spec": {"constructors": [], "messages": [], "events": []}`
			if tt.version != "" {
				doc += `, "version": ` + tt.version
			}
			doc += `}`
			m, err := Parse([]byte(doc))
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Format)
		})
	}
}

func TestParse_WithSelectorFunc(t *testing.T) {
	doc := `{
		"version": 5,
		"types": [{"id": 0, "type": {"def": {"primitive": "bool"}}}],
		"spec": {
			"constructors": [],
			"messages": [
				{"label": "flip", "args": []},
				{"label": "get", "selector": "0x2f865bd9", "args": []}
			],
			"events": []
		}
	}`
	byLength := func(label string) [4]byte {
		return [4]byte{byte(len(label)), 0, 0, 0}
	}
	m, err := Parse([]byte(doc), WithSelectorFunc(byLength))
	require.NoError(t, err)

	flip, _ := m.Catalog.Message("flip")
	assert.Equal(t, [4]byte{4, 0, 0, 0}, flip.Selector)
	get, _ := m.Catalog.Message("get")
	assert.Equal(t, "0x2f865bd9", selector.String(get.Selector), "explicit selectors are kept")

	m, err = Parse([]byte(doc), WithSelectorFunc(nil))
	require.NoError(t, err)
	flip, _ = m.Catalog.Message("flip")
	assert.Equal(t, "0x633aa551", selector.String(flip.Selector))
}

func TestParse_Errors(t *testing.T) {
	emptySpec := `"spec": {"constructors": [], "messages": [], "events": []}`
	withTypes := func(types string) string {
		return `{"types": [` + types + `], ` + emptySpec + `}`
	}
	withMessage := func(types, message string) string {
		return `{"types": [` + types + `], "spec": {"constructors": [], "messages": [` + message + `], "events": []}}`
	}
	boolType := `{"id": 0, "type": {"def": {"primitive": "bool"}}}`

	tests := []struct {
		name   string
		doc    string
		detail string
	}{
		{"malformed json", `{"types": [`, "malformed metadata JSON"},
		{"wrong shape", `{"types": {}}`, "malformed metadata JSON"},
		{"no spec", `{"types": []}`, "no spec section"},
		{"duplicate id", withTypes(boolType + "," + boolType), "duplicate type id 0"},
		{"dangling field", withTypes(`{"id": 0, "type": {"def": {"composite": {"fields": [{"type": 7}]}}}}`), "references unknown type 7"},
		{"dangling sequence", withTypes(`{"id": 0, "type": {"def": {"sequence": {"type": 1}}}}`), "references unknown type 1"},
		{"two defs", withTypes(`{"id": 0, "type": {"def": {"primitive": "u8", "tuple": []}}}`), "type 0: 2 type definitions"},
		{"no def", withTypes(`{"id": 0, "type": {"def": {}}}`), "type 0: missing type definition"},
		{"unknown primitive", withTypes(`{"id": 0, "type": {"def": {"primitive": "u7"}}}`), `unknown primitive "u7"`},
		{
			"bad bit order",
			withTypes(`{"id": 0, "type": {"def": {"primitive": "u8"}}},
				{"id": 1, "type": {"path": ["bitvec", "order", "Middle"], "def": {"composite": {}}}},
				{"id": 2, "type": {"def": {"bitsequence": {"bit_store_type": 0, "bit_order_type": 1}}}}`),
			`"Middle", want Lsb0 or Msb0`,
		},
		{
			"missing bit order",
			withTypes(`{"id": 0, "type": {"def": {"primitive": "u8"}}},
				{"id": 2, "type": {"def": {"bitsequence": {"bit_store_type": 0, "bit_order_type": 9}}}}`),
			"bit order type 9 not found",
		},
		{
			"signed bit store",
			withTypes(`{"id": 0, "type": {"def": {"primitive": "i8"}}},
				{"id": 1, "type": {"path": ["bitvec", "order", "Lsb0"], "def": {"composite": {}}}},
				{"id": 2, "type": {"def": {"bitsequence": {"bit_store_type": 0, "bit_order_type": 1}}}}`),
			"bit store",
		},
		{"unknown arg type", withMessage(boolType, `{"label": "set", "args": [{"label": "v", "type": {"type": 3}}]}`), `argument "v" references unknown type 3`},
		{"unknown return type", withMessage(boolType, `{"label": "get", "args": [], "returnType": {"type": 3}}`), "references unknown type 3"},
		{"bad selector", withMessage(boolType, `{"label": "get", "selector": "0xzz", "args": []}`), "get"},
		{"duplicate label", withMessage(boolType, `{"label": "get", "args": []}, {"label": "get", "selector": "0x00000001", "args": []}`), "get"},
		{
			"unknown event field type",
			`{"types": [` + boolType + `], "spec": {"constructors": [], "messages": [],
				"events": [{"label": "Flipped", "args": [{"label": "to", "type": {"type": 4}}]}]}}`,
			`field "to" references unknown type 4`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Nil(t, m)

			e, ok := errors.As(err)
			require.True(t, ok, "error %v is not structured", err)
			assert.Equal(t, errors.KindInvalidInput, e.Kind)
			assert.Equal(t, errors.PhaseLoad, e.Phase)
			assert.Contains(t, err.Error(), tt.detail)
		})
	}
}

func TestParse_Logging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(zap.NewNop()) })

	_ = loadERC20(t)

	parsed := logs.FilterMessage("parsed metadata").All()
	require.Len(t, parsed, 1)
	fields := parsed[0].ContextMap()
	assert.Equal(t, "erc20", fields["contract"])
	assert.EqualValues(t, 4, fields["messages"])
	assert.EqualValues(t, 19, fields["types"])

	loaded := logs.FilterMessage("loaded metadata file").All()
	require.Len(t, loaded, 1)
	assert.Equal(t, erc20File, loaded[0].ContextMap()["path"])
}
