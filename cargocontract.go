package cargocontract

import "github.com/baron-chain/bc-cargo-contract/registry"

// TypeRegistry resolves type ids to shapes. *registry.Registry implements it.
type TypeRegistry interface {
	Resolve(id registry.TypeID) (*registry.Type, error)
	TypeName(id registry.TypeID) string
}

// SelectorFunc derives a 4-byte message selector from a label.
type SelectorFunc func(label string) [4]byte
