package metadata

import "encoding/json"

// document is the JSON layout of a contract metadata file or .contract
// bundle. Version 3 documents nest types and spec under "V3".
type document struct {
	Source          json.RawMessage `json:"source"`
	Version         json.RawMessage `json:"version"`
	Contract        *contractDoc    `json:"contract"`
	Spec            *specDoc        `json:"spec"`
	V3              *versionedDoc   `json:"V3"`
	MetadataVersion string          `json:"metadataVersion"`
	Types           []typeEntry     `json:"types"`
}

type versionedDoc struct {
	Spec  *specDoc    `json:"spec"`
	Types []typeEntry `json:"types"`
}

type contractDoc struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type typeEntry struct {
	ID   *uint32 `json:"id"`
	Type typeDoc `json:"type"`
}

type typeDoc struct {
	Def    defDoc     `json:"def"`
	Path   []string   `json:"path"`
	Params []paramDoc `json:"params"`
	Docs   []string   `json:"docs"`
}

type paramDoc struct {
	Type *uint32 `json:"type"`
	Name string  `json:"name"`
}

// defDoc holds exactly one non-nil member.
type defDoc struct {
	Primitive   *string       `json:"primitive"`
	Composite   *compositeDoc `json:"composite"`
	Variant     *variantDoc   `json:"variant"`
	Sequence    *elemDoc      `json:"sequence"`
	Array       *arrayDoc     `json:"array"`
	Tuple       *[]uint32     `json:"tuple"`
	Compact     *elemDoc      `json:"compact"`
	BitSequence *bitSeqDoc    `json:"bitsequence"`
}

type compositeDoc struct {
	Fields []fieldDoc `json:"fields"`
}

type fieldDoc struct {
	Name     string   `json:"name"`
	TypeName string   `json:"typeName"`
	Docs     []string `json:"docs"`
	Type     uint32   `json:"type"`
}

type variantDoc struct {
	Variants []variantEntry `json:"variants"`
}

type variantEntry struct {
	Name   string     `json:"name"`
	Fields []fieldDoc `json:"fields"`
	Docs   []string   `json:"docs"`
	Index  uint8      `json:"index"`
}

type elemDoc struct {
	Type uint32 `json:"type"`
}

type arrayDoc struct {
	Len  uint32 `json:"len"`
	Type uint32 `json:"type"`
}

type bitSeqDoc struct {
	BitStoreType uint32 `json:"bit_store_type"`
	BitOrderType uint32 `json:"bit_order_type"`
}

type specDoc struct {
	Constructors []callDoc  `json:"constructors"`
	Messages     []callDoc  `json:"messages"`
	Events       []eventDoc `json:"events"`
	Docs         []string   `json:"docs"`
}

type callDoc struct {
	ReturnType *typeRef `json:"returnType"`
	Label      string   `json:"label"`
	Selector   string   `json:"selector"`
	Args       []argDoc `json:"args"`
	Docs       []string `json:"docs"`
	Mutates    bool     `json:"mutates"`
	Payable    bool     `json:"payable"`
	Default    bool     `json:"default"`
}

type argDoc struct {
	Label string  `json:"label"`
	Type  typeRef `json:"type"`
}

type typeRef struct {
	DisplayName []string `json:"displayName"`
	Type        uint32   `json:"type"`
}

type eventDoc struct {
	SignatureTopic *string       `json:"signature_topic"`
	Label          string        `json:"label"`
	Module         string        `json:"module_path"`
	Args           []eventArgDoc `json:"args"`
	Docs           []string      `json:"docs"`
}

type eventArgDoc struct {
	Label   string   `json:"label"`
	Docs    []string `json:"docs"`
	Type    typeRef  `json:"type"`
	Indexed bool     `json:"indexed"`
}
