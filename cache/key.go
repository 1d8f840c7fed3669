package cache

import (
	"slices"
	"strconv"
	"strings"
)

// KeySeparator defines the delimiter used between key tokens when a key is rendered.
const KeySeparator = "::"

// Hierarchy tokens shared by every resource.
const (
	TokenList   = "list"
	TokenDetail = "detail"
)

// Key identifies a cache partition as an ordered token sequence.
// A child key always extends its parent, e.g. Detail(id) extends Details() extends All().
type Key []string

// String renders the key for logs.
func (k Key) String() string {
	return strings.Join(k, KeySeparator)
}

// Equal reports structural equality of two keys.
func (k Key) Equal(other Key) bool {
	return slices.Equal(k, other)
}

// IsPrefixOf reports whether every token of k matches the token of key at the same position.
func (k Key) IsPrefixOf(key Key) bool {
	return IsPrefixOf(k, key)
}

// Extend returns a new key with tokens appended. The receiver is never modified.
func (k Key) Extend(tokens ...string) Key {
	out := make(Key, 0, len(k)+len(tokens))
	out = append(out, k...)
	return append(out, tokens...)
}

// Clone returns a copy that does not share the backing array.
func (k Key) Clone() Key {
	return slices.Clone(k)
}

// id is the store identifier for the key. Tokens are length prefixed so
// that a token containing the separator can not collide with two tokens.
func (k Key) id() string {
	var b strings.Builder
	for _, t := range k {
		b.WriteString(strconv.Itoa(len(t)))
		b.WriteByte(':')
		b.WriteString(t)
	}
	return b.String()
}

// IsPrefixOf reports whether parent is a prefix of key. Equal keys are prefixes of each other.
func IsPrefixOf(parent, key Key) bool {
	if len(parent) > len(key) {
		return false
	}
	for i := range parent {
		if parent[i] != key[i] {
			return false
		}
	}
	return true
}

// Keys builds the key hierarchy for a single resource.
type Keys struct {
	resource   string
	serializer KeySerializer
}

// NewKeys returns the key hierarchy for resource using the default serializer.
func NewKeys(resource string) Keys {
	return Keys{resource: resource, serializer: defaultSerializer}
}

// NewKeysWithSerializer returns the key hierarchy for resource using a custom serializer.
func NewKeysWithSerializer(resource string, serializer KeySerializer) Keys {
	if serializer == nil {
		serializer = defaultSerializer
	}
	return Keys{resource: resource, serializer: serializer}
}

// Resource returns the resource name at the root of the hierarchy.
func (k Keys) Resource() string { return k.resource }

// All returns [resource].
func (k Keys) All() Key { return Key{k.resource} }

// Lists returns [resource, "list"].
func (k Keys) Lists() Key { return Key{k.resource, TokenList} }

// List returns [resource, "list", params] with params normalized and serialized.
func (k Keys) List(params Params) Key {
	return Key{k.resource, TokenList, k.serializer.SerializeParams(params.Normalize())}
}

// Details returns [resource, "detail"].
func (k Keys) Details() Key { return Key{k.resource, TokenDetail} }

// Detail returns [resource, "detail", id].
func (k Keys) Detail(id string) Key { return Key{k.resource, TokenDetail, id} }

// All returns the root key of resource.
func All(resource string) Key { return NewKeys(resource).All() }

// Lists returns the parent key of every list query of resource.
func Lists(resource string) Key { return NewKeys(resource).Lists() }

// List returns the key of a single list query of resource.
func List(resource string, params Params) Key { return NewKeys(resource).List(params) }

// Details returns the parent key of every detail query of resource.
func Details(resource string) Key { return NewKeys(resource).Details() }

// Detail returns the key of the detail query for id.
func Detail(resource, id string) Key { return NewKeys(resource).Detail(id) }
