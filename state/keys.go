// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import "sort"

const (
	Read     Permissions = 1
	Allocate             = 1<<1 | Read
	Write                = 1<<2 | Read

	None Permissions = 0
	All              = Read | Allocate | Write
)

// Keys is the set of state keys a transaction may touch together with the
// permission it needs on each.
type Keys map[string]Permissions

// Permissions is a bitset of Read/Allocate/Write.
type Permissions byte

// Add unions [permission] into the permissions already held for [name].
func (k Keys) Add(name string, permission Permissions) {
	k[name] |= permission
}

// Sorted returns the keys in lexicographic order. Locks are always taken
// in this order.
func (k Keys) Sorted() []string {
	out := make([]string, 0, len(k))
	for name := range k {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Has returns true if [p] has all the permissions that are contained in require
func (p Permissions) Has(require Permissions) bool {
	return require&^p == 0
}

// Mutates reports whether holding [p] allows changing the key.
func (p Permissions) Mutates() bool {
	return p.Has(Write) || p.Has(Allocate)
}
