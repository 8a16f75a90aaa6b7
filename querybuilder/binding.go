package querybuilder

import (
	"slices"
)

// AmbiguityPolicy decides what happens when more than one convention matches a method.
type AmbiguityPolicy int

const (
	// FirstMatchWins binds the earliest registered matching convention and ignores the others.
	FirstMatchWins AmbiguityPolicy = iota

	// RejectAmbiguous fails the build with an AmbiguousBindingError.
	RejectAmbiguous
)

func (p AmbiguityPolicy) String() string {
	switch p {
	case FirstMatchWins:
		return "first-match-wins"
	case RejectAmbiguous:
		return "reject-ambiguous"
	default:
		return "unknown"
	}
}

/***** BindingEntry *****/

// BindingEntry pairs a cataloged method with the convention bound to it.
type BindingEntry struct {
	descriptor MethodDescriptor
	convention Convention
	shadowed   []string
}

func (e BindingEntry) Descriptor() MethodDescriptor {
	return e.descriptor
}

func (e BindingEntry) Convention() Convention {
	return e.convention
}

// Shadowed returns the names of conventions that matched too but were registered later.
func (e BindingEntry) Shadowed() []string {
	return slices.Clone(e.shadowed)
}

/***** BindingTable *****/

// BindingTable maps every cataloged method to exactly one convention.
//
// A BindingTable can only be created by BuildBindingTable and exposes no way to change it,
// so it is safe for concurrent reads.
type BindingTable struct {
	entries map[MethodSignature]BindingEntry
	ordered []BindingEntry
	policy  AmbiguityPolicy
}

type bindingConfig struct {
	policy AmbiguityPolicy
}

// BindingOption configures BuildBindingTable.
type BindingOption func(*bindingConfig)

// WithPolicy sets the AmbiguityPolicy; the default is FirstMatchWins.
func WithPolicy(policy AmbiguityPolicy) BindingOption {
	return func(c *bindingConfig) {
		c.policy = policy
	}
}

// BuildBindingTable binds each descriptor to the first convention (in the given order) that matches it.
//
// The build validates that the table is total: if any descriptor matches no convention,
// it fails with a NoMatchingConventionError listing all unmatched descriptors.
func BuildBindingTable(
	descriptors []MethodDescriptor,
	conventions []Convention,
	options ...BindingOption,
) (*BindingTable, error) {
	config := bindingConfig{policy: FirstMatchWins}
	for _, option := range options {
		option(&config)
	}

	sorted := sortDescriptors(descriptors)
	sorted = slices.Compact(sorted)

	table := &BindingTable{
		entries: make(map[MethodSignature]BindingEntry, len(sorted)),
		ordered: make([]BindingEntry, 0, len(sorted)),
		policy:  config.policy,
	}

	unmatched := make([]MethodDescriptor, 0)

	for _, descriptor := range sorted {
		entry, found := bind(descriptor, conventions)
		if !found {
			unmatched = append(unmatched, descriptor)
			continue
		}

		if config.policy == RejectAmbiguous && len(entry.shadowed) > 0 {
			return nil, &AmbiguousBindingError{
				Descriptor:  descriptor,
				Conventions: append([]string{entry.convention.Name()}, entry.shadowed...),
			}
		}

		if existing, exists := table.entries[descriptor.method]; exists {
			return nil, &ConflictingDeclarationError{
				Method:   descriptor.method,
				Entities: []EntityType{existing.descriptor.entity, descriptor.entity},
			}
		}

		table.entries[descriptor.method] = entry
		table.ordered = append(table.ordered, entry)
	}

	if len(unmatched) > 0 {
		return nil, &NoMatchingConventionError{Descriptor: unmatched[0], Unmatched: unmatched}
	}

	return table, nil
}

func bind(descriptor MethodDescriptor, conventions []Convention) (BindingEntry, bool) {
	entry := BindingEntry{descriptor: descriptor}

	for _, convention := range conventions {
		if !convention.Matches(descriptor.entity, descriptor.method) {
			continue
		}

		if entry.convention == nil {
			entry.convention = convention
			continue
		}

		entry.shadowed = append(entry.shadowed, convention.Name())
	}

	return entry, entry.convention != nil
}

// Lookup returns the convention bound to the method.
// It fails with an UnboundMethodError if the method was not in the catalog the table was built from.
func (t *BindingTable) Lookup(method MethodSignature) (Convention, error) {
	entry, err := t.Entry(method)
	if err != nil {
		return nil, err
	}

	return entry.convention, nil
}

// Entry returns the BindingEntry for the method.
func (t *BindingTable) Entry(method MethodSignature) (BindingEntry, error) {
	entry, exists := t.entries[method]
	if !exists {
		return BindingEntry{}, &UnboundMethodError{Method: method}
	}

	return entry, nil
}

// Entries returns a copy of all entries in catalog order.
func (t *BindingTable) Entries() []BindingEntry {
	return slices.Clone(t.ordered)
}

func (t *BindingTable) Len() int {
	return len(t.ordered)
}

func (t *BindingTable) Policy() AmbiguityPolicy {
	return t.policy
}
