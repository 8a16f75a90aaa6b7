package querybuilder

import (
	"errors"
)

// Resolution is the outcome of dispatching one Invocation: the filter and/or update
// generated by the bound convention. Either may be nil, never both.
type Resolution struct {
	entity     EntityType
	method     MethodSignature
	convention string
	filter     *Filter
	update     *Update
}

func (r Resolution) Entity() EntityType {
	return r.entity
}

func (r Resolution) Method() MethodSignature {
	return r.method
}

// Convention returns the name of the convention that produced the Resolution.
func (r Resolution) Convention() string {
	return r.convention
}

func (r Resolution) Filter() *Filter {
	return r.filter
}

func (r Resolution) Update() *Update {
	return r.update
}

func (r Resolution) HasFilter() bool {
	return r.filter != nil
}

func (r Resolution) HasUpdate() bool {
	return r.update != nil
}

// Dispatcher resolves invocations through a sealed BindingTable.
// It holds no mutable state and is safe for concurrent use.
type Dispatcher struct {
	table *BindingTable
}

func NewDispatcher(table *BindingTable) Dispatcher {
	return Dispatcher{table: table}
}

// Resolve looks up the convention bound to the invoked method and lets it generate
// the filter and update for the invocation's arguments. Nothing is cached.
func (d Dispatcher) Resolve(invocation Invocation) (Resolution, error) {
	if d.table == nil {
		return Resolution{}, ErrBindingsNotBuilt
	}

	entry, found := d.table.entries[invocation.method]
	if !found || entry.descriptor.entity != invocation.entity {
		return Resolution{}, &UnboundMethodError{Method: invocation.method, Entity: invocation.entity}
	}

	convention := entry.convention

	filter, filterErr := convention.GenerateFilter(invocation)
	if filterErr != nil {
		return Resolution{}, errors.Join(ErrGenerationFailed, filterErr)
	}

	update, updateErr := convention.GenerateUpdate(invocation)
	if updateErr != nil {
		return Resolution{}, errors.Join(ErrGenerationFailed, updateErr)
	}

	if filter == nil && update == nil {
		return Resolution{}, &EmptyGenerationError{Method: invocation.method, Convention: convention.Name()}
	}

	return Resolution{
		entity:     invocation.entity,
		method:     invocation.method,
		convention: convention.Name(),
		filter:     filter,
		update:     update,
	}, nil
}
