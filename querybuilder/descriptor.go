package querybuilder

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
)

/***** EntityType *****/

// EntityType identifies the domain entity (a struct type) a query builder interface targets.
type EntityType struct {
	typ reflect.Type
}

// EntityTypeOf returns the EntityType for T. Pointer types are dereferenced.
func EntityTypeOf[T any]() EntityType {
	entity, err := NewEntityType(reflect.TypeFor[T]())
	if err != nil {
		panic(err)
	}

	return entity
}

// NewEntityType creates an EntityType from a struct type or a pointer to a struct type.
func NewEntityType(typ reflect.Type) (EntityType, error) {
	if typ == nil {
		return EntityType{}, fmt.Errorf("%w: nil entity type", ErrInvalidBuilderDeclaration)
	}

	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	if typ.Kind() != reflect.Struct {
		return EntityType{}, fmt.Errorf("%w: entity %s is not a struct", ErrInvalidBuilderDeclaration, typ)
	}

	return EntityType{typ: typ}, nil
}

// Name returns the unqualified type name, e.g. "User".
func (e EntityType) Name() string {
	if e.typ == nil {
		return ""
	}

	return e.typ.Name()
}

// String returns the package-qualified type name, e.g. "users.User".
func (e EntityType) String() string {
	if e.typ == nil {
		return ""
	}

	return e.typ.String()
}

// Type returns the underlying struct type.
func (e EntityType) Type() reflect.Type {
	return e.typ
}

func (e EntityType) IsZero() bool {
	return e.typ == nil
}

// identity is unique across packages, unlike String().
func (e EntityType) identity() string {
	if e.typ == nil {
		return ""
	}

	return e.typ.PkgPath() + "." + e.typ.Name()
}

/***** MethodSignature *****/

// MethodSignature is the identity of a method declared on a query builder interface:
// the declaring interface, the method name, and the ordered parameter and result types.
//
// MethodSignature is comparable; two signatures are equal iff they describe the same method
// of the same interface.
type MethodSignature struct {
	iface    reflect.Type
	name     string
	funcType reflect.Type
}

// NewMethodSignature returns the signature of the method called name declared on the interface iface.
func NewMethodSignature(iface reflect.Type, name string) (MethodSignature, error) {
	if iface == nil || iface.Kind() != reflect.Interface {
		return MethodSignature{}, fmt.Errorf("%w: %v is not an interface", ErrInvalidBuilderDeclaration, iface)
	}

	method, ok := iface.MethodByName(name)
	if !ok {
		return MethodSignature{}, fmt.Errorf("%w: %s.%s", ErrMethodNotDeclared, iface, name)
	}

	return MethodSignature{iface: iface, name: method.Name, funcType: method.Type}, nil
}

// Interface returns the package-qualified name of the declaring interface.
func (m MethodSignature) Interface() string {
	if m.iface == nil {
		return ""
	}

	return m.iface.String()
}

// InterfaceType returns the declaring interface type.
func (m MethodSignature) InterfaceType() reflect.Type {
	return m.iface
}

// Name returns the bare method name, e.g. "FindByEmailEqualTo".
func (m MethodSignature) Name() string {
	return m.name
}

// QualifiedName returns "<interface>.<method>", e.g. "users.UserQueries.FindByEmailEqualTo".
func (m MethodSignature) QualifiedName() string {
	return m.Interface() + "." + m.name
}

func (m MethodSignature) NumParams() int {
	if m.funcType == nil {
		return 0
	}

	return m.funcType.NumIn()
}

// Param returns the type of the i-th parameter.
func (m MethodSignature) Param(i int) reflect.Type {
	return m.funcType.In(i)
}

// Params returns the ordered parameter types.
func (m MethodSignature) Params() []reflect.Type {
	params := make([]reflect.Type, 0, m.NumParams())
	for i := range m.NumParams() {
		params = append(params, m.funcType.In(i))
	}

	return params
}

// Results returns the ordered result types.
func (m MethodSignature) Results() []reflect.Type {
	if m.funcType == nil {
		return nil
	}

	results := make([]reflect.Type, 0, m.funcType.NumOut())
	for i := range m.funcType.NumOut() {
		results = append(results, m.funcType.Out(i))
	}

	return results
}

// IsVariadic reports whether the last parameter is variadic.
func (m MethodSignature) IsVariadic() bool {
	return m.funcType != nil && m.funcType.IsVariadic()
}

func (m MethodSignature) pkgPath() string {
	if m.iface == nil {
		return ""
	}

	return m.iface.PkgPath()
}

func (m MethodSignature) IsZero() bool {
	return m.iface == nil
}

// String renders the signature, e.g. "users.UserQueries.SetStatusTo(string) querybuilder.Resolution".
func (m MethodSignature) String() string {
	params := make([]string, 0, m.NumParams())
	for _, param := range m.Params() {
		params = append(params, param.String())
	}

	results := make([]string, 0)
	for _, result := range m.Results() {
		results = append(results, result.String())
	}

	signature := m.QualifiedName() + "(" + strings.Join(params, ", ") + ")"

	switch len(results) {
	case 0:
		return signature
	case 1:
		return signature + " " + results[0]
	default:
		return signature + " (" + strings.Join(results, ", ") + ")"
	}
}

/***** MethodDescriptor *****/

// MethodDescriptor pairs a declared method with the entity type its interface targets.
// It is the identity of a catalog entry.
type MethodDescriptor struct {
	entity EntityType
	method MethodSignature
}

func NewMethodDescriptor(entity EntityType, method MethodSignature) MethodDescriptor {
	return MethodDescriptor{entity: entity, method: method}
}

func (d MethodDescriptor) Entity() EntityType {
	return d.entity
}

func (d MethodDescriptor) Method() MethodSignature {
	return d.method
}

func (d MethodDescriptor) String() string {
	return d.method.String() + " for entity " + d.entity.String()
}

// compareDescriptors orders descriptors by qualified method name, then full signature, then entity.
func compareDescriptors(a, b MethodDescriptor) int {
	if c := strings.Compare(a.method.QualifiedName(), b.method.QualifiedName()); c != 0 {
		return c
	}

	if c := strings.Compare(a.method.String(), b.method.String()); c != 0 {
		return c
	}

	if c := strings.Compare(a.method.pkgPath(), b.method.pkgPath()); c != 0 {
		return c
	}

	return strings.Compare(a.entity.identity(), b.entity.identity())
}

func sortDescriptors(descriptors []MethodDescriptor) []MethodDescriptor {
	sorted := slices.Clone(descriptors)
	slices.SortFunc(sorted, compareDescriptors)

	return sorted
}

/***** BuilderDeclaration *****/

// BuilderDeclaration states that the interface Queries is a query builder for the entity type Entity.
type BuilderDeclaration struct {
	entity EntityType
	iface  reflect.Type
}

// DeclareBuilder declares the interface Q as a query builder for the entity E.
// It panics if Q is not an interface type or E is not a struct type.
//
//	querybuilder.DeclareBuilder[User, UserQueries]()
func DeclareBuilder[E any, Q any]() BuilderDeclaration {
	declaration, err := NewBuilderDeclaration(reflect.TypeFor[E](), reflect.TypeFor[Q]())
	if err != nil {
		panic(err)
	}

	return declaration
}

// NewBuilderDeclaration is the error returning variant of DeclareBuilder.
func NewBuilderDeclaration(entity reflect.Type, iface reflect.Type) (BuilderDeclaration, error) {
	entityType, err := NewEntityType(entity)
	if err != nil {
		return BuilderDeclaration{}, err
	}

	if iface == nil || iface.Kind() != reflect.Interface {
		return BuilderDeclaration{}, errors.Join(
			ErrInvalidBuilderDeclaration,
			fmt.Errorf("query builder %v is not an interface", iface),
		)
	}

	return BuilderDeclaration{entity: entityType, iface: iface}, nil
}

func (d BuilderDeclaration) Entity() EntityType {
	return d.entity
}

func (d BuilderDeclaration) Interface() reflect.Type {
	return d.iface
}

// Method returns the signature of the declared method with the given name.
func (d BuilderDeclaration) Method(name string) (MethodSignature, error) {
	return NewMethodSignature(d.iface, name)
}

// Descriptors enumerates one MethodDescriptor per method of the interface (including embedded ones).
func (d BuilderDeclaration) Descriptors() []MethodDescriptor {
	if d.iface == nil {
		return nil
	}

	descriptors := make([]MethodDescriptor, 0, d.iface.NumMethod())
	for i := range d.iface.NumMethod() {
		method := d.iface.Method(i)
		descriptors = append(descriptors, MethodDescriptor{
			entity: d.entity,
			method: MethodSignature{iface: d.iface, name: method.Name, funcType: method.Type},
		})
	}

	return descriptors
}
