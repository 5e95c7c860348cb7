package ecs

import (
	"fmt"
	"iter"
	"reflect"
	"unsafe"
)

// Query resolves the components of every entity that holds a required set of types.
// The type T must be a struct whose fields are pointers to component types; embedded
// fields are always required and named fields may be marked `ecs:"optional"`. A field of
// type EntityId receives the entity id and a field of type *Entity the entity itself.
//
//	ecs.Query[struct {
//		*Transform
//		*Motion
//		Id ecs.EntityId
//	}]
//
// Membership is maintained incrementally by a Tracker, so iteration never scans the pool.
type Query[T any] struct {
	tracker *Tracker
	fields  []queryField
}

type queryFieldKind uint8

const (
	queryComponent queryFieldKind = iota
	queryId
	queryEntity
)

type queryField struct {
	kind     queryFieldKind
	typ      ComponentType
	optional bool
	offset   uintptr
}

var (
	entityIdType  = reflect.TypeFor[EntityId]()
	entityPtrType = reflect.TypeFor[*Entity]()
)

// NewQuery creates a Query bound to pool.
func NewQuery[T any](pool *EntityPool) *Query[T] {
	q := &Query[T]{}
	q.Init(pool)
	return q
}

// Init binds the Query to pool. It is called automatically for Query fields of systems
// registered with a State. A Query binds once: binding again to the pool it already
// tracks is a no-op and binding to a different pool panics, since its tracker stays
// subscribed to the first pool.
func (q *Query[T]) Init(pool *EntityPool) {
	if q.tracker != nil {
		if q.tracker.pool != pool {
			panic("ecs: query is already bound to another pool")
		}
		return
	}
	fields, required := parseQueryFields[T]()
	q.fields = fields
	q.tracker = NewTracker(pool, required...)
}

func parseQueryFields[T any]() ([]queryField, []ComponentType) {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("Query type parameter must be a struct")
	}

	fields := make([]queryField, 0, structType.NumField())
	var required []ComponentType

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		switch field.Type {
		case entityIdType:
			fields = append(fields, queryField{kind: queryId, offset: field.Offset})
			continue
		case entityPtrType:
			fields = append(fields, queryField{kind: queryEntity, offset: field.Offset})
			continue
		}

		if field.Type.Kind() != reflect.Ptr {
			panic("Query struct fields must be pointer types")
		}

		optional := false
		if !field.Anonymous {
			if tag := field.Tag.Get("ecs"); tag != "" {
				if tag != "optional" {
					panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
				}
				optional = true
			}
		}

		typ := componentTypeOf(field.Type.Elem())
		fields = append(fields, queryField{
			kind:     queryComponent,
			typ:      typ,
			optional: optional,
			offset:   field.Offset,
		})
		if !optional {
			required = append(required, typ)
		}
	}

	if len(required) == 0 {
		panic("Query struct must have at least one required component")
	}
	return fields, required
}

// fill populates ptr with e's components, returning the first missing required type.
func (q *Query[T]) fill(e *Entity, ptr *T) (ComponentType, bool) {
	base := unsafe.Pointer(ptr)

	for _, f := range q.fields {
		fieldPtr := unsafe.Add(base, f.offset)

		switch f.kind {
		case queryId:
			*(*EntityId)(fieldPtr) = e.Id()
		case queryEntity:
			*(**Entity)(fieldPtr) = e
		default:
			component, ok := e.Component(f.typ)
			if !ok {
				if f.optional {
					*(*unsafe.Pointer)(fieldPtr) = nil
					continue
				}
				return f.typ, false
			}
			*(*unsafe.Pointer)(fieldPtr) = pointerOf(component)
		}
	}
	return ComponentType{}, true
}

// mustFill fills ptr for a tracked entity; a missing required component means the
// notification protocol was violated.
func (q *Query[T]) mustFill(e *Entity, ptr *T) {
	if missing, ok := q.fill(e, ptr); !ok {
		panic(fmt.Errorf("%w: entity %d (%s) has no %s", ErrMissingComponent, e.Id(), e.Name(), missing))
	}
}

// Get returns the populated struct for the committed entity with id, or false if the
// entity does not exist or lacks a required component.
func (q *Query[T]) Get(id EntityId) (T, bool) {
	var result T
	e, ok := q.tracker.pool.Entity(id)
	if !ok {
		return result, false
	}
	if _, ok := q.fill(e, &result); !ok {
		return result, false
	}
	return result, true
}

// Iter returns an iterator over the populated structs of a snapshot of the tracked
// entities, ordered by entity id. The snapshot is not a live view except that entities
// evicted while iterating are skipped, so a pass can shrink but never grow.
func (q *Query[T]) Iter() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, e := range q.tracker.Snapshot() {
			if !q.tracker.Has(e.Id()) {
				continue
			}
			var result T
			q.mustFill(e, &result)
			if !yield(result) {
				return
			}
		}
	}
}

// All is like Iter but also yields the entity.
func (q *Query[T]) All() iter.Seq2[*Entity, T] {
	return func(yield func(*Entity, T) bool) {
		for _, e := range q.tracker.Snapshot() {
			if !q.tracker.Has(e.Id()) {
				continue
			}
			var result T
			q.mustFill(e, &result)
			if !yield(e, result) {
				return
			}
		}
	}
}

// Has reports whether the entity with id is tracked.
func (q *Query[T]) Has(id EntityId) bool {
	return q.tracker != nil && q.tracker.Has(id)
}

// Len returns the number of tracked entities.
func (q *Query[T]) Len() int {
	if q.tracker == nil {
		return 0
	}
	return q.tracker.Len()
}

// Tracker returns the underlying membership tracker.
func (q *Query[T]) Tracker() *Tracker {
	return q.tracker
}
