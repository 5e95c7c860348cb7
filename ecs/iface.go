package ecs

import "unsafe"

// eface mirrors the runtime layout of an empty interface.
type eface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

// pointerOf returns the data word of a boxed component. Components are always stored as
// pointers, so the data word is the component pointer itself.
func pointerOf(component any) unsafe.Pointer {
	return (*eface)(unsafe.Pointer(&component)).data
}
