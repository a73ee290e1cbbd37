// Package demo holds the example pages served by "nano serve".
//
//	counter  local state with UseState
//	todos    a shared store, a keyed list and a theme context
//	clock    a class component that updates itself from a goroutine
package demo
