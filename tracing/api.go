// Package tracing provides hooks that observe replacement policies and turn
// their events into records and counts.
package tracing

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/pagesim/hooking"
)

// Collect attaches hook to domain. It panics if the same hook is already
// attached. Hooks of uncomparable types, such as hooking.HookFunc, are never
// treated as duplicates.
func Collect(domain hooking.Hookable, hook hooking.Hook) {
	if !isComparable(hook) {
		domain.AcceptHook(hook)
		return
	}

	for _, h := range domain.Hooks() {
		if isComparable(h) && h == hook {
			panic(fmt.Sprintf("domain already has hook %s", reflect.TypeOf(hook)))
		}
	}

	domain.AcceptHook(hook)
}

func isComparable(hook hooking.Hook) bool {
	return reflect.TypeOf(hook).Comparable()
}
