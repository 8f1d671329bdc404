// Package goroutine launches goroutines that log panics instead of crashing.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/orris-inc/paygate/internal/shared/logger"
)

// SafeGo runs fn in a goroutine. A panic is recovered and logged with its stack
// trace, then onPanic is called with the recovered value when it is non-nil.
func SafeGo(log logger.Interface, name string, fn func(), onPanic func(recovered any)) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("goroutine panicked",
					"goroutine", name,
					"panic", fmt.Sprintf("%v", r),
					"stack", string(debug.Stack()),
				)
				if onPanic != nil {
					onPanic(r)
				}
			}
		}()
		fn()
	}()
}
