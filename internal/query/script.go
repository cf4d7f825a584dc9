package query

import (
	"fmt"
	"time"

	"github.com/dgallion1/docedit/internal/doctree"
	"github.com/dop251/goja"
)

// Script compiles a JavaScript expression into a style predicate. The
// expression sees a `style` object with the fields name, foreground,
// background (hex strings), font, size, bold, italic, underline and
// strikethrough, for example:
//
//	style.bold && style.size >= 14
//
// A runtime error or a non-boolean result counts as no match. The returned
// predicate owns a goja runtime and must not be shared between goroutines.
func Script(src string) (StylePredicate, error) {
	return ScriptWithTimeout(src, 0)
}

// ScriptWithTimeout is Script with a limit on each evaluation. A script
// interrupted by the limit counts as no match. Zero means no limit.
func ScriptWithTimeout(src string, limit time.Duration) (StylePredicate, error) {
	prog, err := goja.Compile("style-query", src, true)
	if err != nil {
		return nil, fmt.Errorf("compile script: %w", err)
	}
	vm := goja.New()
	return func(s doctree.Style) bool {
		if err := vm.Set("style", styleObject(s)); err != nil {
			return false
		}
		if limit > 0 {
			fired := make(chan struct{})
			timer := time.AfterFunc(limit, func() {
				vm.Interrupt("script timed out")
				close(fired)
			})
			defer func() {
				// A timer that already fired may still be interrupting; let it
				// finish so the clear below is not overtaken.
				if !timer.Stop() {
					<-fired
				}
				vm.ClearInterrupt()
			}()
		}
		v, err := vm.RunProgram(prog)
		if err != nil {
			return false
		}
		b, ok := v.Export().(bool)
		return ok && b
	}, nil
}

func styleObject(s doctree.Style) map[string]any {
	return map[string]any{
		"name":          s.Name(),
		"foreground":    s.Foreground().Hex(),
		"background":    s.Background().Hex(),
		"font":          s.FontFamily(),
		"size":          s.FontSize(),
		"bold":          s.Bold(),
		"italic":        s.Italic(),
		"underline":     s.Underline(),
		"strikethrough": s.Strikethrough(),
	}
}
