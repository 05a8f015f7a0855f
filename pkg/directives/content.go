package directives

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-bindview/pkg/dom"
	"github.com/goliatone/go-bindview/pkg/interpolate"
	"github.com/goliatone/go-bindview/pkg/view"
)

var (
	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy
)

// Sanitize cleans markup bound through the html directive.
func Sanitize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(markupSanitizer().Sanitize(trimmed))
}

func markupSanitizer() *bluemonday.Policy {
	markupPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("class").Globally()
		markupPolicy = policy
	})
	return markupPolicy
}

// HTMLHandler replaces the element's children with the sanitized markup of
// the bound property. The inserted markup is not bound.
func HTMLHandler(b *view.Binding) error {
	b.Skip = true
	el := b.Element()
	return watchProp(b, func(value any) error {
		return dom.SetInnerHTML(el, Sanitize(interpolate.Format(value)))
	})
}

// TextHandler replaces the element's children with the bound property as
// text. Markers inside the value are not interpolated.
func TextHandler(b *view.Binding) error {
	b.Skip = true
	el := b.Element()
	return watchProp(b, func(value any) error {
		dom.SetText(el, interpolate.Format(value))
		return nil
	})
}
