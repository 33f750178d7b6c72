package synth

import (
	"fmt"
	"strings"
)

// The renderer serializes step and handler descriptors to source text for the
// target stack: Vitest + React Testing Library for the test itself, MSW for
// the mock layer. Rendering is a pure function of the descriptors, so two
// runs over identical input produce byte-identical sources.

const mismatchDiagnostic = `{ error: 'request body did not match recording' }`

// RenderMockHandlers emits the mock-handler module: an ordered list of
// default handlers, import-ready for setupServer(...handlers).
func RenderMockHandlers(handlers []MockHandler) string {
	var b strings.Builder
	b.WriteString("// Generated by replaygen. Default handlers for every recorded endpoint;\n")
	b.WriteString("// per-step overrides are installed by the generated test itself.\n")
	b.WriteString("import { http, HttpResponse } from 'msw';\n\n")
	b.WriteString("export const handlers = [\n")
	for _, h := range handlers {
		writeHandlerExpr(&b, h, "  ", false)
		b.WriteString(",\n")
	}
	b.WriteString("];\n")
	return b.String()
}

// writeHandlerExpr writes one http.<method>(...) expression at the given
// indent. With once set, the handler is registered as a one-shot override.
func writeHandlerExpr(b *strings.Builder, h MockHandler, indent string, once bool) {
	tail := ")"
	if once {
		tail = ", { once: true })"
	}

	if h.BodyGuard {
		fmt.Fprintf(b, "%shttp.%s(%s, async ({ request }) => {\n", indent, mswMethod(h.Method), jsString(h.Path))
		fmt.Fprintf(b, "%s  const body = await request.text();\n", indent)
		fmt.Fprintf(b, "%s  if (body !== %s) {\n", indent, jsString(*h.RequestBody))
		fmt.Fprintf(b, "%s    return HttpResponse.json(%s, { status: 400 });\n", indent, mismatchDiagnostic)
		fmt.Fprintf(b, "%s  }\n", indent)
		fmt.Fprintf(b, "%s  return HttpResponse.json(%s, { status: %d });\n", indent, bodyExpr(h.Body), h.Status)
		fmt.Fprintf(b, "%s}%s", indent, tail)
		return
	}

	fmt.Fprintf(b, "%shttp.%s(%s, () => {\n", indent, mswMethod(h.Method), jsString(h.Path))
	fmt.Fprintf(b, "%s  return HttpResponse.json(%s, { status: %d });\n", indent, bodyExpr(h.Body), h.Status)
	fmt.Fprintf(b, "%s}%s", indent, tail)
}

// RenderTest emits the complete runnable test source for the given steps,
// wrapped in the standard listen/resetHandlers/close server fixture.
func RenderTest(steps []Step, opts Options) string {
	opts = opts.withDefaults()

	usesOverrides := false
	for _, s := range steps {
		if s.Kind == StepInstallMocks {
			usesOverrides = true
			break
		}
	}

	var b strings.Builder
	b.WriteString("// Generated by replaygen from a recorded session.\n")
	b.WriteString("import { describe, it, expect, beforeAll, afterEach, afterAll } from 'vitest';\n")
	b.WriteString("import { render, screen } from '@testing-library/react';\n")
	b.WriteString("import userEvent from '@testing-library/user-event';\n")
	b.WriteString("import { setupServer } from 'msw/node';\n")
	if usesOverrides {
		b.WriteString("import { http, HttpResponse } from 'msw';\n")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "import %s from './%s';\n", opts.ComponentName, opts.ComponentName)
	b.WriteString("import { handlers } from './handlers';\n\n")
	b.WriteString("const server = setupServer(...handlers);\n\n")

	fmt.Fprintf(&b, "describe(%s, () => {\n", jsString(opts.DescribeLabel))
	b.WriteString("  beforeAll(() => server.listen({ onUnhandledRequest: 'bypass' }));\n")
	b.WriteString("  afterEach(() => server.resetHandlers());\n")
	b.WriteString("  afterAll(() => server.close());\n\n")
	fmt.Fprintf(&b, "  it(%s, async () => {\n", jsString(opts.TestName))

	names := newNameScope()
	for _, s := range steps {
		switch s.Kind {
		case StepRender:
			fmt.Fprintf(&b, "    render(<%s />);\n", opts.ComponentName)
		case StepInstallMocks:
			b.WriteString("\n    server.use(\n")
			for _, h := range s.Mocks {
				writeHandlerExpr(&b, h, "      ", true)
				b.WriteString(",\n")
			}
			b.WriteString("    );\n")
		case StepClick:
			name := names.claim(s.TargetID)
			b.WriteString("\n")
			fmt.Fprintf(&b, "    const %s = await screen.findByTestId(%s);\n", name, jsString(s.TargetID))
			fmt.Fprintf(&b, "    await userEvent.click(%s);\n", name)
		case StepAssertText:
			b.WriteString("\n")
			fmt.Fprintf(&b, "    expect(await screen.findByTestId(%s)).toHaveTextContent(%s);\n",
				jsString(s.TargetID), jsString(s.Text))
		case StepKeyboard:
			b.WriteString("\n")
			fmt.Fprintf(&b, "    await userEvent.keyboard(%s);\n", jsString(s.Sequence))
		}
	}

	b.WriteString("  });\n")
	b.WriteString("});\n")
	return b.String()
}

// bodyExpr renders a captured response body as a JS expression. The recorder
// stores either a JSON value or a JSON string carrying unparsable raw bytes;
// both are valid JS expressions and are emitted verbatim to preserve the
// exact round-trip.
func bodyExpr(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return "null"
	}
	return s
}

// mswMethod maps an HTTP method onto the msw http namespace. Unknown methods
// fall back to the catch-all matcher.
func mswMethod(method string) string {
	switch m := strings.ToLower(method); m {
	case "get", "post", "put", "patch", "delete", "head", "options":
		return m
	default:
		return "all"
	}
}

// jsString renders s as a single-quoted JS string literal.
func jsString(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\u2028':
			b.WriteString(`\u2028`)
		case '\u2029':
			b.WriteString(`\u2029`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// nameScope derives unique camelCase variable names from target ids, so the
// same target clicked twice gets submitButton and submitButton2.
type nameScope struct {
	used map[string]int
}

func newNameScope() *nameScope {
	return &nameScope{used: make(map[string]int)}
}

func (n *nameScope) claim(targetID string) string {
	base := camelCase(targetID)
	n.used[base]++
	if n.used[base] == 1 {
		return base
	}
	return fmt.Sprintf("%s%d", base, n.used[base])
}

func camelCase(s string) string {
	var b strings.Builder
	upperNext := false
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			if upperNext && b.Len() > 0 {
				b.WriteRune(r &^ 0x20)
			} else {
				b.WriteRune(r | 0x20)
			}
			upperNext = false
		case r >= '0' && r <= '9':
			if b.Len() == 0 {
				continue // identifiers cannot start with a digit
			}
			b.WriteRune(r)
			upperNext = true
		default:
			upperNext = true
		}
	}
	if b.Len() == 0 {
		return "element"
	}
	return b.String()
}
