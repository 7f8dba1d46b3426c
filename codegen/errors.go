package codegen

import (
	"github.com/ava12/pegen"
)

const (
	HostCodeError = pegen.CodegenErrors + iota
	HostTypeError
	HostDeclsError
	ImportError
	TemplateError
	SyntaxError
)

func hostCodeError(code string, e error) *pegen.Error {
	return pegen.FormatError(HostCodeError, "incorrect Go expression %q (%s)", code, e.Error())
}

func hostTypeError(text string, e error) *pegen.Error {
	if e == nil {
		return pegen.FormatError(HostTypeError, "%q is not a Go type", text)
	}
	return pegen.FormatError(HostTypeError, "incorrect Go type %q (%s)", text, e.Error())
}

func hostDeclsError(e error) *pegen.Error {
	return pegen.FormatError(HostDeclsError, "incorrect Go declarations (%s)", e.Error())
}

func importError(name, path string) *pegen.Error {
	return pegen.FormatError(ImportError, "incorrect import %s %q", name, path)
}

func templateError(name string, e error) *pegen.Error {
	return pegen.FormatError(TemplateError, "cannot expand template %s (%s)", name, e.Error())
}

func syntaxError(e error) *pegen.Error {
	return pegen.FormatError(SyntaxError, "generated code is not valid Go (%s)", e.Error())
}
