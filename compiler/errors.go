package compiler

import (
	"github.com/ava12/pegen"
)

const (
	NotImplementedError = pegen.CompileErrors + iota
	UnknownExprError
	RuleNameError
	ExportNameError
	BindingNameError
	PackageNameError
)

func notImplementedError(what string) *pegen.Error {
	return pegen.FormatError(NotImplementedError, "%s is not implemented", what)
}

func unknownExprError(e any) *pegen.Error {
	return pegen.FormatError(UnknownExprError, "unknown expression type %T", e)
}

func ruleNameError(name string) *pegen.Error {
	return pegen.FormatError(RuleNameError, "rule name %q is not a Go identifier", name)
}

func exportNameError(name string) *pegen.Error {
	return pegen.FormatError(ExportNameError, "cannot export rule %q, name must start with a letter", name)
}

func bindingNameError(name string) *pegen.Error {
	return pegen.FormatError(BindingNameError, "cannot use %q as a binding name", name)
}

func packageNameError(name string) *pegen.Error {
	return pegen.FormatError(PackageNameError, "invalid package name %q", name)
}

func duplicateExportError(name, wrapper, other string) *pegen.Error {
	return pegen.FormatError(ExportNameError, "cannot export rule %q, function %s is already generated for rule %q", name, wrapper, other)
}
