/*
pegen is a console utility translating grammar document to Go source file containing parser functions.
Usage is

	pegen generate [-o <file>] [-p <name>] [--header <text>] [-d [--fail]] [-w] <grammar-file>
	pegen check [--describe] <grammar-file>...
	pegen version

Global flags are --log-level (debug, info, warn, error) and --log-format (text, json, json-pretty).
Any flag not set in command line is taken from PEGEN_<FLAG> (global flags)
or PEGEN_<COMMAND>_<FLAG> environment variable, dashes replaced with underscores,
e.g. PEGEN_GENERATE_PACKAGE=parser.

Exit code is 0 on success, 1 on error, 2 on incorrect usage,
3 if generate --diff --fail found a difference.
*/
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
