// Package env maps environment variables to unset command flags.
package env

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// GlobalPrefix is the environment variable prefix for root command flags.
const GlobalPrefix = "pegen"

// Prefix returns environment variable prefix for command flags:
// PEGEN for root command and PEGEN_<COMMAND> for subcommands.
func Prefix(command *cobra.Command) string {
	if !command.HasParent() {
		return strings.ToUpper(GlobalPrefix)
	}
	return strings.ToUpper(GlobalPrefix + "_" + command.Name())
}

// ApplyEnvironment sets every flag of command not set in command line
// from <PREFIX>_<FLAG> environment variable, dashes in flag names replaced with underscores.
func ApplyEnvironment(command *cobra.Command) error {
	var errs []string
	v := viper.New()
	v.SetEnvPrefix(Prefix(command))
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	apply := func(f *pflag.Flag) {
		if f.Changed || !v.IsSet(f.Name) {
			return
		}
		if e := f.Value.Set(v.GetString(f.Name)); e != nil {
			errs = append(errs, fmt.Sprintf("%s: %s", f.Name, e.Error()))
		} else {
			f.Changed = true
		}
	}
	command.LocalFlags().VisitAll(apply)

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("error mapping environment variables to command flags: %s", strings.Join(errs, "; "))
}
