package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	booleanFlagTypeName              = "bool"
	booleanFlagTrueLiteral           = "true"
	booleanFlagAcceptedValuesListing = "true, false, yes, no, on, off, 1, 0"
	booleanFlagInvalidValueFormat    = "invalid boolean value %q for --%s; accepted values: %s"
	flagTerminator                   = "--"
	longFlagPrefix                   = "--"
)

var booleanFlagLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// parseBooleanLiteral accepts the literals above case-insensitively; an empty value means true.
func parseBooleanLiteral(input string) (bool, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return true, true
	}
	parsed, ok := booleanFlagLiterals[normalized]
	return parsed, ok
}

// booleanFlagValue is a pflag.Value that understands yes/no and on/off spellings.
type booleanFlagValue struct {
	target *bool
	name   string
}

func (value *booleanFlagValue) Set(input string) error {
	parsed, ok := parseBooleanLiteral(input)
	if !ok {
		return fmt.Errorf(booleanFlagInvalidValueFormat, input, value.name, booleanFlagAcceptedValuesListing)
	}
	*value.target = parsed
	return nil
}

func (value *booleanFlagValue) String() string {
	if value == nil || value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *booleanFlagValue) Type() string {
	return booleanFlagTypeName
}

// registerBooleanFlag adds a flag that may be given bare or with a literal value.
func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	*target = defaultValue
	flagSet.Var(&booleanFlagValue{target: target, name: name}, name, usage)
	registered := flagSet.Lookup(name)
	registered.DefValue = strconv.FormatBool(defaultValue)
	registered.NoOptDefVal = booleanFlagTrueLiteral
}

// normalizeBooleanFlagArguments joins "--flag value" into "--flag=value" for boolean
// flags when value is a boolean literal, so "--manifest no" does not read "no" as a path.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string) []string {
	booleanFlags := map[string]struct{}{}
	collectBooleanFlagNames(command, booleanFlags)
	if len(booleanFlags) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == flagTerminator {
			return append(normalized, arguments[index:]...)
		}
		if joined, ok := joinBooleanValue(booleanFlags, argument, arguments[index+1:]); ok {
			normalized = append(normalized, joined)
			index++
			continue
		}
		normalized = append(normalized, argument)
	}
	return normalized
}

func joinBooleanValue(booleanFlags map[string]struct{}, argument string, remaining []string) (string, bool) {
	if !strings.HasPrefix(argument, longFlagPrefix) || strings.Contains(argument, "=") || len(remaining) == 0 {
		return "", false
	}
	flagName := strings.TrimPrefix(argument, longFlagPrefix)
	if _, isBoolean := booleanFlags[flagName]; !isBoolean {
		return "", false
	}
	candidate := remaining[0]
	if strings.HasPrefix(candidate, "-") || strings.TrimSpace(candidate) == "" {
		return "", false
	}
	if _, ok := parseBooleanLiteral(candidate); !ok {
		return "", false
	}
	return argument + "=" + candidate, true
}

func collectBooleanFlagNames(command *cobra.Command, target map[string]struct{}) {
	if command == nil {
		return
	}
	visit := func(flag *pflag.Flag) {
		if flag.Value.Type() == booleanFlagTypeName {
			target[flag.Name] = struct{}{}
		}
	}
	command.PersistentFlags().VisitAll(visit)
	command.Flags().VisitAll(visit)
	for _, child := range command.Commands() {
		collectBooleanFlagNames(child, target)
	}
}
