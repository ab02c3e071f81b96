package cli

import (
	"reflect"
	"testing"

	"github.com/spf13/cobra"
)

func TestRegisterBooleanFlagParsesValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		defaultValue bool
		arguments    []string
		expected     bool
		expectError  bool
	}{
		{name: "keeps_true_default", defaultValue: true, arguments: []string{}, expected: true},
		{name: "bare_flag_sets_true", defaultValue: false, arguments: []string{"--manifest"}, expected: true},
		{name: "equals_false", defaultValue: true, arguments: []string{"--manifest=false"}, expected: false},
		{name: "separate_no", defaultValue: true, arguments: []string{"--manifest", "no"}, expected: false},
		{name: "separate_on", defaultValue: false, arguments: []string{"--manifest", "ON"}, expected: true},
		{name: "separate_zero", defaultValue: true, arguments: []string{"--manifest", "0"}, expected: false},
		{name: "trailing_path_is_not_a_value", defaultValue: false, arguments: []string{"--manifest", "./project"}, expected: true},
		{name: "rejects_unknown_literal", defaultValue: false, arguments: []string{"--manifest=maybe"}, expectError: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			command := &cobra.Command{Use: "boolean-test"}
			var flagValue bool
			registerBooleanFlag(command.Flags(), &flagValue, "manifest", testCase.defaultValue, "write a manifest")
			parseErr := command.ParseFlags(normalizeBooleanFlagArguments(command, testCase.arguments))
			if testCase.expectError {
				if parseErr == nil {
					t.Fatalf("expected parse error for arguments %v", testCase.arguments)
				}
				return
			}
			if parseErr != nil {
				t.Fatalf("unexpected parse error: %v", parseErr)
			}
			if flagValue != testCase.expected {
				t.Fatalf("expected %t, got %t", testCase.expected, flagValue)
			}
		})
	}
}

func TestNormalizeBooleanFlagArguments(t *testing.T) {
	t.Parallel()

	command := &cobra.Command{Use: "treesnap"}
	var simple bool
	var outputName string
	registerBooleanFlag(command.Flags(), &simple, "simple", false, "simple")
	command.Flags().StringVar(&outputName, "output-file", "", "output")

	testCases := []struct {
		name      string
		arguments []string
		expected  []string
	}{
		{
			name:      "joins_boolean_literal",
			arguments: []string{"--simple", "yes", "."},
			expected:  []string{"--simple=yes", "."},
		},
		{
			name:      "leaves_string_flags_alone",
			arguments: []string{"--output-file", "no"},
			expected:  []string{"--output-file", "no"},
		},
		{
			name:      "stops_at_terminator",
			arguments: []string{"--", "--simple", "no"},
			expected:  []string{"--", "--simple", "no"},
		},
		{
			name:      "keeps_following_flag",
			arguments: []string{"--simple", "--output-file", "x.txt"},
			expected:  []string{"--simple", "--output-file", "x.txt"},
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			normalized := normalizeBooleanFlagArguments(command, testCase.arguments)
			if !reflect.DeepEqual(normalized, testCase.expected) {
				t.Fatalf("expected %v, got %v", testCase.expected, normalized)
			}
		})
	}
}
