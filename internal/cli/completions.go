package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/pragermh/mol-mod-import/pkg/asvdb"
)

// sslModes contains valid PostgreSQL SSL modes for shell completion.
var sslModes = []string{"disable", "allow", "prefer", "require", "verify-ca", "verify-full"}

// encodings contains supported input file encodings for shell completion.
var encodings = []string{asvdb.EncodingUTF8, asvdb.EncodingLatin1, asvdb.EncodingMacRoman}

// completeSSLModes provides shell completion for SSL mode flag values.
func completeSSLModes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return prefixMatches(sslModes, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeEncodings provides shell completion for encoding flag values.
func completeEncodings(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return prefixMatches(encodings, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeDirectories provides shell completion for directory paths.
func completeDirectories(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	// Let the shell handle directory completion
	return nil, cobra.ShellCompDirectiveFilterDirs
}

func prefixMatches(candidates []string, toComplete string) []string {
	var matches []string
	for _, c := range candidates {
		if strings.HasPrefix(c, toComplete) {
			matches = append(matches, c)
		}
	}
	return matches
}
