package cli

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	want := []string{"import", "delete", "wipe", "init", "config", "version"}

	registered := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}

	for _, name := range want {
		if !registered[name] {
			t.Errorf("command %q not registered on root", name)
		}
	}
}

func TestRootCommand_HelpListsExitCodes(t *testing.T) {
	for _, code := range []string{"0 ", "10", "11", "12", "13", "14", "15"} {
		if !strings.Contains(rootCmd.Long, code) {
			t.Errorf("root help should document exit code %s", strings.TrimSpace(code))
		}
	}
}

func TestImportCommand_Flags(t *testing.T) {
	flags := []string{
		"connection", "host", "port", "username", "database", "sslmode",
		"azure", "azure-tenant-id", "azure-client-id",
		"aws-iam", "aws-region", "google-iam", "google-instance",
		"dataset-id", "email", "schema", "encoding",
		"annotations", "dry-run", "strict", "timeout",
	}
	for _, name := range flags {
		if importCmd.Flags().Lookup(name) == nil {
			t.Errorf("import command missing flag --%s", name)
		}
	}
}

func TestImportCommand_DatasetIDRequired(t *testing.T) {
	f := importCmd.Flags().Lookup("dataset-id")
	if f == nil {
		t.Fatal("dataset-id flag not registered")
	}
	if f.Annotations[cobra.BashCompOneRequiredFlag] == nil {
		t.Error("dataset-id should be marked required")
	}
}

func TestDeleteCommand_Flags(t *testing.T) {
	for _, name := range []string{"connection", "database", "schema", "timeout"} {
		if deleteCmd.Flags().Lookup(name) == nil {
			t.Errorf("delete command missing flag --%s", name)
		}
	}
	if deleteCmd.Args == nil {
		t.Error("delete should require the dataset_id argument")
	}
}

func TestWipeCommand_Flags(t *testing.T) {
	for _, name := range []string{"connection", "database", "schema", "force", "timeout"} {
		if wipeCmd.Flags().Lookup(name) == nil {
			t.Errorf("wipe command missing flag --%s", name)
		}
	}
}

func TestCompletePrefixMatching(t *testing.T) {
	got, _ := completeSSLModes(nil, nil, "ver")
	if len(got) != 2 {
		t.Errorf("sslmode completion for 'ver' = %v, want verify-ca and verify-full", got)
	}

	got, _ = completeEncodings(nil, nil, "")
	if len(got) != 3 {
		t.Errorf("encoding completion = %v, want all three encodings", got)
	}
	got, _ = completeEncodings(nil, nil, "lat")
	if len(got) != 1 || got[0] != "latin-1" {
		t.Errorf("encoding completion for 'lat' = %v, want [latin-1]", got)
	}
}
