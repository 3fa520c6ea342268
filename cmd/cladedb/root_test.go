package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// TestRootCommand_HasSubcommands verifies root command structure
func TestRootCommand_HasSubcommands(t *testing.T) {
	cmd := getRootCmd()
	require.NotNil(t, cmd, "Root command should exist")

	for _, name := range []string{
		"create", "migrate", "populate", "enrich", "requeue",
	} {
		assert.NotNil(t, findSubcommand(cmd, name),
			"%s subcommand should exist", name)
	}
}

// TestRootCommand_Help verifies help text includes usage
func TestRootCommand_Help(t *testing.T) {
	cmd := getRootCmd()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})
	err := cmd.Execute()
	require.NoError(t, err)

	helpText := buf.String()
	assert.Contains(t, helpText, "cladedb", "Help should mention cladedb")
	assert.Contains(t, helpText, "database", "Help should mention database")
	assert.Contains(t, helpText, "Available Commands",
		"Help should list commands")
}

// TestRootCommand_VersionFlag verifies --version flag
func TestRootCommand_VersionFlag(t *testing.T) {
	cmd := getRootCmd()
	cmd.Version = "test-version"

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--version"})
	err := cmd.Execute()
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "test-version",
		"Version output should contain version string")
}

// TestCreateCommand_HasForceFlag verifies create --force flag
func TestCreateCommand_HasForceFlag(t *testing.T) {
	createCmd := findSubcommand(getRootCmd(), "create")
	require.NotNil(t, createCmd)

	forceFlag := createCmd.Flags().Lookup("force")
	require.NotNil(t, forceFlag,
		"--force flag should exist on create command")
	assert.Equal(t, "bool", forceFlag.Value.Type(),
		"--force should be boolean")
}

// TestPopulateCommand_Flags verifies populate flags
func TestPopulateCommand_Flags(t *testing.T) {
	populateCmd := findSubcommand(getRootCmd(), "populate")
	require.NotNil(t, populateCmd)

	csvFlag := populateCmd.Flags().Lookup("csv")
	require.NotNil(t, csvFlag, "--csv flag should exist")
	assert.Equal(t, "string", csvFlag.Value.Type())

	rootFlag := populateCmd.Flags().Lookup("root-ott")
	require.NotNil(t, rootFlag, "--root-ott flag should exist")
	assert.Equal(t, "int64", rootFlag.Value.Type())
}

// TestEnrichCommand_Flags verifies enrich flags
func TestEnrichCommand_Flags(t *testing.T) {
	enrichCmd := findSubcommand(getRootCmd(), "enrich")
	require.NotNil(t, enrichCmd)

	for flag, typ := range map[string]string{
		"batch-size": "int",
		"workers":    "int",
		"loops":      "int",
		"sleep":      "float64",
		"min-tips":   "int",
		"priority":   "bool",
		"dry-run":    "bool",
	} {
		f := enrichCmd.Flags().Lookup(flag)
		require.NotNil(t, f, "--%s flag should exist", flag)
		assert.Equal(t, typ, f.Value.Type(), flag)
	}
}

// TestEnrichCommand_Help verifies enrich command help
func TestEnrichCommand_Help(t *testing.T) {
	cmd := getRootCmd()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"enrich", "--help"})
	err := cmd.Execute()
	require.NoError(t, err)

	helpText := buf.String()
	assert.Contains(t, helpText, "Wikidata",
		"Help should mention the knowledge base")
	assert.Contains(t, helpText, "priority",
		"Help should mention the priority pass")
}

// TestRequeueCommand_Exists verifies requeue subcommand
func TestRequeueCommand_Exists(t *testing.T) {
	requeueCmd := findSubcommand(getRootCmd(), "requeue")
	require.NotNil(t, requeueCmd, "requeue subcommand should exist")
	assert.Contains(t, requeueCmd.Short, "wrong-entity",
		"requeue description should mention wrong-entity metadata")
}
