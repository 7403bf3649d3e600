package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillframe/contexta/internal/core/domain"
)

func TestAssembleCmd_Use(t *testing.T) {
	assert.Equal(t, "assemble [query]", assembleCmd.Use)
}

func TestAssembleCmd_Short(t *testing.T) {
	assert.Equal(t, "Assemble a context for a query", assembleCmd.Short)
}

func TestAssembleCmd_Long(t *testing.T) {
	assert.Contains(t, assembleCmd.Long, "semantic")
	assert.Contains(t, assembleCmd.Long, "taxonomy")
	assert.Contains(t, assembleCmd.Long, "cache")
}

func TestAssembleCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"assemble"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestAssembleCmd_HasLimitFlag(t *testing.T) {
	flag := assembleCmd.Flags().Lookup("limit")
	require.NotNil(t, flag, "limit flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestAssembleCmd_HasUserFlag(t *testing.T) {
	flag := assembleCmd.Flags().Lookup("user")
	require.NotNil(t, flag, "user flag should exist")
	assert.Equal(t, "u", flag.Shorthand)
}

func TestAssembleCmd_ExecutesWithQuery(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"assemble", "improve literacy"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "== Context Summary ==")
}

func TestAssembleCmd_PassesFlagsToQuery(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{
		"assemble", "improve literacy",
		"--user", "user-1",
		"--intent", "reporting",
		"--complexity", "advanced",
		"--focus", "education,climate",
		"-n", "5",
	})
	defer func() {
		rootCmd.SetArgs(nil)
		assembleUser = ""
		assembleIntent = ""
		assembleComplexity = ""
		assembleFocus = nil
		assembleLimit = 0
	}()

	err := rootCmd.Execute()
	require.NoError(t, err)

	mock := assemblyService.(*mockAssemblyService)
	assert.Equal(t, "improve literacy", mock.lastQuery.Query)
	assert.Equal(t, "reporting", mock.lastQuery.Intent)
	assert.Equal(t, "user-1", mock.lastQuery.User.UserID)
	assert.Equal(t, domain.ComplexityAdvanced, mock.lastQuery.User.Complexity)
	assert.Equal(t, []string{"education", "climate"}, mock.lastQuery.User.FocusAreas)
	assert.Equal(t, 5, mock.lastQuery.MaxResults)
}

func TestAssembleCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"assemble", "--json", "improve literacy"})
	defer func() {
		rootCmd.SetArgs(nil)
		assembleJSON = false // Reset flag
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "\"chunks\"")
	assert.Contains(t, buf.String(), "\"contextSummary\"")
	assert.Contains(t, buf.String(), "\"totalRelevanceScore\"")
}

func TestAssembleCmd_ServiceError(t *testing.T) {
	oldService := assemblyService
	assemblyService = &mockAssemblyServiceError{}
	defer func() {
		assemblyService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"assemble", "anything"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "assembly failed")
}
