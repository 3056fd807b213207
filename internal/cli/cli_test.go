package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/maturity-pathway/backend/internal/models"
)

const answeredTree = `
levels: [Basic, Developing, Mature]
dimensions:
  - name: Governance
    activities:
      - title: Policy
        statements:
          - text: A policy exists
            associatedLevel: 1
            userAnswer: {answer: true, notes: on the intranet}
          - text: Nobody owns it
            associatedLevel: 1
            positive: false
            userAnswer: {answer: false}
          - text: The policy is reviewed
            associatedLevel: 2
`

func init() {
	color.NoColor = true
}

func writeTree(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestScore_JSON(t *testing.T) {
	path := writeTree(t, "tree.yaml", answeredTree)

	out, _, err := run(t, "score", path)
	require.NoError(t, err)

	var scored models.Assessment
	require.NoError(t, json.Unmarshal([]byte(out), &scored))
	assert.Equal(t, models.StyleBoolean, scored.Style)
	assert.Equal(t, 1, scored.OverallAchievedLevel)
	require.NotNil(t, scored.StatementCompletionPercentage)
	assert.Equal(t, 67, *scored.StatementCompletionPercentage)
}

func TestScore_YAMLToFile(t *testing.T) {
	path := writeTree(t, "tree.yaml", answeredTree)
	outPath := filepath.Join(t.TempDir(), "scored.yaml")

	_, _, err := run(t, "score", path, "--format", "yaml", "-o", outPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var scored models.Assessment
	require.NoError(t, yaml.Unmarshal(data, &scored))
	assert.Equal(t, 100, scored.Dimensions[0].UserProgress.LevelCoveragePercent[1])
}

func TestScore_UnwrapsProject(t *testing.T) {
	path := writeTree(t, "project.json", `{
  "id": "p1",
  "title": "review",
  "assessmentData": {"dimensions": [{"name": "D", "activities": [{"title": "A", "statements": [{"text": "s", "associatedLevel": 1, "userAnswer": {"answer": true}}]}]}]}
}`)

	out, _, err := run(t, "score", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"overallAchievedLevel": 1`)
}

func TestScore_Errors(t *testing.T) {
	_, _, err := run(t, "score", writeTree(t, "tree.txt", answeredTree))
	assert.Error(t, err)

	_, _, err = run(t, "score", writeTree(t, "tree.yaml", answeredTree), "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestScore_PrintsWarnings(t *testing.T) {
	path := writeTree(t, "tree.json", `{"dimensions":[{"name":"D","activities":[{"title":"Empty"}]}]}`)
	_, stderr, err := run(t, "score", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, `warning: dimension "D" > activity "Empty"`)
}

func TestValidate(t *testing.T) {
	good := writeTree(t, "good.yaml", answeredTree)
	bad := writeTree(t, "bad.json", `{"dimensions":[{"name":"D","activities":[{"title":"A","statements":[{"text":"s"}]}]}]}`)

	out, _, err := run(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ "+good+" (boolean)")

	out, _, err = run(t, "validate", good, bad)
	assert.ErrorContains(t, err, "1 of 2 files invalid")
	assert.Contains(t, out, "✗ "+bad)
	assert.Contains(t, out, `dimension "D" > activity "A" > statement 1: associatedLevel is required`)
}

func TestSummary(t *testing.T) {
	path := writeTree(t, "tree.yaml", answeredTree)

	out, _, err := run(t, "summary", path, "--breakdown")
	require.NoError(t, err)
	assert.Contains(t, out, "Maturity Summary (boolean)")
	assert.Contains(t, out, "Overall level: Basic")
	assert.Contains(t, out, "Items answered: 67%")
	assert.Contains(t, out, "Governance")
	assert.Contains(t, out, " 100%")
	assert.Contains(t, out, "✓ [Basic] A policy exists (on the intranet)")
	assert.Contains(t, out, "- [Developing] The policy is reviewed")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
