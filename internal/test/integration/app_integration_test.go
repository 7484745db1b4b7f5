package integration

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codegrader/internal/core/app"
	"codegrader/internal/core/config"
	"codegrader/internal/engine/rules"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gradebookV1 = `
public class Gradebook {
    private int unusedCount;
    private int[] grades = new int[10];

    public int total() {
        int sum = 0;
        for (int g : grades) {
            sum += g;
        }
        return sum;
    }
}`

const gradebookV2 = `
public class Gradebook {
    private int[] grades = new int[10];

    public int total() {
        int sum = 0;
        for (int g : grades) {
            sum += g;
        }
        return sum;
    }
}`

const mainSource = `
public class Main {
    public static void main(String[] args) {
        Gradebook book = new Gradebook();
        System.out.println(book.total());
    }
}`

func createTestFiles(t *testing.T, tmpDir string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, config.DefaultFile), []byte("version = 1\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "src", "school"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "src", "Main.java"), []byte(mainSource), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "src", "school", "Gradebook.java"), []byte(gradebookV1), 0o644))
}

func TestFullPipelineIntegration(t *testing.T) {
	tmpDir := t.TempDir()
	createTestFiles(t, tmpDir)

	cfg := config.DefaultConfig()
	cfg.WatchPaths = []string{tmpDir}
	cfg.DB.Enabled = true
	cfg.Output = config.Output{
		Root:     "reports",
		Markdown: "grades.md",
		SARIF:    "grades.sarif",
		JSON:     "grades.json",
	}
	require.Empty(t, config.Validate(cfg))

	paths, err := config.ResolvePaths(cfg, tmpDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(tmpDir), paths.ProjectRoot)

	appInstance, err := app.New(cfg, paths)
	require.NoError(t, err)
	t.Cleanup(func() { _ = appInstance.Close() })

	ctx := context.Background()
	first, err := appInstance.Analyze(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, first.Conflicts)

	assert.Len(t, first.Files, 2)
	assert.Equal(t, []string{"Gradebook", "Main"}, first.Types.SortedNames())

	var unused []string
	for _, f := range first.Findings {
		if f.Rule == rules.RuleUnused {
			unused = append(unused, f.Symbol)
		}
	}
	assert.Contains(t, unused, "unusedCount")
	assert.NotContains(t, unused, "total", "total is called from Main")

	written, err := appInstance.WriteOutputs(first)
	require.NoError(t, err)
	assert.Len(t, written, 3)

	md, err := os.ReadFile(filepath.Join(tmpDir, "reports", "grades.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "Gradebook")

	var sarif map[string]any
	data, err := os.ReadFile(filepath.Join(tmpDir, "reports", "grades.sarif"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &sarif))
	assert.Equal(t, "2.1.0", sarif["version"])

	data, err = os.ReadFile(filepath.Join(tmpDir, "reports", "grades.json"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"file": "src/school/Gradebook.java"`))

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "src", "school", "Gradebook.java"), []byte(gradebookV2), 0o644))
	second, err := appInstance.Analyze(ctx, nil)
	require.NoError(t, err)
	assert.Less(t, len(second.Findings), len(first.Findings))

	points, err := appInstance.Trend(10)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, first.RunID, points[0].Run.ID)
	assert.Equal(t, second.RunID, points[1].Run.ID)
	assert.Equal(t, len(second.Findings)-len(first.Findings), points[1].DeltaFindings)
	assert.Zero(t, points[1].DeltaTypes)

	_, err = os.Stat(filepath.Join(tmpDir, ".codegrader", "history.db"))
	assert.NoError(t, err)
}
