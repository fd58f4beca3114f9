package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv points the CLI at a temporary database, export directory and config file.
type testEnv struct {
	t         *testing.T
	exportDir string
	config    string
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		t:         t,
		exportDir: filepath.Join(dir, "exports"),
		config:    filepath.Join(dir, "config.yaml"),
	}
	t.Setenv("PFSHEET_DATABASE", filepath.Join(dir, "db"))
	t.Setenv("PFSHEET_BACKEND", "badger")
	t.Setenv("PFSHEET_EXPORT_DIR", env.exportDir)
	t.Setenv("PFSHEET_TIMEZONE", "UTC")
	return env
}

// resetFlags restores every flag to its default so commands can run repeatedly.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// run executes the CLI with args and returns stdout and the error.
func (e *testEnv) run(stdin string, args ...string) (string, error) {
	e.t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--config", e.config, "--color", "never"}, args...))

	err := Execute()
	return out.String(), err
}

// runJSON executes the CLI with --format json and decodes stdout.
func (e *testEnv) runJSON(stdin string, args ...string) (map[string]any, error) {
	e.t.Helper()
	out, err := e.run(stdin, append([]string{"-f", "json"}, args...)...)
	var decoded map[string]any
	require.NoError(e.t, json.Unmarshal([]byte(out), &decoded), "output: %s", out)
	return decoded, err
}

var createArgs = []string{
	"create",
	"--legajo", "1234",
	"--nombre", "Ana",
	"--fecha", "05/09/2025",
	"--cliente", "1",
	"--division", "IOT",
	"--tipo", "7",
	"--numero", "1456",
	"--tarea", "ATC",
	"--tiempo", "1.5h",
}

// =============================================================================
// Create / Get Tests
// =============================================================================

func TestCreateAndGet(t *testing.T) {
	env := setupEnv(t)

	t.Run("create_from_flags", func(t *testing.T) {
		resp, err := env.runJSON("", createArgs...)
		require.NoError(t, err)
		assert.Equal(t, true, resp["created"])

		row := resp["row"].(map[string]any)
		assert.Equal(t, float64(1), row["id"])
		assert.Equal(t, "2025-09-05", row["fecha"])
		assert.Equal(t, float64(90), row["tiempo_minutos"])
		assert.Equal(t, "01:30", row["tiempo"])
		assert.Equal(t, "Ana", row["nombre_personal"])
	})

	t.Run("create_from_stdin", func(t *testing.T) {
		input := `{"legajo_personal": 5678, "fecha": 1757030400, "cliente": "1", "contrato_division": "IOT",
			"contrato_tipo": "7", "contrato_numero": "1456", "tarea": "ATC", "tiempo": "02:00"}`
		resp, err := env.runJSON(input, "create", "--input", "-")
		require.NoError(t, err)

		row := resp["row"].(map[string]any)
		assert.Equal(t, float64(2), row["id"])
		assert.Equal(t, "5678", row["legajo_personal"])
		assert.Equal(t, "2025-09-05", row["fecha"])
		assert.Equal(t, float64(120), row["tiempo_minutos"])
	})

	t.Run("get", func(t *testing.T) {
		resp, err := env.runJSON("", "get", "1")
		require.NoError(t, err)
		assert.Equal(t, true, resp["found"])
		assert.Equal(t, "1234", resp["row"].(map[string]any)["legajo_personal"])
	})

	t.Run("get_cli", func(t *testing.T) {
		out, err := env.run("", "get", "1")
		require.NoError(t, err)
		assert.Contains(t, out, "Timesheet 1")
		assert.Contains(t, out, "05/09/2025")
	})
}

// =============================================================================
// Error Reporting Tests
// =============================================================================

func TestErrors(t *testing.T) {
	env := setupEnv(t)

	t.Run("missing_field", func(t *testing.T) {
		resp, err := env.runJSON("", "create", "--legajo", "1234")
		require.Error(t, err)
		assert.Equal(t, "error", resp["status"])
		assert.Equal(t, "MissingField", resp["kind"])
		assert.Equal(t, "fecha", resp["field"])
	})

	t.Run("invalid_duration", func(t *testing.T) {
		args := append(append([]string{}, createArgs...), "--tiempo", "25:00")
		resp, err := env.runJSON("", args...)
		require.Error(t, err)
		assert.Equal(t, "InvalidDuration", resp["kind"])
	})

	t.Run("separator_in_text", func(t *testing.T) {
		args := append(append([]string{}, createArgs...), "--observaciones", "a;b")
		resp, err := env.runJSON("", args...)
		require.Error(t, err)
		assert.Equal(t, "FieldContainsSeparator", resp["kind"])
	})

	t.Run("not_found", func(t *testing.T) {
		resp, err := env.runJSON("", "get", "99")
		require.Error(t, err)
		assert.Equal(t, "NotFound", resp["kind"])
	})

	t.Run("invalid_id", func(t *testing.T) {
		_, err := env.run("", "get", "abc")
		require.Error(t, err)
	})

	t.Run("bad_input_json", func(t *testing.T) {
		_, err := env.run("not json", "create", "--input", "-")
		require.Error(t, err)
	})
}

// =============================================================================
// Update / Delete Tests
// =============================================================================

func TestUpdateAndDelete(t *testing.T) {
	env := setupEnv(t)
	_, err := env.run("", createArgs...)
	require.NoError(t, err)

	t.Run("update_minutes", func(t *testing.T) {
		resp, err := env.runJSON("", "update", "1", "--tiempo-minutos", "45", "--observaciones", "guardia")
		require.NoError(t, err)
		assert.Equal(t, true, resp["updated"])

		row := resp["row"].(map[string]any)
		assert.Equal(t, "00:45", row["tiempo"])
		assert.Equal(t, "guardia", row["observaciones"])
		assert.Equal(t, "1234", row["legajo_personal"])
	})

	t.Run("update_missing", func(t *testing.T) {
		resp, err := env.runJSON("", "update", "7", "--tiempo", "bogus")
		require.Error(t, err)
		assert.Equal(t, "NotFound", resp["kind"])
	})

	t.Run("delete", func(t *testing.T) {
		resp, err := env.runJSON("", "delete", "1", "--force")
		require.NoError(t, err)
		assert.Equal(t, true, resp["deleted"])
		assert.Equal(t, float64(1), resp["id"])

		_, err = env.run("", "get", "1")
		require.Error(t, err)
	})
}

// =============================================================================
// List / Export Tests
// =============================================================================

func seed(t *testing.T, env *testEnv) {
	t.Helper()
	for _, c := range []struct{ legajo, fecha string }{
		{"1234", "2025-09-07"},
		{"1234", "2025-09-05"},
		{"5678", "2025-09-05"},
		{"1234", "2025-08-31"},
	} {
		args := []string{"create", "--legajo", c.legajo, "--fecha", c.fecha, "--cliente", "1",
			"--division", "IOT", "--tipo", "7", "--numero", "1456", "--tarea", "ATC", "--tiempo", "60"}
		_, err := env.run("", args...)
		require.NoError(t, err)
	}
}

func TestList(t *testing.T) {
	env := setupEnv(t)
	seed(t, env)

	t.Run("all_ordered", func(t *testing.T) {
		resp, err := env.runJSON("", "list")
		require.NoError(t, err)
		assert.Equal(t, float64(4), resp["count"])

		rows := resp["rows"].([]any)
		var ids []float64
		for _, r := range rows {
			ids = append(ids, r.(map[string]any)["id"].(float64))
		}
		assert.Equal(t, []float64{4, 2, 3, 1}, ids)
	})

	t.Run("filtered_and_paged", func(t *testing.T) {
		resp, err := env.runJSON("", "list", "--from", "01/09/2025", "--legajo", "1234", "--limit", "1")
		require.NoError(t, err)
		assert.Equal(t, float64(2), resp["count"])
		assert.Len(t, resp["rows"].([]any), 1)
	})

	t.Run("no_matches", func(t *testing.T) {
		resp, err := env.runJSON("", "list", "--legajo", "0000")
		require.NoError(t, err)
		assert.Equal(t, float64(0), resp["count"])
		assert.Empty(t, resp["rows"])
	})

	t.Run("plain", func(t *testing.T) {
		out, err := env.run("", "-f", "plain", "list", "--legajo", "5678")
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(out, "\n"))
		assert.True(t, strings.HasPrefix(out, "3\t05/09/2025\t5678"))
	})
}

func TestExport(t *testing.T) {
	env := setupEnv(t)
	seed(t, env)

	resp, err := env.runJSON("", "export", "--from", "2025-09-01", "--to", "2025-09-30")
	require.NoError(t, err)
	assert.Equal(t, "PF_PlantillaRegTiempos_202509_todos.csv", resp["filename"])
	assert.Equal(t, float64(3), resp["count"])

	path := resp["saved_path"].(string)
	assert.Equal(t, env.exportDir, filepath.Dir(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, resp["content"], string(data))

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 13)
	assert.True(t, strings.HasPrefix(lines[10], "D;1234;;05/09/2025;"))

	resp, err = env.runJSON("", "export", "--from", "2025-09-01", "--to", "2025-09-30")
	require.NoError(t, err)
	assert.Equal(t, "PF_PlantillaRegTiempos_202509_todos_2.csv", resp["filename"])
}

// =============================================================================
// Fields / Config Tests
// =============================================================================

func TestFields(t *testing.T) {
	env := setupEnv(t)

	t.Run("json", func(t *testing.T) {
		resp, err := env.runJSON("", "fields")
		require.NoError(t, err)
		required := resp["required"].([]any)
		assert.Equal(t, "legajo_personal", required[0])
		assert.Len(t, resp["export_order"].([]any), 16)
	})

	t.Run("markdown", func(t *testing.T) {
		out, err := env.run("", "fields")
		require.NoError(t, err)
		assert.Contains(t, out, "| `legajo_personal` | `--legajo` |")
		assert.Contains(t, out, "1. `legajo_personal`")
	})
}

func TestConfigCommands(t *testing.T) {
	env := setupEnv(t)

	out, err := env.run("", "config", "path")
	require.NoError(t, err)
	assert.Equal(t, env.config+"\n", out)

	_, err = env.run("", "config", "init")
	require.NoError(t, err)
	assert.FileExists(t, env.config)

	_, err = env.run("", "config", "init")
	assert.Error(t, err)

	out, err = env.run("", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "backend: badger")
	assert.Contains(t, out, env.exportDir)
}
