package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/promptkeeper/internal/paths"
	"github.com/mesh-intelligence/promptkeeper/pkg/sqlite"
	"github.com/mesh-intelligence/promptkeeper/pkg/types"
)

type testEnv struct {
	configDir string
	database  string
}

// newTestEnv isolates a CLI run from the caller's environment and returns
// temp locations for the config directory and database.
func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	for _, key := range []string{
		paths.EnvConfigDir, paths.EnvDatabasePath, paths.EnvDatabasePathLegacy,
		"API_SECRET_KEY", "PROMPTKEEPER_API_SECRET_KEY", "PROMPTKEEPER_LISTEN_ADDR",
		"PROMPTKEEPER_LOG_LEVEL", "PROMPTKEEPER_LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
	dir := t.TempDir()
	return testEnv{
		configDir: filepath.Join(dir, "config"),
		database:  filepath.Join(dir, "data", "prompt-manager.sqlite"),
	}
}

// run executes the root command with the env's locations and returns stdout.
func (e testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runRoot(context.Background(), append([]string{
		"--config-dir", e.configDir, "--database", e.database,
	}, args...)...)
}

func runRoot(ctx context.Context, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return stdout.String(), err
}

// seed writes directly to the env's database.
func (e testEnv) seed(t *testing.T, fn func(context.Context, types.Store)) {
	t.Helper()
	store := sqlite.NewBackend()
	require.NoError(t, store.Attach(types.Config{DatabasePath: e.database}))
	defer store.Detach()
	fn(context.Background(), store)
}

func createPrompt(t *testing.T, ctx context.Context, store types.Store, in types.CreatePromptInput) string {
	t.Helper()
	id, err := store.CreatePrompt(ctx, in)
	require.NoError(t, err)
	return id
}

func decodeJSON[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), "output: %s", out)
	return v
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitSuccess},
		{"plain error", errors.New("unknown flag"), exitUserError},
		{"user error", userError(errors.New("bad")), exitUserError},
		{"not found", storeError(types.ErrNotFound), exitUserError},
		{"validation", storeError(types.ErrInvalidTitle), exitUserError},
		{"conflict", storeError(types.ErrDuplicateName), exitUserError},
		{"storage", storeError(errors.New("disk I/O error")), exitSysError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestStoreError_Nil(t *testing.T) {
	assert.NoError(t, storeError(nil))
}

func TestVersion(t *testing.T) {
	out, err := runRoot(context.Background(), "version")
	require.NoError(t, err)
	assert.Equal(t, "promptkeeper "+Version+"\n", out)
}

func TestInit(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Database initialized at "+env.database)
	assert.FileExists(t, filepath.Join(env.configDir, "config.yaml"))
	assert.FileExists(t, env.database)

	// A second init leaves an existing config alone.
	cfg := filepath.Join(env.configDir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("log_level: debug\n"), 0o644))
	_, err = env.run(t, "init")
	require.NoError(t, err)
	raw, err := os.ReadFile(cfg)
	require.NoError(t, err)
	assert.Equal(t, "log_level: debug\n", string(raw))
}

func TestInit_JSON(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "--json", "init")
	require.NoError(t, err)
	got := decodeJSON[map[string]string](t, out)
	assert.Equal(t, env.database, got["database_path"])
}

func TestInit_DatabasePathFromConfig(t *testing.T) {
	env := newTestEnv(t)
	dbPath := filepath.Join(t.TempDir(), "from-config.sqlite")
	require.NoError(t, os.MkdirAll(env.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(env.configDir, "config.yaml"),
		[]byte("database_path: "+dbPath+"\n"), 0o644))

	_, err := runRoot(context.Background(), "--config-dir", env.configDir, "init")
	require.NoError(t, err)
	assert.FileExists(t, dbPath)
}

func TestInit_InvalidLogLevel(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("PROMPTKEEPER_LOG_LEVEL", "loud")

	_, err := env.run(t, "init")
	require.Error(t, err)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestLoadSettings(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		newTestEnv(t)
		s, err := loadSettings(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, settings{
			ListenAddr: defaultListenAddr,
			LogLevel:   defaultLogLevel,
			LogFormat:  defaultLogFormat,
		}, s)
	})

	t.Run("config file", func(t *testing.T) {
		newTestEnv(t)
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(
			"database_path: /srv/prompts.sqlite\napi_secret_key: s3cret\nlisten_addr: \":9000\"\nlog_format: json\n"), 0o644))

		s, err := loadSettings(dir)
		require.NoError(t, err)
		assert.Equal(t, "/srv/prompts.sqlite", s.DatabasePath)
		assert.Equal(t, "s3cret", s.APIKey)
		assert.Equal(t, ":9000", s.ListenAddr)
		assert.Equal(t, "json", s.LogFormat)
		assert.Equal(t, defaultLogLevel, s.LogLevel)
	})

	t.Run("environment beats config file", func(t *testing.T) {
		newTestEnv(t)
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
			[]byte("listen_addr: \":9000\"\napi_secret_key: from-file\n"), 0o644))
		t.Setenv("PROMPTKEEPER_LISTEN_ADDR", ":9100")
		t.Setenv("API_SECRET_KEY", "from-env")

		s, err := loadSettings(dir)
		require.NoError(t, err)
		assert.Equal(t, ":9100", s.ListenAddr)
		assert.Equal(t, "from-env", s.APIKey)
	})

	t.Run("writes default file", func(t *testing.T) {
		newTestEnv(t)
		dir := filepath.Join(t.TempDir(), "nested")
		_, err := loadSettings(dir)
		require.NoError(t, err)
		raw, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
		require.NoError(t, err)
		assert.Equal(t, defaultConfigYAML, string(raw))
	})

	t.Run("malformed file", func(t *testing.T) {
		newTestEnv(t)
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("listen_addr: [\n"), 0o644))
		_, err := loadSettings(dir)
		assert.Error(t, err)
	})
}

func TestTags(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "tags", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No tags found.")

	out, err = env.run(t, "--json", "tags", "add", "  go  ")
	require.NoError(t, err)
	created := decodeJSON[types.Tag](t, out)
	assert.Equal(t, "go", created.Name)
	assert.Positive(t, created.ID)

	_, err = env.run(t, "tags", "add", "docs")
	require.NoError(t, err)

	out, err = env.run(t, "tags", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "ID  NAME")
	assert.Less(t, bytes.Index([]byte(out), []byte("docs")), bytes.Index([]byte(out), []byte("go")))

	out, err = env.run(t, "tags", "delete", strconv.FormatInt(created.ID, 10))
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted tag")

	out, err = env.run(t, "--json", "tags", "list")
	require.NoError(t, err)
	tags := decodeJSON[[]types.Tag](t, out)
	require.Len(t, tags, 1)
	assert.Equal(t, "docs", tags[0].Name)
}

func TestTags_Errors(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "tags", "add", "go")
	require.NoError(t, err)

	tests := []struct {
		name string
		args []string
		is   error
	}{
		{"duplicate name", []string{"tags", "add", "go"}, types.ErrDuplicateName},
		{"blank name", []string{"tags", "add", "   "}, types.ErrInvalidName},
		{"unknown id", []string{"tags", "delete", "999"}, types.ErrNotFound},
		{"non-numeric id", []string{"tags", "delete", "abc"}, nil},
		{"zero id", []string{"tags", "delete", "0"}, nil},
		{"missing arg", []string{"tags", "add"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.run(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, exitUserError, exitCode(err))
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestPrompts(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "prompts", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No prompts found.")

	var reviewID, draftID string
	env.seed(t, func(ctx context.Context, store types.Store) {
		tagID, err := store.CreateTag(ctx, "review")
		require.NoError(t, err)
		reviewID = createPrompt(t, ctx, store, types.CreatePromptInput{
			Title: "Code review",
			Blocks: []types.BlockInput{
				{Content: "Review this diff."},
				{Type: types.BlockTypeCode, Content: "git diff HEAD~1"},
			},
			TagIDs: []int64{tagID},
		})
		draftID = createPrompt(t, ctx, store, types.CreatePromptInput{Title: "Draft"})
		_, err = store.ApplyClusterUpdates(ctx, []types.ClusterUpdate{
			{ID: reviewID, ClusterGroup: "Engineering"},
		})
		require.NoError(t, err)
	})

	t.Run("list table", func(t *testing.T) {
		out, err := env.run(t, "prompts", "list")
		require.NoError(t, err)
		assert.Contains(t, out, "ID")
		assert.Contains(t, out, "Code review")
		assert.Contains(t, out, "Engineering")
		assert.Contains(t, out, "Total: 2 prompt(s)")
	})

	t.Run("list json", func(t *testing.T) {
		out, err := env.run(t, "--json", "prompts", "list")
		require.NoError(t, err)
		prompts := decodeJSON[[]types.Prompt](t, out)
		assert.Len(t, prompts, 2)
	})

	t.Run("group by tag", func(t *testing.T) {
		out, err := env.run(t, "prompts", "list", "--group-by", "tag")
		require.NoError(t, err)
		assert.Contains(t, out, types.UntaggedLabel+" (1)")
		assert.Contains(t, out, "review (1)")
	})

	t.Run("group by cluster json", func(t *testing.T) {
		out, err := env.run(t, "--json", "prompts", "list", "--group-by", "cluster")
		require.NoError(t, err)
		groups := decodeJSON[map[string][]types.Prompt](t, out)
		require.Len(t, groups["Engineering"], 1)
		assert.Equal(t, reviewID, groups["Engineering"][0].ID)
		require.Len(t, groups[types.UnclusteredLabel], 1)
		assert.Equal(t, draftID, groups[types.UnclusteredLabel][0].ID)
	})

	t.Run("bad group by", func(t *testing.T) {
		_, err := env.run(t, "prompts", "list", "--group-by", "color")
		require.Error(t, err)
		assert.Equal(t, exitUserError, exitCode(err))
	})

	t.Run("show", func(t *testing.T) {
		out, err := env.run(t, "prompts", "show", reviewID)
		require.NoError(t, err)
		assert.Contains(t, out, "Code review")
		assert.Contains(t, out, "Tags:     review")
		assert.Contains(t, out, "Review this diff.")
		assert.Contains(t, out, "```\ngit diff HEAD~1\n```")
	})

	t.Run("show json", func(t *testing.T) {
		out, err := env.run(t, "--json", "prompts", "show", reviewID)
		require.NoError(t, err)
		p := decodeJSON[types.PromptDetail](t, out)
		require.Len(t, p.Blocks, 2)
		assert.Equal(t, types.BlockTypeCode, p.Blocks[1].Type)
	})

	t.Run("show missing", func(t *testing.T) {
		_, err := env.run(t, "prompts", "show", "nope")
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.Equal(t, exitUserError, exitCode(err))
	})

	t.Run("delete", func(t *testing.T) {
		out, err := env.run(t, "prompts", "delete", draftID)
		require.NoError(t, err)
		assert.Contains(t, out, "Deleted prompt "+draftID)

		_, err = env.run(t, "prompts", "delete", draftID)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestExportImport(t *testing.T) {
	src := newTestEnv(t)
	src.seed(t, func(ctx context.Context, store types.Store) {
		tagID, err := store.CreateTag(ctx, "ops")
		require.NoError(t, err)
		createPrompt(t, ctx, store, types.CreatePromptInput{
			Title:  "Incident summary",
			Blocks: []types.BlockInput{{Content: "Summarize the incident."}},
			TagIDs: []int64{tagID},
		})
	})

	for _, name := range []string{"export.json", "export.yaml"} {
		t.Run(name, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), name)
			out, err := src.run(t, "export", "-o", file)
			require.NoError(t, err)
			assert.Contains(t, out, "Exported 1 prompt(s) and 1 tag(s)")

			dst := newTestEnv(t)
			dst.seed(t, func(ctx context.Context, store types.Store) {
				createPrompt(t, ctx, store, types.CreatePromptInput{Title: "Replaced"})
			})

			out, err = dst.run(t, "--json", "import", file)
			require.NoError(t, err)
			summary := decodeJSON[importSummary](t, out)
			assert.Equal(t, &types.ImportStats{Prompts: 1, Blocks: 1, Tags: 1, Links: 1}, summary.Imported)
			require.NotNil(t, summary.BackupPath)
			assert.FileExists(t, *summary.BackupPath)

			out, err = dst.run(t, "--json", "prompts", "list")
			require.NoError(t, err)
			prompts := decodeJSON[[]types.Prompt](t, out)
			require.Len(t, prompts, 1)
			assert.Equal(t, "Incident summary", prompts[0].Title)
		})
	}
}

func TestExport_Stdout(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, func(ctx context.Context, store types.Store) {
		createPrompt(t, ctx, store, types.CreatePromptInput{Title: "Only"})
	})

	out, err := env.run(t, "export")
	require.NoError(t, err)
	doc := decodeJSON[types.ExportDocument](t, out)
	assert.Equal(t, types.SnapshotVersion, doc.Version)
	require.Len(t, doc.Prompts, 1)

	out, err = env.run(t, "export", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "title: Only")

	_, err = env.run(t, "export", "--format", "xml")
	require.Error(t, err)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestImport_Rejected(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, func(ctx context.Context, store types.Store) {
		createPrompt(t, ctx, store, types.CreatePromptInput{Title: "Keep me"})
	})

	dir := t.TempDir()
	invalidJSON := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(invalidJSON, []byte(`{"prompts": "nope"}`), 0o644))
	danglingLink := filepath.Join(dir, "dangling.yaml")
	require.NoError(t, os.WriteFile(danglingLink, []byte(
		"prompts:\n  - id: p1\n    title: T\n    blocks: []\n    tags:\n      - id: 7\n        name: ghost\ntags: []\n"), 0o644))

	tests := []struct {
		name string
		file string
	}{
		{"schema violation", invalidJSON},
		{"missing file", filepath.Join(dir, "absent.json")},
		{"link to unknown tag", danglingLink},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.run(t, "import", tt.file)
			require.Error(t, err)
			assert.Equal(t, exitUserError, exitCode(err))

			out, err := env.run(t, "--json", "prompts", "list")
			require.NoError(t, err)
			prompts := decodeJSON[[]types.Prompt](t, out)
			require.Len(t, prompts, 1)
			assert.Equal(t, "Keep me", prompts[0].Title)
		})
	}
}

func TestBackup(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "--json", "backup")
	require.NoError(t, err)
	got := decodeJSON[map[string]string](t, out)
	assert.FileExists(t, got["backupPath"])
	assert.Equal(t, filepath.Dir(env.database), filepath.Dir(got["backupPath"]))
}

func TestServe_StopsWhenContextEnds(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runRoot(ctx, "--config-dir", env.configDir, "--database", env.database,
		"serve", "--addr", "127.0.0.1:0")
	assert.NoError(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "héllo w...", truncate("héllo wörld!", 10))
}
