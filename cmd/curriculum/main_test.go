package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleSeed = "../../config/curriculum.example.yaml"

// useSQLite points the app at a throwaway database with no model credentials.
func useSQLite(t *testing.T) {
	t.Helper()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "curriculum.db"))
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("LESSONPLAN_MODELS_PATH", "")
	t.Setenv("LESSONPLAN_MODELS", "")
	outputFormat = "table"
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestReadSeedFileExample(t *testing.T) {
	lessons, err := readSeedFile(exampleSeed)
	require.NoError(t, err)
	require.Len(t, lessons, 3)
	assert.Equal(t, "1", lessons[0].LessonNumber)
	assert.Equal(t, "Algoritmos no dia a dia", lessons[0].LessonTopic)
	assert.Equal(t, "100 minutos", lessons[2].Duration)
}

func TestReadSeedFileRejectsEmptyList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("lessons: []\n"), 0o600))
	_, err := readSeedFile(path)
	require.Error(t, err)

	_, err = readSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestSeedAndListWithoutModelCredentials(t *testing.T) {
	useSQLite(t)

	out, err := run(t, "seed", "--file", exampleSeed)
	require.NoError(t, err, out)
	assert.Contains(t, out, "seeded 3 lessons")

	// Seeding twice upserts instead of failing on numero_aula.
	out, err = run(t, "seed", "--file", exampleSeed)
	require.NoError(t, err, out)

	out, err = run(t, "list", "-o", "json")
	require.NoError(t, err, out)

	var lessons []struct {
		LessonNumber string `json:"numero_aula"`
		LessonTopic  string `json:"tema_aula"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &lessons), out)
	require.Len(t, lessons, 3)
	assert.Equal(t, "Decomposição de problemas", lessons[1].LessonTopic)
}

func TestGenerateRequiresTopic(t *testing.T) {
	useSQLite(t)
	_, err := run(t, "generate")
	require.Error(t, err)
}
