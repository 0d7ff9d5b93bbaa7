package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"superoutine/internal/model"
	"superoutine/internal/service/export"
	"superoutine/pkg/util"
)

func mockNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func execCmd(t *testing.T, now time.Time, args ...string) (string, error) {
	t.Helper()
	out := new(bytes.Buffer)
	cmd := NewRootCmd(mockNow(now))
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeBundle(t *testing.T, b export.Bundle) string {
	t.Helper()
	raw, err := json.Marshal(b)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))
	return path
}

func TestStats(t *testing.T) {
	path := writeBundle(t, export.Bundle{
		UserID: "u1",
		Habits: []model.Habit{
			{ID: "h1", Name: "Read", Goal: 20, CompletedDays: []int{1, 2, 3}},
			{ID: "h2", Name: "Run", Goal: 10, CompletedDays: []int{1, 3}},
		},
		Gamification: model.GameState{TotalXP: 50},
	})

	out, err := execCmd(t, time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC), "stats", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "2025-03, day 3")
	assert.Contains(t, out, "100%  (2/2)")
	assert.Contains(t, out, "Read")
	assert.Contains(t, out, "First Step")
}

func TestStatsPastMonthAndBadDay(t *testing.T) {
	path := writeBundle(t, export.Bundle{UserID: "u1"})
	now := time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)

	out, err := execCmd(t, now, "stats", "--file", path, "--month", "2025-02")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-02, day 28")

	_, err = execCmd(t, now, "stats", "--file", path, "--month", "2025-02", "--day", "30")
	assert.Error(t, err)

	_, err = execCmd(t, now, "stats", "--file", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLevel(t *testing.T) {
	out, err := execCmd(t, time.Now(), "level", "--xp", "350")
	require.NoError(t, err)
	assert.Contains(t, out, "Level 3")
	assert.Contains(t, out, "Beginner")

	out, err = execCmd(t, time.Now(), "level", "--upto", "3")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[3], "300")

	_, err = execCmd(t, time.Now(), "level", "--upto", "0")
	assert.Error(t, err)
}

func TestToken(t *testing.T) {
	out, err := execCmd(t, time.Now(), "token", "--user", "u1", "--role", "admin", "--secret", "s3cret")
	require.NoError(t, err)

	claims, err := util.ParseJWT(strings.TrimSpace(out), "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)

	t.Setenv("JWT_SECRET", "")
	_, err = execCmd(t, time.Now(), "token", "--user", "u1")
	assert.Error(t, err)

	_, err = execCmd(t, time.Now(), "token", "--user", "u1", "--role", "root", "--secret", "x")
	assert.Error(t, err)
}

func TestMigratePrintAndSQLite(t *testing.T) {
	out, err := execCmd(t, time.Now(), "migrate", "--driver", "sqlite", "--print")
	require.NoError(t, err)
	assert.Contains(t, out, "CREATE TABLE")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.yaml"), []byte("store:\n  driver: sqlite\n"), 0o600))
	dbPath := filepath.Join(dir, "data", "local.db")

	out, err = execCmd(t, time.Now(), "migrate", "--driver", "sqlite", "--config", dir, "--path", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, dbPath)
	_, err = os.Stat(dbPath)
	assert.NoError(t, err)

	_, err = execCmd(t, time.Now(), "migrate", "--driver", "mysql", "--print")
	assert.Error(t, err)
}
