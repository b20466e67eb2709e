package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/feedback-portal/internal/auth"
	"github.com/spec-kit/feedback-portal/internal/domain"
	"github.com/spec-kit/feedback-portal/internal/persistence"
	"github.com/spec-kit/feedback-portal/internal/repository"
	"github.com/spec-kit/feedback-portal/internal/service"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := RootCmd("test")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func seedFileStore(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("STORE_DRIVER", "file")
	t.Setenv("STORE_DIR", dir)
	t.Setenv("EXPORT_TIMEZONE", "UTC")

	store, err := persistence.NewFileStore(dir, zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, repository.NewDepartmentRepository(store).ReplaceAll(ctx, []domain.Department{
		{ID: 1, Name: "Library", Active: true},
		{ID: 2, Name: "Cafeteria"},
	}))
	require.NoError(t, repository.NewFeedbackRepository(store).ReplaceAll(ctx, []domain.Feedback{
		{ID: 10, DepartmentID: 1, Rating: domain.RatingGood, Comment: "quiet", CreatedAt: time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)},
	}))
	return dir
}

func TestHashPassword(t *testing.T) {
	out, err := run(t, "hash-password", "--cost", "4", "s3cret")
	require.NoError(t, err)
	hash := strings.TrimSpace(out)
	assert.NoError(t, auth.ComparePassword(hash, "s3cret"))

	_, err = run(t, "hash-password", " ")
	assert.Error(t, err)
	_, err = run(t, "hash-password")
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	seedFileStore(t)
	target := filepath.Join(t.TempDir(), "out.xlsx")

	out, err := run(t, "export", "--out", target)
	require.NoError(t, err)
	assert.Contains(t, out, target)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck
	rows, err := f.GetRows(service.ExportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Library", "Good", "quiet", "2025-02-01 08:00:00"}, rows[1])
}

func TestStatsCommand(t *testing.T) {
	seedFileStore(t)

	out, err := run(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Total feedback: 1")
	assert.Contains(t, out, "Library")
	assert.Contains(t, out, "Cafeteria")

	out, err = run(t, "stats", "--json")
	require.NoError(t, err)
	var stats service.Stats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 1, stats.TotalFeedbacks)
	require.Len(t, stats.Departments, 2)
	require.NotNil(t, stats.Departments[0].AverageScore)
	assert.Equal(t, 4.0, *stats.Departments[0].AverageScore)
}

func TestStoreCommandsIgnoreAuthSettings(t *testing.T) {
	seedFileStore(t)
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("AUTH_MODE", "identity-provider")

	out, err := run(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Total feedback: 1")

	_, err = run(t, "export", "--out", filepath.Join(t.TempDir(), "x.xlsx"))
	assert.NoError(t, err)
}

func TestCommandsFailWithInvalidStoreConfig(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")
	_, err := run(t, "stats")
	assert.ErrorContains(t, err, "STORE_DRIVER")
}
