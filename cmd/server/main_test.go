package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/balanceapi/internal/calculator"
	"github.com/mmynk/balanceapi/internal/models"
	"github.com/mmynk/balanceapi/internal/storage/sqlite"
)

// seed stores a recalculated group.
func seed(t *testing.T, dbPath string, contributions map[string]float64, order ...string) {
	t.Helper()
	ctx := context.Background()

	store, err := sqlite.New(dbPath)
	require.NoError(t, err)
	defer store.Close()

	var group []models.Participant
	for _, name := range order {
		p := models.NewParticipant(name, contributions[name])
		group = append(group, *p)
		require.NoError(t, calculator.Recalculate(group))
		require.NoError(t, store.CreateParticipant(ctx, p, group))
	}
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestPlanCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "balances.db")
	seed(t, dbPath, map[string]float64{"Alice": 100, "Bob": 0}, "Alice", "Bob")

	assert.Equal(t, "Bob -> Alice (50.0€)\n", run(t, "plan", "--db", dbPath))
}

func TestPlanCommand_Settled(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "balances.db")
	assert.Equal(t, "Everyone is settled.\n", run(t, "plan", "--db", dbPath))
}

func TestSummaryCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "balances.db")
	seed(t, dbPath, map[string]float64{"Alice": 10, "Bob": 0, "Carol": 0}, "Alice", "Bob", "Carol")

	out := run(t, "summary", "--db", dbPath)
	assert.Contains(t, out, "participants: 3\n")
	assert.Contains(t, out, "total:        10.0€\n")
	assert.Contains(t, out, "fair share:   3.33€\n")
	assert.Contains(t, out, "remainder:    0.01€\n")
}

func TestMigrateCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "balances.db")
	assert.Equal(t, "schema version 2 (dirty: false)\n", run(t, "migrate", "--db", dbPath))
}

func TestRootCommand_RejectsInvalidConfig(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"plan", "--db", filepath.Join(t.TempDir(), "x.db")})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port")
}
