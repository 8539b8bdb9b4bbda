package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sesheta/internal/chatbot"
	"sesheta/internal/ledger"
)

func TestLedgerAppendAndCount(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	infra := SetupTestInfraWithOptions(t, true, false)
	repo := ledger.NewRepository(infra.PostgresDB)
	ctx := context.Background()

	text := "kubernetes 1.40 is out"
	cells, err := repo.Append(ctx, chatbot.InteractionRecord{
		Timestamp:        time.Now().UTC(),
		Sender:           "Priya",
		Text:             &text,
		SpaceDisplayName: "SIG ChatOps",
		EventType:        "MESSAGE",
		SpaceName:        "spaces/AAA",
	})
	require.NoError(t, err)
	assert.Equal(t, 6, cells)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLedgerAppendNullableText(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	infra := SetupTestInfraWithOptions(t, true, false)
	repo := ledger.NewRepository(infra.PostgresDB)
	ctx := context.Background()

	_, err := repo.Append(ctx, chatbot.InteractionRecord{
		Timestamp:        time.Now().UTC(),
		Sender:           "Priya",
		Text:             nil,
		SpaceDisplayName: "SIG ChatOps",
		EventType:        "ADDED_TO_SPACE",
		SpaceName:        "spaces/AAA",
	})
	require.NoError(t, err)

	var message *string
	err = infra.PostgresDB.QueryRowContext(ctx,
		`SELECT message FROM interactions WHERE event_type = 'ADDED_TO_SPACE'`,
	).Scan(&message)
	require.NoError(t, err)
	assert.Nil(t, message)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	infra := SetupTestInfraWithOptions(t, true, false)

	// Setup already ran them once.
	require.NoError(t, ledger.RunMigrations(infra.PostgresDB))
}
