package ioenrich_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/cladecanvas/cladedb/internal/iodb"
	"github.com/cladecanvas/cladedb/internal/ioenrich"
	"github.com/cladecanvas/cladedb/internal/ioschema"
	"github.com/cladecanvas/cladedb/internal/iotesting"
	"github.com/cladecanvas/cladedb/pkg/db"
	"github.com/cladecanvas/cladedb/pkg/enrich"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB connects to the test database and recreates the schema.
func setupTestDB(t *testing.T) db.Operator {
	t.Helper()

	cfg := iotesting.GetTestConfig()
	operator := iodb.NewPgxOperator()

	ctx := context.Background()
	err := operator.Connect(ctx, &cfg.Database)
	require.NoError(t, err,
		"test database %q must be reachable", cfg.Database.Database)
	t.Cleanup(func() { operator.Close() })

	require.NoError(t, operator.DropAllTables(ctx))
	require.NoError(t, ioschema.NewManager(operator).Create(ctx))
	return operator
}

func insertTestNode(
	t *testing.T, operator db.Operator,
	nodeID string, ottID int64, name string, numTips int64,
) {
	t.Helper()
	_, err := operator.Pool().Exec(context.Background(), `
		INSERT INTO nodes (node_id, ott_id, name, num_tips)
		VALUES ($1, $2, $3, $4)`,
		nodeID, ottID, name, numTips)
	require.NoError(t, err)
}

func testRecord(nodeID string, ottID int64) enrich.Record {
	return enrich.NewRecord(enrich.Candidate{
		NodeID:      nodeID,
		OttID:       sql.NullInt64{Int64: ottID, Valid: true},
		EntityID:    "Q5173",
		Label:       "Bilateria",
		Description: sql.NullString{String: "clade of animals", Valid: true},
		Rank:        sql.NullString{String: "clade", Valid: true},
	},
		"Bilateria are animals.",
		"https://en.wikipedia.org/wiki/Bilateria",
		time.Now(),
	)
}

func TestMergeRecords(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	operator := setupTestDB(t)
	ctx := context.Background()
	insertTestNode(t, operator, "ott117569", 117569, "Bilateria", 1000)

	rec := testRecord("ott117569", 117569)
	require.NoError(t,
		ioenrich.MergeRecords(ctx, operator.Pool(), []enrich.Record{rec}))

	var (
		wikidataQ   string
		fullDesc    string
		score       float64
		hasMetadata bool
		rank        sql.NullString
	)
	err := operator.Pool().QueryRow(ctx, `
		SELECT m.wikidata_q, m.full_description, m.enriched_score,
		       n.has_metadata, n.rank
		FROM metadata m JOIN nodes n ON n.node_id = m.node_id
		WHERE m.node_id = $1`, "ott117569").
		Scan(&wikidataQ, &fullDesc, &score, &hasMetadata, &rank)
	require.NoError(t, err)

	assert.Equal(t, "Q5173", wikidataQ)
	assert.Equal(t, "Bilateria are animals.", fullDesc)
	assert.Equal(t, 1.0, score)
	assert.True(t, hasMetadata)
	assert.Equal(t, "clade", rank.String)

	// Merging again replaces the row instead of duplicating it.
	require.NoError(t,
		ioenrich.MergeRecords(ctx, operator.Pool(), []enrich.Record{rec}))
	var count int
	err = operator.Pool().QueryRow(ctx,
		`SELECT COUNT(*) FROM metadata WHERE node_id = $1`,
		"ott117569").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMergeRecords_RankNullOverwrite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	operator := setupTestDB(t)
	ctx := context.Background()
	insertTestNode(t, operator, "ott117569", 117569, "Bilateria", 1000)

	withRank := testRecord("ott117569", 117569)
	require.NoError(t, ioenrich.MergeRecords(
		ctx, operator.Pool(), []enrich.Record{withRank}))

	// A re-enrichment without a rank clears the stored rank rather
	// than keeping a stale one.
	withoutRank := withRank
	withoutRank.Rank = sql.NullString{}
	require.NoError(t, ioenrich.MergeRecords(
		ctx, operator.Pool(), []enrich.Record{withoutRank}))

	var rank sql.NullString
	err := operator.Pool().QueryRow(ctx,
		`SELECT rank FROM nodes WHERE node_id = $1`,
		"ott117569").Scan(&rank)
	require.NoError(t, err)
	assert.False(t, rank.Valid)
}

func TestSelectBatch(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	operator := setupTestDB(t)
	ctx := context.Background()

	insertTestNode(t, operator, "ott1", 1, "Aves", 10_000)
	insertTestNode(t, operator, "ott2", 2, "Danaus", 50)
	insertTestNode(t, operator, "ott3", 3, "Bilateria", 1_000_000)
	// synthetic node without an OTT id is never scheduled
	_, err := operator.Pool().Exec(ctx, `
		INSERT INTO nodes (node_id, name, num_tips)
		VALUES ('mrcaott1ott2', 'mrca', 99)`)
	require.NoError(t, err)

	nodes, err := ioenrich.SelectBatch(ctx, operator.Pool(), 10)
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	assert.Equal(t, "ott3", nodes[0].NodeID, "largest clade first")
	assert.Equal(t, "ott1", nodes[1].NodeID)

	// enriched nodes drop out of the queue
	require.NoError(t, ioenrich.MergeRecords(ctx, operator.Pool(),
		[]enrich.Record{testRecord("ott3", 3)}))

	nodes, err = ioenrich.SelectBatch(ctx, operator.Pool(), 10)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "ott1", nodes[0].NodeID)

	// the priority pass only sees big clades
	priority, err := ioenrich.SelectPriorityBatch(
		ctx, operator.Pool(), 1000)
	require.NoError(t, err)
	require.Len(t, priority, 1)
	assert.Equal(t, "ott1", priority[0].NodeID)
}
