package ioingest

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
)

// LoadCSV upserts nodes from a CSV snapshot with a header row.
// Required columns: node_id, ott_id, name, parent_node_id. The
// num_tips column is optional; snapshots from older exports lack it.
func (ing *ingestor) LoadCSV(ctx context.Context, path string) error {
	if ing.operator.Pool() == nil {
		return NotConnectedError()
	}

	start := time.Now()

	rows, err := readNodesCSV(path)
	if err != nil {
		return err
	}
	gn.Info("Loading <em>%s</em> nodes from %s.",
		humanize.Comma(int64(len(rows))), path)

	bar := pb.Full.Start(len(rows))
	bar.Set("prefix", "Upserting nodes: ")
	bar.Set(pb.CleanOnFinish, true)
	defer bar.Finish()

	size := ing.cfg.Database.BatchSize
	for len(rows) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := min(size, len(rows))
		if err := ing.upsertRows(ctx, rows[:n]); err != nil {
			return err
		}
		bar.Add(n)
		rows = rows[n:]
	}

	if err := ing.recomputeChildCounts(ctx); err != nil {
		return err
	}

	gn.Info("CSV load finished in %s.",
		gnfmt.TimeString(time.Since(start).Seconds()))
	return nil
}

func readNodesCSV(path string) ([]nodeRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, CSVError(path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, CSVError(path, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, required := range []string{
		"node_id", "ott_id", "name", "parent_node_id",
	} {
		if _, ok := cols[required]; !ok {
			return nil, CSVError(path,
				fmt.Errorf("missing column %q", required))
		}
	}
	tipsIdx, hasTips := cols["num_tips"]

	var rows []nodeRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, CSVError(path, err)
		}

		row := nodeRow{
			NodeID:       record[cols["node_id"]],
			Name:         record[cols["name"]],
			OttID:        parseNullInt(record[cols["ott_id"]]),
			ParentNodeID: parseNullStr(record[cols["parent_node_id"]]),
		}
		if hasTips {
			row.NumTips = parseNullInt(record[tipsIdx])
		}
		if row.NodeID == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseNullInt(s string) sql.NullInt64 {
	if s == "" {
		return sql.NullInt64{}
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: i, Valid: true}
}

func parseNullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
