// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/pepdex/pkg/types"
)

// QueryOptions holds parameters for index queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string over titles.
	Query string

	// Status filters by canonical status.
	Status types.Status

	// Type filters by canonical type.
	Type types.Type

	// Topic filters by a single topic slug.
	Topic string

	// Mentions filters to PEPs that reference the given number. Zero
	// means no filter.
	Mentions int

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Status == "" && q.Type == "" && q.Topic == "" && q.Mentions == 0
}

// QueryResult is one indexed PEP with its outgoing mention edges.
type QueryResult struct {
	Number    int      `json:"number" yaml:"number"`
	Title     string   `json:"title" yaml:"title"`
	Status    string   `json:"status" yaml:"status"`
	StatusRaw string   `json:"status_raw,omitempty" yaml:"status_raw,omitempty"`
	Type      string   `json:"type" yaml:"type"`
	Topics    []string `json:"topics,omitempty" yaml:"topics,omitempty"`
	Authors   []string `json:"authors,omitempty" yaml:"authors,omitempty"`
	Mentions  []int    `json:"mentions,omitempty" yaml:"mentions,omitempty"`
}

// Retrieve queries the index with optional full-text search over titles
// and structured filters. Full-text queries rank by relevance; otherwise
// results come back in number order.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT p.number, p.title, p.status, p.status_raw, p.type, p.topics, p.authors
			FROM peps_fts
			JOIN peps p ON p.number = peps_fts.rowid
			WHERE peps_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT p.number, p.title, p.status, p.status_raw, p.type, p.topics, p.authors
			FROM peps p
			WHERE 1=1`)
	}

	if opts.Status != "" {
		qb.WriteString(` AND p.status = ?`)
		args = append(args, string(opts.Status))
	}

	if opts.Type != "" {
		qb.WriteString(` AND p.type = ?`)
		args = append(args, string(opts.Type))
	}

	if opts.Topic != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM json_each(p.topics) WHERE value = ?)`)
		args = append(args, opts.Topic)
	}

	if opts.Mentions != 0 {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM mentions m WHERE m.from_pep = p.number AND m.to_pep = ?)`)
		args = append(args, opts.Mentions)
	}

	if useFTS {
		qb.WriteString(` ORDER BY peps_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY p.number`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var (
			qr          QueryResult
			topicsJSON  sql.NullString
			authorsJSON sql.NullString
		)

		if err := rows.Scan(
			&qr.Number, &qr.Title, &qr.Status, &qr.StatusRaw, &qr.Type,
			&topicsJSON, &authorsJSON,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		if topicsJSON.Valid {
			json.Unmarshal([]byte(topicsJSON.String), &qr.Topics)
		}
		if authorsJSON.Valid {
			json.Unmarshal([]byte(authorsJSON.String), &qr.Authors)
		}

		results = append(results, qr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range results {
		out, _, err := s.Edges(ctx, results[i].Number)
		if err != nil {
			return nil, err
		}
		results[i].Mentions = out
	}

	return results, nil
}

// Edges returns the mention edges for a number: the PEPs it mentions and
// the PEPs that mention it.
func (s *Store) Edges(ctx context.Context, number int) (out, in []int, err error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT to_pep FROM mentions WHERE from_pep = ? ORDER BY to_pep`, number)
	if err != nil {
		return nil, nil, fmt.Errorf("querying outgoing mentions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, nil, fmt.Errorf("scanning mention: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	inRows, err := s.db.QueryContext(ctx,
		`SELECT from_pep FROM mentions WHERE to_pep = ? ORDER BY from_pep`, number)
	if err != nil {
		return nil, nil, fmt.Errorf("querying incoming mentions: %w", err)
	}
	defer inRows.Close()

	for inRows.Next() {
		var n int
		if err := inRows.Scan(&n); err != nil {
			return nil, nil, fmt.Errorf("scanning mention: %w", err)
		}
		in = append(in, n)
	}
	return out, in, inRows.Err()
}
