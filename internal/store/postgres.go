package store

import (
	"context"
	"database/sql"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"document-qa/internal/models"
)

// chunkRow is the chunks table. The embedding is persisted as a jsonb array
// of decimal strings rather than floats so similarity-bearing vectors
// round-trip without binary floating-point artifacts.
type chunkRow struct {
	bun.BaseModel `bun:"table:chunks,alias:c"`
	ID            string         `bun:"id,pk"`
	Content       string         `bun:"content,notnull"`
	Embedding     []string       `bun:"embedding,type:jsonb,notnull"`
	Metadata      map[string]any `bun:"metadata,type:jsonb"`
}

// Postgres is a bun-backed Backend.
type Postgres struct {
	db *bun.DB
}

func ConnectDB(dsn, password string) *sql.DB {
	return sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn), pgdriver.WithPassword(password)))
}

func NewPostgres(sqldb *sql.DB, debug bool) *Postgres {
	db := bun.NewDB(sqldb, pgdialect.New())
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return &Postgres{db: db}
}

func (p *Postgres) Init(ctx context.Context) error {
	_, err := p.db.NewCreateTable().Model((*chunkRow)(nil)).IfNotExists().Exec(ctx)
	return err
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

func (p *Postgres) Put(ctx context.Context, rec models.Record) error {
	row := &chunkRow{
		ID:        rec.ID,
		Content:   rec.Content,
		Embedding: encodeVector(rec.Embedding),
		Metadata:  rec.Metadata,
	}
	_, err := p.db.NewInsert().
		Model(row).
		On("CONFLICT (id) DO UPDATE").
		Set("content = EXCLUDED.content").
		Set("embedding = EXCLUDED.embedding").
		Set("metadata = EXCLUDED.metadata").
		Exec(ctx)
	return err
}

func (p *Postgres) Delete(ctx context.Context, id string) error {
	_, err := p.db.NewDelete().Model((*chunkRow)(nil)).Where("id = ?", id).Exec(ctx)
	return err
}

// Scan reads the full corpus, ordered by id so ties rank deterministically.
func (p *Postgres) Scan(ctx context.Context) ([]models.Record, error) {
	var rows []chunkRow
	if err := p.db.NewSelect().Model(&rows).Order("id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]models.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.Record{
			ID:        row.ID,
			Content:   row.Content,
			Embedding: decodeVector(row.Embedding),
			Metadata:  row.Metadata,
		})
	}
	return out, nil
}

func encodeVector(vec []float64) []string {
	out := make([]string, len(vec))
	for i, v := range vec {
		out[i] = string(decimal(v))
	}
	return out
}

func decodeVector(vec []string) []float64 {
	out := make([]float64, 0, len(vec))
	for _, s := range vec {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			// a corrupt element poisons only itself
			f = 0
		}
		out = append(out, f)
	}
	return out
}
