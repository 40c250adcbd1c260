package postgres

import (
	_ "embed"
	"strings"
	"text/template"

	"github.com/jackc/pgx/v5"
)

//go:embed schema.sql
var schemaSQL string

var schemaTemplate = template.Must(template.New("schema").Parse(schemaSQL))

type schemaParams struct {
	Table      string
	Index      string
	Dimensions int
	Lists      int
}

// renderSchema renders the idempotent DDL for cfg.
// Identifiers are quoted so arbitrary table names are safe.
func renderSchema(cfg Config) (string, error) {
	var sb strings.Builder
	err := schemaTemplate.Execute(&sb, schemaParams{
		Table:      pgx.Identifier{cfg.Table}.Sanitize(),
		Index:      pgx.Identifier{cfg.Table + "_embedding_idx"}.Sanitize(),
		Dimensions: cfg.Dimensions,
		Lists:      cfg.Lists,
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}
