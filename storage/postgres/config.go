package postgres

import "fmt"

// Config holds connection and schema settings for the pgvector store.
type Config struct {
	// ConnString is the PostgreSQL connection URL.
	ConnString string

	// Table is the name of the articles table.
	Table string

	// Dimensions is the size of the embedding column.
	Dimensions int

	// Lists is the ivfflat index list count.
	Lists int

	// BatchSize is the number of rows sent per round trip by Load.
	BatchSize int
}

// DefaultConfig returns the settings of the news_articles schema.
func DefaultConfig() Config {
	return Config{
		Table:      "news_articles",
		Dimensions: 768,
		Lists:      100,
		BatchSize:  500,
	}
}

// Validate checks the configuration for required fields and sane values.
func (c Config) Validate() error {
	if c.ConnString == "" {
		return fmt.Errorf("postgres config: ConnString is required")
	}
	if c.Table == "" {
		return fmt.Errorf("postgres config: Table is required")
	}
	if c.Dimensions <= 0 {
		return fmt.Errorf("postgres config: Dimensions must be positive, got %d", c.Dimensions)
	}
	if c.Lists <= 0 {
		return fmt.Errorf("postgres config: Lists must be positive, got %d", c.Lists)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("postgres config: BatchSize must be positive, got %d", c.BatchSize)
	}
	return nil
}
