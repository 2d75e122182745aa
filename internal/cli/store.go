package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/me/schedsim/internal/store"
)

// openStore opens (creating directories and schema as needed) the run
// database at the --db path.
func openStore() (store.Store, error) {
	if flagDB == "" {
		return nil, fmt.Errorf("no database configured (set --db or SCHEDSIM_DB)")
	}
	if flagDB != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(flagDB), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	st, err := store.NewSQLiteStore(flagDB, logger)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(context.Background()); err != nil {
		st.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return st, nil
}
