package engine

import (
	"fmt"
	"io"
	"os"

	"github.com/MRamiBalles/shadowshell/internal/domain/enemy"
	"github.com/MRamiBalles/shadowshell/internal/domain/item"
	"github.com/MRamiBalles/shadowshell/internal/platform/logger"
)

// LoadContent reads the item and enemy catalogs. Empty paths use the built-in
// catalogs. Skipped records are logged; only unreadable files fail.
func LoadContent(itemsPath, enemiesPath string, log *logger.Logger) (*item.Catalog, []*enemy.Enemy, error) {
	var (
		catalog *item.Catalog
		skipped []error
		err     error
	)
	if itemsPath == "" {
		catalog, skipped, err = item.DefaultCatalog()
	} else {
		catalog, skipped, err = decodeFile(itemsPath, item.DecodeCatalog)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load items: %w", err)
	}
	for _, s := range skipped {
		log.Warn(fmt.Sprintf("[CONTENT] skipped %v", s))
	}

	var enemies []*enemy.Enemy
	if enemiesPath == "" {
		enemies, skipped, err = enemy.DefaultEnemies(catalog)
	} else {
		enemies, skipped, err = decodeFile(enemiesPath, func(r io.Reader) ([]*enemy.Enemy, []error, error) {
			return enemy.LoadEnemies(r, catalog)
		})
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load enemies: %w", err)
	}
	for _, s := range skipped {
		log.Warn(fmt.Sprintf("[CONTENT] skipped %v", s))
	}

	log.Info(fmt.Sprintf("[CONTENT] %d items, %d enemies", catalog.Len(), len(enemies)))
	return catalog, enemies, nil
}

func decodeFile[T any](path string, decode func(io.Reader) (T, []error, error)) (T, []error, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, nil, err
	}
	defer f.Close()
	return decode(f)
}
