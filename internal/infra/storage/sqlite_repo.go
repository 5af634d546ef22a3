package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MRamiBalles/shadowshell/internal/domain/save"
	"github.com/MRamiBalles/shadowshell/internal/domain/world"
	shellerrors "github.com/MRamiBalles/shadowshell/internal/platform/errors"
)

// SQLiteEventRepository implements EventRepository for SQLite.
type SQLiteEventRepository struct {
	db *sql.DB
}

func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

func (r *SQLiteEventRepository) Append(ctx context.Context, event GameEvent) error {
	payloadBytes, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO events (id, save_name, timestamp, event_type, actor_id, target_id, payload, turn, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.SaveName, event.Timestamp.UTC(), event.EventType, event.ActorID,
		event.TargetID, string(payloadBytes), event.Turn, event.Message,
	)
	if err != nil {
		return shellerrors.Wrap(shellerrors.CodePersistence, "failed to append event", err)
	}
	return nil
}

func (r *SQLiteEventRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]GameEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, shellerrors.Wrap(shellerrors.CodePersistence, "failed to query events", err)
	}
	defer rows.Close()

	var events []GameEvent
	for rows.Next() {
		var e GameEvent
		var payloadStr string
		err := rows.Scan(
			&e.ID, &e.SaveName, &e.Timestamp, &e.EventType, &e.ActorID,
			&e.TargetID, &payloadStr, &e.Turn, &e.Message,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payloadStr), &e.Payload); err != nil {
			return nil, shellerrors.Wrap(shellerrors.CodeDataIntegrity, "corrupt event payload "+e.ID, err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

const eventColumns = `id, save_name, timestamp, event_type, actor_id, target_id, payload, turn, message`

func (r *SQLiteEventRepository) GetBySave(ctx context.Context, saveName string) ([]GameEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE save_name = ? ORDER BY seq ASC`
	return r.getMany(ctx, query, saveName)
}

func (r *SQLiteEventRepository) GetByEventType(ctx context.Context, saveName, eventType string) ([]GameEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE save_name = ? AND event_type = ? ORDER BY seq ASC`
	return r.getMany(ctx, query, saveName, eventType)
}

// ---------------------------------------------------------
// SQLiteSaveRepository
// ---------------------------------------------------------

type SQLiteSaveRepository struct {
	db *sql.DB
}

func NewSQLiteSaveRepository(db *sql.DB) *SQLiteSaveRepository {
	return &SQLiteSaveRepository{db: db}
}

func (r *SQLiteSaveRepository) Save(ctx context.Context, snap save.Snapshot) error {
	if err := save.ValidateName(snap.Name); err != nil {
		return err
	}
	playerJSON, err := json.Marshal(snap.Player)
	if err != nil {
		return shellerrors.Wrap(shellerrors.CodePersistence, "failed to marshal player", err)
	}
	worldJSON, err := json.Marshal(snap.World)
	if err != nil {
		return shellerrors.Wrap(shellerrors.CodePersistence, "failed to marshal world", err)
	}
	if snap.SavedAt.IsZero() {
		snap.SavedAt = time.Now()
	}

	query := `
		INSERT INTO saves (name, hero, level, player_json, world_json, pos_row, pos_col, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			hero=excluded.hero,
			level=excluded.level,
			player_json=excluded.player_json,
			world_json=excluded.world_json,
			pos_row=excluded.pos_row,
			pos_col=excluded.pos_col,
			saved_at=excluded.saved_at
	`
	_, err = r.db.ExecContext(ctx, query,
		snap.Name, snap.Player.Character.Name, snap.Player.Character.Level,
		string(playerJSON), string(worldJSON), snap.Position.Row, snap.Position.Col, snap.SavedAt.UTC(),
	)
	if err != nil {
		return shellerrors.Wrap(shellerrors.CodePersistence, "failed to write save "+snap.Name, err)
	}
	return nil
}

func (r *SQLiteSaveRepository) Load(ctx context.Context, name string) (save.Snapshot, error) {
	query := `SELECT name, player_json, world_json, pos_row, pos_col, saved_at FROM saves WHERE name = ?`
	var (
		snap                  save.Snapshot
		playerJSON, worldJSON string
		row, col              int
	)
	err := r.db.QueryRowContext(ctx, query, name).Scan(&snap.Name, &playerJSON, &worldJSON, &row, &col, &snap.SavedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return save.Snapshot{}, shellerrors.New(shellerrors.CodeNotFound, fmt.Sprintf("no save named %q", name))
		}
		return save.Snapshot{}, shellerrors.Wrap(shellerrors.CodePersistence, "failed to read save "+name, err)
	}
	if err := json.Unmarshal([]byte(playerJSON), &snap.Player); err != nil {
		return save.Snapshot{}, shellerrors.Wrap(shellerrors.CodeDataIntegrity, "corrupt player in save "+name, err)
	}
	if err := json.Unmarshal([]byte(worldJSON), &snap.World); err != nil {
		return save.Snapshot{}, shellerrors.Wrap(shellerrors.CodeDataIntegrity, "corrupt world in save "+name, err)
	}
	snap.Position = world.Position{Row: row, Col: col}
	return snap, nil
}

func (r *SQLiteSaveRepository) List(ctx context.Context) ([]save.Info, error) {
	query := `SELECT name, hero, level, saved_at FROM saves ORDER BY saved_at DESC, name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, shellerrors.Wrap(shellerrors.CodePersistence, "failed to list saves", err)
	}
	defer rows.Close()

	var infos []save.Info
	for rows.Next() {
		var info save.Info
		if err := rows.Scan(&info.Name, &info.Hero, &info.Level, &info.SavedAt); err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}
