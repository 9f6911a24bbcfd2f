package sink

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/pkg/errors"

	"github.com/audiomidi/ingest/internal/model"
	"github.com/audiomidi/ingest/internal/util"
)

// metadataSchema is the relational superset of both source formats'
// attribute sets. Columns not applicable to a variant stay NULL.
const metadataSchema = `
CREATE TABLE IF NOT EXISTS metadata (
  id BIGSERIAL PRIMARY KEY,
  dataset_name TEXT NOT NULL,
  title TEXT NOT NULL,

  -- GuitarSet attributes
  guitarist_id INTEGER,
  style TEXT,
  tempo INTEGER,
  scale TEXT,
  mode TEXT,
  playing_version TEXT,
  duration DOUBLE PRECISION,

  -- shared
  pick_up_setting TEXT,

  -- IDMT-SMT-Guitar attributes
  instrument TEXT,
  instrument_model TEXT,
  pick_up_type TEXT,
  amp_channel TEXT,
  instrument_tuning TEXT,
  audio_effects TEXT,
  recording_date TEXT,
  recording_artist TEXT,
  instrument_body_material TEXT,
  instrument_string_material TEXT,
  composer TEXT,
  recording_source TEXT,
  polyphony BOOLEAN,

  UNIQUE (dataset_name, title)
);

CREATE INDEX IF NOT EXISTS idx_metadata_dataset ON metadata(dataset_name);
`

// PostgresStore is the relational sink. One connection pool per
// pipeline run, closed by the command when the batch ends.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects to PostgreSQL and bootstraps the schema.
func OpenPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening postgres connection")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "pinging postgres")
	}

	store := &PostgresStore{db: db}
	if err := store.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	util.DebugLog("Postgres connection established")
	return store, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) ensureSchema() error {
	if _, err := s.db.Exec(metadataSchema); err != nil {
		return errors.Wrap(err, "applying metadata schema")
	}
	return nil
}

// FindByNaturalKey looks up the surrogate id for (dataset, title).
// An absent row reports found=false with a nil error.
func (s *PostgresStore) FindByNaturalKey(ctx context.Context, dataset, title string) (int64, bool, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM metadata WHERE dataset_name = $1 AND title = $2",
		dataset, title).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("%w: natural key lookup for %s/%s: %v", util.ErrStorage, dataset, title, err)
	}
	return id, true, nil
}

// Insert writes a new metadata row and returns the surrogate id. The
// column set is resolved once per variant.
func (s *PostgresStore) Insert(ctx context.Context, meta model.Metadata) (int64, error) {
	var (
		id  int64
		err error
	)
	switch m := meta.(type) {
	case *model.GuitarSetMetadata:
		err = s.db.QueryRowContext(ctx, `
			INSERT INTO metadata (dataset_name, title, guitarist_id, style, tempo,
			                      scale, mode, playing_version, duration, pick_up_setting)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id`,
			m.DatasetName, m.RecordingTitle, m.GuitaristID, string(m.Style), m.Tempo,
			string(m.Scale), string(m.Mode), string(m.PlayingVersion), m.Duration,
			m.PickupSetting).Scan(&id)
	case *model.IDMTMetadata:
		err = s.db.QueryRowContext(ctx, `
			INSERT INTO metadata (dataset_name, title, instrument, instrument_model,
			                      pick_up_setting, pick_up_type, amp_channel, instrument_tuning,
			                      audio_effects, recording_date, recording_artist,
			                      instrument_body_material, instrument_string_material,
			                      composer, recording_source, polyphony)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			RETURNING id`,
			m.DatasetName, m.RecordingTitle, m.Instrument, m.InstrumentModel,
			m.PickupSetting, m.PickupType, m.AmpChannel, m.InstrumentTuning,
			m.AudioEffects, m.RecordingDate, m.RecordingArtist,
			m.InstrumentBodyMaterial, m.InstrumentStringMaterial,
			m.Composer, m.RecordingSource, m.Polyphony).Scan(&id)
	default:
		return 0, fmt.Errorf("%w: unsupported metadata variant %T", util.ErrStorage, meta)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: inserting metadata for %s/%s: %v", util.ErrStorage, meta.Dataset(), meta.Title(), err)
	}
	util.DebugLog("Metadata inserted: id=%d title=%s", id, meta.Title())
	return id, nil
}

// Update rewrites the row identified by the surrogate id with the
// freshly extracted record. The source file is authoritative; the
// stored projection is always replaced whole.
func (s *PostgresStore) Update(ctx context.Context, id int64, meta model.Metadata) error {
	var err error
	switch m := meta.(type) {
	case *model.GuitarSetMetadata:
		_, err = s.db.ExecContext(ctx, `
			UPDATE metadata
			SET dataset_name = $1, title = $2, guitarist_id = $3, style = $4,
			    tempo = $5, scale = $6, mode = $7, playing_version = $8,
			    duration = $9, pick_up_setting = $10
			WHERE id = $11`,
			m.DatasetName, m.RecordingTitle, m.GuitaristID, string(m.Style),
			m.Tempo, string(m.Scale), string(m.Mode), string(m.PlayingVersion),
			m.Duration, m.PickupSetting, id)
	case *model.IDMTMetadata:
		_, err = s.db.ExecContext(ctx, `
			UPDATE metadata
			SET dataset_name = $1, title = $2, instrument = $3, instrument_model = $4,
			    pick_up_setting = $5, pick_up_type = $6, amp_channel = $7,
			    instrument_tuning = $8, audio_effects = $9, recording_date = $10,
			    recording_artist = $11, instrument_body_material = $12,
			    instrument_string_material = $13, composer = $14,
			    recording_source = $15, polyphony = $16
			WHERE id = $17`,
			m.DatasetName, m.RecordingTitle, m.Instrument, m.InstrumentModel,
			m.PickupSetting, m.PickupType, m.AmpChannel, m.InstrumentTuning,
			m.AudioEffects, m.RecordingDate, m.RecordingArtist,
			m.InstrumentBodyMaterial, m.InstrumentStringMaterial,
			m.Composer, m.RecordingSource, m.Polyphony, id)
	default:
		return fmt.Errorf("%w: unsupported metadata variant %T", util.ErrStorage, meta)
	}
	if err != nil {
		return fmt.Errorf("%w: updating metadata id=%d for %s/%s: %v", util.ErrStorage, id, meta.Dataset(), meta.Title(), err)
	}
	util.DebugLog("Metadata updated: id=%d title=%s", id, meta.Title())
	return nil
}
