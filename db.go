package snesmovie

import (
	"database/sql"
	"fmt"

	"github.com/bodgit/snesmovie/cache"
	"github.com/bodgit/snesmovie/geom"
	"github.com/bodgit/snesmovie/ppu"
	_ "github.com/mattn/go-sqlite3"
)

var schema = []string{
	"CREATE TABLE IF NOT EXISTS movie (id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL, name TEXT NOT NULL UNIQUE, width INTEGER NOT NULL, height INTEGER NOT NULL, frame_rate INTEGER NOT NULL)",
	"CREATE TABLE IF NOT EXISTS palette (movie_id INTEGER NOT NULL, handle INTEGER NOT NULL, data BLOB NOT NULL, PRIMARY KEY (movie_id, handle), FOREIGN KEY(movie_id) REFERENCES movie(id) ON DELETE CASCADE)",
	"CREATE TABLE IF NOT EXISTS tile (movie_id INTEGER NOT NULL, handle INTEGER NOT NULL, data BLOB NOT NULL, PRIMARY KEY (movie_id, handle), FOREIGN KEY(movie_id) REFERENCES movie(id) ON DELETE CASCADE)",
	"CREATE TABLE IF NOT EXISTS frame (movie_id INTEGER NOT NULL, seq INTEGER NOT NULL, number INTEGER NOT NULL, PRIMARY KEY (movie_id, seq), FOREIGN KEY(movie_id) REFERENCES movie(id) ON DELETE CASCADE)",
	"CREATE TABLE IF NOT EXISTS sprite (movie_id INTEGER NOT NULL, frame_seq INTEGER NOT NULL, seq INTEGER NOT NULL, tile INTEGER NOT NULL, palette INTEGER NOT NULL, x INTEGER NOT NULL, y INTEGER NOT NULL, hflip BOOLEAN NOT NULL, vflip BOOLEAN NOT NULL, priority INTEGER NOT NULL, PRIMARY KEY (movie_id, frame_seq, seq), FOREIGN KEY(movie_id, frame_seq) REFERENCES frame(movie_id, seq) ON DELETE CASCADE)",
}

// MovieDB stores movies in an SQLite database.
type MovieDB struct {
	db *sql.DB
}

// MovieInfo summarises a stored movie.
type MovieInfo struct {
	ID         int64
	Name       string
	ScreenSize geom.Size[geom.Screen]
	FrameRate  FrameRate
	Frames     int
	Tiles      int
	Palettes   int
}

// NewMovieDB opens, creating if necessary, the database in file.
func NewMovieDB(file string) (*MovieDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	for _, stmt := range schema {
		if _, err = db.Exec(stmt); err != nil {
			db.Close()
			return nil, err
		}
	}

	return &MovieDB{
		db: db,
	}, nil
}

// Close closes the database.
func (db *MovieDB) Close() error {
	return db.db.Close()
}

// Save stores m under name, replacing any movie already stored with that
// name, and returns its ID.
func (db *MovieDB) Save(name string, m *Movie) (id int64, err error) {
	tx, err := db.db.Begin()
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	if _, err = tx.Exec("DELETE FROM movie WHERE name = ?", name); err != nil {
		return 0, err
	}

	result, err := tx.Exec("INSERT INTO movie (name, width, height, frame_rate) VALUES (?, ?, ?, ?)", name, uint32(m.screenSize.Width), uint32(m.screenSize.Height), int(m.frameRate))
	if err != nil {
		return 0, err
	}
	if id, err = result.LastInsertId(); err != nil {
		return 0, err
	}

	for h, p := range m.palettes {
		b, err := p.MarshalBinary()
		if err != nil {
			return 0, err
		}
		if _, err = tx.Exec("INSERT INTO palette (movie_id, handle, data) VALUES (?, ?, ?)", id, h, b); err != nil {
			return 0, err
		}
	}

	for h, t := range m.tiles {
		b, err := t.MarshalBinary()
		if err != nil {
			return 0, err
		}
		if _, err = tx.Exec("INSERT INTO tile (movie_id, handle, data) VALUES (?, ?, ?)", id, h, b); err != nil {
			return 0, err
		}
	}

	stmt, err := tx.Prepare("INSERT INTO sprite (movie_id, frame_seq, seq, tile, palette, x, y, hflip, vflip, priority) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for i, f := range m.frames {
		if _, err = tx.Exec("INSERT INTO frame (movie_id, seq, number) VALUES (?, ?, ?)", id, i, int64(f.Number)); err != nil {
			return 0, err
		}
		for j, s := range f.Sprites {
			if _, err = stmt.Exec(id, i, j, uint32(s.Tile), uint32(s.Palette), uint32(s.Position.X), uint32(s.Position.Y), s.HFlip, s.VFlip, s.Priority); err != nil {
				return 0, err
			}
		}
	}

	return id, nil
}

// FindByName returns the ID of the movie stored under name.
func (db *MovieDB) FindByName(name string) (int64, error) {
	var id int64
	switch err := db.db.QueryRow("SELECT id FROM movie WHERE name = ?", name).Scan(&id); err {
	case sql.ErrNoRows:
		return 0, fmt.Errorf("no movie named %q", name)
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// Load returns the movie with the given ID.
func (db *MovieDB) Load(id int64) (*Movie, error) {
	m := new(Movie)

	var width, height uint32
	var rate int
	switch err := db.db.QueryRow("SELECT width, height, frame_rate FROM movie WHERE id = ?", id).Scan(&width, &height, &rate); err {
	case sql.ErrNoRows:
		return nil, fmt.Errorf("no movie with id %d", id)
	case nil:
		m.screenSize = geom.Sz[geom.Screen](width, height)
		m.frameRate = FrameRate(rate)
	default:
		return nil, err
	}

	if err := db.loadBlobs(id, "palette", func(b []byte) error {
		var p ppu.Palette
		if err := p.UnmarshalBinary(b); err != nil {
			return err
		}
		m.palettes = append(m.palettes, p)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := db.loadBlobs(id, "tile", func(b []byte) error {
		var t ppu.Tile
		if err := t.UnmarshalBinary(b); err != nil {
			return err
		}
		m.tiles = append(m.tiles, t)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := db.loadFrames(id, m); err != nil {
		return nil, err
	}

	return m, nil
}

func (db *MovieDB) loadBlobs(id int64, table string, fn func([]byte) error) error {
	rows, err := db.db.Query(fmt.Sprintf("SELECT handle, data FROM %s WHERE movie_id = ? ORDER BY handle", table), id)
	if err != nil {
		return err
	}
	defer rows.Close()

	for i := 0; rows.Next(); i++ {
		var handle int
		var b []byte
		if err := rows.Scan(&handle, &b); err != nil {
			return err
		}
		if handle != i {
			return fmt.Errorf("%s table has gap at handle %d", table, i)
		}
		if err := fn(b); err != nil {
			return fmt.Errorf("%s %d: %w", table, handle, err)
		}
	}
	return rows.Err()
}

func (db *MovieDB) loadFrames(id int64, m *Movie) error {
	rows, err := db.db.Query("SELECT number FROM frame WHERE movie_id = ? ORDER BY seq", id)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var number int64
		if err := rows.Scan(&number); err != nil {
			return err
		}
		m.frames = append(m.frames, MovieFrame{Number: uint64(number)})
	}
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = db.db.Query("SELECT frame_seq, tile, palette, x, y, hflip, vflip, priority FROM sprite WHERE movie_id = ? ORDER BY frame_seq, seq", id)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var seq int
		var tile, palette, x, y uint32
		var s Sprite
		if err := rows.Scan(&seq, &tile, &palette, &x, &y, &s.HFlip, &s.VFlip, &s.Priority); err != nil {
			return err
		}
		if seq >= len(m.frames) {
			return fmt.Errorf("sprite references missing frame %d", seq)
		}
		if int(tile) >= len(m.tiles) || int(palette) >= len(m.palettes) {
			return fmt.Errorf("frame %d: sprite references missing tile %d or palette %d", seq, tile, palette)
		}
		s.Tile, s.Palette = cache.Handle(tile), cache.Handle(palette)
		s.Position = geom.Pt[geom.Screen](x, y)
		m.frames[seq].Sprites = append(m.frames[seq].Sprites, s)
	}
	return rows.Err()
}

// List returns a summary of every stored movie.
func (db *MovieDB) List() ([]MovieInfo, error) {
	rows, err := db.db.Query(`SELECT m.id, m.name, m.width, m.height, m.frame_rate,
		(SELECT COUNT(*) FROM frame WHERE movie_id = m.id),
		(SELECT COUNT(*) FROM tile WHERE movie_id = m.id),
		(SELECT COUNT(*) FROM palette WHERE movie_id = m.id)
		FROM movie AS m ORDER BY m.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movies []MovieInfo
	for rows.Next() {
		var info MovieInfo
		var width, height uint32
		var rate int
		if err := rows.Scan(&info.ID, &info.Name, &width, &height, &rate, &info.Frames, &info.Tiles, &info.Palettes); err != nil {
			return nil, err
		}
		info.ScreenSize = geom.Sz[geom.Screen](width, height)
		info.FrameRate = FrameRate(rate)
		movies = append(movies, info)
	}
	return movies, rows.Err()
}
