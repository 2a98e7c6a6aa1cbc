package store

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"github.com/treelab/arbor/pkg/canvas"
	"github.com/treelab/arbor/pkg/debug"
	"github.com/treelab/arbor/pkg/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS persons (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	gender        TEXT NOT NULL DEFAULT 'unknown',
	date_of_birth TEXT,
	date_of_death TEXT,
	photo_path    TEXT,
	notes         TEXT,
	x             REAL NOT NULL DEFAULT 0,
	y             REAL NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS marriages (
	id            TEXT PRIMARY KEY,
	spouse1_id    TEXT NOT NULL,
	spouse2_id    TEXT NOT NULL,
	marriage_date TEXT,
	marriage_order INTEGER NOT NULL DEFAULT 1
);
CREATE TABLE IF NOT EXISTS parent_child (
	parent_id   TEXT NOT NULL,
	child_id    TEXT NOT NULL,
	marriage_id TEXT,
	PRIMARY KEY (parent_id, child_id)
);
`

// SQLiteStore persists the tree in a SQLite database. Undo/redo uses the
// same in-memory snapshot stacks as MemoryStore; restoring a snapshot
// rewrites all three tables in one transaction.
type SQLiteStore struct {
	mu        sync.Mutex
	db        *sql.DB
	path      string
	undoStack []historyEntry
	redoStack []historyEntry
}

// OpenSQLite opens (and if needed initializes) a tree database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA cache_size = -64000",
		"PRAGMA temp_store = MEMORY",
	} {
		if _, err := db.Exec(pragma); err != nil {
			debug.Log("pragma failed: %v", err)
		}
	}
	return &SQLiteStore{db: db, path: path}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// FetchTree loads persons, marriages and parent-child edges concurrently.
func (s *SQLiteStore) FetchTree() (FetchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tree, err := s.loadTree()
	if err != nil {
		return FetchResult{}, err
	}
	return FetchResult{
		Tree:    tree,
		CanUndo: len(s.undoStack) > 0,
		CanRedo: len(s.redoStack) > 0,
	}, nil
}

func (s *SQLiteStore) loadTree() (*model.Tree, error) {
	tree := model.NewTree()
	var (
		persons   []*model.Person
		marriages []*model.Marriage
		edges     []model.ParentChildEdge
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		persons, err = s.loadPersons()
		return err
	})
	g.Go(func() error {
		var err error
		marriages, err = s.loadMarriages()
		return err
	})
	g.Go(func() error {
		var err error
		edges, err = s.loadEdges()
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, p := range persons {
		tree.Persons[p.ID] = p
	}
	for _, m := range marriages {
		tree.Marriages[m.ID] = m
	}
	tree.ParentChild = edges
	return tree, nil
}

func (s *SQLiteStore) loadPersons() ([]*model.Person, error) {
	rows, err := s.db.Query(`
		SELECT id, name, gender, date_of_birth, date_of_death, photo_path, notes, x, y
		FROM persons ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying persons: %w", err)
	}
	defer rows.Close()

	var out []*model.Person
	for rows.Next() {
		var p model.Person
		var gender string
		var dob, dod, photo, notes sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &gender, &dob, &dod, &photo, &notes, &p.X, &p.Y); err != nil {
			continue
		}
		p.Gender = model.ParseGender(gender)
		p.DateOfBirth = dob.String
		p.DateOfDeath = dod.String
		p.PhotoRef = photo.String
		p.Notes = notes.String
		p.X = model.SanitizeCoord(p.X, 0)
		p.Y = model.SanitizeCoord(p.Y, 0)
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating persons: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) loadMarriages() ([]*model.Marriage, error) {
	rows, err := s.db.Query(`
		SELECT id, spouse1_id, spouse2_id, marriage_date, marriage_order
		FROM marriages ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying marriages: %w", err)
	}
	defer rows.Close()

	var out []*model.Marriage
	for rows.Next() {
		var m model.Marriage
		var date sql.NullString
		if err := rows.Scan(&m.ID, &m.Spouse1ID, &m.Spouse2ID, &date, &m.Order); err != nil {
			continue
		}
		m.MarriageDate = date.String
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating marriages: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) loadEdges() ([]model.ParentChildEdge, error) {
	rows, err := s.db.Query(`
		SELECT parent_id, child_id, marriage_id
		FROM parent_child ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying parent_child: %w", err)
	}
	defer rows.Close()

	var out []model.ParentChildEdge
	for rows.Next() {
		var pc model.ParentChildEdge
		var mid sql.NullString
		if err := rows.Scan(&pc.ParentID, &pc.ChildID, &mid); err != nil {
			continue
		}
		pc.MarriageID = mid.String
		out = append(out, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating parent_child: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) CreatePerson(draft PersonDraft) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if draft.Name == "" {
		return "", fmt.Errorf("%w: person name is required", ErrInvalid)
	}
	s.snapshotForUndo("create_person")
	id := uuid.NewString()
	_, err := s.db.Exec(`
		INSERT INTO persons (id, name, gender, date_of_birth, date_of_death, photo_path, notes, x, y)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, draft.Name, string(model.ParseGender(draft.Gender)),
		draft.DateOfBirth, draft.DateOfDeath, draft.PhotoRef, draft.Notes,
		model.SanitizeCoord(draft.X, 0), model.SanitizeCoord(draft.Y, 0))
	if err != nil {
		return "", fmt.Errorf("inserting person: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) UpdatePerson(id string, draft PersonDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.personExists(id) {
		return fmt.Errorf("%w: person %s", ErrNotFound, id)
	}
	s.snapshotForUndo("update_person")
	_, err := s.db.Exec(`
		UPDATE persons SET
			name = CASE WHEN ? != '' THEN ? ELSE name END,
			gender = CASE WHEN ? != '' THEN ? ELSE gender END,
			date_of_birth = ?, date_of_death = ?, photo_path = ?, notes = ?
		WHERE id = ?`,
		draft.Name, draft.Name,
		draft.Gender, string(model.ParseGender(draft.Gender)),
		draft.DateOfBirth, draft.DateOfDeath, draft.PhotoRef, draft.Notes, id)
	if err != nil {
		return fmt.Errorf("updating person: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeletePerson(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.personExists(id) {
		return fmt.Errorf("%w: person %s", ErrNotFound, id)
	}
	s.snapshotForUndo("delete_person")
	return s.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM persons WHERE id = ?`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM marriages WHERE spouse1_id = ? OR spouse2_id = ?`, id, id); err != nil {
			return err
		}
		_, err := tx.Exec(`DELETE FROM parent_child WHERE parent_id = ? OR child_id = ?`, id, id)
		return err
	})
}

func (s *SQLiteStore) CreateMarriage(spouse1ID, spouse2ID, date string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if spouse1ID == spouse2ID {
		return "", fmt.Errorf("%w: spouses must be distinct", ErrInvalid)
	}
	if !s.personExists(spouse1ID) {
		return "", fmt.Errorf("%w: spouse %s", ErrNotFound, spouse1ID)
	}
	if !s.personExists(spouse2ID) {
		return "", fmt.Errorf("%w: spouse %s", ErrNotFound, spouse2ID)
	}
	var order int
	err := s.db.QueryRow(`
		SELECT COUNT(*) + 1 FROM marriages
		WHERE spouse1_id IN (?, ?) OR spouse2_id IN (?, ?)`,
		spouse1ID, spouse2ID, spouse1ID, spouse2ID).Scan(&order)
	if err != nil {
		return "", fmt.Errorf("counting marriages: %w", err)
	}
	s.snapshotForUndo("create_marriage")
	id := uuid.NewString()
	_, err = s.db.Exec(`
		INSERT INTO marriages (id, spouse1_id, spouse2_id, marriage_date, marriage_order)
		VALUES (?, ?, ?, ?, ?)`, id, spouse1ID, spouse2ID, date, order)
	if err != nil {
		return "", fmt.Errorf("inserting marriage: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) DeleteMarriage(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM marriages WHERE id = ?`, id).Scan(&n); err != nil || n == 0 {
		return fmt.Errorf("%w: marriage %s", ErrNotFound, id)
	}
	s.snapshotForUndo("delete_marriage")
	return s.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM marriages WHERE id = ?`, id); err != nil {
			return err
		}
		_, err := tx.Exec(`DELETE FROM parent_child WHERE marriage_id = ?`, id)
		return err
	})
}

func (s *SQLiteStore) CreateParentChild(parentID, childID, marriageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.personExists(parentID) {
		return fmt.Errorf("%w: parent %s", ErrNotFound, parentID)
	}
	if !s.personExists(childID) {
		return fmt.Errorf("%w: child %s", ErrNotFound, childID)
	}
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM parent_child WHERE parent_id = ? AND child_id = ?`,
		parentID, childID).Scan(&n); err == nil && n > 0 {
		return fmt.Errorf("%w: %s -> %s", ErrExists, parentID, childID)
	}
	s.snapshotForUndo("add_child")
	var mid any
	if marriageID != "" {
		mid = marriageID
	}
	_, err := s.db.Exec(`
		INSERT INTO parent_child (parent_id, child_id, marriage_id)
		VALUES (?, ?, ?)`, parentID, childID, mid)
	if err != nil {
		return fmt.Errorf("inserting parent_child: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RemoveParentChild(parentID, childID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshotForUndo("remove_child")
	res, err := s.db.Exec(`DELETE FROM parent_child WHERE parent_id = ? AND child_id = ?`, parentID, childID)
	if err != nil {
		return fmt.Errorf("deleting parent_child: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		s.dropLastUndo()
		return fmt.Errorf("%w: %s -> %s", ErrNotFound, parentID, childID)
	}
	return nil
}

// UpdatePositions applies the batch in a single transaction so a failure
// leaves no partial state behind.
func (s *SQLiteStore) UpdatePositions(updates []canvas.PositionUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inTx(func(tx *sql.Tx) error {
		for _, up := range updates {
			res, err := tx.Exec(`UPDATE persons SET x = ?, y = ? WHERE id = ?`,
				model.SanitizeCoord(up.X, 0), model.SanitizeCoord(up.Y, 0), up.ID)
			if err != nil {
				return fmt.Errorf("updating position of %s: %w", up.ID, err)
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return fmt.Errorf("%w: person %s", ErrNotFound, up.ID)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) Undo() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.undoStack) == 0 {
		return false, nil
	}
	current, err := s.loadTree()
	if err != nil {
		return false, err
	}
	top := s.undoStack[len(s.undoStack)-1]
	if err := s.writeTree(top.tree); err != nil {
		return false, err
	}
	s.undoStack = s.undoStack[:len(s.undoStack)-1]
	s.redoStack = append(s.redoStack, historyEntry{action: top.action, tree: current})
	return true, nil
}

func (s *SQLiteStore) Redo() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.redoStack) == 0 {
		return false, nil
	}
	current, err := s.loadTree()
	if err != nil {
		return false, err
	}
	top := s.redoStack[len(s.redoStack)-1]
	if err := s.writeTree(top.tree); err != nil {
		return false, err
	}
	s.redoStack = s.redoStack[:len(s.redoStack)-1]
	s.undoStack = append(s.undoStack, historyEntry{action: top.action, tree: current})
	return true, nil
}

func (s *SQLiteStore) AutoLayout(opts LayoutOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tree, err := s.loadTree()
	if err != nil {
		return err
	}
	if opts.RootID == "" {
		opts.RootID = DefaultLayoutRoot(tree)
	}
	if tree.Person(opts.RootID) == nil {
		return fmt.Errorf("%w: person %s", ErrNotFound, opts.RootID)
	}
	positions := ComputeLayout(tree, opts)
	if len(positions) == 0 {
		return nil
	}
	s.snapshotForUndo("auto_layout")
	return s.inTx(func(tx *sql.Tx) error {
		for id, pt := range positions {
			if _, err := tx.Exec(`UPDATE persons SET x = ?, y = ? WHERE id = ?`,
				model.SanitizeCoord(pt.X, 0), model.SanitizeCoord(pt.Y, 0), id); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStore) personExists(id string) bool {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM persons WHERE id = ?`, id).Scan(&n); err != nil {
		return false
	}
	return n > 0
}

func (s *SQLiteStore) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// snapshotForUndo loads the current tree onto the undo stack. Load failures
// only cost history, never the mutation itself.
func (s *SQLiteStore) snapshotForUndo(action string) {
	tree, err := s.loadTree()
	if err != nil {
		debug.Log("undo snapshot failed: %v", err)
		return
	}
	s.undoStack = append(s.undoStack, historyEntry{action: action, tree: tree})
	if len(s.undoStack) > maxHistory {
		s.undoStack = s.undoStack[1:]
	}
	s.redoStack = nil
}

func (s *SQLiteStore) dropLastUndo() {
	if len(s.undoStack) > 0 {
		s.undoStack = s.undoStack[:len(s.undoStack)-1]
	}
}

// writeTree replaces the whole database content with the snapshot.
func (s *SQLiteStore) writeTree(tree *model.Tree) error {
	return s.inTx(func(tx *sql.Tx) error {
		for _, table := range []string{"persons", "marriages", "parent_child"} {
			if _, err := tx.Exec("DELETE FROM " + table); err != nil {
				return err
			}
		}
		for _, id := range tree.SortedPersonIDs() {
			p := tree.Person(id)
			if _, err := tx.Exec(`
				INSERT INTO persons (id, name, gender, date_of_birth, date_of_death, photo_path, notes, x, y)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				p.ID, p.Name, string(p.Gender), p.DateOfBirth, p.DateOfDeath,
				p.PhotoRef, p.Notes, p.X, p.Y); err != nil {
				return err
			}
		}
		for _, id := range tree.SortedMarriageIDs() {
			m := tree.Marriage(id)
			if _, err := tx.Exec(`
				INSERT INTO marriages (id, spouse1_id, spouse2_id, marriage_date, marriage_order)
				VALUES (?, ?, ?, ?, ?)`,
				m.ID, m.Spouse1ID, m.Spouse2ID, m.MarriageDate, m.Order); err != nil {
				return err
			}
		}
		for _, pc := range tree.ParentChild {
			var mid any
			if pc.MarriageID != "" {
				mid = pc.MarriageID
			}
			if _, err := tx.Exec(`
				INSERT INTO parent_child (parent_id, child_id, marriage_id)
				VALUES (?, ?, ?)`, pc.ParentID, pc.ChildID, mid); err != nil {
				return err
			}
		}
		return nil
	})
}
