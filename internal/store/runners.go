package store

import (
	"database/sql"
	"errors"
)

// CreateRunner inserts a runner and returns its ID
func (db *DB) CreateRunner(r *Runner) (int64, error) {
	res, err := db.Exec(`
		INSERT INTO runners (bib_number, first_name, last_name, age, gender, city, state, country)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, r.BibNumber, r.FirstName, r.LastName, r.Age, r.Gender, r.City, r.State, r.Country)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	r.ID = id
	return id, nil
}

// GetRunner retrieves a runner by ID
func (db *DB) GetRunner(id int64) (*Runner, error) {
	row := db.QueryRow(`
		SELECT id, bib_number, first_name, last_name, age, gender, city, state, country
		FROM runners
		WHERE id = ?
	`, id)
	return scanRunner(row)
}

// GetRunnerByBib retrieves a runner by bib number
func (db *DB) GetRunnerByBib(bib string) (*Runner, error) {
	row := db.QueryRow(`
		SELECT id, bib_number, first_name, last_name, age, gender, city, state, country
		FROM runners
		WHERE bib_number = ?
		ORDER BY id
		LIMIT 1
	`, bib)
	return scanRunner(row)
}

// GetOrCreateRunnerByBib looks a runner up by bib, creating a placeholder
// row when none exists yet. Importers fill names in later when they have them.
func (db *DB) GetOrCreateRunnerByBib(bib string) (*Runner, error) {
	r, err := db.GetRunnerByBib(bib)
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, ErrRunnerNotFound) {
		return nil, err
	}

	runner := &Runner{BibNumber: bib, FirstName: "Bib", LastName: bib}
	if _, err := db.CreateRunner(runner); err != nil {
		return nil, err
	}
	return runner, nil
}

// ListRunners retrieves all runners ordered by last name
func (db *DB) ListRunners() ([]*Runner, error) {
	rows, err := db.Query(`
		SELECT id, bib_number, first_name, last_name, age, gender, city, state, country
		FROM runners
		ORDER BY last_name, first_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runners []*Runner
	for rows.Next() {
		r, err := scanRunner(rows)
		if err != nil {
			return nil, err
		}
		runners = append(runners, r)
	}
	return runners, rows.Err()
}

func scanRunner(row rowScanner) (*Runner, error) {
	var r Runner
	var bib, gender, city, state, country *string
	var age *int64
	err := row.Scan(&r.ID, &bib, &r.FirstName, &r.LastName, &age, &gender, &city, &state, &country)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunnerNotFound
	}
	if err != nil {
		return nil, err
	}

	if bib != nil {
		r.BibNumber = *bib
	}
	if age != nil {
		a := int(*age)
		r.Age = &a
	}
	if gender != nil {
		r.Gender = *gender
	}
	if city != nil {
		r.City = *city
	}
	if state != nil {
		r.State = *state
	}
	if country != nil {
		r.Country = *country
	}
	return &r, nil
}
