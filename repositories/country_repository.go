package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/esports-overlay/models"
)

var (
	ErrCountryNotFound     = errors.New("country not found")
	ErrCountryCodeConflict = errors.New("country code conflict")
	ErrCountryInUse        = errors.New("country cannot be deleted as it is in use")
)

const countryCodeConstraint = "countries_code_key"

type CountryRepository interface {
	Create(ctx context.Context, exec SQLExecutor, country *models.Country) error
	GetByID(ctx context.Context, id int) (*models.Country, error)
	GetAll(ctx context.Context) ([]models.Country, error)
	Update(ctx context.Context, exec SQLExecutor, country *models.Country) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	UpdateFlagURL(ctx context.Context, exec SQLExecutor, id int, flagURL string) error
}

type postgresCountryRepository struct {
	db *sql.DB
}

func NewPostgresCountryRepository(db *sql.DB) CountryRepository {
	return &postgresCountryRepository{db: db}
}

func (r *postgresCountryRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresCountryRepository) Create(ctx context.Context, exec SQLExecutor, country *models.Country) error {
	query := `INSERT INTO countries (name, code, flag_url) VALUES ($1, $2, $3) RETURNING country_id`

	err := r.getExecutor(exec).QueryRowContext(ctx, query, country.Name, country.Code, country.FlagURL).Scan(&country.ID)
	if err != nil {
		if isUniqueViolation(err, countryCodeConstraint) {
			return ErrCountryCodeConflict
		}
		return err
	}
	return nil
}

func (r *postgresCountryRepository) GetByID(ctx context.Context, id int) (*models.Country, error) {
	query := `SELECT country_id, name, code, flag_url FROM countries WHERE country_id = $1`

	var c models.Country
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Code, &c.FlagURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCountryNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresCountryRepository) GetAll(ctx context.Context) ([]models.Country, error) {
	query := `SELECT country_id, name, code, flag_url FROM countries ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	countries := make([]models.Country, 0)
	for rows.Next() {
		var c models.Country
		if err := rows.Scan(&c.ID, &c.Name, &c.Code, &c.FlagURL); err != nil {
			return nil, err
		}
		countries = append(countries, c)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return countries, nil
}

func (r *postgresCountryRepository) Update(ctx context.Context, exec SQLExecutor, country *models.Country) error {
	query := `UPDATE countries SET name = $1, code = $2, flag_url = $3 WHERE country_id = $4`

	result, err := r.getExecutor(exec).ExecContext(ctx, query, country.Name, country.Code, country.FlagURL, country.ID)
	if err != nil {
		if isUniqueViolation(err, countryCodeConstraint) {
			return ErrCountryCodeConflict
		}
		return err
	}
	return checkAffectedRows(result, ErrCountryNotFound)
}

func (r *postgresCountryRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM countries WHERE country_id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrCountryInUse
		}
		return err
	}
	return checkAffectedRows(result, ErrCountryNotFound)
}

func (r *postgresCountryRepository) UpdateFlagURL(ctx context.Context, exec SQLExecutor, id int, flagURL string) error {
	result, err := r.getExecutor(exec).ExecContext(ctx, `UPDATE countries SET flag_url = $1 WHERE country_id = $2`, flagURL, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCountryNotFound)
}
