package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Dosada05/esports-overlay/models"
	"github.com/Dosada05/esports-overlay/repositories"
)

type CountryService interface {
	Create(ctx context.Context, input CountryInput) (*models.Country, error)
	GetByID(ctx context.Context, id int) (*models.Country, error)
	GetAll(ctx context.Context) ([]models.Country, error)
	Update(ctx context.Context, id int, input CountryInput) (*models.Country, error)
	Delete(ctx context.Context, id int) error
}

type CountryInput struct {
	Name    string  `json:"name" validate:"required,max=100"`
	Code    string  `json:"code" validate:"required,len=2,alpha"`
	FlagURL *string `json:"flag_url" validate:"omitempty,url"`
}

type countryService struct {
	tx          repositories.TxRunner
	countryRepo repositories.CountryRepository
	logger      *slog.Logger
}

func NewCountryService(tx repositories.TxRunner, countryRepo repositories.CountryRepository, logger *slog.Logger) CountryService {
	return &countryService{tx: tx, countryRepo: countryRepo, logger: logger}
}

// toModel normalizes the code to uppercase before it is validated, compared
// and stored, so "ua" and "UA" are the same country.
func (in CountryInput) toModel() (*models.Country, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	if err := validateInput(in); err != nil {
		return nil, err
	}
	return &models.Country{Name: in.Name, Code: in.Code, FlagURL: trimPtr(in.FlagURL)}, nil
}

func (s *countryService) Create(ctx context.Context, input CountryInput) (*models.Country, error) {
	country, err := input.toModel()
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := repositories.Verify(ctx, exec,
			repositories.Unique("countries", "code", country.Code, ErrCountryCodeConflict),
		); err != nil {
			return err
		}
		return s.countryRepo.Create(ctx, exec, country)
	})
	if err != nil {
		return nil, handleRepositoryError(err, "create country")
	}
	s.logger.Info("country created", slog.Int("country_id", country.ID), slog.String("code", country.Code))
	return country, nil
}

func (s *countryService) GetByID(ctx context.Context, id int) (*models.Country, error) {
	country, err := s.countryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err, "get country")
	}
	return country, nil
}

func (s *countryService) GetAll(ctx context.Context) ([]models.Country, error) {
	countries, err := s.countryRepo.GetAll(ctx)
	if err != nil {
		return nil, handleRepositoryError(err, "list countries")
	}
	return countries, nil
}

func (s *countryService) Update(ctx context.Context, id int, input CountryInput) (*models.Country, error) {
	country, err := input.toModel()
	if err != nil {
		return nil, err
	}
	country.ID = id

	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := repositories.Verify(ctx, exec,
			repositories.Exists("countries", "country_id", id, ErrCountryNotFound),
			repositories.Unique("countries", "code", country.Code, ErrCountryCodeConflict).
				Excluding("country_id", id),
		); err != nil {
			return err
		}
		return s.countryRepo.Update(ctx, exec, country)
	})
	if err != nil {
		return nil, handleRepositoryError(err, "update country")
	}
	return country, nil
}

// Delete is blocked while any player references the country.
func (s *countryService) Delete(ctx context.Context, id int) error {
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := repositories.Verify(ctx, exec,
			repositories.Exists("countries", "country_id", id, ErrCountryNotFound),
			repositories.NoDependents(id, ErrCountryInUse,
				repositories.Dependent{Table: "players", Column: "country_id"},
			),
		); err != nil {
			return err
		}
		return s.countryRepo.Delete(ctx, exec, id)
	})
	if err != nil {
		return handleRepositoryError(err, "delete country")
	}
	s.logger.Info("country deleted", slog.Int("country_id", id))
	return nil
}
