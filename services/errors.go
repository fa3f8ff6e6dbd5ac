package services

import (
	"errors"
	"fmt"

	"github.com/Dosada05/esports-overlay/repositories"
)

// Категории ошибок. Handlers map only these to HTTP statuses.
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrNotFound         = errors.New("requested resource not found")
	ErrConflict         = errors.New("resource conflict")
	ErrBadReference     = errors.New("invalid reference")
	ErrUploadsDisabled  = errors.New("media uploads are not configured")
)

// categorized keeps its own message and unwraps to exactly one category.
type categorized struct {
	msg      string
	category error
}

func (e *categorized) Error() string { return e.msg }
func (e *categorized) Unwrap() error { return e.category }

func newError(category error, msg string) error {
	return &categorized{msg: msg, category: category}
}

var (
	ErrGameNotFound = newError(ErrNotFound, "game not found")

	ErrCharacterNotFound     = newError(ErrNotFound, "character not found")
	ErrCharacterNameConflict = newError(ErrConflict, "character name already exists in this game")
	ErrCharacterInUse        = newError(ErrConflict, "character is used by players and cannot be deleted")
	ErrCharacterOutsideGame  = newError(ErrBadReference, "character does not belong to the selected game")
	ErrCharacterGameLocked   = newError(ErrConflict, "character is picked by players and cannot move to another game")

	ErrCountryNotFound     = newError(ErrNotFound, "country not found")
	ErrCountryCodeConflict = newError(ErrConflict, "country code already exists")
	ErrCountryInUse        = newError(ErrConflict, "country is referenced by players and cannot be deleted")

	ErrPlayerNotFound         = newError(ErrNotFound, "player not found")
	ErrPlayerNicknameConflict = newError(ErrConflict, "nickname is already in use")
	ErrPlayerInLiveMatch      = newError(ErrConflict, "player is in the live match and cannot be deleted")
	ErrPlayerInUse            = newError(ErrConflict, "player is referenced by match history and cannot be deleted")
	ErrPlayerGameNotFound     = newError(ErrNotFound, "player is not assigned to this game")

	ErrTournamentNotFound      = newError(ErrNotFound, "tournament not found")
	ErrTournamentGameConflict  = newError(ErrConflict, "game is already linked to this tournament")
	ErrTournamentGameNotFound  = newError(ErrNotFound, "game is not linked to this tournament")
	ErrTournamentStageNotFound = newError(ErrNotFound, "tournament stage not found")
	ErrTournamentInvalidDates  = newError(ErrValidationFailed, "tournament end date must not be before start date")

	ErrNoLiveMatch          = newError(ErrNotFound, "no live match")
	ErrMatchTied            = newError(ErrValidationFailed, "match is tied and has no winner")
	ErrMatchAlreadyRecorded = newError(ErrConflict, "match is already recorded in history")

	ErrUnsupportedMedia = newError(ErrValidationFailed, "only image uploads are accepted")
)

// repositoryErrors translates store-level sentinels, including those raised by
// unique and foreign key constraints at the write call, into domain errors.
var repositoryErrors = []struct {
	repo    error
	service error
}{
	{repositories.ErrGameNotFound, ErrGameNotFound},
	{repositories.ErrGameInUse, ErrConflict},
	{repositories.ErrCharacterNotFound, ErrCharacterNotFound},
	{repositories.ErrCharacterNameConflict, ErrCharacterNameConflict},
	{repositories.ErrCharacterGameInvalid, ErrGameNotFound},
	{repositories.ErrCharacterInUse, ErrCharacterInUse},
	{repositories.ErrCountryNotFound, ErrCountryNotFound},
	{repositories.ErrCountryCodeConflict, ErrCountryCodeConflict},
	{repositories.ErrCountryInUse, ErrCountryInUse},
	{repositories.ErrPlayerNotFound, ErrPlayerNotFound},
	{repositories.ErrPlayerNicknameConflict, ErrPlayerNicknameConflict},
	{repositories.ErrPlayerReferenceInvalid, ErrBadReference},
	{repositories.ErrPlayerInUse, ErrPlayerInUse},
	{repositories.ErrPlayerGameNotFound, ErrPlayerGameNotFound},
	{repositories.ErrTournamentNotFound, ErrTournamentNotFound},
	{repositories.ErrTournamentGameConflict, ErrTournamentGameConflict},
	{repositories.ErrTournamentGameNotFound, ErrTournamentGameNotFound},
	{repositories.ErrTournamentStageNotFound, ErrTournamentStageNotFound},
	{repositories.ErrNoLiveMatch, ErrNoLiveMatch},
	{repositories.ErrMatchAlreadyRecorded, ErrMatchAlreadyRecorded},
}

// handleRepositoryError returns the domain error for a known repository
// sentinel, passes guard violations through, and wraps everything else.
func handleRepositoryError(err error, op string) error {
	if err == nil {
		return nil
	}
	var violation *repositories.Violation
	if errors.As(err, &violation) {
		return err
	}
	for _, m := range repositoryErrors {
		if errors.Is(err, m.repo) {
			return m.service
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
