package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/Dosada05/esports-overlay/repositories"
	"github.com/Dosada05/esports-overlay/storage"
)

type MediaKind string

const (
	MediaGameLogo     MediaKind = "games"
	MediaPlayerAvatar MediaKind = "players"
	MediaCountryFlag  MediaKind = "flags"
)

type MediaService interface {
	// Upload stores the image and points the entity's URL column at it.
	Upload(ctx context.Context, kind MediaKind, id int, file MediaFile) (string, error)
}

type MediaFile struct {
	Name        string
	ContentType string
	Body        io.Reader
}

type mediaService struct {
	tx          repositories.TxRunner
	uploader    storage.FileUploader
	gameRepo    repositories.GameRepository
	playerRepo  repositories.PlayerRepository
	countryRepo repositories.CountryRepository
	logger      *slog.Logger
}

// NewMediaService accepts a nil uploader; uploads then fail with ErrUploadsDisabled.
func NewMediaService(
	tx repositories.TxRunner,
	uploader storage.FileUploader,
	gameRepo repositories.GameRepository,
	playerRepo repositories.PlayerRepository,
	countryRepo repositories.CountryRepository,
	logger *slog.Logger,
) MediaService {
	return &mediaService{
		tx:          tx,
		uploader:    uploader,
		gameRepo:    gameRepo,
		playerRepo:  playerRepo,
		countryRepo: countryRepo,
		logger:      logger,
	}
}

// objectKey builds <kind>/<slug>-<uuid><ext>.
func objectKey(kind MediaKind, name, contentType string) string {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		}
	}
	base := slug.Make(strings.TrimSuffix(path.Base(name), path.Ext(name)))
	if base == "" {
		base = string(kind)
	}
	return fmt.Sprintf("%s/%s-%s%s", kind, base, uuid.NewString(), ext)
}

func (s *mediaService) target(kind MediaKind, id int) (repositories.Check, func(ctx context.Context, exec repositories.SQLExecutor, url string) error, error) {
	switch kind {
	case MediaGameLogo:
		return repositories.Exists("games", "game_id", id, ErrGameNotFound),
			func(ctx context.Context, exec repositories.SQLExecutor, url string) error {
				return s.gameRepo.UpdateLogoURL(ctx, exec, id, url)
			}, nil
	case MediaPlayerAvatar:
		return repositories.Exists("players", "player_id", id, ErrPlayerNotFound),
			func(ctx context.Context, exec repositories.SQLExecutor, url string) error {
				return s.playerRepo.UpdateAvatarURL(ctx, exec, id, url)
			}, nil
	case MediaCountryFlag:
		return repositories.Exists("countries", "country_id", id, ErrCountryNotFound),
			func(ctx context.Context, exec repositories.SQLExecutor, url string) error {
				return s.countryRepo.UpdateFlagURL(ctx, exec, id, url)
			}, nil
	}
	return nil, nil, newError(ErrValidationFailed, fmt.Sprintf("unknown media kind %q", kind))
}

func (s *mediaService) Upload(ctx context.Context, kind MediaKind, id int, file MediaFile) (string, error) {
	if s.uploader == nil {
		return "", ErrUploadsDisabled
	}
	mediaType, _, err := mime.ParseMediaType(file.ContentType)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return "", ErrUnsupportedMedia
	}
	check, update, err := s.target(kind, id)
	if err != nil {
		return "", err
	}

	key := objectKey(kind, file.Name, mediaType)
	result, err := s.uploader.Upload(ctx, key, mediaType, file.Body)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", kind, err)
	}

	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := repositories.Verify(ctx, exec, check); err != nil {
			return err
		}
		return update(ctx, exec, result.Location)
	})
	if err != nil {
		// the row was not updated, so nothing points at the object
		if delErr := s.uploader.Delete(ctx, key); delErr != nil {
			s.logger.Warn("failed to remove orphaned object", slog.String("key", key), slog.Any("error", delErr))
		}
		return "", handleRepositoryError(err, "update media url")
	}

	s.logger.Info("media uploaded", slog.String("kind", string(kind)), slog.Int("id", id), slog.String("key", key))
	return result.Location, nil
}
