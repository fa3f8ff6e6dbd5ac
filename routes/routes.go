package routes

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Dosada05/esports-overlay/handlers"
	"github.com/Dosada05/esports-overlay/middleware"
)

type Handlers struct {
	Game       *handlers.GameHandler
	Character  *handlers.CharacterHandler
	Country    *handlers.CountryHandler
	Player     *handlers.PlayerHandler
	Tournament *handlers.TournamentHandler
	LiveMatch  *handlers.LiveMatchHandler
	WebSocket  *handlers.WebSocketHandler
	Health     *handlers.HealthHandler
}

func SetupRoutes(router chi.Router, h Handlers, allowedOrigins []string, logger *slog.Logger) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestLogger(logger))
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", h.Health.Healthz)

	// The websocket stays outside the timeout group; its connection outlives the request.
	router.Get("/ws/current_match", h.WebSocket.ServeCurrentMatch)

	router.Group(func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(30 * time.Second))
		mountAPI(r, h)
	})
}

func mountAPI(r chi.Router, h Handlers) {
	r.Route("/games", func(r chi.Router) {
		r.Get("/", h.Game.GetAllGames)
		r.Post("/", h.Game.CreateGame)
		r.Route("/{gameID}", func(r chi.Router) {
			r.Get("/", h.Game.GetGameByID)
			r.Put("/", h.Game.UpdateGame)
			r.Delete("/", h.Game.DeleteGame)
			r.Get("/characters", h.Game.GetGameCharacters)
			r.Post("/characters", h.Game.CreateGameCharacter)
			r.Put("/characters/{characterID}", h.Game.UpdateGameCharacter)
			r.Delete("/characters/{characterID}", h.Game.DeleteGameCharacter)
			r.Post("/logo", h.Game.UploadGameLogo)
		})
	})

	r.Route("/characters", func(r chi.Router) {
		r.Get("/", h.Character.GetAllCharacters)
		r.Post("/", h.Character.CreateCharacter)
		r.Get("/{characterID}", h.Character.GetCharacterByID)
		r.Put("/{characterID}", h.Character.UpdateCharacter)
		r.Delete("/{characterID}", h.Character.DeleteCharacter)
	})

	r.Route("/countries", func(r chi.Router) {
		r.Get("/", h.Country.GetAllCountries)
		r.Post("/", h.Country.CreateCountry)
		r.Route("/{countryID}", func(r chi.Router) {
			r.Get("/", h.Country.GetCountryByID)
			r.Put("/", h.Country.UpdateCountry)
			r.Delete("/", h.Country.DeleteCountry)
			r.Post("/flag", h.Country.UploadCountryFlag)
		})
	})

	r.Route("/players", func(r chi.Router) {
		r.Get("/", h.Player.GetAllPlayers)
		r.Post("/", h.Player.CreatePlayer)
		r.Route("/{playerID}", func(r chi.Router) {
			r.Get("/", h.Player.GetPlayerByID)
			r.Put("/", h.Player.UpdatePlayer)
			r.Delete("/", h.Player.DeletePlayer)
			r.Post("/games", h.Player.AssignGame)
			r.Delete("/games/{gameID}", h.Player.RemoveGame)
			r.Post("/avatar", h.Player.UploadPlayerAvatar)
		})
	})

	r.Route("/tournaments", func(r chi.Router) {
		r.Get("/", h.Tournament.GetAllTournaments)
		r.Post("/", h.Tournament.CreateTournament)
		r.Route("/{tournamentID}", func(r chi.Router) {
			r.Get("/", h.Tournament.GetTournamentByID)
			r.Put("/", h.Tournament.UpdateTournament)
			r.Delete("/", h.Tournament.DeleteTournament)
			r.Post("/games", h.Tournament.AddGame)
			r.Delete("/games/{gameID}", h.Tournament.RemoveGame)
			r.Post("/stages", h.Tournament.AddStage)
			r.Put("/stages/{stageID}", h.Tournament.UpdateStage)
			r.Delete("/stages/{stageID}", h.Tournament.DeleteStage)
		})
	})

	r.Route("/current_match", func(r chi.Router) {
		r.Get("/", h.LiveMatch.GetCurrentMatch)
		r.Post("/", h.LiveMatch.CreateMatch)
		r.Put("/scores", h.LiveMatch.UpdateScores)
		r.Post("/complete", h.LiveMatch.CompleteMatch)
	})
	r.Get("/match_history", h.LiveMatch.GetHistory)
}
