package db

var schema = []string{
	`CREATE TABLE IF NOT EXISTS games (
		game_id      SERIAL PRIMARY KEY,
		name         VARCHAR(100) NOT NULL,
		publisher    VARCHAR(100),
		release_date DATE,
		logo_url     TEXT,
		banner_url   TEXT,
		description  TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS characters (
		character_id SERIAL PRIMARY KEY,
		game_id      INTEGER NOT NULL REFERENCES games (game_id),
		name         VARCHAR(100) NOT NULL,
		image_url    TEXT,
		description  TEXT,
		is_kameo     BOOLEAN NOT NULL DEFAULT FALSE,
		CONSTRAINT characters_game_id_name_key UNIQUE (game_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS countries (
		country_id SERIAL PRIMARY KEY,
		name       VARCHAR(100) NOT NULL,
		code       CHAR(2) NOT NULL,
		flag_url   TEXT,
		CONSTRAINT countries_code_key UNIQUE (code),
		CONSTRAINT countries_code_upper CHECK (code = UPPER(code))
	)`,
	`CREATE TABLE IF NOT EXISTS players (
		player_id  SERIAL PRIMARY KEY,
		nickname   VARCHAR(50) NOT NULL,
		real_name  VARCHAR(100),
		country_id INTEGER REFERENCES countries (country_id),
		avatar_url TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS players_nickname_key ON players (LOWER(nickname))`,
	`CREATE TABLE IF NOT EXISTS player_games (
		player_id              INTEGER NOT NULL REFERENCES players (player_id) ON DELETE CASCADE,
		game_id                INTEGER NOT NULL REFERENCES games (game_id) ON DELETE CASCADE,
		main_character_id      INTEGER REFERENCES characters (character_id),
		secondary_character_id INTEGER REFERENCES characters (character_id),
		rank                   VARCHAR(50),
		skill_rating           INTEGER,
		updated_at             TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (player_id, game_id)
	)`,
	`CREATE TABLE IF NOT EXISTS tournaments (
		tournament_id SERIAL PRIMARY KEY,
		name          VARCHAR(150) NOT NULL,
		start_date    TIMESTAMPTZ,
		end_date      TIMESTAMPTZ,
		location      VARCHAR(150),
		description   TEXT,
		logo_url      TEXT,
		banner_url    TEXT,
		prize_pool    NUMERIC(12, 2),
		status        VARCHAR(20) NOT NULL DEFAULT 'upcoming'
	)`,
	`CREATE TABLE IF NOT EXISTS tournament_games (
		tournament_id INTEGER NOT NULL REFERENCES tournaments (tournament_id) ON DELETE CASCADE,
		game_id       INTEGER NOT NULL REFERENCES games (game_id) ON DELETE CASCADE,
		PRIMARY KEY (tournament_id, game_id)
	)`,
	`CREATE TABLE IF NOT EXISTS tournament_stages (
		stage_id      SERIAL PRIMARY KEY,
		tournament_id INTEGER NOT NULL REFERENCES tournaments (tournament_id),
		name          VARCHAR(100) NOT NULL,
		start_date    TIMESTAMPTZ,
		end_date      TIMESTAMPTZ,
		stage_order   INTEGER NOT NULL DEFAULT 1,
		stage_type    VARCHAR(30) NOT NULL,
		best_of       INTEGER NOT NULL DEFAULT 3
	)`,
	`CREATE TABLE IF NOT EXISTS groups (
		group_id SERIAL PRIMARY KEY,
		stage_id INTEGER NOT NULL REFERENCES tournament_stages (stage_id),
		name     VARCHAR(50) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS bracket_rounds (
		round_id     SERIAL PRIMARY KEY,
		stage_id     INTEGER NOT NULL REFERENCES tournament_stages (stage_id),
		round_number INTEGER NOT NULL,
		name         VARCHAR(50)
	)`,
	`CREATE SEQUENCE IF NOT EXISTS current_match_match_id_seq`,
	`CREATE TABLE IF NOT EXISTS current_match (
		slot          SMALLINT PRIMARY KEY DEFAULT 1 CHECK (slot = 1),
		match_id      BIGINT NOT NULL DEFAULT nextval('current_match_match_id_seq'),
		player1_id    INTEGER NOT NULL REFERENCES players (player_id),
		player2_id    INTEGER NOT NULL REFERENCES players (player_id),
		player1_score INTEGER NOT NULL DEFAULT 0 CHECK (player1_score >= 0),
		player2_score INTEGER NOT NULL DEFAULT 0 CHECK (player2_score >= 0),
		title         VARCHAR(150),
		game_id       INTEGER REFERENCES games (game_id) ON DELETE SET NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS match_history (
		history_id    SERIAL PRIMARY KEY,
		match_id      BIGINT NOT NULL,
		player1_id    INTEGER NOT NULL REFERENCES players (player_id),
		player2_id    INTEGER NOT NULL REFERENCES players (player_id),
		player1_score INTEGER NOT NULL,
		player2_score INTEGER NOT NULL,
		winner_id     INTEGER NOT NULL REFERENCES players (player_id),
		title         VARCHAR(150),
		game_id       INTEGER REFERENCES games (game_id) ON DELETE SET NULL,
		played_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT match_history_match_id_key UNIQUE (match_id)
	)`,
}
