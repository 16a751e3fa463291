package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // postgres driver

	"github.com/agrolink/farm-service-backend/models"
)

type repo struct {
	db *sql.DB
}

// New opens a postgres-backed repository from a connection string and
// ensures the schema exists before returning.
func New(dsn string) (models.Repository, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(time.Minute * 10)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := createSchema(db); err != nil {
		return nil, err
	}

	return &repo{db: db}, nil
}

func (repo *repo) UpsertUser(ctx context.Context, user *models.User) (int64, error) {
	now := time.Now().UTC()

	// Full-row replace keyed on telegram_id: every attribute is overwritten
	// and both timestamps refresh, matching the embedded store's REPLACE.
	const q = `INSERT INTO users (telegram_id, name, phone, location, registered_at, updated_at)
	           VALUES ($1, $2, $3, $4, $5, $5)
	           ON CONFLICT (telegram_id) DO UPDATE SET
	               name = EXCLUDED.name,
	               phone = EXCLUDED.phone,
	               location = EXCLUDED.location,
	               registered_at = EXCLUDED.registered_at,
	               updated_at = EXCLUDED.updated_at
	           RETURNING id`

	var id int64

	err := repo.db.QueryRowContext(ctx, q, user.TelegramID, user.Name, user.Phone, user.Location, now).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

func (repo *repo) GetUser(ctx context.Context, telegramID string) (models.User, error) {
	const q = `SELECT id, telegram_id, name, phone, COALESCE(location, ''), registered_at, updated_at
	           FROM users WHERE telegram_id = $1`

	row := repo.db.QueryRowContext(ctx, q, telegramID)

	var user models.User

	err := row.Scan(&user.ID, &user.TelegramID, &user.Name, &user.Phone, &user.Location, &user.RegisteredAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, models.ErrNotFound
		}

		return models.User{}, err
	}

	return user, nil
}

func (repo *repo) CreateBooking(ctx context.Context, booking *models.Booking) (int64, error) {
	status := booking.Status
	if status == "" {
		status = models.StatusPending
	}

	createdAt := booking.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	const q = `INSERT INTO bookings (user_id, name, age, address, farm_size, equipment, service_date, status, created_at)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	           RETURNING id`

	var id int64

	err := repo.db.QueryRowContext(ctx, q,
		booking.UserID, booking.Name, booking.Age, booking.Address, booking.FarmSize,
		booking.Equipment, booking.ServiceDate, status, createdAt).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

func (repo *repo) ListBookings(ctx context.Context, userID int64) ([]models.Booking, error) {
	const q = `SELECT id, user_id, COALESCE(name, ''), COALESCE(age, 0), COALESCE(address, ''),
	                  COALESCE(farm_size, 0), COALESCE(equipment, ''), COALESCE(service_date, ''),
	                  status, created_at
	           FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := repo.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var ans []models.Booking

	for rows.Next() {
		var b models.Booking

		err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.Age, &b.Address, &b.FarmSize, &b.Equipment, &b.ServiceDate, &b.Status, &b.CreatedAt)
		if err != nil {
			return nil, err
		}

		ans = append(ans, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ans, nil
}

func (repo *repo) CreateGuide(ctx context.Context, guide *models.ProcessingGuide) (int64, error) {
	createdAt := guide.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	const q = `INSERT INTO processing_guides (user_id, question, response, type, created_at)
	           VALUES ($1, $2, $3, $4, $5)
	           RETURNING id`

	var id int64

	err := repo.db.QueryRowContext(ctx, q, guide.UserID, guide.Question, guide.Response, guide.Type, createdAt).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

func (repo *repo) ListGuides(ctx context.Context, userID int64) ([]models.ProcessingGuide, error) {
	const q = `SELECT id, user_id, COALESCE(question, ''), COALESCE(response, ''), COALESCE(type, ''), created_at
	           FROM processing_guides WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := repo.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var ans []models.ProcessingGuide

	for rows.Next() {
		var g models.ProcessingGuide

		err := rows.Scan(&g.ID, &g.UserID, &g.Question, &g.Response, &g.Type, &g.CreatedAt)
		if err != nil {
			return nil, err
		}

		ans = append(ans, g)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ans, nil
}

func (repo *repo) Ping(ctx context.Context) error {
	return repo.db.PingContext(ctx)
}

func (repo *repo) Close() error {
	return repo.db.Close()
}

// createSchema is idempotent. The user references on bookings and
// processing_guides are intentionally not declared as foreign keys so the
// store accepts rows for users it has never seen, same as the embedded store.
func createSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			telegram_id TEXT UNIQUE,
			name TEXT NOT NULL,
			phone TEXT NOT NULL,
			location TEXT,
			registered_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS bookings (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT,
			name TEXT,
			age INTEGER,
			address TEXT,
			farm_size DOUBLE PRECISION,
			equipment TEXT,
			service_date TEXT,
			status TEXT DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS processing_guides (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT,
			question TEXT,
			response TEXT,
			type TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
