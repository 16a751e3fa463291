package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite" // sqlite driver

	"github.com/agrolink/farm-service-backend/models"
)

type repo struct {
	db *sql.DB
}

func New(path string) (models.Repository, error) {
	db, err := initDatabase(path)
	if err != nil {
		return nil, err
	}

	return &repo{db: db}, nil
}

func (repo *repo) UpsertUser(ctx context.Context, user *models.User) (int64, error) {
	item := userToRow(user)

	// REPLACE deletes any row with the same telegramId and re-inserts, so
	// registeredAt and updatedAt take fresh values just like the column
	// defaults would on a plain insert.
	const q = `INSERT OR REPLACE INTO users (telegramId, name, phone, location, registeredAt, updatedAt)
	           VALUES (?, ?, ?, ?, ?, ?)`

	res, err := repo.db.ExecContext(ctx, q, item.TelegramID, item.Name, item.Phone, item.Location, item.RegisteredAt, item.UpdatedAt)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (repo *repo) GetUser(ctx context.Context, telegramID string) (models.User, error) {
	const q = `SELECT id, telegramId, name, phone, COALESCE(location, ''), registeredAt, updatedAt
	           FROM users WHERE telegramId = ?`

	row := repo.db.QueryRowContext(ctx, q, telegramID)

	user, err := rowToUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrNotFound
	}

	return user, err
}

func (repo *repo) CreateBooking(ctx context.Context, booking *models.Booking) (int64, error) {
	item := bookingToRow(booking)

	const q = `INSERT INTO bookings (userId, name, age, address, farmSize, equipment, serviceDate, status, createdAt)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := repo.db.ExecContext(ctx, q,
		item.UserID, item.Name, item.Age, item.Address, item.FarmSize, item.Equipment, item.ServiceDate, item.Status, item.CreatedAt)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (repo *repo) ListBookings(ctx context.Context, userID int64) ([]models.Booking, error) {
	const q = `SELECT id, userId, name, age, address, farmSize, equipment, serviceDate, status, createdAt
	           FROM bookings WHERE userId = ? ORDER BY createdAt DESC`

	rows, err := repo.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var ans []models.Booking

	for rows.Next() {
		booking, err := rowToBooking(rows)
		if err != nil {
			return nil, err
		}

		ans = append(ans, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ans, nil
}

func (repo *repo) CreateGuide(ctx context.Context, guide *models.ProcessingGuide) (int64, error) {
	item := guideToRow(guide)

	const q = `INSERT INTO processingGuides (userId, question, response, type, createdAt)
	           VALUES (?, ?, ?, ?, ?)`

	res, err := repo.db.ExecContext(ctx, q, item.UserID, item.Question, item.Response, item.Type, item.CreatedAt)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (repo *repo) ListGuides(ctx context.Context, userID int64) ([]models.ProcessingGuide, error) {
	const q = `SELECT id, userId, question, response, type, createdAt
	           FROM processingGuides WHERE userId = ? ORDER BY createdAt DESC`

	rows, err := repo.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var ans []models.ProcessingGuide

	for rows.Next() {
		guide, err := rowToGuide(rows)
		if err != nil {
			return nil, err
		}

		ans = append(ans, guide)
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

type scannable interface {
	Scan(dest ...any) error
}

type userRow struct {
	ID           int64
	TelegramID   string
	Name         string
	Phone        string
	Location     string
	RegisteredAt int64
	UpdatedAt    int64
}

func rowToUser(row scannable) (models.User, error) {
	var u userRow

	err := row.Scan(&u.ID, &u.TelegramID, &u.Name, &u.Phone, &u.Location, &u.RegisteredAt, &u.UpdatedAt)
	if err != nil {
		return models.User{}, err
	}

	return models.User{
		ID:           u.ID,
		TelegramID:   u.TelegramID,
		Name:         u.Name,
		Phone:        u.Phone,
		Location:     u.Location,
		RegisteredAt: time.Unix(u.RegisteredAt, 0).UTC(),
		UpdatedAt:    time.Unix(u.UpdatedAt, 0).UTC(),
	}, nil
}

func userToRow(item *models.User) userRow {
	now := time.Now().UTC()

	registered := item.RegisteredAt
	if registered.IsZero() {
		registered = now
	}

	return userRow{
		TelegramID:   item.TelegramID,
		Name:         item.Name,
		Phone:        item.Phone,
		Location:     item.Location,
		RegisteredAt: registered.Unix(),
		UpdatedAt:    now.Unix(),
	}
}

type bookingRow struct {
	ID          int64
	UserID      int64
	Name        string
	Age         int
	Address     string
	FarmSize    float64
	Equipment   string
	ServiceDate string
	Status      string
	CreatedAt   int64
}

func rowToBooking(row scannable) (models.Booking, error) {
	var b bookingRow

	err := row.Scan(&b.ID, &b.UserID, &b.Name, &b.Age, &b.Address, &b.FarmSize, &b.Equipment, &b.ServiceDate, &b.Status, &b.CreatedAt)
	if err != nil {
		return models.Booking{}, err
	}

	return models.Booking{
		ID:          b.ID,
		UserID:      b.UserID,
		Name:        b.Name,
		Age:         b.Age,
		Address:     b.Address,
		FarmSize:    b.FarmSize,
		Equipment:   b.Equipment,
		ServiceDate: b.ServiceDate,
		Status:      b.Status,
		CreatedAt:   time.Unix(b.CreatedAt, 0).UTC(),
	}, nil
}

func bookingToRow(item *models.Booking) bookingRow {
	status := item.Status
	if status == "" {
		status = models.StatusPending
	}

	createdAt := item.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	return bookingRow{
		UserID:      item.UserID,
		Name:        item.Name,
		Age:         item.Age,
		Address:     item.Address,
		FarmSize:    item.FarmSize,
		Equipment:   item.Equipment,
		ServiceDate: item.ServiceDate,
		Status:      status,
		CreatedAt:   createdAt.Unix(),
	}
}

type guideRow struct {
	ID        int64
	UserID    int64
	Question  string
	Response  string
	Type      string
	CreatedAt int64
}

func rowToGuide(row scannable) (models.ProcessingGuide, error) {
	var g guideRow

	err := row.Scan(&g.ID, &g.UserID, &g.Question, &g.Response, &g.Type, &g.CreatedAt)
	if err != nil {
		return models.ProcessingGuide{}, err
	}

	return models.ProcessingGuide{
		ID:        g.ID,
		UserID:    g.UserID,
		Question:  g.Question,
		Response:  g.Response,
		Type:      g.Type,
		CreatedAt: time.Unix(g.CreatedAt, 0).UTC(),
	}, nil
}

func guideToRow(item *models.ProcessingGuide) guideRow {
	createdAt := item.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	return guideRow{
		UserID:    item.UserID,
		Question:  item.Question,
		Response:  item.Response,
		Type:      item.Type,
		CreatedAt: createdAt.Unix(),
	}
}

func initDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	_, err = db.Exec("PRAGMA busy_timeout = 5000")
	if err != nil {
		return nil, err
	}

	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	_, err = db.Exec("PRAGMA synchronous=NORMAL")
	if err != nil {
		return nil, err
	}

	err = db.Ping()
	if err != nil {
		return nil, err
	}

	return db, createSchema(db)
}

// createSchema is idempotent and safe to run on every process start.
// Column names keep the camelCase of the original client's database so
// existing files stay readable. The foreign keys are declarative only;
// the foreign_keys pragma stays off and orphan rows are accepted.
func createSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			telegramId TEXT UNIQUE,
			name TEXT NOT NULL,
			phone TEXT NOT NULL,
			location TEXT,
			registeredAt INT NOT NULL,
			updatedAt INT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS bookings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			userId INTEGER,
			name TEXT,
			age INTEGER,
			address TEXT,
			farmSize REAL,
			equipment TEXT,
			serviceDate TEXT,
			status TEXT DEFAULT 'pending',
			createdAt INT NOT NULL,
			FOREIGN KEY (userId) REFERENCES users(id)
		)`,
		`CREATE TABLE IF NOT EXISTS processingGuides (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			userId INTEGER,
			question TEXT,
			response TEXT,
			type TEXT,
			createdAt INT NOT NULL,
			FOREIGN KEY (userId) REFERENCES users(id)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
