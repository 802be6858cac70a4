package repository

import (
	"context"
	"time"

	"legaldocs-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository handles database operations for users and their profiles
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, password_hash, role, full_name, phone, is_active, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRow(
		ctx, query,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.FullName,
		user.Phone,
		user.IsActive,
		user.IsVerified,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

const userColumns = `id, email, password_hash, role, full_name, phone,
	is_active, is_verified, created_at, updated_at, last_login`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.FullName,
		&user.Phone,
		&user.IsActive,
		&user.IsVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.LastLogin,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetByEmail retrieves a user by email address
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// UpdateLastLogin stamps the user's last login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET last_login = $2, updated_at = NOW() WHERE id = $1`, id, at)
	return err
}

// CreateLawyerProfile inserts the extended profile for a lawyer account
func (r *UserRepository) CreateLawyerProfile(ctx context.Context, profile *models.LawyerProfile) error {
	query := `
		INSERT INTO lawyer_profiles (
			user_id, bar_council_number, practice_areas, experience_years,
			court_jurisdiction, office_address, city, state, pincode, is_bar_verified
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	return r.db.QueryRow(
		ctx, query,
		profile.UserID,
		profile.BarCouncilNumber,
		profile.PracticeAreas,
		profile.ExperienceYears,
		profile.CourtJurisdiction,
		profile.OfficeAddress,
		profile.City,
		profile.State,
		profile.Pincode,
		profile.IsBarVerified,
	).Scan(&profile.ID)
}

// CreateFirmProfile inserts the extended profile for a firm account
func (r *UserRepository) CreateFirmProfile(ctx context.Context, profile *models.FirmProfile) error {
	query := `
		INSERT INTO firm_profiles (
			user_id, firm_name, registration_number, established_year, website,
			office_address, city, state, pincode, lawyer_count, practice_areas, is_verified
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	return r.db.QueryRow(
		ctx, query,
		profile.UserID,
		profile.FirmName,
		profile.RegistrationNumber,
		profile.EstablishedYear,
		profile.Website,
		profile.OfficeAddress,
		profile.City,
		profile.State,
		profile.Pincode,
		profile.LawyerCount,
		profile.PracticeAreas,
		profile.IsVerified,
	).Scan(&profile.ID)
}

// GetLawyerProfile retrieves a lawyer profile by user ID
func (r *UserRepository) GetLawyerProfile(ctx context.Context, userID uuid.UUID) (*models.LawyerProfile, error) {
	profile := &models.LawyerProfile{}
	query := `
		SELECT id, user_id, bar_council_number, practice_areas, experience_years,
			court_jurisdiction, office_address, city, state, pincode, is_bar_verified
		FROM lawyer_profiles
		WHERE user_id = $1`

	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.BarCouncilNumber,
		&profile.PracticeAreas,
		&profile.ExperienceYears,
		&profile.CourtJurisdiction,
		&profile.OfficeAddress,
		&profile.City,
		&profile.State,
		&profile.Pincode,
		&profile.IsBarVerified,
	)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// GetFirmProfile retrieves a firm profile by user ID
func (r *UserRepository) GetFirmProfile(ctx context.Context, userID uuid.UUID) (*models.FirmProfile, error) {
	profile := &models.FirmProfile{}
	query := `
		SELECT id, user_id, firm_name, registration_number, established_year, website,
			office_address, city, state, pincode, lawyer_count, practice_areas, is_verified
		FROM firm_profiles
		WHERE user_id = $1`

	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FirmName,
		&profile.RegistrationNumber,
		&profile.EstablishedYear,
		&profile.Website,
		&profile.OfficeAddress,
		&profile.City,
		&profile.State,
		&profile.Pincode,
		&profile.LawyerCount,
		&profile.PracticeAreas,
		&profile.IsVerified,
	)
	if err != nil {
		return nil, err
	}
	return profile, nil
}
