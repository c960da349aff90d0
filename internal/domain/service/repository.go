package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository handles service and package database operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new service repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// List returns all services ordered by name
func (r *Repository) List(ctx context.Context) ([]Service, error) {
	services := make([]Service, 0)
	err := r.db.SelectContext(ctx, &services, `
		SELECT id, name, base_price, discount_percentage, has_time_slots, requires_faculty, created_at, updated_at
		FROM services
		ORDER BY name
	`)
	return services, err
}

// GetByID returns a service by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Service, error) {
	var s Service
	err := r.db.GetContext(ctx, &s, `
		SELECT id, name, base_price, discount_percentage, has_time_slots, requires_faculty, created_at, updated_at
		FROM services
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new service
func (r *Repository) Create(ctx context.Context, s *Service) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO services (id, name, base_price, discount_percentage, has_time_slots, requires_faculty, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, s.ID, s.Name, s.BasePrice, s.DiscountPercentage, s.HasTimeSlots, s.RequiresFaculty, s.CreatedAt, s.UpdatedAt)
	return err
}

// Update applies a patch to a service. Only present fields become SET clauses.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, patch *UpdateServiceRequest) error {
	sets := make([]string, 0, 6)
	args := make([]interface{}, 0, 6)
	idx := 1

	if patch.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", idx))
		args = append(args, *patch.Name)
		idx++
	}
	if patch.BasePrice != nil {
		sets = append(sets, fmt.Sprintf("base_price = $%d", idx))
		args = append(args, *patch.BasePrice)
		idx++
	}
	if patch.DiscountPercentage != nil {
		sets = append(sets, fmt.Sprintf("discount_percentage = $%d", idx))
		args = append(args, *patch.DiscountPercentage)
		idx++
	}
	if patch.HasTimeSlots != nil {
		sets = append(sets, fmt.Sprintf("has_time_slots = $%d", idx))
		args = append(args, *patch.HasTimeSlots)
		idx++
	}
	if patch.RequiresFaculty != nil {
		sets = append(sets, fmt.Sprintf("requires_faculty = $%d", idx))
		args = append(args, *patch.RequiresFaculty)
		idx++
	}

	if len(sets) == 0 {
		return ErrNoFieldsToSet
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE services SET %s WHERE id = $%d", strings.Join(sets, ", "), idx)
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrServiceNotFound
	}
	return nil
}

// Delete removes a service. Fails if any booking references it.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM bookings WHERE service_id = $1`, id); err != nil {
		return err
	}
	if count > 0 {
		return ErrServiceInUse
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrServiceNotFound
	}
	return nil
}

// ListPackages returns packages for a service
func (r *Repository) ListPackages(ctx context.Context, serviceID uuid.UUID) ([]Package, error) {
	packages := make([]Package, 0)
	err := r.db.SelectContext(ctx, &packages, `
		SELECT id, service_id, package_name, price, description, created_at, updated_at
		FROM service_packages
		WHERE service_id = $1
		ORDER BY price
	`, serviceID)
	return packages, err
}

// GetPackageByID returns a package by ID
func (r *Repository) GetPackageByID(ctx context.Context, id uuid.UUID) (*Package, error) {
	var p Package
	err := r.db.GetContext(ctx, &p, `
		SELECT id, service_id, package_name, price, description, created_at, updated_at
		FROM service_packages
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPackageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePackage inserts a new package
func (r *Repository) CreatePackage(ctx context.Context, p *Package) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO service_packages (id, service_id, package_name, price, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, p.ID, p.ServiceID, p.PackageName, p.Price, p.Description, p.CreatedAt, p.UpdatedAt)
	return err
}

// UpdatePackage applies a patch to a package
func (r *Repository) UpdatePackage(ctx context.Context, id uuid.UUID, patch *UpdatePackageRequest) error {
	sets := make([]string, 0, 4)
	args := make([]interface{}, 0, 4)
	idx := 1

	if patch.PackageName != nil {
		sets = append(sets, fmt.Sprintf("package_name = $%d", idx))
		args = append(args, *patch.PackageName)
		idx++
	}
	if patch.Price != nil {
		sets = append(sets, fmt.Sprintf("price = $%d", idx))
		args = append(args, *patch.Price)
		idx++
	}
	if patch.Description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", idx))
		args = append(args, sql.NullString{String: *patch.Description, Valid: *patch.Description != ""})
		idx++
	}

	if len(sets) == 0 {
		return ErrNoFieldsToSet
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE service_packages SET %s WHERE id = $%d", strings.Join(sets, ", "), idx)
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrPackageNotFound
	}
	return nil
}

// DeletePackage removes a package. Fails if any booking references it.
func (r *Repository) DeletePackage(ctx context.Context, id uuid.UUID) error {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM bookings WHERE package_id = $1`, id); err != nil {
		return err
	}
	if count > 0 {
		return ErrPackageInUse
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM service_packages WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrPackageNotFound
	}
	return nil
}
