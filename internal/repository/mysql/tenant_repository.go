package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/site-builder-auth/internal/model"
	"github.com/iliyamo/site-builder-auth/internal/repository"
)

const tenantColumns = "id, name, subdomain, custom_domain, status, created_at, updated_at"

type TenantRepo struct{ DB *sql.DB }

func NewTenantRepo(db *sql.DB) *TenantRepo { return &TenantRepo{DB: db} }

// GetByID fetches a tenant by id.
func (r *TenantRepo) GetByID(ctx context.Context, id uint64) (*model.Tenant, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+tenantColumns+" FROM tenants WHERE id=? LIMIT 1", id)
	return scanTenant(row)
}

// GetBySubdomain fetches a tenant by its globally unique subdomain.
func (r *TenantRepo) GetBySubdomain(ctx context.Context, subdomain string) (*model.Tenant, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+tenantColumns+" FROM tenants WHERE subdomain=? LIMIT 1",
		strings.ToLower(strings.TrimSpace(subdomain)))
	return scanTenant(row)
}

// GetByCustomDomain fetches a tenant by the custom domain it has attached.
func (r *TenantRepo) GetByCustomDomain(ctx context.Context, domain string) (*model.Tenant, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+tenantColumns+" FROM tenants WHERE custom_domain=? LIMIT 1",
		strings.ToLower(strings.TrimSpace(domain)))
	return scanTenant(row)
}

func scanTenant(row *sql.Row) (*model.Tenant, error) {
	var (
		t      model.Tenant
		custom sql.NullString
	)
	err := row.Scan(&t.ID, &t.Name, &t.Subdomain, &custom, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if custom.Valid {
		t.CustomDomain = custom.String
	}
	return &t, nil
}
