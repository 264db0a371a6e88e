// Package devseed inserts development fixture data. It only runs when the
// process is in development mode and the database is empty, so repeated
// restarts do not duplicate rows.
package devseed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/raborimet/crm-api/internal/data"
	"github.com/raborimet/crm-api/internal/domain/auth"
	"github.com/raborimet/crm-api/internal/domain/model"
)

const (
	adminEmail    = "admin@raborimet.local"
	adminPassword = "admin1234"
)

// Run seeds an admin account and a handful of sample clients. It is a no-op
// when any user already exists.
func Run(ctx context.Context, pool *pgxpool.Pool, bcryptCost int, logger *slog.Logger) error {
	var userCount int64
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&userCount); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if userCount > 0 {
		logger.DebugContext(ctx, "skipping dev seed, users already present", "count", userCount)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	users := data.NewUserRepo(pool)
	admin, err := users.Create(ctx, data.CreateUserParams{
		Email:        adminEmail,
		PasswordHash: string(hash),
		FirstName:    "Dev",
		LastName:     "Admin",
		Role:         auth.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	clients := data.NewClientRepo(pool)
	for _, req := range sampleClients() {
		if _, err := clients.Create(ctx, req); err != nil {
			return fmt.Errorf("seed client %q: %w", req.Name, err)
		}
	}

	logger.InfoContext(ctx, "development fixtures seeded",
		"admin_email", admin.Email, "clients", len(sampleClients()))
	return nil
}

func sampleClients() []*model.CreateClientRequest {
	email := func(s string) *string { return &s }
	return []*model.CreateClientRequest{
		{
			Name:        "Acme Construcciones",
			Email:       email("contacto@acme.example"),
			Company:     "Acme Construcciones SL",
			ContactType: model.ContactTypeCompany,
			City:        "Madrid",
		},
		{
			Name:        "Laura Jimenez",
			Email:       email("laura@example.com"),
			ContactType: model.ContactTypeIndividual,
			City:        "Valencia",
		},
		{
			Name:        "Norte Reformas",
			Email:       email("obras@norte.example"),
			Company:     "Norte Reformas SA",
			ContactType: model.ContactTypeCompany,
			City:        "Bilbao",
		},
	}
}
