package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/servicedesk/backoffice/internal/core/domain"
	"github.com/servicedesk/backoffice/internal/core/ports"
	"github.com/servicedesk/backoffice/internal/core/service"
	mongodb "github.com/servicedesk/backoffice/internal/infrastructure/db/mongo"
	"github.com/servicedesk/backoffice/internal/pkg/config"
	"github.com/servicedesk/backoffice/pkg/logger"
)

var seedFlags struct {
	name     string
	email    string
	password string
	tenant   string
}

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the first super-admin account",
	Long: `seed-admin registers an ADMIN user with super-admin rights so the
first operator can log in and create the rest of the accounts through
POST /v1/users. Running it twice with the same e-mail is a no-op.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return seedAdmin(cmd.Context())
	},
}

func init() {
	f := seedAdminCmd.Flags()
	f.StringVar(&seedFlags.name, "name", "Administrator", "display name")
	f.StringVar(&seedFlags.email, "email", "", "login e-mail")
	f.StringVar(&seedFlags.password, "password", "", "initial password")
	f.StringVar(&seedFlags.tenant, "tenant", "", "home tenant of the account")
	_ = seedAdminCmd.MarkFlagRequired("email")
	_ = seedAdminCmd.MarkFlagRequired("password")
	_ = seedAdminCmd.MarkFlagRequired("tenant")
}

func seedAdmin(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "backoffice-seed",
	})
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background())

	users := mongodb.NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("indexes users: %w", err)
	}

	auth := service.NewAuthService(users, cfg.JWTSecret, cfg.TokenTTL)
	user, err := auth.Register(ctx, ports.RegisterInput{
		Name:       seedFlags.name,
		Email:      seedFlags.email,
		Password:   seedFlags.password,
		Role:       string(domain.RoleAdmin),
		SuperAdmin: true,
		TenantID:   seedFlags.tenant,
	})
	if errors.Is(err, domain.ErrUserExists) {
		log.Info().Str("email", seedFlags.email).Msg("admin already exists")
		return nil
	}
	if err != nil {
		return err
	}

	log.Info().Str("user_id", user.ID).Str("email", user.Email).Str("tenant_id", user.TenantID).Msg("super admin created")
	return nil
}
