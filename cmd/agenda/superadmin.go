package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"agenda-api/internal/model"
	"agenda-api/pkg/config"
	"agenda-api/pkg/database"
)

// initSuperadminCmd provisions the bootstrap tenant and superadmin
// account. Running it twice is a no-op.
func initSuperadminCmd() *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:   "init-superadmin",
		Short: "Create the bootstrap tenant and superadmin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			db, err := database.Open(&cfg.DB)
			if err != nil {
				return err
			}

			var existing model.User
			err = db.Where("role = ?", model.RoleSuperAdmin).First(&existing).Error
			if err == nil {
				fmt.Println("superadmin already exists, nothing to do")
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}

			return db.Transaction(func(tx *gorm.DB) error {
				tenant := model.Tenant{
					Name:     "Sistema Principal",
					Slug:     "sistema-principal",
					Theme:    "default",
					IsActive: true,
				}
				if err := tx.Where("slug = ?", tenant.Slug).FirstOrCreate(&tenant).Error; err != nil {
					return err
				}

				admin := model.User{
					Name:     name,
					Email:    email,
					Password: string(hashed),
					Role:     model.RoleSuperAdmin,
					IsActive: true,
					TenantID: tenant.ID,
				}
				if err := tx.Create(&admin).Error; err != nil {
					return err
				}

				fmt.Printf("superadmin created: %s (tenant %s)\n", admin.Email, tenant.Slug)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "admin@sistema.com", "superadmin email")
	cmd.Flags().StringVar(&password, "password", "admin123", "superadmin password")
	cmd.Flags().StringVar(&name, "name", "Super Administrador", "superadmin display name")
	return cmd
}
