package main

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"homemart/internal/models"
	"homemart/internal/repositories"
	"homemart/internal/services"
)

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := c.openDB(true)
			if err != nil {
				return err
			}
			c.closeDB(db)
			return nil
		},
	}
}

func (c *cli) seedCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo catalog",
		Long:  "Load the demo catalog. Does nothing when products already exist unless --force is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := c.openDB(true)
			if err != nil {
				return err
			}
			defer c.closeDB(db)

			products := services.NewProductService(repositories.NewGORMProductRepository(db))
			n, err := seedCatalog(cmd.Context(), products, force, c.logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d products\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "seed even when the catalog is not empty")
	return cmd
}

func (c *cli) createUserCmd() *cobra.Command {
	var user models.User
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a staff account",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := c.openDB(true)
			if err != nil {
				return err
			}
			defer c.closeDB(db)

			if err := models.NewValidator().Struct(user); err != nil {
				return err
			}
			auth := services.NewAuthService(repositories.NewGORMUserRepository(db), c.cfg.Auth, c.logger)
			if err := auth.RegisterUser(cmd.Context(), &user); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created staff user %s (%s)\n", user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&user.Username, "username", "", "login name")
	cmd.Flags().StringVar(&user.Email, "email", "", "email address")
	cmd.Flags().StringVar(&user.Password, "password", "", "password (min 6 characters)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func demoCatalog() []models.Product {
	d := decimal.RequireFromString
	return []models.Product{
		{
			Name: "Pintura Latex", Description: "Pintura de interiores, acabado mate", Category: "Pinturas", Active: true,
			Variants: []models.Variant{
				{Name: "Galon", Price: d("18.50"), Stock: 20},
				{Name: "Cubeta", Price: d("79.90"), Stock: 6},
			},
		},
		{Name: "Rodillo 9in", Description: "Rodillo de felpa con mango", Category: "Pinturas", Price: d("3.25"), Stock: 40, Active: true},
		{Name: "Martillo", Description: "Martillo de una, 16 oz", Category: "Herramientas", Price: d("9.75"), Stock: 15, Active: true},
		{
			Name: "Clavos", Description: "Clavos de acero", Category: "Ferreteria", Active: true,
			Variants: []models.Variant{
				{Name: "1 pulgada", Price: d("1.10"), Stock: 100},
				{Name: "2 pulgadas", Price: d("1.35"), Stock: 100},
				{Name: "3 pulgadas", Price: d("1.60"), Stock: 0},
			},
		},
		{Name: "Cinta Metrica", Description: "Cinta de 5 m", Category: "Herramientas", Price: d("4.80"), Stock: 0, Active: true},
		{Name: "Escalera Aluminio", Description: "Escalera de tijera, 6 peldanos", Category: "Herramientas", Price: d("64.00"), Stock: 3, Active: false},
	}
}

// seedCatalog stores the demo products and returns how many were written.
func seedCatalog(ctx context.Context, products *services.ProductService, force bool, logger *zap.Logger) (int, error) {
	existing, err := products.GetAllProducts(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 && !force {
		logger.Info("Catalog already has products, skipping seed", zap.Int("products", len(existing)))
		return 0, nil
	}

	catalog := demoCatalog()
	for i := range catalog {
		if err := products.CreateProduct(ctx, &catalog[i]); err != nil {
			return i, fmt.Errorf("seed %s: %w", catalog[i].Name, err)
		}
		logger.Info("Seeded product", zap.String("name", catalog[i].Name), zap.String("id", catalog[i].ID))
	}
	return len(catalog), nil
}
