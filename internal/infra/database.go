package infra

import (
	"fmt"

	"meubleerp/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens a GORM connection backed by pgx and sizes its pool.
// Schema creation is left to MigratePrimary / MigrateSecondary.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	return db, nil
}

// PrimaryModels are stored on the primary connection.
var PrimaryModels = []any{
	&model.Compteur{},
	&model.Devis{},
	&model.Produit{},
}

// SecondaryModels are stored on the secondary connection.
var SecondaryModels = []any{
	&model.Compteur{},
	&model.Facture{},
	&model.BonLivraison{},
	&model.RecuPaiement{},
	&model.TransactionCaisse{},
}

// MigratePrimary creates or updates the primary schema.
func MigratePrimary(db *gorm.DB) error {
	if err := db.AutoMigrate(PrimaryModels...); err != nil {
		return fmt.Errorf("AutoMigrate primary: %w", err)
	}
	return applySchemaPatches(db, primaryPatches)
}

// MigrateSecondary creates or updates the secondary schema.
func MigrateSecondary(db *gorm.DB) error {
	if err := db.AutoMigrate(SecondaryModels...); err != nil {
		return fmt.Errorf("AutoMigrate secondary: %w", err)
	}
	return applySchemaPatches(db, secondaryPatches)
}

// Constraints AutoMigrate cannot express. Each statement is idempotent.
var primaryPatches = []string{
	`DO $$ BEGIN
		ALTER TABLE produits ADD CONSTRAINT chk_produits_prix_vente CHECK (prix_vente >= 0);
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`DO $$ BEGIN
		ALTER TABLE devis ADD CONSTRAINT chk_devis_total_ht CHECK (total_ht >= 0);
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
}

var secondaryPatches = []string{
	`DO $$ BEGIN
		ALTER TABLE transactions_caisse ADD CONSTRAINT chk_transactions_caisse_montant CHECK (montant > 0);
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`DO $$ BEGIN
		ALTER TABLE transactions_caisse ADD CONSTRAINT chk_transactions_caisse_type CHECK (type IN ('entree', 'sortie'));
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`DO $$ BEGIN
		ALTER TABLE factures ADD CONSTRAINT chk_factures_total_ht CHECK (total_ht >= 0);
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_caisse_mode ON transactions_caisse (mode_paiement)`,
}

// applySchemaPatches runs Postgres-only DDL; other dialects (SQLite in tests) skip it.
func applySchemaPatches(db *gorm.DB, patches []string) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
