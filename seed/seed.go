// Package seed loads the demonstration data set used in development
package seed

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kendall-kelly/artisan-portal-api/models"
)

// DemoPassword is the password of every seeded account
const DemoPassword = "password123"

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func statusPtr(s models.ComplianceStatus) *models.ComplianceStatus { return &s }

func date(value string) *datatypes.Date {
	d, err := models.ParseDate(value)
	if err != nil {
		panic(err)
	}
	return d
}

func day(value string) time.Time {
	t, err := time.Parse(models.DateLayout, value)
	if err != nil {
		panic(err)
	}
	return t
}

// Run inserts the demo users, projects, invoices and alerts.
// It does nothing when the users table already has rows.
func Run(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		log.Printf("Seed skipped: %d users already present", count)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}
	password := string(hash)

	users := []models.User{
		{ID: "u1", Name: "Sarah Jenkins", Email: "admin@company.com", Role: models.RoleAdmin, IsOnboarded: true},
		{ID: "u2", Name: "Jean le Plombier", Email: "john@artisan.com", Role: models.RoleArtisan,
			CompanyName: strPtr("JP Services"), Specialty: strPtr("Plomberie"),
			Address: strPtr("12 Rue de Metz, 31000 Toulouse"), Lat: floatPtr(43.6000), Lng: floatPtr(1.4430),
			DocumentsStatus: statusPtr(models.ComplianceMissing)},
		{ID: "u3", Name: "Alice Corporation", Email: "contact@alicecorp.com", Role: models.RoleClient, IsOnboarded: true,
			CompanyName: strPtr("Alice Corp HQ")},
		{ID: "u4", Name: "Mike Électricité", Email: "mike@sparky.com", Role: models.RoleArtisan, IsOnboarded: true,
			CompanyName: strPtr("Sparky Bros"), Specialty: strPtr("Électricité"),
			Address: strPtr("45 Avenue de Grande Bretagne, 31300 Toulouse"), Lat: floatPtr(43.6060), Lng: floatPtr(1.4100),
			DocumentsStatus: statusPtr(models.ComplianceCompliant)},
		{ID: "u5", Name: "Pierre Menuiserie", Email: "pierre@woodworks.com", Role: models.RoleArtisan, IsOnboarded: true,
			CompanyName: strPtr("Au Cœur du Bois"), Specialty: strPtr("Menuiserie"),
			Address: strPtr("8 Chemin de la Chasse, 31770 Colomiers"), Lat: floatPtr(43.6112), Lng: floatPtr(1.3413),
			DocumentsStatus: statusPtr(models.ComplianceCompliant)},
		{ID: "u6", Name: "Marie Peinture", Email: "marie@couleurs.com", Role: models.RoleArtisan, IsOnboarded: true,
			CompanyName: strPtr("Déco 31"), Specialty: strPtr("Peinture"),
			Address: strPtr("22 Avenue des Mimosas, 31130 Balma"), Lat: floatPtr(43.6110), Lng: floatPtr(1.4994),
			DocumentsStatus: statusPtr(models.ComplianceExpired)},
	}
	for i := range users {
		users[i].PasswordHash = password
	}

	projects := []models.Project{
		{ID: "p1", Title: "Rénovation Salles de Bain HQ", ClientID: "u3", Status: models.ProjectInProgress,
			StartDate: date("2023-10-15"), Description: "Rénovation complète des salles de bain du 3ème étage."},
		{ID: "p2", Title: "Mise à jour Éclairage Hall", ClientID: "u3", Status: models.ProjectDone,
			StartDate: date("2023-09-01"), Description: "Installation de luminaires LED dans le hall principal.", EndOfWorkSigned: true},
		{ID: "p3", Title: "Aménagement Open Space", ClientID: "u3", Status: models.ProjectInProgress,
			StartDate: date("2023-11-02"), Description: "Création de cloisons bois et peinture."},
	}

	links := []models.ProjectArtisan{
		{ProjectID: "p1", ArtisanID: "u2"},
		{ProjectID: "p2", ArtisanID: "u4"},
		{ProjectID: "p3", ArtisanID: "u5"},
		{ProjectID: "p3", ArtisanID: "u6"},
	}

	invoices := []models.Invoice{
		{ID: "inv1", ProjectID: "p2", ArtisanID: "u4", Amount: 1500.00, Date: date("2023-09-15"), Status: models.InvoicePaid, FileName: "facture-1001.pdf"},
		{ID: "inv2", ProjectID: "p1", ArtisanID: "u2", Amount: 3200.00, Date: date("2023-10-20"), Status: models.InvoicePending, FileName: "facture-1002.pdf"},
		{ID: "inv3", ProjectID: "p3", ArtisanID: "u5", Amount: 2800.00, Date: date("2023-11-10"), Status: models.InvoicePending, FileName: "facture-1003.pdf"},
	}

	alerts := []models.Alert{
		{ID: "a1", Message: "Jean le Plombier a des documents de conformité manquants.", Type: models.AlertWarning, CreatedAt: day("2023-10-20")},
		{ID: "a2", Message: "Marie Peinture : attestation d'assurance expirée.", Type: models.AlertWarning, CreatedAt: day("2023-11-01")},
		{ID: "a3", Message: "Nouveau projet \"Aménagement Open Space\" créé.", Type: models.AlertInfo, CreatedAt: day("2023-11-02")},
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&users).Error; err != nil {
			return fmt.Errorf("users: %w", err)
		}
		// zero-valued Client and Artisan structs must not be upserted
		if err := tx.Omit(clause.Associations).Create(&projects).Error; err != nil {
			return fmt.Errorf("projects: %w", err)
		}
		if err := tx.Omit(clause.Associations).Create(&links).Error; err != nil {
			return fmt.Errorf("project artisans: %w", err)
		}
		if err := tx.Omit(clause.Associations).Create(&invoices).Error; err != nil {
			return fmt.Errorf("invoices: %w", err)
		}
		if err := tx.Create(&alerts).Error; err != nil {
			return fmt.Errorf("alerts: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	log.Printf("Seeded %d users, %d projects, %d invoices and %d alerts (password: %s)",
		len(users), len(projects), len(invoices), len(alerts), DemoPassword)
	return nil
}
