package database

import (
	"fmt"

	"portfolio-backend/internal/domain"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedData заполняет базу данных начальными данными
func SeedData(db *gorm.DB, log *zap.Logger) error {
	log.Info("starting database seeding")

	if err := seedSkills(db, log); err != nil {
		return err
	}
	if err := seedSettings(db, log); err != nil {
		return err
	}

	log.Info("database seeding completed successfully")
	return nil
}

func seedSkills(db *gorm.DB, log *zap.Logger) error {
	// Проверяем, есть ли уже данные
	var count int64
	db.Model(&domain.Skill{}).Count(&count)
	if count > 0 {
		log.Info("skills already exist, skipping seeding", zap.Int64("existing_count", count))
		return nil
	}

	skills := []domain.Skill{
		{Name: "Go", Category: domain.SkillCategoryBackend, Proficiency: 85, Icon: "devicon-go-plain", DisplayOrder: 1},
		{Name: "PostgreSQL", Category: domain.SkillCategoryBackend, Proficiency: 80, Icon: "devicon-postgresql-plain", DisplayOrder: 2},
		{Name: "Python", Category: domain.SkillCategoryBackend, Proficiency: 75, Icon: "devicon-python-plain", DisplayOrder: 3},
		{Name: "JavaScript", Category: domain.SkillCategoryFrontend, Proficiency: 70, Icon: "devicon-javascript-plain", DisplayOrder: 1},
		{Name: "HTML/CSS", Category: domain.SkillCategoryFrontend, Proficiency: 80, Icon: "devicon-html5-plain", DisplayOrder: 2},
		{Name: "Docker", Category: domain.SkillCategoryTools, Proficiency: 70, Icon: "devicon-docker-plain", DisplayOrder: 1},
		{Name: "Git", Category: domain.SkillCategoryTools, Proficiency: 85, Icon: "devicon-git-plain", DisplayOrder: 2},
	}

	if err := db.Create(&skills).Error; err != nil {
		log.Error("failed to seed skills", zap.Error(err))
		return fmt.Errorf("failed to seed skills: %w", err)
	}

	log.Info("seeded skills", zap.Int("count", len(skills)))
	return nil
}

func seedSettings(db *gorm.DB, log *zap.Logger) error {
	var count int64
	db.Model(&domain.SiteSettings{}).Count(&count)
	if count > 0 {
		log.Info("site settings already exist, skipping seeding")
		return nil
	}

	settings := domain.SiteSettings{
		Name:     "Portfolio Owner",
		Tagline:  "Software developer",
		Bio:      "Edit the site settings row to fill in your profile.",
		Email:    "owner@example.com",
		Location: "Remote",
	}

	if err := db.Create(&settings).Error; err != nil {
		log.Error("failed to seed site settings", zap.Error(err))
		return fmt.Errorf("failed to seed site settings: %w", err)
	}

	log.Info("seeded default site settings")
	return nil
}

// EnsureOperator создает учетную запись оператора, если она не существует.
// passwordHash уже содержит bcrypt хеш.
func EnsureOperator(db *gorm.DB, log *zap.Logger, email, passwordHash string) error {
	var count int64
	if err := db.Model(&domain.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check operator account: %w", err)
	}
	if count > 0 {
		return nil
	}

	user := domain.User{
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Error("failed to create operator account", zap.String("email", email), zap.Error(err))
		return fmt.Errorf("failed to create operator account: %w", err)
	}

	log.Info("created operator account", zap.String("email", email))
	return nil
}
