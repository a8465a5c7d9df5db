package database

import (
	"fmt"

	"portfolio-backend/internal/domain"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AutoMigrate выполняет автоматические миграции для всех доменных моделей
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("starting database auto-migration")

	// Порядок миграций важен из-за внешних ключей
	models := []interface{}{
		&domain.Skill{},          // Сначала справочники
		&domain.Project{},        // Проекты (many2many со skills)
		&domain.Experience{},     // Опыт работы
		&domain.ContactMessage{}, // Сообщения контактной формы
		&domain.SiteVisit{},      // Визиты
		&domain.SiteSettings{},   // Настройки сайта
		&domain.User{},           // Операторы панели управления
	}

	for i, model := range models {
		modelName := fmt.Sprintf("%T", model)
		log.Debug("migrating model",
			zap.String("model", modelName),
			zap.Int("step", i+1),
			zap.Int("total", len(models)))

		if err := db.AutoMigrate(model); err != nil {
			log.Error("failed to migrate model",
				zap.String("model", modelName),
				zap.Error(err))
			return fmt.Errorf("failed to migrate model %s: %w", modelName, err)
		}
	}

	log.Info("database auto-migration completed successfully", zap.Int("migrated_models", len(models)))
	return nil
}
