package config

import (
	"errors"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Natenyt/AI-Powered-Government-System/internal/models"
)

var PostgresDB *gorm.DB

func InitPostgres() error {
	uri := os.Getenv("POSTGRES_URI")
	if uri == "" {
		return errors.New("POSTGRES_URI environment variable is not set")
	}
	db, err := gorm.Open(postgres.Open(uri), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	// Connection Pooling settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	PostgresDB = db
	return nil
}

// MigratePostgres creates the pgvector extension, the routing tables and
// the cosine index over department vectors.
func MigratePostgres(db *gorm.DB) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return err
	}
	err := db.AutoMigrate(
		&models.Department{},
		&models.Admin{},
		&models.TelegramAdmin{},
		&models.Session{},
		&models.Message{},
		&models.MessageContent{},
		&models.InjectResult{},
		&models.AIResult{},
		&models.DepartmentEmbedding{},
	)
	if err != nil {
		return err
	}
	return db.Exec(`CREATE INDEX IF NOT EXISTS idx_department_embeddings_hnsw
		ON department_embeddings USING hnsw (embedding vector_cosine_ops)`).Error
}
