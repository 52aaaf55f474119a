package storage

import (
	"context"
	"time"

	"dmchat/backend/internal/models"

	_ "github.com/lib/pq" // registers the "postgres" database/sql driver
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MessageStore is the durable, append-only log of direct messages.
type MessageStore interface {
	AppendMessage(ctx context.Context, senderID, receiverID uint, text string, at time.Time) (*models.Message, error)
	History(ctx context.Context, userA, userB uint, limit int) ([]models.Message, error)
	DeleteConversation(ctx context.Context, userA, userB uint) (int64, error)
}

// UserStore is the account table consumed by the auth layer and REST listings.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UserExists(ctx context.Context, id uint) (bool, error)
	ListOtherUsers(ctx context.Context, self uint) ([]models.User, error)
}

// PresenceStore publishes which identities currently hold a live connection.
type PresenceStore interface {
	SetOnline(ctx context.Context, userID uint, online bool) error
	OnlineUserIDs(ctx context.Context) ([]uint, error)
}

type Storage interface {
	MessageStore
	UserStore
	PresenceStore
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewStorageService Constructor. rdb may be nil, presence then becomes a no-op.
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
	}
}

// OpenPostgres connects gorm to Postgres through the lib/pq driver.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DriverName: "postgres",
		DSN:        dsn,
	}), &gorm.Config{TranslateError: true})
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Message{},
	)
}
