package database

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"

	"github.com/pageza/recipehub/backend/config"
)

// NewFirestoreClient opens a Firestore client for the configured project.
// Credentials come from GOOGLE_APPLICATION_CREDENTIALS, or the emulator is
// used when FIRESTORE_EMULATOR_HOST is set.
func NewFirestoreClient(ctx context.Context, cfg *config.Config, log *zap.Logger) (*firestore.Client, error) {
	client, err := firestore.NewClient(ctx, cfg.FirestoreProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	fields := []zap.Field{zap.String("project", cfg.FirestoreProjectID)}
	if host := os.Getenv("FIRESTORE_EMULATOR_HOST"); host != "" {
		fields = append(fields, zap.String("emulator", host))
	}
	log.Info("connected to Firestore", fields...)
	return client, nil
}
