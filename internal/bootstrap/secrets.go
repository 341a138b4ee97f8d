package bootstrap

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// SecretSource tells where a resolved secret came from.
type SecretSource string

const (
	secretBytes    = 32
	secretCategory = "security"

	// Setting keys for secrets persisted in the local database.
	SessionSecretSetting = "session_secret"
	SigningKeySetting    = "auth_signing_key"

	SecretSourceConfig    SecretSource = "config"
	SecretSourceSettings  SecretSource = "settings"
	SecretSourceGenerated SecretSource = "generated"
	// SecretSourceEphemeral means the secret lives only for this process.
	SecretSourceEphemeral SecretSource = "ephemeral"
)

type secretDeps struct {
	now        func() time.Time
	randReader io.Reader
}

// ResolveSecret resolves a secret with priority:
// config/env > settings table > generate (persisted when db is set).
// Generated values are base64 encoded 32 byte keys.
func ResolveSecret(ctx context.Context, db *sql.DB, settingKey, configured string) (string, SecretSource, error) {
	return resolveSecret(ctx, db, settingKey, configured, secretDeps{now: time.Now, randReader: rand.Reader})
}

func resolveSecret(ctx context.Context, db *sql.DB, settingKey, configured string, deps secretDeps) (string, SecretSource, error) {
	if key := strings.TrimSpace(configured); key != "" {
		return key, SecretSourceConfig, nil
	}
	if deps.now == nil {
		deps.now = time.Now
	}
	if deps.randReader == nil {
		deps.randReader = rand.Reader
	}

	if db == nil {
		generated, err := generateSecret(deps.randReader)
		if err != nil {
			return "", "", fmt.Errorf("generate %s: %w", settingKey, err)
		}
		return generated, SecretSourceEphemeral, nil
	}

	existing, err := readSetting(ctx, db, settingKey)
	if err != nil {
		return "", "", fmt.Errorf("read %s from settings: %w", settingKey, err)
	}
	if existing != "" {
		return existing, SecretSourceSettings, nil
	}

	generated, err := generateSecret(deps.randReader)
	if err != nil {
		return "", "", fmt.Errorf("generate %s: %w", settingKey, err)
	}
	if err := insertSettingIfMissing(ctx, db, settingKey, generated, deps.now().Unix()); err != nil {
		return "", "", fmt.Errorf("persist %s to settings: %w", settingKey, err)
	}

	// Another process may have won the insert.
	resolved, err := readSetting(ctx, db, settingKey)
	if err != nil {
		return "", "", fmt.Errorf("read %s after persistence: %w", settingKey, err)
	}
	if resolved == "" {
		return "", "", fmt.Errorf("%s not found after persistence", settingKey)
	}
	if resolved == generated {
		return resolved, SecretSourceGenerated, nil
	}
	return resolved, SecretSourceSettings, nil
}

func readSetting(ctx context.Context, db *sql.DB, key string) (string, error) {
	var value string
	if err := db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(value), nil
}

func insertSettingIfMissing(ctx context.Context, db *sql.DB, key, value string, updatedAt int64) error {
	const statement = `INSERT INTO settings(key, value, category, updated_at) VALUES(?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, category = excluded.category, updated_at = excluded.updated_at
		WHERE TRIM(settings.value) = ''`
	_, err := db.ExecContext(ctx, statement, key, value, secretCategory, updatedAt)
	return err
}

func generateSecret(reader io.Reader) (string, error) {
	buf := make([]byte, secretBytes)
	if _, err := io.ReadFull(reader, buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}
