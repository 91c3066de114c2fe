package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/assetdocs/accessd/pkg/cryptox"
	"github.com/assetdocs/accessd/pkg/jwtx"
)

// InitSessionKey loads the Ed25519 session signing key from cfg.SessionKeyFile,
// generating and persisting a new key on first run. Keeping the key on disk
// means session tokens survive restarts.
func InitSessionKey(cfg Config, logger *slog.Logger) (*jwtx.EdDSASigner, error) {
	pemKey, err := os.ReadFile(cfg.SessionKeyFile)
	switch {
	case err == nil:
		logger.Info("session signing key loaded", "path", cfg.SessionKeyFile)

	case errors.Is(err, fs.ErrNotExist):
		pemKey, err = cryptox.GenerateEd25519Key()
		if err != nil {
			return nil, fmt.Errorf("failed to generate session signing key: %w", err)
		}
		if err := os.WriteFile(cfg.SessionKeyFile, pemKey, 0o600); err != nil {
			return nil, fmt.Errorf("failed to persist session signing key: %w", err)
		}
		logger.Info("session signing key generated", "path", cfg.SessionKeyFile)

	default:
		return nil, fmt.Errorf("failed to read session signing key: %w", err)
	}

	// Key id derived from the key material so the kid is stable across restarts
	kid := cryptox.FingerprintToken(string(pemKey))[:8]

	signer, err := jwtx.NewSignerEdDSA(kid, pemKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session signer: %w", err)
	}
	return signer, nil
}
