// internal/vault/vault.go
//
// Vault client wrapper.
//
// Context
// -------
//   - Thin, concurrency-safe wrapper around the HashiCorp Vault Go SDK.
//   - Exists so configuration values can reference secrets as
//     `vault:<mount>/<path>#<key>` instead of carrying credentials in
//     flat files or git history.
//
// Public workflow
// ---------------
//  1. cli, err := vault.New()                      // during boot.
//  2. val, err := cli.Resolve(ctx, "vault:kv/db#password")
//
// Environment expectations
// ------------------------
// • VAULT_ADDR   – scheme and host of the Vault server.
// • VAULT_TOKEN  – initial token (falls back to ~/.vault-token).
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	vault "github.com/hashicorp/vault/api"
)

// RefPrefix marks a configuration value as a Vault reference.
const RefPrefix = "vault:"

// Client is safe for concurrent use.  Zero value is invalid; construct
// with New.
type Client struct {
	api *vault.Client
}

// New constructs a Vault client from the environment.
func New() (*Client, error) {
	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}

	apiCli, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}
	if tok := os.Getenv("VAULT_TOKEN"); tok != "" {
		apiCli.SetToken(tok)
	}

	return &Client{api: apiCli}, nil
}

// IsRef reports whether a configuration value is a Vault reference.
func IsRef(val string) bool { return strings.HasPrefix(val, RefPrefix) }

// Resolve fetches the secret a `vault:<mount>/<path>#<key>` reference
// points at.  Plain values pass through unchanged.
func (c *Client) Resolve(ctx context.Context, val string) (string, error) {
	if !IsRef(val) {
		return val, nil
	}

	ref := strings.TrimPrefix(val, RefPrefix)
	secretPath, key, ok := strings.Cut(ref, "#")
	if !ok || secretPath == "" || key == "" {
		return "", fmt.Errorf("malformed vault reference %q", val)
	}
	return c.GetKV(ctx, secretPath, key)
}

// GetKV fetches a single key from a KV-v2 secret.
func (c *Client) GetKV(ctx context.Context, secretPath, key string) (string, error) {
	if secretPath == "" || key == "" {
		return "", errors.New("secret path and key must be non-empty")
	}

	mount, rel, _ := strings.Cut(secretPath, "/")
	sec, err := c.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return "", fmt.Errorf("vault get %s: %w", secretPath, err)
	}

	raw, ok := sec.Data[key]
	if !ok {
		return "", fmt.Errorf("key %q not found in secret %q", key, secretPath)
	}
	sval, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("value at %s#%s is not a string", secretPath, key)
	}
	return sval, nil
}
