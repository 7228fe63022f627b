package config

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/hashicorp/vault/api"
)

var secretPattern = regexp.MustCompile(`\$\{(ENV|VAULT|AWS_SM):([^}]+)\}`)

// ResolveValue replaces every secret reference in val.
func ResolveValue(val string) (string, error) {
	return ResolveValueContext(context.Background(), val)
}

// ResolveValueContext replaces every secret reference in val, so a reference
// may be embedded in a larger string such as a connection URL.
func ResolveValueContext(ctx context.Context, val string) (string, error) {
	return newSecretResolver().resolve(ctx, val)
}

// secretResolver resolves references for one config load. It opens at most one
// Vault client and reads each Vault path once, however many keys refer to it.
type secretResolver struct {
	vault       *api.Client
	vaultSecret map[string]map[string]any
}

func newSecretResolver() *secretResolver {
	return &secretResolver{vaultSecret: make(map[string]map[string]any)}
}

func (r *secretResolver) resolve(ctx context.Context, val string) (string, error) {
	matches := secretPattern.FindAllStringSubmatchIndex(val, -1)
	if matches == nil {
		return val, nil
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(val[last:m[0]])
		secret, err := r.ref(ctx, val[m[2]:m[3]], val[m[4]:m[5]])
		if err != nil {
			return "", err
		}
		b.WriteString(secret)
		last = m[1]
	}
	b.WriteString(val[last:])
	return b.String(), nil
}

func (r *secretResolver) ref(ctx context.Context, provider, ref string) (string, error) {
	switch provider {
	case "ENV":
		v := os.Getenv(ref)
		if v == "" {
			return "", fmt.Errorf("environment variable %s not set", ref)
		}
		return v, nil
	case "VAULT":
		return r.vaultValue(ctx, ref)
	case "AWS_SM":
		return resolveAWSSecretsManager(ctx, ref)
	default:
		return "", fmt.Errorf("unknown secrets provider: %s", provider)
	}
}

// vaultValue reads one key of a Vault secret referenced as path#key. KV v2
// responses are unwrapped and scalar values are rendered as text.
func (r *secretResolver) vaultValue(ctx context.Context, ref string) (string, error) {
	path, key, ok := strings.Cut(ref, "#")
	if !ok || path == "" || key == "" {
		return "", fmt.Errorf("invalid Vault reference %q: expected format path#key", ref)
	}

	data, ok := r.vaultSecret[path]
	if !ok {
		client, err := r.vaultClient()
		if err != nil {
			return "", err
		}
		secret, err := client.Logical().ReadWithContext(ctx, path)
		if err != nil {
			return "", fmt.Errorf("reading Vault secret at %s: %w", path, err)
		}
		if secret == nil || secret.Data == nil {
			return "", fmt.Errorf("no secret found at %s", path)
		}
		data = secret.Data
		if inner, ok := data["data"].(map[string]any); ok {
			data = inner
		}
		r.vaultSecret[path] = data
	}

	val, ok := data[key]
	if !ok {
		return "", fmt.Errorf("key %q not found in Vault secret at %s", key, path)
	}
	switch v := val.(type) {
	case string:
		return v, nil
	case map[string]any, []any, nil:
		return "", fmt.Errorf("Vault secret value for key %q is not a scalar", key)
	default:
		return fmt.Sprint(v), nil
	}
}

// vaultClient builds the client from VAULT_ADDR and VAULT_TOKEN, honouring
// VAULT_NAMESPACE when set.
func (r *secretResolver) vaultClient() (*api.Client, error) {
	if r.vault != nil {
		return r.vault, nil
	}
	addr := os.Getenv("VAULT_ADDR")
	if addr == "" {
		return nil, fmt.Errorf("VAULT_ADDR environment variable not set")
	}
	token := os.Getenv("VAULT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("VAULT_TOKEN environment variable not set")
	}

	cfg := api.DefaultConfig()
	cfg.Address = addr
	client, err := api.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating Vault client: %w", err)
	}
	client.SetToken(token)
	if ns := os.Getenv("VAULT_NAMESPACE"); ns != "" {
		client.SetNamespace(ns)
	}
	r.vault = client
	return client, nil
}
