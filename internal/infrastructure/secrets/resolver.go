// Package secrets resolves database credentials from AWS Secrets Manager.
// Resolution happens once at process start; there is no retry and no cached
// result across restarts.
package secrets

import (
	"context"
	"encoding/json"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// DBCredentials mirrors the JSON document stored in the secret. Port is a
// json.Number because RDS-managed secrets store it as a number while
// hand-written secrets often quote it.
type DBCredentials struct {
	Host     string      `json:"host"`
	Port     json.Number `json:"port"`
	Username string      `json:"username"`
	Password string      `json:"password"`
	DBName   string      `json:"dbname"`
}

// DSN renders a pgx-compatible connection string.
func (c *DBCredentials) DSN(sslmode string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Username, c.Password, c.Host, c.Port.String(), c.DBName, sslmode)
}

// ParseDBCredentials decodes a secret payload and rejects documents missing
// any field needed to build a DSN.
func ParseDBCredentials(payload []byte) (*DBCredentials, error) {
	var creds DBCredentials
	if err := json.Unmarshal(payload, &creds); err != nil {
		return nil, fmt.Errorf("decode secret payload: %w", err)
	}
	if creds.Host == "" || creds.Username == "" || creds.DBName == "" {
		return nil, fmt.Errorf("secret payload missing host, username or dbname")
	}
	if creds.Port.String() == "" {
		creds.Port = "5432"
	}
	return &creds, nil
}

// FetchDBCredentials retrieves and parses the secret identified by secretID.
// Failure propagates to the caller; the process should treat it as fatal.
func FetchDBCredentials(ctx context.Context, region, secretID string) (*DBCredentials, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	sm := secretsmanager.NewFromConfig(awsCfg)
	out, err := sm.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: &secretID})
	if err != nil {
		return nil, fmt.Errorf("fetch secret %q: %w", secretID, err)
	}

	var payload []byte
	switch {
	case out.SecretString != nil:
		payload = []byte(*out.SecretString)
	case out.SecretBinary != nil:
		payload = out.SecretBinary
	default:
		return nil, fmt.Errorf("secret %q has no value", secretID)
	}
	return ParseDBCredentials(payload)
}
