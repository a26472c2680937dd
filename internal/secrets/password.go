package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService groups the app's secrets in the OS keychain.
	KeyringService = "job-alerts"
)

var ErrPasswordNotFound = errors.New("SMTP password not found (set SMTP_PASSWORD or store it in the keychain)")

// SMTPKeyringAccount is the keychain account the SMTP password is stored under.
func SMTPKeyringAccount(username, server string) string {
	return fmt.Sprintf("smtp:%s@%s", username, server)
}

// SMTPPassword returns fromEnv when set, else the keychain entry.
func SMTPPassword(fromEnv, username, server string) (string, error) {
	if strings.TrimSpace(fromEnv) != "" {
		return fromEnv, nil
	}
	if strings.TrimSpace(username) == "" {
		return "", ErrPasswordNotFound
	}
	pw, err := keyring.Get(KeyringService, SMTPKeyringAccount(username, server))
	if err != nil || strings.TrimSpace(pw) == "" {
		return "", ErrPasswordNotFound
	}
	return pw, nil
}

func SetSMTPPassword(username, server, password string) error {
	if strings.TrimSpace(username) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, SMTPKeyringAccount(username, server), password)
}
