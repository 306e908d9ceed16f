// Package password реализует функции для безопасного хеширования и проверки паролей.
package password

import "golang.org/x/crypto/bcrypt"

// GetHash создает bcrypt-хеш пароля для безопасного хранения.
func GetHash(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CompareHash сравнивает bcrypt-хеш с введённым паролем.
func CompareHash(hash, raw string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw))
}
