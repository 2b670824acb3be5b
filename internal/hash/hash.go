package hash

import "golang.org/x/crypto/bcrypt"

func HashPassword(password string) (string, error) {
	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hashbytes), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Credential produces the stored form of a password. With plain=true the
// password is stored as-is for parity with the legacy deployment.
func Credential(password string, plain bool) (string, error) {
	if plain {
		return password, nil
	}
	return HashPassword(password)
}

// Verify compares a stored credential against a submitted password. With
// plain=true the stored value is compared with plain equality.
func Verify(stored, password string, plain bool) bool {
	if plain {
		return stored == password
	}
	return CheckPassword(stored, password)
}
