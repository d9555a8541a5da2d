package bcrypt

import "golang.org/x/crypto/bcrypt"

// IBcrypt hashes and verifies shared secrets. The service keeps only the
// bcrypt hash of its API key in the environment; the plaintext stays with
// the calling system.
type IBcrypt interface {
	HashSecret(secret string) (string, error)
	CompareSecret(hash string, secret string) error
}

type bcryptService struct {
	cost int
}

func New() IBcrypt {
	return &bcryptService{
		cost: bcrypt.DefaultCost,
	}
}

func (b *bcryptService) HashSecret(secret string) (string, error) {
	result, err := bcrypt.GenerateFromPassword([]byte(secret), b.cost)
	if err != nil {
		return "", err
	}
	return string(result), nil
}

func (b *bcryptService) CompareSecret(hash string, secret string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
}
